package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/roosthq/roost-cli/pkg/models"
)

// loginCommand returns the login subcommand
func (a *App) loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in to the Roost server",
		Description: `Sign in with email and password, or through the browser with --google.

Examples:
   roost login
   roost login --email ann@example.com
   roost login --google`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "email",
				Aliases: []string{"e"},
				Usage:   "account email",
			},
			&cli.BoolFlag{
				Name:  "google",
				Usage: "sign in through the browser with Google",
			},
		},
		Action: a.runLogin,
	}
}

func (a *App) runLogin(ctx context.Context, cmd *cli.Command) error {
	rt, err := a.initRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	if cmd.Bool("google") {
		if err := rt.auth.LoginWithOAuth(ctx); err != nil {
			return err
		}
	} else {
		email := cmd.String("email")
		var password string

		fields := []huh.Field{}
		if email == "" {
			fields = append(fields, huh.NewInput().Title("Email").Value(&email))
		}
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&password))

		if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
			return err
		}

		if err := rt.auth.Login(ctx, email, password); err != nil {
			return err
		}
	}

	theme := rt.themes.ResolveInitial(ctx)

	p := rt.profiles.Current()
	fmt.Printf("%s signed in as %s %s\n",
		successStyle.Render("✓"), p.Name, mutedStyle.Render("<"+p.Email+">"))
	fmt.Printf("  theme: %s\n", mutedStyle.Render(string(theme)))
	return nil
}

// registerCommand returns the register subcommand
func (a *App) registerCommand() *cli.Command {
	return &cli.Command{
		Name:   "register",
		Usage:  "create a new Roost account",
		Action: a.runRegister,
	}
}

func (a *App) runRegister(ctx context.Context, cmd *cli.Command) error {
	rt, err := a.initRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	req := models.NewAccountRequest{
		ThemeMode: rt.themes.ResolveInitial(ctx),
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Email").Value(&req.Email),
		huh.NewInput().Title("Display name").Value(&req.Name),
		huh.NewSelect[models.ThemePreference]().
			Title("Theme").
			Options(
				huh.NewOption("forest (dark)", models.ThemeForest),
				huh.NewOption("dawn (light)", models.ThemeDawn),
			).
			Value(&req.ThemeMode),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&req.Password),
		huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Value(&req.PasswordConfirm),
	))
	if err := form.Run(); err != nil {
		return err
	}

	if err := rt.auth.CreateAccount(ctx, req); err != nil {
		return err
	}

	rt.themes.ResolveInitial(ctx)

	p := rt.profiles.Current()
	fmt.Printf("%s account created, signed in as %s\n", successStyle.Render("✓"), p.Email)
	return nil
}

// logoutCommand returns the logout subcommand
func (a *App) logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "sign out and clear the local session",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := a.initRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			rt.auth.Logout(ctx)
			fmt.Printf("%s signed out\n", successStyle.Render("✓"))
			return nil
		},
	}
}

// whoamiCommand returns the whoami subcommand
func (a *App) whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the signed-in account",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := a.initRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			if !rt.startup(ctx) {
				return fmt.Errorf("not signed in; run 'roost login'")
			}

			p := rt.profiles.Current()
			fmt.Printf("%s %s\n", successStyle.Render("●"), p.Name)
			fmt.Printf("  email:   %s\n", p.Email)
			fmt.Printf("  id:      %s\n", mutedStyle.Render(p.ID))
			fmt.Printf("  joined:  %s\n", p.Created)
			fmt.Printf("  theme:   %s\n", string(p.ThemeMode))
			if p.Avatar != "" {
				fmt.Printf("  avatar:  %s\n", mutedStyle.Render(p.Avatar))
			}
			return nil
		},
	}
}
