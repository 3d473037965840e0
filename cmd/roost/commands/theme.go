package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// themeCommand returns the theme subcommand
func (a *App) themeCommand() *cli.Command {
	return &cli.Command{
		Name:  "theme",
		Usage: "show or toggle the active theme",
		Commands: []*cli.Command{
			{
				Name:   "toggle",
				Usage:  "switch between forest and dawn",
				Action: a.runThemeToggle,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := a.initRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			rt.startup(ctx)
			fmt.Printf("theme: %s\n", successStyle.Render(string(rt.themes.Current())))
			return nil
		},
	}
}

func (a *App) runThemeToggle(ctx context.Context, cmd *cli.Command) error {
	rt, err := a.initRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	authenticated := rt.startup(ctx)
	next := rt.themes.Toggle(ctx)

	// Propagate the choice to the profile when signed in, so other devices
	// resolve the same theme. The local flip already happened either way.
	if authenticated {
		candidate := *rt.profiles.Current()
		candidate.ThemeMode = next
		if err := rt.profiles.Update(ctx, map[string]any{"themeMode": string(next)}); err != nil {
			fmt.Println(mutedStyle.Render("could not sync theme to profile: " + err.Error()))
		} else {
			rt.profiles.Set(candidate)
		}
	}

	fmt.Printf("theme: %s\n", successStyle.Render(string(next)))
	return nil
}
