package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
)

// accountCommand returns the account subcommand
func (a *App) accountCommand() *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "manage the signed-in account",
		Commands: []*cli.Command{
			{
				Name:  "update",
				Usage: "update profile fields",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "new display name",
					},
				},
				Action: a.runAccountUpdate,
			},
			{
				Name:      "email",
				Usage:     "request an email change",
				ArgsUsage: "<new-email>",
				Action:    a.runAccountEmail,
			},
			{
				Name:   "delete",
				Usage:  "permanently delete the account",
				Action: a.runAccountDelete,
			},
		},
	}
}

func (a *App) runAccountUpdate(ctx context.Context, cmd *cli.Command) error {
	rt, err := a.initRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	if !rt.startup(ctx) {
		return fmt.Errorf("not signed in; run 'roost login'")
	}

	name := cmd.String("name")
	if name == "" {
		return fmt.Errorf("nothing to update; pass --name")
	}

	// Merge into a candidate first: the store pushes remotely but does not
	// refresh its held copy, so the caller owns the merge.
	candidate := *rt.profiles.Current()
	candidate.Name = name

	if !rt.profiles.HasUnsavedChanges(candidate) {
		fmt.Println(mutedStyle.Render("no changes"))
		return nil
	}

	if err := rt.profiles.Update(ctx, map[string]any{"name": name}); err != nil {
		return err
	}
	rt.profiles.Set(candidate)

	fmt.Printf("%s profile updated\n", successStyle.Render("✓"))
	return nil
}

func (a *App) runAccountEmail(ctx context.Context, cmd *cli.Command) error {
	newEmail := cmd.Args().First()
	if newEmail == "" {
		return fmt.Errorf("usage: roost account email <new-email>")
	}

	rt, err := a.initRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	if !rt.startup(ctx) {
		return fmt.Errorf("not signed in; run 'roost login'")
	}

	if err := rt.auth.ChangeEmail(ctx, newEmail); err != nil {
		return err
	}

	fmt.Printf("%s confirmation sent to %s\n", successStyle.Render("✓"), newEmail)
	return nil
}

func (a *App) runAccountDelete(ctx context.Context, cmd *cli.Command) error {
	rt, err := a.initRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	if !rt.startup(ctx) {
		return fmt.Errorf("not signed in; run 'roost login'")
	}

	var confirmed bool
	err = huh.NewConfirm().
		Title("Delete this account permanently?").
		Description("All data on the server will be removed. This cannot be undone.").
		Value(&confirmed).
		Run()
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println(mutedStyle.Render("aborted"))
		return nil
	}

	if err := rt.auth.DeleteAccount(ctx); err != nil {
		return err
	}

	// Deleting the record does not clear the session by itself; finish the
	// job locally.
	rt.auth.Logout(ctx)

	fmt.Printf("%s account deleted\n", errorStyle.Render("✗"))
	return nil
}
