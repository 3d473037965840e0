// Package commands provides the CLI command definitions for Roost.
package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/roosthq/roost-cli/internal/cli/config"
	"github.com/urfave/cli/v3"
)

// Styles for CLI output
var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// App holds the shared application state
type App struct {
	Config  *config.Config
	Debug   bool
	Version string
	Commit  string
	Date    string
}

// New creates the root CLI command with all subcommands
func New(version, commit, date string) *cli.Command {
	app := &App{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	return &cli.Command{
		Name:    "roost",
		Usage:   "manage your Roost account from the terminal",
		Version: version,
		Description: `Roost CLI signs you in to a Roost server, keeps your profile in sync,
   and manages your theme preference.

   Start with 'roost login', then try 'roost whoami' or 'roost theme toggle'.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("ROOST_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "server",
				Usage:   "Roost server URL",
				Sources: cli.EnvVars("ROOST_SERVER_URL"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colored output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetLevel(log.DebugLevel)
				app.Debug = true
			}

			if cmd.Bool("no-color") {
				log.SetStyles(log.DefaultStyles())
				lipgloss.SetHasDarkBackground(false)
			}

			cfg, err := config.Load(config.LoadOptions{
				ConfigPath: cmd.String("config"),
			})
			if err != nil {
				log.Debug("config load warning", "error", err)
				cfg = config.Default()
			}

			if server := cmd.String("server"); server != "" {
				cfg.Server.URL = server
			}

			app.Config = cfg
			return ctx, nil
		},
		Commands: []*cli.Command{
			app.loginCommand(),
			app.registerCommand(),
			app.logoutCommand(),
			app.whoamiCommand(),
			app.accountCommand(),
			app.themeCommand(),
			app.versionCommand(),
		},
	}
}

// versionCommand returns the version subcommand
func (a *App) versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "show version information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Printf("roost %s\n", a.Version)
			fmt.Printf("  commit: %s\n", mutedStyle.Render(a.Commit))
			fmt.Printf("  built:  %s\n", mutedStyle.Render(a.Date))
			return nil
		},
	}
}
