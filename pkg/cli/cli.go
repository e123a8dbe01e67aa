// Package cli provides the command-line interface for uiwait.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "framework",
		Aliases: []string{"f"},
		Usage:   "Automation framework to drive (appium, detox, playwright, cypress, custom)",
		EnvVars: []string{"UIWAIT_FRAMEWORK"},
	},
	&cli.StringFlag{
		Name:    "appium-url",
		Usage:   "Appium server URL",
		Value:   "http://127.0.0.1:4723",
		EnvVars: []string{"APPIUM_URL"},
	},
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to uiwait.yaml (defaults to the working directory)",
		EnvVars: []string{"UIWAIT_CONFIG"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"UIWAIT_VERBOSE"},
	},
}

// Execute runs the CLI.
func Execute() {
	app := &cli.App{
		Name:    "uiwait",
		Usage:   "Wait for, inspect and scroll to UI elements through automation backends",
		Version: Version,
		Description: `uiwait polls an automation backend until an element reaches the
requested state, or scrolls through a screen until it comes into view.

Examples:
  uiwait probe --test-id counter-display
  uiwait wait --test-id submit --visible --enabled --timeout 8s
  uiwait scroll --text "Terms of Service" --direction down --threshold 0.75`,
		Flags: GlobalFlags,
		Commands: []*cli.Command{
			probeCommand,
			waitCommand,
			scrollCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
