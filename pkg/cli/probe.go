package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var probeCommand = &cli.Command{
	Name:  "probe",
	Usage: "Report an element's current state without waiting",
	Description: `Probe the backend once and print the element's visibility, enabled
state, existence and text.

Examples:
  uiwait probe --test-id counter-display
  uiwait probe --text "Sign In"`,
	Flags: selectorFlags,
	Action: func(c *cli.Context) error {
		sel, err := selectorFromFlags(c)
		if err != nil {
			return err
		}

		cfg, teardown, err := setup(c.Context, c)
		if err != nil {
			return err
		}
		defer teardown()

		ctx := c.Context
		d := cfg.Driver

		exists, err := d.Exists(ctx, sel)
		if err != nil {
			return err
		}
		visible, err := d.IsVisible(ctx, sel)
		if err != nil {
			return err
		}
		enabled, err := d.IsEnabled(ctx, sel)
		if err != nil {
			return err
		}

		fmt.Printf("selector: %s\n", sel.Describe())
		fmt.Printf("exists:   %v\n", exists)
		fmt.Printf("visible:  %v\n", visible)
		fmt.Printf("enabled:  %v\n", enabled)

		if exists {
			text, err := d.Text(ctx, sel)
			if err == nil && text != "" {
				fmt.Printf("text:     %q\n", text)
			}
		}
		return nil
	},
}
