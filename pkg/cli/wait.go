package cli

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/uiwait/pkg/element"
)

var waitCommand = &cli.Command{
	Name:  "wait",
	Usage: "Wait until an element reaches the requested states",
	Description: `Poll the backend until every requested state holds, in the order the
flags are listed below. Exits non-zero when the first unmet state times out.

Examples:
  uiwait wait --test-id submit --visible
  uiwait wait --test-id spinner --not-visible --timeout 15s
  uiwait wait --id login --exists --visible --enabled`,
	Flags: append([]cli.Flag{
		&cli.BoolFlag{Name: "exists", Usage: "Wait for presence in the hierarchy"},
		&cli.BoolFlag{Name: "visible", Usage: "Wait for visibility"},
		&cli.BoolFlag{Name: "not-visible", Usage: "Wait for disappearance"},
		&cli.BoolFlag{Name: "enabled", Usage: "Wait for the enabled state"},
		&cli.DurationFlag{Name: "timeout", Usage: "Per-condition timeout (overrides config)"},
		&cli.DurationFlag{Name: "interval", Usage: "Polling interval (overrides config)"},
	}, selectorFlags...),
	Action: func(c *cli.Context) error {
		sel, err := selectorFromFlags(c)
		if err != nil {
			return err
		}
		if !c.Bool("exists") && !c.Bool("visible") && !c.Bool("not-visible") && !c.Bool("enabled") {
			return fmt.Errorf("no condition given, use --exists, --visible, --not-visible or --enabled")
		}

		cfg, teardown, err := setup(c.Context, c)
		if err != nil {
			return err
		}
		defer teardown()

		opts := cfg.WaitOptions
		if c.IsSet("timeout") {
			opts.Timeout = c.Duration("timeout")
		}
		if c.IsSet("interval") {
			opts.Interval = c.Duration("interval")
		}

		w, err := element.NewWith(cfg, sel)
		if err != nil {
			return err
		}

		b := w.Wait()
		if c.Bool("exists") {
			b.ForExists(opts)
		}
		if c.Bool("visible") {
			b.ForVisible(opts)
		}
		if c.Bool("not-visible") {
			b.ForNotVisible(opts)
		}
		if c.Bool("enabled") {
			b.ForEnabled(opts)
		}

		start := time.Now()
		if _, err := b.Execute(c.Context); err != nil {
			return err
		}
		fmt.Printf("conditions met for %s in %s\n", sel.Describe(), time.Since(start).Round(time.Millisecond))
		return nil
	},
}
