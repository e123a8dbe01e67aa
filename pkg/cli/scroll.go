package cli

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/uiwait/pkg/core"
	"github.com/devicelab-dev/uiwait/pkg/element"
)

var scrollCommand = &cli.Command{
	Name:  "scroll",
	Usage: "Scroll until an element is sufficiently visible",
	Description: `Scroll through the screen step by step until the element is visible
enough, then optionally center it.

Examples:
  uiwait scroll --test-id footer
  uiwait scroll --text "Terms of Service" --direction down --threshold 0.75 --center`,
	Flags: append([]cli.Flag{
		&cli.StringFlag{Name: "direction", Usage: "Scroll direction (up, down, left, right)", Value: "down"},
		&cli.Float64Flag{Name: "threshold", Usage: "Required visibility fraction (0..1)"},
		&cli.Float64Flag{Name: "amount", Usage: "Step size as a fraction of the container extent"},
		&cli.DurationFlag{Name: "timeout", Usage: "Total search budget (overrides config)"},
		&cli.BoolFlag{Name: "center", Usage: "Center the element after it is found"},
		&cli.BoolFlag{Name: "basic", Usage: "Accept the backend's basic visibility instead of a fraction"},
	}, selectorFlags...),
	Action: func(c *cli.Context) error {
		sel, err := selectorFromFlags(c)
		if err != nil {
			return err
		}

		dir := core.Direction(c.String("direction"))
		switch dir {
		case core.DirectionUp, core.DirectionDown, core.DirectionLeft, core.DirectionRight:
		default:
			return fmt.Errorf("unknown direction %q", c.String("direction"))
		}

		cfg, teardown, err := setup(c.Context, c)
		if err != nil {
			return err
		}
		defer teardown()

		file, err := loadFile(c)
		if err != nil {
			return err
		}
		spec := file.ScrollSpec()
		spec.Direction = dir
		if c.IsSet("threshold") {
			spec.VisibilityThreshold = c.Float64("threshold")
		}
		if c.IsSet("amount") {
			spec.Amount = c.Float64("amount")
		}
		if c.IsSet("timeout") {
			spec.Timeout = c.Duration("timeout")
		}
		spec.CenterInViewport = c.Bool("center")
		spec.UseBasicVisibility = c.Bool("basic")

		w, err := element.NewWith(cfg, sel)
		if err != nil {
			return err
		}

		start := time.Now()
		if _, err := w.ScrollTo(spec).Execute(c.Context); err != nil {
			return err
		}
		fmt.Printf("found %s in %s\n", sel.Describe(), time.Since(start).Round(time.Millisecond))
		return nil
	},
}
