package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/devicelab-dev/uiwait/pkg/config"
	"github.com/devicelab-dev/uiwait/pkg/core"
	appiumdriver "github.com/devicelab-dev/uiwait/pkg/driver/appium"
	"github.com/devicelab-dev/uiwait/pkg/logger"
	"github.com/devicelab-dev/uiwait/pkg/selector"
)

// selectorFlags are shared by every command that targets an element.
var selectorFlags = []cli.Flag{
	&cli.StringFlag{Name: "test-id", Usage: "Match by testID / data-testid"},
	&cli.StringFlag{Name: "id", Usage: "Match by native or DOM id"},
	&cli.StringFlag{Name: "text", Usage: "Match by exact visible text"},
	&cli.StringFlag{Name: "xpath", Usage: "Match by XPath expression"},
	&cli.StringFlag{Name: "class-name", Usage: "Match by class name"},
	&cli.StringFlag{Name: "accessibility", Usage: "Match by accessibility label"},
}

// selectorFromFlags builds the target selector from command flags.
func selectorFromFlags(c *cli.Context) (selector.Selector, error) {
	sel := selector.Selector{
		TestID:        c.String("test-id"),
		ID:            c.String("id"),
		Text:          c.String("text"),
		XPath:         c.String("xpath"),
		ClassName:     c.String("class-name"),
		Accessibility: c.String("accessibility"),
	}
	if sel.IsEmpty() {
		return sel, fmt.Errorf("no selector given, use --test-id, --id, --text, --xpath, --class-name or --accessibility")
	}
	return sel, nil
}

// loadFile reads the workspace configuration named by --config, falling back
// to uiwait.yaml in the working directory.
func loadFile(c *cli.Context) (*config.File, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadFromDir(".")
}

// setup wires logging, configuration file, backend driver and session from
// the global flags. The returned teardown closes the session.
func setup(ctx context.Context, c *cli.Context) (*config.Config, func(), error) {
	file, err := loadFile(c)
	if err != nil {
		return nil, nil, err
	}

	level := file.Log.Level
	if c.Bool("verbose") {
		level = "debug"
	}
	logger.Init(level, file.Log.File)
	log := logger.L()

	framework := core.FrameworkAppium
	if name := c.String("framework"); name != "" {
		fw, ok := config.ParseFramework(name)
		if !ok {
			return nil, nil, fmt.Errorf("unknown framework %q", name)
		}
		framework = fw
	} else if file.Framework != "" {
		fw, ok := config.ParseFramework(file.Framework)
		if !ok {
			return nil, nil, fmt.Errorf("unknown framework %q in config file", file.Framework)
		}
		framework = fw
	}
	framework = config.FrameworkFromEnv(framework)

	if framework != core.FrameworkAppium {
		return nil, nil, fmt.Errorf("framework %q needs an embedding test suite, the CLI drives appium sessions only", framework)
	}

	serverURL := c.String("appium-url")
	if file.Appium.ServerURL != "" && !c.IsSet("appium-url") {
		serverURL = file.Appium.ServerURL
	}

	drv := appiumdriver.New(serverURL, log)
	connectCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	if err := drv.Connect(connectCtx, file.Appium.Capabilities); err != nil {
		return nil, nil, err
	}
	teardown := func() {
		if err := drv.Disconnect(context.Background()); err != nil {
			log.Warn("session teardown failed", zap.Error(err))
		}
		logger.Sync()
	}

	cfg, err := config.New(framework, drv)
	if err != nil {
		teardown()
		return nil, nil, err
	}
	cfg.WaitOptions = file.WaitOptions()
	cfg.Logger = log
	return cfg, teardown, nil
}
