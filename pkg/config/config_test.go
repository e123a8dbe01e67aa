package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/devicelab-dev/uiwait/pkg/core"
	"github.com/devicelab-dev/uiwait/pkg/driver/mock"
)

func TestNew(t *testing.T) {
	t.Run("valid driver", func(t *testing.T) {
		d := mock.New()
		d.SetFramework(core.FrameworkAppium)

		cfg, err := New(core.FrameworkAppium, d)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Framework != core.FrameworkAppium {
			t.Errorf("got framework %q", cfg.Framework)
		}
		if cfg.WaitOptions.Timeout != 5*time.Second {
			t.Errorf("expected default wait timeout, got %v", cfg.WaitOptions.Timeout)
		}
	})

	t.Run("missing driver", func(t *testing.T) {
		_, err := New(core.FrameworkDetox, nil)
		if !errors.Is(err, core.ErrMissingDriver) {
			t.Errorf("expected ErrMissingDriver, got %v", err)
		}
	})

	t.Run("framework mismatch", func(t *testing.T) {
		d := mock.New()
		d.SetFramework(core.FrameworkAppium)
		_, err := New(core.FrameworkDetox, d)
		if !errors.Is(err, core.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("empty framework adopts driver's", func(t *testing.T) {
		d := mock.New()
		d.SetFramework(core.FrameworkPlaywright)
		cfg, err := New("", d)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Framework != core.FrameworkPlaywright {
			t.Errorf("got framework %q", cfg.Framework)
		}
	})
}

func TestParseFramework(t *testing.T) {
	tests := []struct {
		input string
		want  core.Framework
		ok    bool
	}{
		{"appium", core.FrameworkAppium, true},
		{"APPIUM", core.FrameworkAppium, true},
		{"  Detox ", core.FrameworkDetox, true},
		{"PlayWright", core.FrameworkPlaywright, true},
		{"cypress", core.FrameworkCypress, true},
		{"custom", core.FrameworkCustom, true},
		{"selenium", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseFramework(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseFramework(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFrameworkFromEnv(t *testing.T) {
	t.Run("recognized value wins", func(t *testing.T) {
		t.Setenv(EnvFramework, "Appium")
		if got := FrameworkFromEnv(core.FrameworkDetox); got != core.FrameworkAppium {
			t.Errorf("got %q", got)
		}
	})

	t.Run("unrecognized value preserves prior", func(t *testing.T) {
		t.Setenv(EnvFramework, "webdriverio")
		if got := FrameworkFromEnv(core.FrameworkDetox); got != core.FrameworkDetox {
			t.Errorf("got %q", got)
		}
	})

	t.Run("unset preserves prior", func(t *testing.T) {
		os.Unsetenv(EnvFramework)
		if got := FrameworkFromEnv(core.FrameworkCypress); got != core.FrameworkCypress {
			t.Errorf("got %q", got)
		}
	})
}

func TestFileLoad(t *testing.T) {
	dir := t.TempDir()
	content := `
framework: appium
appium:
  serverUrl: http://127.0.0.1:4723
  capabilities:
    platformName: Android
wait:
  timeoutMs: 8000
  intervalMs: 250
scroll:
  direction: up
  amount: 0.5
  threshold: 0.75
log:
  level: debug
`
	path := filepath.Join(dir, "uiwait.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	f, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Framework != "appium" {
		t.Errorf("got framework %q", f.Framework)
	}
	if f.Appium.ServerURL != "http://127.0.0.1:4723" {
		t.Errorf("got serverUrl %q", f.Appium.ServerURL)
	}

	opts := f.WaitOptions()
	if opts.Timeout != 8*time.Second {
		t.Errorf("got timeout %v", opts.Timeout)
	}
	if opts.Interval != 250*time.Millisecond {
		t.Errorf("got interval %v", opts.Interval)
	}
	if opts.Retries != 3 {
		t.Errorf("unset retries should default to 3, got %d", opts.Retries)
	}

	spec := f.ScrollSpec()
	if spec.Direction != core.DirectionUp {
		t.Errorf("got direction %q", spec.Direction)
	}
	if spec.Amount != 0.5 {
		t.Errorf("got amount %v", spec.Amount)
	}
	if spec.VisibilityThreshold != 0.75 {
		t.Errorf("got threshold %v", spec.VisibilityThreshold)
	}
	if spec.Timeout != 10*time.Second {
		t.Errorf("unset timeout should default to 10s, got %v", spec.Timeout)
	}
}

func TestFileLoad_MissingIsEmpty(t *testing.T) {
	f, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Framework != "" {
		t.Errorf("expected empty config, got framework %q", f.Framework)
	}
}
