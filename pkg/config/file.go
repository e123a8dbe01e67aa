package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/uiwait/pkg/core"
	"github.com/devicelab-dev/uiwait/pkg/scroll"
	"github.com/devicelab-dev/uiwait/pkg/wait"
)

// File represents the workspace configuration (uiwait.yaml), used by the CLI
// to construct a backend without code.
type File struct {
	// Framework to drive (appium, detox, playwright, cypress, custom).
	Framework string `yaml:"framework"`

	// Appium connection settings, used when framework is appium.
	Appium struct {
		ServerURL    string         `yaml:"serverUrl"`
		Capabilities map[string]any `yaml:"capabilities"`
	} `yaml:"appium"`

	// Wait defaults applied to every condition.
	Wait struct {
		TimeoutMs  int `yaml:"timeoutMs"`
		IntervalMs int `yaml:"intervalMs"`
		Retries    int `yaml:"retries"`
	} `yaml:"wait"`

	// Scroll defaults applied to every scroll-search.
	Scroll struct {
		Direction  string  `yaml:"direction"`
		TimeoutMs  int     `yaml:"timeoutMs"`
		IntervalMs int     `yaml:"intervalMs"`
		Amount     float64 `yaml:"amount"`
		Threshold  float64 `yaml:"threshold"`
		EdgeMargin int     `yaml:"edgeMargin"`
	} `yaml:"scroll"`

	// Logging settings for the CLI.
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

// Load loads configuration from a file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFromDir looks for uiwait.yaml or uiwait.yml in the directory. A
// missing file yields an empty configuration, not an error.
func LoadFromDir(dir string) (*File, error) {
	for _, name := range []string{"uiwait.yaml", "uiwait.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return &File{}, nil
}

// WaitOptions converts the file's wait section into options, falling back to
// defaults for unset fields.
func (f *File) WaitOptions() wait.Options {
	opts := wait.DefaultOptions()
	if f.Wait.TimeoutMs > 0 {
		opts.Timeout = time.Duration(f.Wait.TimeoutMs) * time.Millisecond
	}
	if f.Wait.IntervalMs > 0 {
		opts.Interval = time.Duration(f.Wait.IntervalMs) * time.Millisecond
	}
	if f.Wait.Retries > 0 {
		opts.Retries = f.Wait.Retries
	}
	return opts
}

// ScrollSpec converts the file's scroll section into a search spec, falling
// back to defaults for unset fields.
func (f *File) ScrollSpec() scroll.Spec {
	dir := core.Direction(f.Scroll.Direction)
	if dir == "" {
		dir = core.DirectionDown
	}
	spec := scroll.DefaultSpec(dir)
	if f.Scroll.TimeoutMs > 0 {
		spec.Timeout = time.Duration(f.Scroll.TimeoutMs) * time.Millisecond
	}
	if f.Scroll.IntervalMs > 0 {
		spec.Interval = time.Duration(f.Scroll.IntervalMs) * time.Millisecond
	}
	if f.Scroll.Amount > 0 {
		spec.Amount = f.Scroll.Amount
	}
	if f.Scroll.Threshold > 0 {
		spec.VisibilityThreshold = f.Scroll.Threshold
	}
	if f.Scroll.EdgeMargin > 0 {
		spec.EdgeMargin = f.Scroll.EdgeMargin
	}
	return spec
}
