// Package config loads the optional desktop.yaml that tunes the shim.
//
// Every field is optional. A missing file yields Default(), and environment
// variables override the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/vitte-lang/desktop/pkg/parenting"
)

// FileName is the configuration file looked up by LoadOptional.
const FileName = "desktop.yaml"

// Environment variables consulted by ApplyEnv.
const (
	EnvConfig        = "VITTE_DESKTOP_CONFIG"
	EnvBackend       = "VITTE_DESKTOP_BACKEND"
	EnvVerbose       = "VITTE_DESKTOP_VERBOSE"
	EnvVerboseLegacy = "QT_STUB_VERBOSE"
	EnvInspectAddr   = "VITTE_DESKTOP_INSPECT"
)

// ABIVersion is the boundary version implemented by this module. A config
// file may pin a compatible version; only the major version must match.
const ABIVersion = "v1.0.0"

// Defaults applied when the host passes no size or label.
const (
	DefaultWidth       = 800
	DefaultHeight      = 600
	DefaultButtonLabel = "Button"
	DefaultBackend     = "stub"
)

// Config represents desktop.yaml.
type Config struct {
	ABI       string          `yaml:"abi,omitempty"`
	Backend   string          `yaml:"backend,omitempty"`
	Verbose   *bool           `yaml:"verbose,omitempty"`
	Trace     TraceConfig     `yaml:"trace"`
	Window    WindowConfig    `yaml:"window"`
	Button    ButtonConfig    `yaml:"button"`
	Parenting ParentingConfig `yaml:"parenting"`
	Inspect   InspectConfig   `yaml:"inspect"`
}

// TraceConfig controls diagnostic output.
type TraceConfig struct {
	// Format is "text", "json" or "msgpack".
	Format string `yaml:"format,omitempty"`
	// Prefix starts every text line.
	Prefix string `yaml:"prefix,omitempty"`
	// Keep is how many recent records the inspection server retains.
	Keep int `yaml:"keep,omitempty"`
}

// WindowConfig holds window defaults.
type WindowConfig struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// ButtonConfig holds button defaults.
type ButtonConfig struct {
	Label string `yaml:"label,omitempty"`
}

// ParentingConfig selects the parenting policy.
type ParentingConfig struct {
	Policy string `yaml:"policy,omitempty"`
}

// InspectConfig configures the inspection server.
type InspectConfig struct {
	// Addr is the listen address, e.g. "127.0.0.1:9777". Empty disables.
	Addr string `yaml:"addr,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ABI:     ABIVersion,
		Backend: DefaultBackend,
		Trace: TraceConfig{
			Format: "text",
			Keep:   256,
		},
		Window: WindowConfig{Width: DefaultWidth, Height: DefaultHeight},
		Button: ButtonConfig{Label: DefaultButtonLabel},
		Parenting: ParentingConfig{
			Policy: parenting.PolicyPermissive.String(),
		},
	}
}

// Load reads the file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.FillDefaults()
	return cfg, nil
}

// LoadOptional reads desktop.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Resolve loads the file named by VITTE_DESKTOP_CONFIG, or desktop.yaml from
// dir, then applies the environment and validates the result.
func Resolve(dir string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if path := os.Getenv(EnvConfig); path != "" {
		cfg, err = Load(path)
	} else {
		cfg, err = LoadOptional(dir)
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment. For verbosity, "0"
// disables and any other value enables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBackend)); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvInspectAddr); v != "" {
		c.Inspect.Addr = v
	}
	for _, key := range []string{EnvVerbose, EnvVerboseLegacy} {
		if v, ok := os.LookupEnv(key); ok {
			on := v != "0"
			c.Verbose = &on
			break
		}
	}
}

// VerboseEnabled reports whether trace records should be emitted.
func (c *Config) VerboseEnabled() bool {
	return c.Verbose == nil || *c.Verbose
}

// Policy returns the parsed parenting policy. Validate guarantees it parses.
func (c *Config) Policy() parenting.Policy {
	p, _ := parenting.ParsePolicy(c.Parenting.Policy)
	return p
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.ABI != "" {
		if !semver.IsValid(c.ABI) {
			return fmt.Errorf("abi must be a semantic version like %s (got %q)", ABIVersion, c.ABI)
		}
		if semver.Major(c.ABI) != semver.Major(ABIVersion) {
			return fmt.Errorf("abi %s is incompatible with %s", c.ABI, ABIVersion)
		}
		if semver.Compare(c.ABI, ABIVersion) > 0 {
			return fmt.Errorf("abi %s is newer than supported %s", c.ABI, ABIVersion)
		}
	}
	if c.Backend == "" {
		return fmt.Errorf("backend must not be empty")
	}
	switch c.Trace.Format {
	case "text", "json", "msgpack":
	default:
		return fmt.Errorf("trace.format must be text, json or msgpack (got %q)", c.Trace.Format)
	}
	if c.Trace.Keep < 0 {
		return fmt.Errorf("trace.keep must not be negative (got %d)", c.Trace.Keep)
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("window size must not be negative (got %dx%d)", c.Window.Width, c.Window.Height)
	}
	if _, err := parenting.ParsePolicy(c.Parenting.Policy); err != nil {
		return err
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// String renders a one-line summary.
func (c *Config) String() string {
	return fmt.Sprintf("backend=%s abi=%s verbose=%s trace=%s window=%dx%d policy=%s",
		c.Backend, c.ABI, strconv.FormatBool(c.VerboseEnabled()), c.Trace.Format,
		c.Window.Width, c.Window.Height, c.Parenting.Policy)
}

// FillDefaults sets every unset field to its built-in default. Load calls
// it for fields a file omitted or zeroed; hosts building a Config by hand
// get the same treatment from desktop.New.
func (c *Config) FillDefaults() {
	d := Default()
	if strings.TrimSpace(c.Backend) == "" {
		c.Backend = d.Backend
	}
	if c.Trace.Format == "" {
		c.Trace.Format = d.Trace.Format
	}
	if c.Window.Width == 0 {
		c.Window.Width = d.Window.Width
	}
	if c.Window.Height == 0 {
		c.Window.Height = d.Window.Height
	}
	if c.Button.Label == "" {
		c.Button.Label = d.Button.Label
	}
	if c.Parenting.Policy == "" {
		c.Parenting.Policy = d.Parenting.Policy
	}
}
