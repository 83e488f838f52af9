package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	Input     string `mapstructure:"input" yaml:"input"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	Sheet     string `mapstructure:"sheet" yaml:"sheet"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	HeadRows  int    `mapstructure:"head_rows" yaml:"head_rows"`

	// Charts
	HistBins      int     `mapstructure:"hist_bins" yaml:"hist_bins"`
	ChartWidthIn  float64 `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn float64 `mapstructure:"chart_height_in" yaml:"chart_height_in"`
	Charts        bool    `mapstructure:"charts" yaml:"charts"`

	// Run record
	Record bool `mapstructure:"record" yaml:"record"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"input", "output_dir", "sheet", "delimiter", "head_rows",
	"hist_bins", "chart_width_in", "chart_height_in", "charts", "record",
}

const (
	envPrefix = "MISSIONEDA"
	dirName   = ".missioneda"
)

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.missioneda/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, dirName)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
// A .env file in the working directory is applied to the environment first
// and never overrides variables that are already set.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input", "space_missions_dataset.csv")
	v.SetDefault("output_dir", "eda_output")
	v.SetDefault("sheet", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("head_rows", 5)
	v.SetDefault("hist_bins", 15)
	v.SetDefault("chart_width_in", 8.0)
	v.SetDefault("chart_height_in", 6.0)
	v.SetDefault("charts", true)
	v.SetDefault("record", true)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, dirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values the pipeline cannot run with.
func (c *Global) Validate() error {
	if c.HeadRows < 0 {
		return fmt.Errorf("head_rows must be >= 0, got %d", c.HeadRows)
	}
	if c.HistBins <= 0 {
		return fmt.Errorf("hist_bins must be > 0, got %d", c.HistBins)
	}
	if c.ChartWidthIn <= 0 || c.ChartHeightIn <= 0 {
		return fmt.Errorf("chart size must be positive, got %gx%g", c.ChartWidthIn, c.ChartHeightIn)
	}
	if _, err := c.DelimiterRune(); err != nil {
		return err
	}
	return nil
}

// DelimiterRune returns the configured CSV delimiter, or 0 to auto-detect.
func (c *Global) DelimiterRune() (rune, error) {
	switch c.Delimiter {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r, nil
}

// Set assigns one key from its string form.
func (c *Global) Set(key, val string) error {
	switch key {
	case "input":
		c.Input = val
	case "output_dir":
		c.OutputDir = val
	case "sheet":
		c.Sheet = val
	case "delimiter":
		prev := c.Delimiter
		c.Delimiter = val
		if _, err := c.DelimiterRune(); err != nil {
			c.Delimiter = prev
			return err
		}
	case "head_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for head_rows: %v", val)
		}
		c.HeadRows = i
	case "hist_bins":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for hist_bins: %v", val)
		}
		c.HistBins = i
	case "chart_width_in", "chart_height_in":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid float for %s: %v", key, val)
		}
		if key == "chart_width_in" {
			c.ChartWidthIn = f
		} else {
			c.ChartHeightIn = f
		}
	case "charts", "record":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %w", key, err)
		}
		if key == "charts" {
			c.Charts = b
		} else {
			c.Record = b
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// Get returns the string form of one key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "input":
		return c.Input, nil
	case "output_dir":
		return c.OutputDir, nil
	case "sheet":
		return c.Sheet, nil
	case "delimiter":
		return c.Delimiter, nil
	case "head_rows":
		return strconv.Itoa(c.HeadRows), nil
	case "hist_bins":
		return strconv.Itoa(c.HistBins), nil
	case "chart_width_in":
		return strconv.FormatFloat(c.ChartWidthIn, 'g', -1, 64), nil
	case "chart_height_in":
		return strconv.FormatFloat(c.ChartHeightIn, 'g', -1, 64), nil
	case "charts":
		return strconv.FormatBool(c.Charts), nil
	case "record":
		return strconv.FormatBool(c.Record), nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}
