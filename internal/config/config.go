package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Marker is one point of interest in the catalog.
type Marker struct {
	ID        string  `mapstructure:"id"`
	Name      string  `mapstructure:"name"`
	URL       string  `mapstructure:"url"`
	Image     string  `mapstructure:"image"`
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
}

// Config is the resolved application configuration.
type Config struct {
	LogLevel  string
	LogFormat string

	Window struct {
		Width  int
		Height int
		Title  string
		Mobile bool
	}

	Assets struct {
		Root        string
		BaseURL     string
		LQPrefix    string
		HQPrefix    string
		LoadHQ      bool
		Concurrency int
		Timeout     time.Duration
	}

	Metrics struct {
		Listen string
	}

	Click struct {
		OpenCommand string
	}

	Markers []Marker
}

// Load reads configuration from path and sets default values.
//
// An empty path searches for terra.{yaml,toml,json} in the working directory
// and tolerates its absence. Environment variables prefixed with TERRA_
// override file values (TERRA_WINDOW_WIDTH for window.width).
func Load(path string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFormat", "console")

	viper.SetDefault("window.width", 1024)
	viper.SetDefault("window.height", 768)
	viper.SetDefault("window.title", "terra")
	viper.SetDefault("window.mobile", false)

	viper.SetDefault("assets.root", "./assets")
	viper.SetDefault("assets.baseUrl", "")
	viper.SetDefault("assets.lqPrefix", "images/lq/")
	viper.SetDefault("assets.hqPrefix", "images/hq/")
	viper.SetDefault("assets.loadHq", true)
	viper.SetDefault("assets.concurrency", 4)
	viper.SetDefault("assets.timeout", "10s")

	viper.SetDefault("metrics.listen", "")
	viper.SetDefault("click.openCommand", "")

	viper.SetEnvPrefix("TERRA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		return nil
	}

	viper.SetConfigName("terra")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: read: %w", err)
	}
	return nil
}

// Current resolves the loaded values into a Config.
func Current() (Config, error) {
	var c Config
	c.LogLevel = viper.GetString("logLevel")
	c.LogFormat = viper.GetString("logFormat")

	c.Window.Width = viper.GetInt("window.width")
	c.Window.Height = viper.GetInt("window.height")
	c.Window.Title = viper.GetString("window.title")
	c.Window.Mobile = viper.GetBool("window.mobile")

	c.Assets.Root = viper.GetString("assets.root")
	c.Assets.BaseURL = viper.GetString("assets.baseUrl")
	c.Assets.LQPrefix = viper.GetString("assets.lqPrefix")
	c.Assets.HQPrefix = viper.GetString("assets.hqPrefix")
	c.Assets.LoadHQ = viper.GetBool("assets.loadHq")
	c.Assets.Concurrency = viper.GetInt("assets.concurrency")
	c.Assets.Timeout = viper.GetDuration("assets.timeout")

	c.Metrics.Listen = viper.GetString("metrics.listen")
	c.Click.OpenCommand = viper.GetString("click.openCommand")

	if err := viper.UnmarshalKey("markers", &c.Markers); err != nil {
		return Config{}, fmt.Errorf("config: markers: %w", err)
	}
	for i := range c.Markers {
		if c.Markers[i].ID == "" {
			c.Markers[i].ID = c.Markers[i].URL
		}
		if c.Markers[i].ID == "" {
			c.Markers[i].ID = fmt.Sprintf("marker-%d", i)
		}
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return Config{}, fmt.Errorf("config: invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	return c, nil
}

// Set overrides a single key, used for command line flags.
func Set(key string, value any) {
	viper.Set(key, value)
}
