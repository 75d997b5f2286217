package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cyber/subtitle-studio/internal/transcript"
)

// Config holds the application configuration.
type Config struct {
	ServerURL       string        `mapstructure:"server_url"`
	DefaultLanguage string        `mapstructure:"default_language"`
	DownloadDir     string        `mapstructure:"download_dir"`
	Player          string        `mapstructure:"player"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	LogFile         string        `mapstructure:"log_file"`
	LogLevel        string        `mapstructure:"log_level"`
	GlamourStyle    string        `mapstructure:"glamour_style"`
}

// JobConfig holds settings for a single non-interactive run.
type JobConfig struct {
	VideoPath   string
	Language    string
	DownloadDir string
	SRT         bool
	Video       bool
	Markdown    bool
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ServerURL:       "http://localhost:5000",
		DefaultLanguage: transcript.AutoLanguage,
		DownloadDir:     getDefaultDownloadDir(),
		Player:          "mpv",
		LogFile:         getDefaultLogFile(),
		LogLevel:        "info",
		GlamourStyle:    "auto",
	}
}

// Load reads configuration from file and environment.
func Load(cfgFile string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetDefault("server_url", cfg.ServerURL)
	v.SetDefault("default_language", cfg.DefaultLanguage)
	v.SetDefault("download_dir", cfg.DownloadDir)
	v.SetDefault("player", cfg.Player)
	v.SetDefault("request_timeout", cfg.RequestTimeout)
	v.SetDefault("log_file", cfg.LogFile)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("glamour_style", cfg.GlamourStyle)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "subtitle-studio"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("STUDIO")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ServerURL) == "" {
		return fmt.Errorf("server_url is required")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if !isLanguageOption(c.DefaultLanguage) {
		return fmt.Errorf("default_language %q is not one of %s", c.DefaultLanguage, strings.Join(LanguageOptions(), ", "))
	}
	return nil
}

func getDefaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./downloads"
	}
	return filepath.Join(home, "Downloads", "subtitle-studio")
}

func getDefaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "subtitle-studio.log")
	}
	return filepath.Join(dir, "subtitle-studio", "studio.log")
}

// LanguageOptions returns the language hints offered by the selector.
func LanguageOptions() []string {
	return transcript.LanguageOptions()
}

func isLanguageOption(lang string) bool {
	for _, opt := range LanguageOptions() {
		if opt == lang {
			return true
		}
	}
	return false
}
