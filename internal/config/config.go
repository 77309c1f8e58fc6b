package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/parse"
)

type Config struct {
	DateOrder        string  `toml:"date_order" validate:"oneof=auto mdy dmy"`
	MediaPlaceholder string  `toml:"media_placeholder" validate:"required"`
	StopwordsFile    string  `toml:"stopwords_file" validate:"omitempty,file"`
	TopN             int     `toml:"top_n" validate:"min=1,max=100"`
	Strict           bool    `toml:"strict"`
	LogLevel         string  `toml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat        string  `toml:"log_format" validate:"oneof=text json"`
	ListenAddr       string  `toml:"listen_addr" validate:"required,hostname_port"`
	MaxUploadMB      int64   `toml:"max_upload_mb" validate:"min=1,max=1024"`
	RateLimit        float64 `toml:"rate_limit" validate:"min=0"` // uploads per second per client, 0 = off
	RateBurst        int     `toml:"rate_burst" validate:"min=1"`
}

func Default() *Config {
	return &Config{
		DateOrder:        string(parse.OrderAuto),
		MediaPlaceholder: parse.DefaultMediaPlaceholder,
		TopN:             10,
		LogLevel:         "info",
		LogFormat:        "text",
		ListenAddr:       "127.0.0.1:8501",
		MaxUploadMB:      32,
		RateLimit:        2,
		RateBurst:        5,
	}
}

// Path returns the config file location, ~/.config/wca/config.toml.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "wca", "config.toml"), nil
}

func Load() (*Config, error) {
	cfgPath, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(cfgPath)
}

// LoadFile decodes cfgPath over the defaults. A missing file is not an
// error.
func LoadFile(cfgPath string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		cfg.StopwordsFile = expandHome(cfg.StopwordsFile, home)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", cfgPath, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// ParseOptions maps the config onto parser options.
func (c *Config) ParseOptions() parse.Options {
	order, err := parse.ParseDateOrder(c.DateOrder)
	if err != nil {
		order = parse.OrderAuto
	}
	return parse.Options{
		DateOrder:        order,
		MediaPlaceholder: c.MediaPlaceholder,
		Strict:           c.Strict,
	}
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
