package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/parse"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.DateOrder)
	assert.Equal(t, parse.DefaultMediaPlaceholder, cfg.MediaPlaceholder)
	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "127.0.0.1:8501", cfg.ListenAddr)
	assert.Equal(t, int64(32), cfg.MaxUploadMB)
	assert.Equal(t, 2.0, cfg.RateLimit)
	assert.Equal(t, 5, cfg.RateBurst)
	assert.False(t, cfg.Strict)
}

func TestLoadFile_CustomValues(t *testing.T) {
	dir := t.TempDir()
	stop := filepath.Join(dir, "stop.txt")
	require.NoError(t, os.WriteFile(stop, []byte("the\n"), 0o644))

	path := filepath.Join(dir, "config.toml")
	body := `
date_order = "dmy"
media_placeholder = "<Medien ausgeschlossen>"
stopwords_file = "` + stop + `"
top_n = 5
strict = true
log_level = "debug"
log_format = "json"
listen_addr = "0.0.0.0:9000"
max_upload_mb = 8
rate_limit = 0.5
rate_burst = 1
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dmy", cfg.DateOrder)
	assert.Equal(t, "<Medien ausgeschlossen>", cfg.MediaPlaceholder)
	assert.Equal(t, stop, cfg.StopwordsFile)
	assert.Equal(t, 5, cfg.TopN)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr)
	assert.Equal(t, int64(8), cfg.MaxUploadMB)
	assert.Equal(t, 0.5, cfg.RateLimit)
	assert.Equal(t, 1, cfg.RateBurst)

	opts := cfg.ParseOptions()
	assert.Equal(t, parse.OrderDMY, opts.DateOrder)
	assert.True(t, opts.Strict)
	assert.Equal(t, "<Medien ausgeschlossen>", opts.MediaPlaceholder)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad date order": `date_order = "ymd"`,
		"bad log level":  `log_level = "loud"`,
		"zero top n":     `top_n = 0`,
		"bad addr":       `listen_addr = "nowhere"`,
		"missing stop":   `stopwords_file = "/does/not/exist.txt"`,
		"broken toml":    `top_n = `,
		"negative rate":  `rate_limit = -1`,
		"zero burst":     `rate_burst = 0`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/home/u/stop.txt", expandHome("~/stop.txt", "/home/u"))
	assert.Equal(t, "/abs/stop.txt", expandHome("/abs/stop.txt", "/home/u"))
	assert.Equal(t, "", expandHome("", "/home/u"))
}
