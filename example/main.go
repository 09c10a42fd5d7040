// FILE: example/main.go
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lixenwraith/envhanced"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppConfig is the typed view of the merged configuration
type AppConfig struct {
	Host     string         `env:"HOST"`
	Port     int            `env:"PORT"`
	Debug    bool           `env:"DEBUG"`
	Timeout  time.Duration  `env:"TIMEOUT"`
	Replicas []string       `env:"REPLICAS"`
	Limits   map[string]int `env:"LIMITS"`
	APIKey   string         `env:"API_KEY"`
}

func main() {
	logger, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	dir, err := os.MkdirTemp("", "envhanced-example")
	if err != nil {
		logger.Fatal("failed to create example dir", zap.Error(err))
	}
	defer os.RemoveAll(dir)

	// =========================================================================
	// PART 1: Three layers on disk
	// =========================================================================
	files := map[string]string{
		"defaults.env": "HOST=localhost\nPORT=8080\nDEBUG=False\nTIMEOUT=30s\nREPLICAS=[\"a\",\"b\"]\nLIMITS={\"rps\":100}\n",
		"environ.env":  "PORT=9090\n",
		"secrets.env":  "API_KEY=s3cr3t\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			logger.Fatal("failed to write example file", zap.String("file", name), zap.Error(err))
		}
	}

	// =========================================================================
	// PART 2: Build with an override and a validator
	// =========================================================================
	cfg, err := envhanced.NewBuilder().
		WithDir(dir).
		WithLogger(logger).
		WithOverride("DEBUG", "True").
		WithRequired("HOST", "PORT", "API_KEY").
		WithValidator(func(s *envhanced.Store) error {
			port, err := s.Int64("PORT")
			if err != nil {
				return err
			}
			if port < 1024 || port > 65535 {
				return fmt.Errorf("port %d is outside the range 1024-65535", port)
			}
			return nil
		}).
		Build()
	if err != nil {
		logger.Fatal("failed to build config", zap.Error(err))
	}

	var app AppConfig
	if err := cfg.Scan(&app); err != nil {
		logger.Fatal("failed to scan config", zap.Error(err))
	}
	logger.Info("configuration loaded",
		zap.String("host", app.Host),
		zap.Int("port", app.Port),
		zap.Bool("debug", app.Debug),
		zap.Duration("timeout", app.Timeout),
		zap.Strings("replicas", app.Replicas),
		zap.Any("limits", app.Limits))

	for _, name := range cfg.Names() {
		source, _ := cfg.SourceOf(name)
		logger.Debug("setting", zap.String("name", name), zap.String("source", string(source)))
	}

	if _, err := cfg.Get("MISSING"); errors.Is(err, envhanced.ErrSettingNotFound) {
		logger.Info("lookup miss reported", zap.Error(err))
	}

	// =========================================================================
	// PART 3: Reload on file change
	// =========================================================================
	changes := cfg.WatchWithOptions(envhanced.WatchOptions{
		PollInterval: 100 * time.Millisecond,
		Debounce:     50 * time.Millisecond,
	})
	defer cfg.StopAutoUpdate()

	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "environ.env"), []byte("PORT=9191\nHOST=example.com\n"), 0600); err != nil {
		logger.Fatal("failed to update environ.env", zap.Error(err))
	}

	deadline := time.After(3 * time.Second)
	for seen := 0; seen < 2; {
		select {
		case name := <-changes:
			value, _ := cfg.Get(name)
			logger.Info("setting changed", zap.String("name", name), zap.Any("value", value))
			seen++
		case <-deadline:
			logger.Warn("timed out waiting for changes")
			return
		}
	}

	if err := cfg.ExportSource(os.Stdout, envhanced.SourceEnviron, envhanced.FormatTOML); err != nil {
		logger.Error("failed to export config", zap.Error(err))
	}
}

// newLogger builds a JSON logger with ISO8601 timestamps
func newLogger() (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	zcfg.Encoding = "json"
	zcfg.EncoderConfig.TimeKey = "timestamp"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
