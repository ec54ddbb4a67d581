// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cliconf holds the configuration, logging, and run-recording setup
// shared by the gen-icons and merge-md commands.
package cliconf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/apptools/internal/iconset"
	"github.com/pdiddy/apptools/internal/ledger"
	"github.com/pdiddy/apptools/internal/mdmerge"
	"github.com/pdiddy/apptools/pkg/types"
)

const (
	configName = "apptools"
	envPrefix  = "APPTOOLS"
)

// SetDefaults registers the built-in value of every config key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("icons.source", iconset.DefaultSource)
	v.SetDefault("icons.res_dir", iconset.DefaultResDir)
	v.SetDefault("icons.renderer", string(types.RendererAuto))
	v.SetDefault("merge.title", mdmerge.DefaultTitle)
	v.SetDefault("merge.out", "")
	v.SetDefault("merge.strip_frontmatter", false)
	v.SetDefault("merge.format", string(types.OutputMarkdown))
	v.SetDefault("ledger.path", "")
}

// Init points v at cfgFile, or at apptools.yaml in the working directory or
// ~/.config/apptools, and reads it. A missing default config is not an
// error; a missing explicit one is. It returns the file used, if any.
func Init(v *viper.Viper, cfgFile string) (string, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load decodes the merged defaults, config file, environment, and bound
// flags into a Config.
func Load(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// NewLogger builds the stderr logger. verbose enables debug output.
func NewLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// RecordRun appends run to the ledger configured in cfg. It is a no-op when
// no ledger path is set. Ledger failures are logged, never returned: the
// outputs were already written.
func RecordRun(ctx context.Context, cfg types.LedgerConfig, run types.Run, log *zap.Logger) {
	if cfg.Path == "" {
		return
	}
	l, err := ledger.Open(cfg.Path)
	if err != nil {
		log.Warn("ledger unavailable", zap.String("path", cfg.Path), zap.Error(err))
		return
	}
	defer l.Close()

	id, err := l.Record(ctx, run)
	if err != nil {
		log.Warn("recording run failed", zap.String("path", cfg.Path), zap.Error(err))
		return
	}
	log.Debug("run recorded", zap.Int64("id", id), zap.Int("outputs", len(run.Outputs)))
}
