package common

import (
	"fmt"
	"log"
	"strings"

	"fireblocks-signer-go/internal/config"
	"fireblocks-signer-go/internal/fireblocks"
	"fireblocks-signer-go/internal/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoadEnv loads environment variables from a .env file if it exists.
// Variables can also be set via shell export, docker, etc.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	}
}

func InitializeLogger(cfg models.LogConfig) (*zap.Logger, func()) {
	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		log.Printf("Unknown LOG_LEVEL %q, using info\n", cfg.Level)
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeClient builds a custody client from configuration
func InitializeClient(cfg models.FireblocksConfig) (*fireblocks.Client, error) {
	zap.L().Info("Loading Fireblocks API credentials")
	key, err := config.SigningKey(cfg)
	if err != nil {
		return nil, err
	}

	builder := fireblocks.NewClientBuilder(cfg.ApiKey, key).
		WithSandbox(cfg.Sandbox).
		WithTimeout(cfg.Timeout)
	if cfg.Endpoint != "" {
		builder = builder.WithUrl(cfg.Endpoint)
	}
	if cfg.UserAgent != "" {
		builder = builder.WithUserAgent(cfg.UserAgent)
	}
	if cfg.AssetsFile != "" {
		ids, err := LoadAssetIds(cfg.AssetsFile)
		if err != nil {
			return nil, err
		}
		builder = builder.WithAssets(ids)
	}

	client, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("unable to create fireblocks client: %w", err)
	}

	zap.L().Info("Using Fireblocks endpoint",
		zap.String("url", client.BaseUrl()),
		zap.Strings("assets", client.Assets().Ids()))

	return client, nil
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
