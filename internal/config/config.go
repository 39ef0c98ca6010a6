/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"fireblocks-signer-go/internal/models"
)

func Load() (*models.Config, error) {
	requestTimeout, err := getEnvDuration("FIREBLOCKS_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	pollTimeout, err := getEnvDuration("POLL_TIMEOUT", 90*time.Second)
	if err != nil {
		return nil, err
	}

	pollInterval, err := getEnvDuration("POLL_INTERVAL", 7*time.Second)
	if err != nil {
		return nil, err
	}

	if pollInterval >= pollTimeout {
		return nil, fmt.Errorf("POLL_INTERVAL (%s) must be shorter than POLL_TIMEOUT (%s)", pollInterval, pollTimeout)
	}

	return &models.Config{
		Fireblocks: models.FireblocksConfig{
			ApiKey:     getEnvString("FIREBLOCKS_API_KEY", ""),
			Secret:     getEnvString("FIREBLOCKS_SECRET", ""),
			SecretPath: getEnvString("FIREBLOCKS_SECRET_PATH", ""),
			Endpoint:   getEnvString("FIREBLOCKS_ENDPOINT", ""),
			Sandbox:    getEnvBool("FIREBLOCKS_SANDBOX", true),
			UserAgent:  getEnvString("FIREBLOCKS_USER_AGENT", "fireblocks-signer-go"),
			Timeout:    requestTimeout,
			AssetsFile: getEnvString("ASSETS_FILE", ""),
		},
		Poll: models.PollConfig{
			Timeout:  pollTimeout,
			Interval: pollInterval,
		},
		Solana: models.SolanaConfig{
			RpcUrl: getEnvString("RPC_URL", "https://api.devnet.solana.com"),
		},
		Log: models.LogConfig{
			Level:       getEnvString("LOG_LEVEL", "info"),
			Development: getEnvBool("LOG_DEVELOPMENT", false),
		},
	}, nil
}

// SigningKey returns the PEM bytes of the API signing key, reading
// FIREBLOCKS_SECRET_PATH when the inline secret is not set.
func SigningKey(cfg models.FireblocksConfig) ([]byte, error) {
	if cfg.Secret != "" {
		return []byte(cfg.Secret), nil
	}
	if cfg.SecretPath == "" {
		return nil, fmt.Errorf("missing signing key: set FIREBLOCKS_SECRET or FIREBLOCKS_SECRET_PATH")
	}
	data, err := os.ReadFile(cfg.SecretPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", cfg.SecretPath, err)
	}
	return data, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
