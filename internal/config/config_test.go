package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fireblocks-signer-go/internal/models"
)

var configKeys = []string{
	"FIREBLOCKS_API_KEY", "FIREBLOCKS_SECRET", "FIREBLOCKS_SECRET_PATH",
	"FIREBLOCKS_ENDPOINT", "FIREBLOCKS_SANDBOX", "FIREBLOCKS_USER_AGENT",
	"FIREBLOCKS_TIMEOUT", "POLL_TIMEOUT", "POLL_INTERVAL", "ASSETS_FILE",
	"RPC_URL", "LOG_LEVEL", "LOG_DEVELOPMENT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Fireblocks.Sandbox {
		t.Error("Sandbox = false, want true")
	}
	if cfg.Fireblocks.Timeout != 15*time.Second {
		t.Errorf("Timeout = %s, want 15s", cfg.Fireblocks.Timeout)
	}
	if cfg.Poll.Timeout != 90*time.Second || cfg.Poll.Interval != 7*time.Second {
		t.Errorf("Poll = %+v, want 90s/7s", cfg.Poll)
	}
	if cfg.Solana.RpcUrl != "https://api.devnet.solana.com" {
		t.Errorf("RpcUrl = %q, want devnet", cfg.Solana.RpcUrl)
	}
	if cfg.Log.Level != "info" || cfg.Log.Development {
		t.Errorf("Log = %+v, want info/production", cfg.Log)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FIREBLOCKS_API_KEY", "550e8400-e29b-41d4-a716-446655440000")
	t.Setenv("FIREBLOCKS_SANDBOX", "false")
	t.Setenv("FIREBLOCKS_ENDPOINT", "https://custody.example.com")
	t.Setenv("POLL_TIMEOUT", "2m")
	t.Setenv("POLL_INTERVAL", "3s")
	t.Setenv("LOG_DEVELOPMENT", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Fireblocks.ApiKey != "550e8400-e29b-41d4-a716-446655440000" {
		t.Errorf("ApiKey = %q", cfg.Fireblocks.ApiKey)
	}
	if cfg.Fireblocks.Sandbox {
		t.Error("Sandbox = true, want false")
	}
	if cfg.Fireblocks.Endpoint != "https://custody.example.com" {
		t.Errorf("Endpoint = %q", cfg.Fireblocks.Endpoint)
	}
	if cfg.Poll.Timeout != 2*time.Minute || cfg.Poll.Interval != 3*time.Second {
		t.Errorf("Poll = %+v, want 2m/3s", cfg.Poll)
	}
	if !cfg.Log.Development {
		t.Error("Development = false, want true")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "bad duration",
			env:  map[string]string{"POLL_TIMEOUT": "soon"},
			want: "invalid duration for POLL_TIMEOUT",
		},
		{
			name: "interval not shorter than timeout",
			env:  map[string]string{"POLL_TIMEOUT": "5s", "POLL_INTERVAL": "5s"},
			want: "must be shorter than POLL_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %q, want containing %q", err, tt.want)
			}
		})
	}
}

func TestSigningKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.pem")
	if err := os.WriteFile(path, []byte("from-file"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}

	tests := []struct {
		name    string
		cfg     models.FireblocksConfig
		want    string
		wantErr string
	}{
		{name: "inline wins", cfg: models.FireblocksConfig{Secret: "inline", SecretPath: path}, want: "inline"},
		{name: "from file", cfg: models.FireblocksConfig{SecretPath: path}, want: "from-file"},
		{name: "missing", cfg: models.FireblocksConfig{}, wantErr: "missing signing key"},
		{name: "unreadable", cfg: models.FireblocksConfig{SecretPath: path + ".nope"}, wantErr: "unable to read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SigningKey(tt.cfg)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("SigningKey() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SigningKey() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("SigningKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
