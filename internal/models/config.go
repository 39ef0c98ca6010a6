package models

import "time"

// Config represents the application configuration
type Config struct {
	Fireblocks FireblocksConfig
	Poll       PollConfig
	Solana     SolanaConfig
	Log        LogConfig
}

// FireblocksConfig holds custody API connection settings
type FireblocksConfig struct {
	ApiKey     string
	Secret     string
	SecretPath string
	Endpoint   string
	Sandbox    bool
	UserAgent  string
	Timeout    time.Duration
	AssetsFile string
}

// PollConfig holds transaction status polling settings
type PollConfig struct {
	Timeout  time.Duration
	Interval time.Duration
}

// SolanaConfig holds the RPC settings used to build and broadcast payloads
type SolanaConfig struct {
	RpcUrl string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level       string
	Development bool
}
