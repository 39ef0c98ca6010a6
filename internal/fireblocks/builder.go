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

package fireblocks

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

const (
	ProductionUrl    = "https://api.fireblocks.io"
	SandboxUrl       = "https://sandbox-api.fireblocks.io"
	DefaultUserAgent = "fireblocks-signer-go"
	DefaultTimeout   = 15 * time.Second
)

// ClientConfig holds everything needed to build a Client. Only ApiKey and
// SigningKey are required.
type ClientConfig struct {
	ApiKey     string
	SigningKey []byte

	// Url overrides the endpoint selected by Sandbox
	Url        string
	UserAgent  string
	Timeout    time.Duration
	Sandbox    bool
	Assets     []string
	HttpClient *http.Client
	Logger     *zap.Logger
}

// ClientBuilder assembles a ClientConfig with chained setters
type ClientBuilder struct {
	cfg ClientConfig
}

func NewClientBuilder(apiKey string, signingKey []byte) *ClientBuilder {
	return &ClientBuilder{cfg: ClientConfig{ApiKey: apiKey, SigningKey: signingKey}}
}

func (b *ClientBuilder) WithUrl(u string) *ClientBuilder {
	b.cfg.Url = u
	return b
}

func (b *ClientBuilder) WithUserAgent(ua string) *ClientBuilder {
	b.cfg.UserAgent = ua
	return b
}

func (b *ClientBuilder) WithTimeout(timeout time.Duration) *ClientBuilder {
	b.cfg.Timeout = timeout
	return b
}

func (b *ClientBuilder) WithSandbox(sandbox bool) *ClientBuilder {
	b.cfg.Sandbox = sandbox
	return b
}

func (b *ClientBuilder) WithAssets(assets []string) *ClientBuilder {
	b.cfg.Assets = assets
	return b
}

func (b *ClientBuilder) WithHttpClient(httpClient *http.Client) *ClientBuilder {
	b.cfg.HttpClient = httpClient
	return b
}

func (b *ClientBuilder) WithLogger(logger *zap.Logger) *ClientBuilder {
	b.cfg.Logger = logger
	return b
}

// Build validates the configuration and returns a ready client
func (b *ClientBuilder) Build() (*Client, error) {
	return NewClient(b.cfg)
}

// NewClient validates cfg and returns a ready client. Validation runs in a
// fixed order: API key, signing key, endpoint, then the optional overrides.
// No network call is made.
func NewClient(cfg ClientConfig) (*Client, error) {
	if _, err := uuid.Parse(cfg.ApiKey); err != nil {
		return nil, newError(ErrInvalidApiKey, "build", "API key must be a valid UUID", err)
	}

	key, err := ParseSigningKey(cfg.SigningKey)
	if err != nil {
		return nil, err
	}

	baseUrl, err := resolveBaseUrl(cfg)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if timeout < 0 {
		return nil, newError(ErrInvalidArgument, "build", fmt.Sprintf("timeout must be positive, got %s", timeout), nil)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	httpClient := cfg.HttpClient
	if httpClient == nil {
		httpClient, err = createCustomHttpClient(timeout)
		if err != nil {
			return nil, newError(ErrTransport, "build", "unable to create custom http client", err)
		}
	}

	assets := cfg.Assets
	if len(assets) == 0 {
		assets = DefaultAssets
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.L()
	}

	return &Client{
		apiKey:     cfg.ApiKey,
		signer:     NewSigner(cfg.ApiKey, key),
		baseUrl:    baseUrl,
		userAgent:  userAgent,
		timeout:    timeout,
		httpClient: httpClient,
		assets:     NewAssetCatalog(assets),
		logger:     logger.With(zap.String("endpoint", baseUrl)),
	}, nil
}

func resolveBaseUrl(cfg ClientConfig) (string, error) {
	raw := cfg.Url
	if raw == "" {
		raw = ProductionUrl
		if cfg.Sandbox {
			raw = SandboxUrl
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", newError(ErrInvalidArgument, "build", fmt.Sprintf("invalid url %q", raw), err)
	}
	if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return "", newError(ErrInvalidArgument, "build", fmt.Sprintf("url must be absolute http(s), got %q", raw), nil)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

func createCustomHttpClient(timeout time.Duration) (*http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: timeout,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   10 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}, nil
}
