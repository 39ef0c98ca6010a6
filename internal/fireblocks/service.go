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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const maxResponseBytes = 4 << 20

// Client talks to the custody API. It is immutable once built and safe for
// concurrent use.
type Client struct {
	apiKey     string
	signer     *Signer
	baseUrl    string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	assets     *AssetCatalog
	logger     *zap.Logger
}

// BaseUrl returns the endpoint the client sends requests to
func (c *Client) BaseUrl() string {
	return c.baseUrl
}

// Assets returns the catalog used to reject unknown assets
func (c *Client) Assets() *AssetCatalog {
	return c.assets
}

// do performs one signed round trip. payload may be nil for requests without
// a body. On success the response body is decoded into out and check, when
// given, validates the decoded value.
func (c *Client) do(ctx context.Context, op, method, path string, payload, out any, check func() error) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return newError(ErrInvalidArgument, op, "unable to encode request body", err)
		}
	}

	token, err := c.signer.Sign(path, body)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader = http.NoBody
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+path, reqBody)
	if err != nil {
		return newError(ErrInvalidArgument, op, "unable to create request", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("Sending custody API request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Custody API request failed",
			zap.String("op", op),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return classifyTransportError(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return classifyTransportError(op, err)
	}

	c.logger.Debug("Custody API response received",
		zap.String("op", op),
		zap.String("path", path),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := classifyStatus(op, resp.StatusCode, resp.Status, respBody)
		c.logger.Warn("Custody API rejected request",
			zap.String("op", op),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("message", apiErr.Message))
		return apiErr
	}

	return decodeBody(op, respBody, out, check)
}
