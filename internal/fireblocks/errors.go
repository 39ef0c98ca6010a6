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
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
)

// Error kinds. Every error returned by a Client wraps exactly one of these,
// so callers can branch with errors.Is.
var (
	ErrInvalidApiKey     = errors.New("invalid api key")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrTransport         = errors.New("transport error")
	ErrTimeout           = errors.New("operation timed out")
	ErrServer            = errors.New("server error")
	ErrResponseParse     = errors.New("unable to parse response")
	ErrNoAddress         = errors.New("no address")
	ErrUnknownAsset      = errors.New("unknown asset")
	ErrInvalidSignature  = errors.New("invalid signature")

	// ErrInvalidArgument is reserved for caller misuse detected locally
	// (empty ids, bad options, bad endpoint). No request is sent and it never
	// describes a remote failure.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error is the concrete error type returned by the client. Kind is one of the
// Err* sentinels above; Err is the lower-layer cause, if any.
type Error struct {
	Kind       error
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(e.Kind.Error())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: cause}
}

// ServerMessage returns the message reported by the remote service when err
// is a server rejection.
func ServerMessage(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == ErrServer {
		return e.Message, true
	}
	return "", false
}

// classifyTransportError maps a failed round trip to Timeout or Transport.
func classifyTransportError(op string, err error) *Error {
	if isTimeout(err) {
		return newError(ErrTimeout, op, "", err)
	}
	return newError(ErrTransport, op, "", err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

type apiErrorBody struct {
	Message string          `json:"message"`
	Code    json.RawMessage `json:"code,omitempty"`
}

// classifyStatus maps a non-2xx response to a server error, preferring the
// message carried in the body over the HTTP status text.
func classifyStatus(op string, statusCode int, status string, body []byte) *Error {
	e := &Error{Kind: ErrServer, Op: op, StatusCode: statusCode}

	var apiErr apiErrorBody
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		e.Message = apiErr.Message
		return e
	}

	e.Message = status
	if e.Message == "" {
		e.Message = http.StatusText(statusCode)
	}
	if e.Message == "" {
		e.Message = "unexpected status"
	}
	return e
}

// decodeBody unmarshals a success body and runs the contract check for the
// target, if one is given.
func decodeBody(op string, body []byte, out any, check func() error) error {
	if err := json.Unmarshal(body, out); err != nil {
		return newError(ErrResponseParse, op, "", err)
	}
	if check != nil {
		if err := check(); err != nil {
			return newError(ErrResponseParse, op, "", err)
		}
	}
	return nil
}
