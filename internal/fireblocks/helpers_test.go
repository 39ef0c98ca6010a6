package fireblocks

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

const testApiKey = "550e8400-e29b-41d4-a716-446655440000"

var (
	testKeyOnce sync.Once
	testKey     *rsa.PrivateKey
)

func signingKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	testKeyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		testKey = key
	})
	return testKey
}

func pkcs1Pem(t *testing.T) []byte {
	t.Helper()
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(signingKey(t)),
	})
}

func pkcs8Pem(t *testing.T) []byte {
	t.Helper()
	der, err := x509.MarshalPKCS8PrivateKey(signingKey(t))
	if err != nil {
		t.Fatalf("Failed to marshal PKCS8 key: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

// recordedRequest is what the fake custody API saw for one call
type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

type fakeApi struct {
	t        *testing.T
	mu       sync.Mutex
	requests []recordedRequest
	handler  http.HandlerFunc
}

// newFakeApi starts a server that checks every request's token against the
// test key before handing it to handler.
func newFakeApi(t *testing.T, handler http.HandlerFunc) (*fakeApi, *httptest.Server) {
	t.Helper()
	api := &fakeApi{t: t, handler: handler}
	server := httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(server.Close)
	return api, server
}

func (f *fakeApi) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.RequestURI(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	f.mu.Unlock()

	if r.Header.Get("X-API-Key") != testApiKey {
		f.t.Errorf("X-API-Key = %q, want %q", r.Header.Get("X-API-Key"), testApiKey)
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if _, err := VerifyToken(token, &signingKey(f.t).PublicKey, r.URL.RequestURI(), body); err != nil {
		f.t.Errorf("token does not verify for %s: %v", r.URL.RequestURI(), err)
	}

	f.handler(w, r)
}

func (f *fakeApi) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeApi) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		f.t.Fatal("no requests recorded")
	}
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, server *httptest.Server, timeout time.Duration) *Client {
	t.Helper()
	client, err := NewClientBuilder(testApiKey, pkcs1Pem(t)).
		WithUrl(server.URL).
		WithUserAgent("fireblocks-signer-test").
		WithTimeout(timeout).
		WithHttpClient(server.Client()).
		WithLogger(zap.NewNop()).
		Build()
	if err != nil {
		t.Fatalf("Failed to build client: %v", err)
	}
	return client
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
