package fireblocks

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestAddress_Scenario(t *testing.T) {
	api, server := newFakeApi(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"addresses":[{"assetId":"SOL","address":"FdtiepBtP98oU2uPNgAzUoGwggUDdRXwJH2KJo3oUaix"}]}`))
	})
	client := newTestClient(t, server, 5*time.Second)

	addresses, err := client.Addresses(context.Background(), "0", "SOL")
	if err != nil {
		t.Fatalf("Addresses failed: %v", err)
	}
	if len(addresses) != 1 {
		t.Fatalf("got %d addresses, want 1", len(addresses))
	}
	if addresses[0].Address != "FdtiepBtP98oU2uPNgAzUoGwggUDdRXwJH2KJo3oUaix" {
		t.Errorf("address = %q", addresses[0].Address)
	}

	address, err := client.Address(context.Background(), "0", "SOL")
	if err != nil {
		t.Fatalf("Address failed: %v", err)
	}
	if address != "FdtiepBtP98oU2uPNgAzUoGwggUDdRXwJH2KJo3oUaix" {
		t.Errorf("address = %q", address)
	}

	req := api.last()
	if req.Method != http.MethodGet {
		t.Errorf("method = %s, want GET", req.Method)
	}
	if req.Path != "/v1/vault/accounts/0/SOL/addresses_paginated" {
		t.Errorf("path = %s", req.Path)
	}
	if ua := req.Header.Get("User-Agent"); ua != "fireblocks-signer-test" {
		t.Errorf("User-Agent = %q", ua)
	}
}

func TestAddress_NoAddress(t *testing.T) {
	_, server := newFakeApi(t, func(w http.ResponseWriter, r *http.Request) {
		writeJson(w, http.StatusOK, map[string]any{"addresses": []any{}})
	})
	client := newTestClient(t, server, 5*time.Second)

	if _, err := client.Address(context.Background(), "7", "SOL_TEST"); !errors.Is(err, ErrNoAddress) {
		t.Errorf("error = %v, want ErrNoAddress", err)
	}
}

func TestAddress_ServerError(t *testing.T) {
	_, server := newFakeApi(t, func(w http.ResponseWriter, r *http.Request) {
		writeJson(w, http.StatusBadRequest, map[string]any{"message": "vault not found"})
	})
	client := newTestClient(t, server, 5*time.Second)

	_, err := client.Address(context.Background(), "99", "SOL")
	if !errors.Is(err, ErrServer) {
		t.Fatalf("error = %v, want ErrServer", err)
	}
	if errors.Is(err, ErrResponseParse) {
		t.Error("server rejection classified as a parse error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %T is not *Error", err)
	}
	if apiErr.Message != "vault not found" || apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("got %d %q", apiErr.StatusCode, apiErr.Message)
	}
}

func TestAddress_MalformedBody(t *testing.T) {
	bodies := []string{
		`{"addresses":`,
		`{"addresses":[{"assetId":"SOL"}]}`,
		`[]`,
	}
	for _, body := range bodies {
		_, server := newFakeApi(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		client := newTestClient(t, server, 5*time.Second)

		if _, err := client.Addresses(context.Background(), "0", "SOL"); !errors.Is(err, ErrResponseParse) {
			t.Errorf("body %s: error = %v, want ErrResponseParse", body, err)
		}
	}
}

func TestAddress_RequiresIds(t *testing.T) {
	_, server := newFakeApi(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	client := newTestClient(t, server, 5*time.Second)

	if _, err := client.Address(context.Background(), "", "SOL"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestAddress_TransportError(t *testing.T) {
	_, server := newFakeApi(t, func(w http.ResponseWriter, r *http.Request) {})
	client := newTestClient(t, server, 5*time.Second)
	server.Close()

	_, err := client.Address(context.Background(), "0", "SOL")
	if !errors.Is(err, ErrTransport) {
		t.Errorf("error = %v, want ErrTransport", err)
	}
}

func TestAddress_Timeout(t *testing.T) {
	_, server := newFakeApi(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	client := newTestClient(t, server, 100*time.Millisecond)

	start := time.Now()
	_, err := client.Address(context.Background(), "0", "SOL")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("call took %s, want it bounded by the request timeout", elapsed)
	}
}
