package dhan

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_OptionChain(t *testing.T) {
	var gotPath string
	var gotReq OptionChainRequest
	var gotClientID, gotToken string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotClientID = r.Header.Get("client-id")
		gotToken = r.Header.Get("access-token")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}

		resp := map[string]any{
			"status": "success",
			"data": map[string]any{
				"last_price": 48234.5,
				"oc": map[string]any{
					"48200.000000": map[string]any{
						"ce": map[string]any{
							"last_price":  312.4,
							"oi":          120000,
							"previous_oi": 100000,
							"greeks": map[string]any{
								"delta": 0.52,
								"gamma": 0.0004,
							},
						},
						"pe": map[string]any{
							"last_price": 298.1,
							"oi":         95000,
						},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, "client-1", "token-1", WithTimeout(5*time.Second))

	chain, err := client.OptionChain(context.Background(), OptionChainRequest{
		UnderlyingScrip: 26009,
		UnderlyingSeg:   "IDX_I",
		Expiry:          "2025-01-30",
	})
	if err != nil {
		t.Fatalf("OptionChain: %v", err)
	}

	if gotPath != "/optionchain" {
		t.Errorf("path = %s, want /optionchain", gotPath)
	}
	if gotClientID != "client-1" || gotToken != "token-1" {
		t.Errorf("auth headers = (%q, %q), want (client-1, token-1)", gotClientID, gotToken)
	}
	if gotReq.UnderlyingScrip != 26009 || gotReq.UnderlyingSeg != "IDX_I" || gotReq.Expiry != "2025-01-30" {
		t.Errorf("request body = %+v", gotReq)
	}

	if chain.LastPrice != 48234.5 {
		t.Errorf("LastPrice = %v, want 48234.5", chain.LastPrice)
	}
	pair, ok := chain.Strikes["48200.000000"]
	if !ok {
		t.Fatalf("strike 48200.000000 missing, got %v", chain.Strikes)
	}
	if pair.CE.OI != 120000 {
		t.Errorf("CE.OI = %v, want 120000", pair.CE.OI)
	}
	if pair.CE.Greeks.Delta != 0.52 {
		t.Errorf("CE.Greeks.Delta = %v, want 0.52", pair.CE.Greeks.Delta)
	}
	// Absent fields default to zero.
	if pair.PE.TopAskPrice != 0 || pair.PE.ImpliedVolatility != 0 {
		t.Errorf("absent PE fields = %+v, want zeros", pair.PE)
	}
}

func TestClient_OptionChain_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "id", "token")

	_, err := client.OptionChain(context.Background(), OptionChainRequest{})
	if err == nil {
		t.Fatal("OptionChain returned nil error, want transport error")
	}

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error = %T (%v), want *TransportError", err, err)
	}
	if te.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want %d", te.StatusCode, http.StatusTooManyRequests)
	}
}

func TestClient_OptionChain_UpstreamRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"status":    "failure",
			"remarks":   "invalid expiry date",
			"errorCode": "DH-905",
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, "id", "token")

	_, err := client.OptionChain(context.Background(), OptionChainRequest{})
	if err == nil {
		t.Fatal("OptionChain returned nil error, want upstream error")
	}

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %T (%v), want *UpstreamError", err, err)
	}
	if ue.Status != "failure" || ue.ErrorCode != "DH-905" {
		t.Errorf("UpstreamError = %+v", ue)
	}
}

func TestClient_OptionChain_ConnectionRefused(t *testing.T) {
	// Point at a closed server.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "id", "token", WithTimeout(time.Second))

	_, err := client.OptionChain(context.Background(), OptionChainRequest{})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error = %T (%v), want *TransportError", err, err)
	}
	if te.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for failed request", te.StatusCode)
	}
}

func TestClient_ExpiryList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/optionchain/expirylist" {
			t.Errorf("path = %s, want /optionchain/expirylist", r.URL.Path)
		}
		resp := map[string]any{
			"status": "success",
			"data":   []string{"2025-01-30", "2025-02-06", "2025-02-27"},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, "id", "token")

	expiries, err := client.ExpiryList(context.Background(), 26009, "IDX_I")
	if err != nil {
		t.Fatalf("ExpiryList: %v", err)
	}
	if len(expiries) != 3 || expiries[0] != "2025-01-30" {
		t.Errorf("expiries = %v", expiries)
	}
}
