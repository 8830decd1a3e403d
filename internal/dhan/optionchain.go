package dhan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/optiondata/chaincache/internal/model"
)

// statusSuccess is the payload-level success marker.
const statusSuccess = "success"

// OptionChainRequest identifies one option chain: an underlying security,
// its exchange segment and a contract expiry date (YYYY-MM-DD).
type OptionChainRequest struct {
	UnderlyingScrip int    `json:"UnderlyingScrip"`
	UnderlyingSeg   string `json:"UnderlyingSeg"`
	Expiry          string `json:"Expiry"`
}

// envelope is the provider's tagged success/failure wrapper.
type envelope struct {
	Status    string          `json:"status"`
	Remarks   string          `json:"remarks"`
	ErrorCode string          `json:"errorCode"`
	Data      json.RawMessage `json:"data"`
}

// OptionChain fetches the raw per-strike option chain for one
// underlying/expiry. It performs exactly one HTTP call and does not
// retry.
func (c *Client) OptionChain(ctx context.Context, req OptionChainRequest) (*model.RawChain, error) {
	const path = "/optionchain"

	env, err := c.post(ctx, path, req)
	if err != nil {
		return nil, err
	}

	var chain model.RawChain
	if err := json.Unmarshal(env.Data, &chain); err != nil {
		return nil, &TransportError{Op: path, Err: fmt.Errorf("decode chain: %w", err)}
	}

	return &chain, nil
}

// ExpiryList fetches the available expiry dates for an underlying.
// Used at startup to sanity-check the configured expiry.
func (c *Client) ExpiryList(ctx context.Context, underlyingScrip int, underlyingSeg string) ([]string, error) {
	const path = "/optionchain/expirylist"

	body := struct {
		UnderlyingScrip int    `json:"UnderlyingScrip"`
		UnderlyingSeg   string `json:"UnderlyingSeg"`
	}{underlyingScrip, underlyingSeg}

	env, err := c.post(ctx, path, body)
	if err != nil {
		return nil, err
	}

	var expiries []string
	if err := json.Unmarshal(env.Data, &expiries); err != nil {
		return nil, &TransportError{Op: path, Err: fmt.Errorf("decode expiries: %w", err)}
	}

	return expiries, nil
}

// post performs one JSON POST and unwraps the provider envelope.
func (c *Client) post(ctx context.Context, path string, body any) (*envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &TransportError{Op: path, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Op: path, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("access-token", c.accessToken)
	req.Header.Set("client-id", c.clientID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: path, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Op: path, StatusCode: resp.StatusCode}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &TransportError{Op: path, Err: fmt.Errorf("decode envelope: %w", err)}
	}

	if env.Status != statusSuccess {
		return nil, &UpstreamError{
			Op:        path,
			Status:    env.Status,
			ErrorCode: env.ErrorCode,
			Message:   env.Remarks,
		}
	}

	return &env, nil
}
