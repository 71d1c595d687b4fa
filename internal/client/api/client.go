// Package api is the HTTP client for the SchedVault server. It mirrors the
// server's JSON surface and resolves error payloads into plain Go errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/schedvault/schedvault/internal/common"
	"github.com/schedvault/schedvault/internal/server/models"
)

// CreateRecordRequest carries the material needed to register a record:
// well-formedness proofs accompany both endpoint ciphertexts.
type CreateRecordRequest struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	EncryptedStart []byte `json:"encrypted_start"`
	StartProof     []byte `json:"start_proof"`
	EncryptedEnd   []byte `json:"encrypted_end"`
	EndProof       []byte `json:"end_proof"`
	PublicDuration uint32 `json:"public_duration"`
}

// RevealRequest carries claimed cleartext values and their decryption proofs.
type RevealRequest struct {
	ClaimedStart []byte `json:"claimed_start"`
	StartProof   []byte `json:"start_proof"`
	ClaimedEnd   []byte `json:"claimed_end"`
	EndProof     []byte `json:"end_proof"`
}

// AvailabilityRequest carries an encrypted query instant and its proof.
type AvailabilityRequest struct {
	EncryptedQuery []byte `json:"encrypted_query"`
	QueryProof     []byte `json:"query_proof"`
}

// Handles identifies a record's two ciphertext handles by reference.
type Handles struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type listResponse struct {
	IDs []string `json:"ids"`
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client talks to a SchedVault server over HTTP.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New returns a Client for the server at baseURL. The token, if non-empty,
// is sent on every request; only authenticated endpoints require it.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(common.AccessTokenHeaderName, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// decodeError maps a non-2xx response to an error, keeping the server's
// message when the payload carries one.
func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	var er errorResponse
	if err := json.Unmarshal(data, &er); err == nil && er.Error != "" {
		return fmt.Errorf("server: %s (status %d)", er.Error, resp.StatusCode)
	}
	return fmt.Errorf("server: unexpected status %d", resp.StatusCode)
}

// CreateRecord registers a new record and returns its public view.
func (c *Client) CreateRecord(ctx context.Context, req CreateRecordRequest) (*models.RecordView, error) {
	var view models.RecordView
	if err := c.do(ctx, http.MethodPost, "/api/records", req, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// GetRecord fetches the public view of one record.
func (c *Client) GetRecord(ctx context.Context, id string) (*models.RecordView, error) {
	var view models.RecordView
	if err := c.do(ctx, http.MethodGet, "/api/records/"+id, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ListRecords returns the ids of all stored records in insertion order.
func (c *Client) ListRecords(ctx context.Context) ([]string, error) {
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, "/api/records", nil, &resp); err != nil {
		return nil, err
	}
	return resp.IDs, nil
}

// Reveal submits decryption proofs for both endpoints of a record and
// returns the updated view on success.
func (c *Client) Reveal(ctx context.Context, id string, req RevealRequest) (*models.RecordView, error) {
	var view models.RecordView
	if err := c.do(ctx, http.MethodPost, "/api/records/"+id+"/reveal", req, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// CheckAvailability asks whether the encrypted query instant falls outside
// the record's closed interval.
func (c *Client) CheckAvailability(ctx context.Context, id string, req AvailabilityRequest) (bool, error) {
	var resp availabilityResponse
	if err := c.do(ctx, http.MethodPost, "/api/records/"+id+"/availability", req, &resp); err != nil {
		return false, err
	}
	return resp.Available, nil
}

// GetHandles fetches a record's ciphertext handle references. Requires a token.
func (c *Client) GetHandles(ctx context.Context, id string) (*Handles, error) {
	var h Handles
	if err := c.do(ctx, http.MethodGet, "/api/records/"+id+"/handles", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
