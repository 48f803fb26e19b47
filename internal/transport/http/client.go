package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"quorumkv/internal/replicarpc"
)

// ReplicaClient is an HTTP implementation of replicarpc.ReplicaClient for
// one replica. It is deliberately thin: every method is one request, one
// decode, no retry — retry and timeout policy belong to the caller's
// context.Context deadline, set per the quorum fan-out engine.
type ReplicaClient struct {
	address    string
	baseURL    string
	httpClient *http.Client
}

// NewReplicaClient creates a stub for the replica reachable at baseURL
// (e.g. "http://10.0.0.1:8080"). address is the value reported by
// Address(), typically the same host:port used to build baseURL.
func NewReplicaClient(address, baseURL string) *ReplicaClient {
	return &ReplicaClient{
		address:    address,
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// Address returns the replica's identifying address.
func (c *ReplicaClient) Address() string {
	return c.address
}

func (c *ReplicaClient) WriteQuery(ctx context.Context, key string) (replicarpc.WriteQueryReply, error) {
	var reply replicarpc.WriteQueryReply
	err := c.doGET(ctx, fmt.Sprintf("%s/rpc/write-query/%s", c.baseURL, url.PathEscape(key)), &reply)
	return reply, err
}

func (c *ReplicaClient) ReadQuery(ctx context.Context, key string) (replicarpc.ReadQueryReply, error) {
	var reply replicarpc.ReadQueryReply
	err := c.doGET(ctx, fmt.Sprintf("%s/rpc/read-query/%s", c.baseURL, url.PathEscape(key)), &reply)
	return reply, err
}

func (c *ReplicaClient) WriteProp(ctx context.Context, req replicarpc.WritePropRequest) (replicarpc.WritePropReply, error) {
	var reply replicarpc.WritePropReply
	err := c.doPOST(ctx, fmt.Sprintf("%s/rpc/write-prop", c.baseURL), req, &reply)
	return reply, err
}

func (c *ReplicaClient) AcquireLock(ctx context.Context, req replicarpc.LockRequest) (replicarpc.AcquireLockReply, error) {
	var reply replicarpc.AcquireLockReply
	err := c.doPOST(ctx, fmt.Sprintf("%s/rpc/acquire-lock", c.baseURL), req, &reply)
	return reply, err
}

func (c *ReplicaClient) ReleaseLock(ctx context.Context, req replicarpc.LockRequest) (replicarpc.ReleaseLockReply, error) {
	var reply replicarpc.ReleaseLockReply
	err := c.doPOST(ctx, fmt.Sprintf("%s/rpc/release-lock", c.baseURL), req, &reply)
	return reply, err
}

func (c *ReplicaClient) doGET(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *ReplicaClient) doPOST(ctx context.Context, url string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *ReplicaClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
