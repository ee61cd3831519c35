package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrRecordNotFound = errors.New("mirror: record not found")
	ErrUnauthorized   = errors.New("mirror: unauthorized")
)

// API is the slice of the server surface the mirror talks to.
type API interface {
	Health(ctx context.Context) error
	List(ctx context.Context, collection string) (json.RawMessage, error)
	Create(ctx context.Context, collection string, payload json.RawMessage) (json.RawMessage, error)
	Update(ctx context.Context, collection, id string, payload json.RawMessage) (json.RawMessage, error)
	Delete(ctx context.Context, collection, id string) error
}

// Client talks to the printtrack HTTP API using the response envelope.
type Client struct {
	baseURL string
	token   string
	hc      *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		hc:      &http.Client{Timeout: 15 * time.Second},
	}
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/health", nil)
	return err
}

func (c *Client) List(ctx context.Context, collection string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/"+collection, nil)
}

func (c *Client) Create(ctx context.Context, collection string, payload json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/api/"+collection, payload)
}

func (c *Client) Update(ctx context.Context, collection, id string, payload json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, "/api/"+collection+"/"+id, payload)
}

func (c *Client) Delete(ctx context.Context, collection, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/"+collection+"/"+id, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload json.RawMessage) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, ErrRecordNotFound
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	}

	var env apiEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		msg := "request failed"
		if env.Error != nil {
			msg = env.Error.Message
		}
		return nil, fmt.Errorf("%s: status %d", msg, resp.StatusCode)
	}
	return env.Data, nil
}
