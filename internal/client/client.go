// Package client is a typed HTTP client for the purchasing hub API.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/Additional-Code/purchasehub/internal/config"
	"github.com/Additional-Code/purchasehub/internal/dto"
	"github.com/Additional-Code/purchasehub/internal/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// APIError is a non-2xx response. Message is the server's "message" field when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 APIError.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client talks to one API base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a Client from the CLI client settings.
func New(cfg config.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// WithHTTPClient swaps the underlying transport client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
			apiErr.Message = payload.Message
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Resource is the typed view of one /<resource> collection.
type Resource[T any] struct {
	c    *Client
	name string
}

// For returns the typed endpoints of resource.
func For[T any](c *Client, resource string) *Resource[T] {
	return &Resource[T]{c: c, name: resource}
}

func (r *Resource[T]) Name() string { return r.name }

func (r *Resource[T]) List(ctx context.Context) ([]*T, error) {
	out := make([]*T, 0)
	if err := r.c.do(ctx, http.MethodGet, "/"+r.name, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	out := new(T)
	if err := r.c.do(ctx, http.MethodGet, "/"+r.name+"/"+url.PathEscape(id), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[T]) FindByName(ctx context.Context, name string) (*T, error) {
	out := new(T)
	if err := r.c.do(ctx, http.MethodGet, "/"+r.name+"/name/"+url.PathEscape(name), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create posts body, typically a flat map produced by a form.
func (r *Resource[T]) Create(ctx context.Context, body any) (*T, error) {
	out := new(T)
	if err := r.c.do(ctx, http.MethodPost, "/"+r.name, body, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[T]) Update(ctx context.Context, id string, body any) (*T, error) {
	out := new(T)
	if err := r.c.do(ctx, http.MethodPut, "/"+r.name+"/"+url.PathEscape(id), body, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, "/"+r.name+"/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Suppliers() *Resource[entity.Supplier] { return For[entity.Supplier](c, "supplier") }
func (c *Client) Products() *Resource[entity.Product]   { return For[entity.Product](c, "product") }
func (c *Client) Users() *Resource[entity.User]         { return For[entity.User](c, "user") }
func (c *Client) Stores() *Resource[entity.Store]       { return For[entity.Store](c, "store") }
func (c *Client) Orders() *Resource[entity.Order]       { return For[entity.Order](c, "order") }
func (c *Client) Campaigns() *Resource[entity.Campaign] { return For[entity.Campaign](c, "campaign") }

// DetailedOrders lists orders with store_name and item_name resolved.
func (c *Client) DetailedOrders(ctx context.Context) ([]dto.OrderView, error) {
	out := make([]dto.OrderView, 0)
	if err := c.do(ctx, http.MethodGet, "/order/detailed", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DetailedCampaigns lists campaigns with store_name and item_name resolved.
func (c *Client) DetailedCampaigns(ctx context.Context) ([]dto.CampaignView, error) {
	out := make([]dto.CampaignView, 0)
	if err := c.do(ctx, http.MethodGet, "/campaign/detailed", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
