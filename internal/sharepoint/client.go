package sharepoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sehadigital/roomstatus/internal/proxy"
	"github.com/sehadigital/roomstatus/pkg/apperrors"
	"github.com/sehadigital/roomstatus/pkg/config"
)

// Well-known list names accepted by the client.
const (
	ListWards   = "wards"
	ListRooms   = "rooms"
	ListHistory = "history"
)

// ListStore is the list-oriented CRUD surface the aggregator services
// consume. Filter expressions are caller-built; the client URL-encodes
// them but performs no validation or escaping of the filter syntax.
type ListStore interface {
	// ListItems fetches a list's items, optionally filtered, decoding the
	// results array into out (a pointer to a slice).
	ListItems(ctx context.Context, list, filter string, out any) error

	// AddItem creates an item from the given field map. The created-item
	// representation is decoded into out when out is non-nil.
	AddItem(ctx context.Context, list string, fields, out any) error

	// UpdateItem merges the given fields into an existing item. The update
	// is unconditional: a match-any precondition is sent, so concurrent
	// editors are last-writer-wins.
	UpdateItem(ctx context.Context, list string, id int, fields any) error

	// DeleteItem removes an item by id.
	DeleteItem(ctx context.Context, list string, id int) error
}

// Client talks to the list store exclusively through the forwarding
// proxy. It holds no credentials.
type Client struct {
	proxyURL   string
	lists      config.ListPaths
	httpClient *http.Client
}

var _ ListStore = (*Client)(nil)

// NewClient creates a list-store client from explicit configuration.
func NewClient(cfg config.ClientConfig, lists config.ListPaths) *Client {
	return &Client{
		proxyURL:   strings.TrimRight(cfg.ProxyURL, "/"),
		lists:      lists,
		httpClient: &http.Client{},
	}
}

// endpoint returns the proxied URL of a list's API root.
func (c *Client) endpoint(list string) (string, error) {
	var path string
	switch list {
	case ListWards:
		path = c.lists.Wards
	case ListRooms:
		path = c.lists.Rooms
	case ListHistory:
		path = c.lists.History
	default:
		return "", apperrors.NewValidationError(fmt.Sprintf("unknown list %q", list))
	}
	return c.proxyURL + proxy.ForwardPrefix + path, nil
}

// ListItems implements ListStore.
func (c *Client) ListItems(ctx context.Context, list, filter string, out any) error {
	endpoint, err := c.endpoint(list)
	if err != nil {
		return err
	}

	endpoint += "/items"
	if filter != "" {
		endpoint += "?$filter=" + url.QueryEscape(filter)
	}

	payload, err := c.do(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return err
	}

	results, err := resultsArray(payload)
	if err != nil {
		return err
	}
	if results == nil {
		// The store returned no results key; leave out empty.
		return nil
	}
	return json.Unmarshal(results, out)
}

// AddItem implements ListStore.
func (c *Client) AddItem(ctx context.Context, list string, fields, out any) error {
	endpoint, err := c.endpoint(list)
	if err != nil {
		return err
	}

	payload, err := c.do(ctx, http.MethodPost, endpoint+"/items", nil, fields)
	if err != nil {
		return err
	}
	if out == nil || len(payload) == 0 {
		return nil
	}
	return json.Unmarshal(payload, out)
}

// UpdateItem implements ListStore.
func (c *Client) UpdateItem(ctx context.Context, list string, id int, fields any) error {
	endpoint, err := c.endpoint(list)
	if err != nil {
		return err
	}

	headers := map[string]string{
		"X-HTTP-Method": "MERGE",
		"IF-MATCH":      "*",
	}
	_, err = c.do(ctx, http.MethodPost, fmt.Sprintf("%s/items(%d)", endpoint, id), headers, fields)
	return err
}

// DeleteItem implements ListStore.
func (c *Client) DeleteItem(ctx context.Context, list string, id int) error {
	endpoint, err := c.endpoint(list)
	if err != nil {
		return err
	}

	headers := map[string]string{
		"X-HTTP-Method": "DELETE",
		"IF-MATCH":      "*",
	}
	_, err = c.do(ctx, http.MethodPost, fmt.Sprintf("%s/items(%d)", endpoint, id), headers, nil)
	return err
}

// do performs one proxied request and returns the response payload with a
// single envelope level already unwrapped.
func (c *Client) do(ctx context.Context, method, endpoint string, headers map[string]string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.NewInternalError("encode request body", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, apperrors.NewInternalError("build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewUnavailableError("proxy unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("SharePoint API error: %s", resp.Status), nil)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewUnavailableError("read response", err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}

	return unwrap(payload)
}
