// Package clients is a typed REST client for the checkout API.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/model"
)

// APIError is a non-2xx answer from the API. Detail is the server's
// message and may be empty.
type APIError struct {
	Status        int
	Detail        string
	Fields        map[string]string
	CorrelationID string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("unexpected status %d", e.Status)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// ErrInvalidID is returned for ids that cannot name a single path segment.
var ErrInvalidID = errors.New("invalid id")

// pathID escapes id as one path segment so it can never address another
// route.
func pathID(id string) (string, error) {
	if strings.TrimSpace(id) == "" || id == "." || id == ".." {
		return "", errors.Wrapf(ErrInvalidID, "%q", id)
	}
	return url.PathEscape(id), nil
}

type Client struct {
	Name    string
	BaseURL *url.URL
	HTTP    *http.Client
	Token   string
}

func NewClient(name, baseURL, token string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s base url %q", name, baseURL)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("invalid %s base url %q", name, baseURL)
	}
	return &Client{Name: name, BaseURL: u, HTTP: &http.Client{Timeout: timeout}, Token: token}, nil
}

// Do sends in as JSON (when not nil) and decodes a 2xx body into out
// (when not nil).
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(raw)
	}

	u := c.BaseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if cid := middleware.GetCorrelationID(ctx); cid != "" {
		req.Header.Set(middleware.HeaderCorrelationID, cid)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decodeAPIError(res)
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s %s", method, path)
	}
	return nil
}

func decodeAPIError(res *http.Response) error {
	apiErr := &APIError{Status: res.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))

	var body model.ErrorResponse
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Detail = body.Detail
		apiErr.Fields = body.Fields
		apiErr.CorrelationID = body.CorrelationID
	}
	if apiErr.CorrelationID == "" {
		apiErr.CorrelationID = res.Header.Get(middleware.HeaderCorrelationID)
	}
	return apiErr
}
