package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/jaxron/axonet/pkg/client"
	"go.uber.org/zap"
)

var (
	// ErrNotFound indicates the requested entity does not exist on the service.
	ErrNotFound = errors.New("entity not found")
	// ErrUnauthorized indicates the service rejected the caller's identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRequestFailed indicates a non-success response from the service.
	ErrRequestFailed = errors.New("request failed")
)

// Client provides typed bindings for the community API. It owns no state
// beyond connection configuration; all durable state lives on the service.
type Client struct {
	http    *client.Client
	baseURL string
	token   string
	logger  *zap.Logger
}

// NewClient creates a Client for the service at baseURL. The token, when
// non-empty, is attached as a bearer credential to mutating calls.
func NewClient(httpClient *client.Client, baseURL, token string, logger *zap.Logger) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		logger:  logger.Named("api"),
	}
}

// url joins the base URL with a path.
func (c *Client) url(path string) string {
	return c.baseURL + path
}

// authorized adds the bearer token to a request when one is configured.
func (c *Client) authorized(req *client.Request) *client.Request {
	if c.token != "" {
		req = req.Header("Authorization", "Bearer "+c.token)
	}

	return req
}

// do executes a built request, maps the response status, and decodes the
// body into out when out is non-nil. The status check runs before any
// decoding, so an error response with an empty or non-JSON body still maps
// to the status sentinels instead of a decode error.
func (c *Client) do(ctx context.Context, req *client.Request, out any) error {
	resp, err := req.Do(ctx)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response from %s: %w", resp.Request.URL.Path, err)
	}

	return sonic.Unmarshal(body, out)
}

// checkStatus maps non-success responses to sentinel errors.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, resp.Request.URL.Path)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, resp.Request.URL.Path)
	default:
		return fmt.Errorf("%w: HTTP %d from %s", ErrRequestFailed, resp.StatusCode, resp.Request.URL.Path)
	}
}
