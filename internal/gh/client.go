// Package gh provides a GraphQL client for the GitHub operations the status
// workflow needs: listing pull requests with their closing issues, reading an
// issue's project items and setting single-select field values.
package gh

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/machinebox/graphql"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultEndpoint is the public GitHub GraphQL endpoint.
const DefaultEndpoint = "https://api.github.com/graphql"

// Client is a GitHub GraphQL API client.
// It is built once per process and shared by every query.
type Client struct {
	gql      *graphql.Client
	endpoint string
	base     http.RoundTripper
	log      *zap.SugaredLogger
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the GraphQL endpoint (e.g. for GitHub Enterprise).
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithTransport sets the round tripper used under the authenticating transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.base = rt
		}
	}
}

// WithLogger routes request and response traces to the given logger at debug level.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a new GitHub GraphQL client authenticated with token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		base:     http.DefaultTransport,
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}

	// The token is attached below the graphql client so its trace log never
	// sees the Authorization header.
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   &statusTransport{base: c.base},
		},
	}

	c.gql = graphql.NewClient(c.endpoint, graphql.WithHTTPClient(httpClient))
	c.gql.Log = func(s string) {
		c.log.Debug(s)
	}

	return c
}

// makeRequest executes a GraphQL request and decodes the data into resp.
// Failures are returned as *TransportError or *DecodeError.
func (c *Client) makeRequest(ctx context.Context, req *graphql.Request, resp interface{}) error {
	if err := c.gql.Run(ctx, req, resp); err != nil {
		return classify(err)
	}
	return nil
}

// statusTransport fails requests that come back with a non-2xx status.
// The graphql client only looks at the status code when the body is not JSON,
// so an error document such as {"message":"Bad credentials"} would otherwise
// decode into an empty response.
type statusTransport struct {
	base http.RoundTripper
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return res, nil
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return nil, &StatusError{
		StatusCode: res.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

// classify maps an error from the graphql client onto the package error types.
func classify(err error) error {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return &TransportError{StatusCode: statusErr.StatusCode, Err: statusErr}
	}
	if isDecodeError(err) {
		return &DecodeError{Err: err}
	}
	return &TransportError{Err: err}
}
