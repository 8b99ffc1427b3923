package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	ghAPI "github.com/cli/go-gh/v2/pkg/api"
)

const defaultAPIURL = "https://api.github.com"

// restClient is the subset of the go-gh REST client used here.
type restClient interface {
	DoWithContext(ctx context.Context, method string, path string, body io.Reader, response interface{}) error
}

type Client struct {
	rest   restClient
	http   *http.Client
	apiURL string
	owner  string
	repo   string
}

func NewClient(owner, repo string) (*Client, error) {
	rest, err := ghAPI.DefaultRESTClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client (is gh authenticated?): %w", err)
	}
	httpClient, err := ghAPI.DefaultHTTPClient()
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}
	// Log downloads answer with a redirect to a short-lived URL that must be
	// fetched without the GitHub auth header.
	httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &Client{rest: rest, http: httpClient, apiURL: defaultAPIURL, owner: owner, repo: repo}, nil
}

func (c *Client) repoPath(path string) string {
	return fmt.Sprintf("repos/%s/%s/%s", c.owner, c.repo, path)
}

func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.rest.DoWithContext(ctx, http.MethodGet, c.repoPath(path), nil, result)
}
