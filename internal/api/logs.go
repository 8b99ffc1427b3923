package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// DownloadJobLog downloads the plain-text log for a job.
// GitHub returns a 302 redirect to a short-lived log URL.
func (c *Client) DownloadJobLog(ctx context.Context, jobID int64) (io.ReadCloser, error) {
	return c.downloadLogs(ctx, c.repoPath(fmt.Sprintf("actions/jobs/%d/logs", jobID)))
}

func (c *Client) downloadLogs(ctx context.Context, apiPath string) (io.ReadCloser, error) {
	url := fmt.Sprintf("%s/%s", c.apiURL, apiPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build log request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("log request failed: %w", err)
	}

	// Follow the redirect to the log URL (no auth needed)
	if resp.StatusCode == http.StatusFound || resp.StatusCode == http.StatusTemporaryRedirect {
		location := resp.Header.Get("Location")
		resp.Body.Close()
		if location == "" {
			return nil, fmt.Errorf("redirect with no Location header")
		}
		redirectReq, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, fmt.Errorf("create redirect request: %w", err)
		}
		resp, err = http.DefaultClient.Do(redirectReq)
		if err != nil {
			return nil, fmt.Errorf("follow redirect: %w", err)
		}
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d downloading logs", resp.StatusCode)
	}

	return resp.Body, nil
}
