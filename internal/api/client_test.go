package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinukshini/logview/internal/model"
)

type fakeREST struct {
	paths []string
	body  string
	err   error
}

func (f *fakeREST) DoWithContext(ctx context.Context, method, path string, body io.Reader, response interface{}) error {
	f.paths = append(f.paths, method+" "+path)
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.body), response)
}

func TestRepoPath(t *testing.T) {
	c := &Client{owner: "octocat", repo: "hello-world"}
	got := c.repoPath("actions/jobs/1")
	want := "repos/octocat/hello-world/actions/jobs/1"
	if got != want {
		t.Errorf("repoPath() = %q, want %q", got, want)
	}
}

func TestGetJob(t *testing.T) {
	rest := &fakeREST{body: `{"id": 7, "run_id": 3, "name": "build", "status": "in_progress",
		"started_at": "2024-01-02T03:04:05Z", "completed_at": null,
		"steps": [{"name": "checkout", "status": "completed", "conclusion": "success", "number": 1}]}`}
	c := &Client{rest: rest, owner: "o", repo: "r"}

	job, err := c.GetJob(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, []string{"GET repos/o/r/actions/jobs/7"}, rest.paths)
	assert.Equal(t, int64(7), job.ID)
	assert.Equal(t, "build", job.Name)
	assert.Equal(t, model.JobStatusInProgress, job.Status)
	assert.False(t, job.Completed())
	require.Len(t, job.Steps, 1)
	assert.Equal(t, model.ConclusionSuccess, job.Steps[0].Conclusion)
}

func TestGetJobWrapsError(t *testing.T) {
	boom := errors.New("boom")
	c := &Client{rest: &fakeREST{err: boom}, owner: "o", repo: "r"}

	_, err := c.GetJob(context.Background(), 9)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "get job 9")
}

func TestDownloadJobLogFollowsRedirect(t *testing.T) {
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		io.WriteString(w, "line 1\nline 2\n")
	}))
	defer storage.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/o/r/actions/jobs/5/logs", r.URL.Path)
		http.Redirect(w, r, storage.URL+"/blob", http.StatusFound)
	}))
	defer apiSrv.Close()

	httpClient := apiSrv.Client()
	httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	c := &Client{http: httpClient, apiURL: apiSrv.URL, owner: "o", repo: "r"}

	body, err := c.DownloadJobLog(context.Background(), 5)
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "line 1\nline 2\n", string(data))
}

func TestDownloadJobLogBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := &Client{http: srv.Client(), apiURL: srv.URL, owner: "o", repo: "r"}
	_, err := c.DownloadJobLog(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
