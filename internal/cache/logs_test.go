package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, maxSizeMB int, ttl time.Duration) *LogCache {
	t.Helper()
	lc, err := NewLogCache(filepath.Join(t.TempDir(), "logs"), maxSizeMB, ttl)
	require.NoError(t, err)
	return lc
}

func TestStoreAndGetJobLog(t *testing.T) {
	lc := newTestCache(t, 10, time.Hour)
	assert.False(t, lc.HasJob(42))

	meta := CacheMeta{JobID: 42, RunID: 7, JobName: "build", Repo: "o/r", Conclusion: "failure"}
	require.NoError(t, lc.StoreJobLog(meta, strings.NewReader("step 1\nstep 2\n")))

	assert.True(t, lc.HasJob(42))
	content, err := lc.GetJobLog(42)
	require.NoError(t, err)
	assert.Equal(t, "step 1\nstep 2\n", content)

	got, err := lc.ReadMeta(42)
	require.NoError(t, err)
	assert.Equal(t, "build", got.JobName)
	assert.Equal(t, "failure", got.Conclusion)
	assert.False(t, got.StoredAt.IsZero())
}

func TestGetJobLogMissing(t *testing.T) {
	lc := newTestCache(t, 10, time.Hour)
	_, err := lc.GetJobLog(1)
	assert.Error(t, err)
}

func TestHasJobRespectsTTL(t *testing.T) {
	lc := newTestCache(t, 10, time.Minute)
	require.NoError(t, lc.StoreJobLog(CacheMeta{JobID: 1}, strings.NewReader("x")))

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(lc.jobDir(1), logFileName), old, old))
	assert.False(t, lc.HasJob(1))
}

func TestListAndDeleteEntries(t *testing.T) {
	lc := newTestCache(t, 10, time.Hour)
	require.NoError(t, lc.StoreJobLog(CacheMeta{JobID: 1, JobName: "a"}, strings.NewReader("aa")))
	require.NoError(t, lc.StoreJobLog(CacheMeta{JobID: 2, JobName: "b"}, strings.NewReader("bbbb")))
	require.NoError(t, os.MkdirAll(filepath.Join(lc.dir, "unrelated"), 0o755))

	entries, err := lc.ListEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NoError(t, lc.DeleteEntry(1))
	entries, err = lc.ListEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].JobID)
	assert.Equal(t, "b", entries[0].JobName)
}

func TestEvictRemovesExpiredEntries(t *testing.T) {
	lc := newTestCache(t, 10, time.Minute)
	require.NoError(t, lc.StoreJobLog(CacheMeta{JobID: 1}, strings.NewReader("old")))
	require.NoError(t, lc.StoreJobLog(CacheMeta{JobID: 2}, strings.NewReader("new")))
	ageEntry(t, lc, 1, time.Hour)

	require.NoError(t, lc.Evict())

	assert.NoDirExists(t, lc.jobDir(1))
	assert.DirExists(t, lc.jobDir(2))
}

func TestEvictEnforcesSizeCapOldestFirst(t *testing.T) {
	lc := newTestCache(t, 1, time.Hour)
	big := strings.Repeat("x", 600*1024)
	require.NoError(t, lc.StoreJobLog(CacheMeta{JobID: 1}, strings.NewReader(big)))
	require.NoError(t, lc.StoreJobLog(CacheMeta{JobID: 2}, strings.NewReader(big)))
	ageEntry(t, lc, 1, 10*time.Minute)

	require.NoError(t, lc.Evict())

	assert.NoDirExists(t, lc.jobDir(1))
	assert.DirExists(t, lc.jobDir(2))

	total, err := lc.TotalSize()
	require.NoError(t, err)
	assert.LessOrEqual(t, total, lc.maxSize)
}

func ageEntry(t *testing.T, lc *LogCache, jobID int64, age time.Duration) {
	t.Helper()
	old := time.Now().Add(-age)
	for _, name := range []string{logFileName, metaFileName} {
		require.NoError(t, os.Chtimes(filepath.Join(lc.jobDir(jobID), name), old, old))
	}
	require.NoError(t, os.Chtimes(lc.jobDir(jobID), old, old))
}
