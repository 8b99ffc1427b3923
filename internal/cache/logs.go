package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	logFileName  = "log.txt"
	metaFileName = "meta.json"
)

// LogCache keeps the logs of completed jobs on disk, one directory per job.
type LogCache struct {
	dir     string
	maxSize int64         // max total cache size in bytes
	ttl     time.Duration // cache entry TTL
}

// CacheMeta stores metadata about a cached job log.
type CacheMeta struct {
	JobID       int64     `json:"job_id"`
	RunID       int64     `json:"run_id"`
	JobName     string    `json:"job_name"`
	Repo        string    `json:"repo"`
	Conclusion  string    `json:"conclusion"`
	CompletedAt time.Time `json:"completed_at"`
	StoredAt    time.Time `json:"stored_at"`
}

// CacheEntry represents a single cached log entry with computed fields.
type CacheEntry struct {
	CacheMeta
	LastAccessed time.Time
	Size         int64
	Path         string
}

func NewLogCache(dir string, maxSizeMB int, ttl time.Duration) (*LogCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log cache dir: %w", err)
	}
	return &LogCache{
		dir:     dir,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		ttl:     ttl,
	}, nil
}

func (lc *LogCache) jobDir(jobID int64) string {
	return filepath.Join(lc.dir, fmt.Sprintf("job-%d", jobID))
}

// HasJob reports whether an unexpired log is cached for the job.
func (lc *LogCache) HasJob(jobID int64) bool {
	info, err := os.Stat(filepath.Join(lc.jobDir(jobID), logFileName))
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < lc.ttl
}

// StoreJobLog writes the log and its metadata. The log is written to a
// temporary file first so a reader never sees a partial log.
func (lc *LogCache) StoreJobLog(meta CacheMeta, r io.Reader) error {
	dir := lc.jobDir(meta.JobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create job log dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "log-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp log: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write job log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close job log: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, logFileName)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("move job log: %w", err)
	}

	if meta.StoredAt.IsZero() {
		meta.StoredAt = time.Now()
	}
	return lc.WriteMeta(meta)
}

func (lc *LogCache) GetJobLog(jobID int64) (string, error) {
	data, err := os.ReadFile(filepath.Join(lc.jobDir(jobID), logFileName))
	if err != nil {
		return "", fmt.Errorf("read cached log for job %d: %w", jobID, err)
	}
	return string(data), nil
}

// WriteMeta writes meta.json in the entry's directory.
func (lc *LogCache) WriteMeta(meta CacheMeta) error {
	path := filepath.Join(lc.jobDir(meta.JobID), metaFileName)
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadMeta reads meta.json from a cache entry.
func (lc *LogCache) ReadMeta(jobID int64) (*CacheMeta, error) {
	path := filepath.Join(lc.jobDir(jobID), metaFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var meta CacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// ListEntries scans the cache directory and returns all entries.
func (lc *LogCache) ListEntries() ([]CacheEntry, error) {
	entries, err := os.ReadDir(lc.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var result []CacheEntry
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), "job-") {
			continue
		}
		jobID, err := strconv.ParseInt(strings.TrimPrefix(e.Name(), "job-"), 10, 64)
		if err != nil {
			continue
		}

		dirPath := filepath.Join(lc.dir, e.Name())
		entry := CacheEntry{Path: dirPath}
		if meta, err := lc.ReadMeta(jobID); err == nil {
			entry.CacheMeta = *meta
		}
		entry.JobID = jobID
		entry.Size = dirSize(dirPath)
		entry.LastAccessed = dirLastAccessed(dirPath)

		result = append(result, entry)
	}
	return result, nil
}

// DeleteEntry removes a single cache entry.
func (lc *LogCache) DeleteEntry(jobID int64) error {
	return os.RemoveAll(lc.jobDir(jobID))
}

// Evict removes expired entries, then the oldest entries until the cache
// fits its size cap.
func (lc *LogCache) Evict() error {
	entries, err := lc.ListEntries()
	if err != nil {
		return err
	}

	var totalSize int64
	now := time.Now()
	remaining := entries[:0]
	for _, e := range entries {
		if now.Sub(e.LastAccessed) > lc.ttl {
			if err := os.RemoveAll(e.Path); err != nil {
				log.Printf("cache: remove expired job %d: %v", e.JobID, err)
			}
			continue
		}
		totalSize += e.Size
		remaining = append(remaining, e)
	}
	entries = remaining

	if totalSize > lc.maxSize {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].LastAccessed.Before(entries[j].LastAccessed)
		})
		for _, e := range entries {
			if totalSize <= lc.maxSize {
				break
			}
			if err := os.RemoveAll(e.Path); err != nil {
				log.Printf("cache: remove job %d: %v", e.JobID, err)
				continue
			}
			totalSize -= e.Size
		}
	}
	return nil
}

// TotalSize returns total cache size in bytes.
func (lc *LogCache) TotalSize() (int64, error) {
	var total int64
	err := filepath.Walk(lc.dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip errors
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return 0, err
	}
	return total, nil
}

func dirSize(path string) int64 {
	var size int64
	filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

func dirLastAccessed(path string) time.Time {
	var latest time.Time
	filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
		return nil
	})
	return latest
}
