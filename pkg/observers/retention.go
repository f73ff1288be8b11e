package observers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RetentionPolicy bounds how long turn artifacts (timelines, usage files)
// stay on disk.
type RetentionPolicy struct {
	Dir    string
	MaxAge time.Duration
	// Suffixes limits purging to matching file names. Empty means the
	// artifacts written by this package.
	Suffixes []string
}

var artifactSuffixes = []string{".jsonl", ".usage.json"}

// Purge removes artifacts older than MaxAge relative to now and returns how
// many files were deleted.
func (p RetentionPolicy) Purge(now time.Time) (int, error) {
	if p.Dir == "" || p.MaxAge <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(p.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	suffixes := p.Suffixes
	if len(suffixes) == 0 {
		suffixes = artifactSuffixes
	}
	var removed int
	var errs error
	cutoff := now.Add(-p.MaxAge)
	for _, entry := range entries {
		if entry.IsDir() || !hasAnySuffix(entry.Name(), suffixes) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(p.Dir, entry.Name())); err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		removed++
	}
	return removed, errs
}

// PurgeArtifacts removes artifacts in dir older than maxAge.
func PurgeArtifacts(dir string, maxAge time.Duration) (int, error) {
	return RetentionPolicy{Dir: dir, MaxAge: maxAge}.Purge(time.Now())
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
