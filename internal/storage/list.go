package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// CachedIssue identifies one issue directory in the cache.
type CachedIssue struct {
	Owner  string
	Repo   string
	Number int64
	Dir    string
}

// Slug returns the owner/repo pair.
func (c *CachedIssue) Slug() string {
	return c.Owner + "/" + c.Repo
}

// ListCached walks <cacheRoot>/<owner>/<repo>/<number> and returns
// every issue directory holding a metadata.json, sorted by owner, repo
// and issue number.
func ListCached(cacheRoot string) ([]CachedIssue, error) {
	owners, err := os.ReadDir(cacheRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", cacheRoot, err)
	}

	var cached []CachedIssue
	for _, ownerEntry := range owners {
		if !ownerEntry.IsDir() {
			continue
		}
		ownerDir := filepath.Join(cacheRoot, ownerEntry.Name())
		repos, err := os.ReadDir(ownerDir)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", ownerDir, err)
		}
		for _, repoEntry := range repos {
			if !repoEntry.IsDir() {
				continue
			}
			repoDir := filepath.Join(ownerDir, repoEntry.Name())
			numbers, err := os.ReadDir(repoDir)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", repoDir, err)
			}
			for _, numEntry := range numbers {
				if !numEntry.IsDir() {
					continue
				}
				number, err := strconv.ParseInt(numEntry.Name(), 10, 64)
				if err != nil {
					continue
				}
				dir := filepath.Join(repoDir, numEntry.Name())
				if _, err := os.Stat(filepath.Join(dir, metadataFile)); err != nil {
					continue
				}
				cached = append(cached, CachedIssue{
					Owner:  ownerEntry.Name(),
					Repo:   repoEntry.Name(),
					Number: number,
					Dir:    dir,
				})
			}
		}
	}

	sort.Slice(cached, func(i, j int) bool {
		if cached[i].Owner != cached[j].Owner {
			return cached[i].Owner < cached[j].Owner
		}
		if cached[i].Repo != cached[j].Repo {
			return cached[i].Repo < cached[j].Repo
		}
		return cached[i].Number < cached[j].Number
	})
	return cached, nil
}
