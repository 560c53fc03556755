package service

import (
	"sort"
	"strings"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/onesky-sync/internal/domain"
)

const maxSuggestions = 3

// FilterManifest keeps the files whose names fuzzily match pattern, in
// manifest order. When nothing matches it returns up to three manifest
// names closest to the pattern by edit distance.
func FilterManifest(files []domain.RemoteFile, pattern string) ([]domain.RemoteFile, []string) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return files, nil
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = strings.ToLower(f.FileName)
	}

	matches := fuzzy.Find(strings.ToLower(pattern), names)
	if len(matches) == 0 {
		return nil, closestNames(files, pattern)
	}

	keep := make([]bool, len(files))
	for _, m := range matches {
		keep[m.Index] = true
	}
	filtered := make([]domain.RemoteFile, 0, len(matches))
	for i, f := range files {
		if keep[i] {
			filtered = append(filtered, f)
		}
	}
	return filtered, nil
}

func closestNames(files []domain.RemoteFile, pattern string) []string {
	type candidate struct {
		name     string
		distance int
	}
	lower := strings.ToLower(pattern)
	candidates := make([]candidate, 0, len(files))
	for _, f := range files {
		candidates = append(candidates, candidate{
			name:     f.FileName,
			distance: lfuzzy.LevenshteinDistance(lower, strings.ToLower(f.FileName)),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	n := min(len(candidates), maxSuggestions)
	out := make([]string, 0, n)
	for _, c := range candidates[:n] {
		out = append(out, c.name)
	}
	return out
}
