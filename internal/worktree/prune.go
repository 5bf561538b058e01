package worktree

import (
	"os"
	"path/filepath"
	"strings"
)

// PruneEmptyDirs walks upward from start, removing each directory that
// is completely empty, and stops at the first non-empty directory, at
// home, or once the path leaves the worktree container (no remaining
// path element named "<something><containerSuffix>" at or above the
// current directory).
//
// The container-name check is a textual heuristic, not a structural
// guarantee: it bounds deletion to directory trees this tool plausibly
// created. A recorded creation manifest would be more precise.
// Returns every directory removed, for caller auditing.
func PruneEmptyDirs(start, home, containerSuffix string) []string {
	var removed []string

	dir := filepath.Clean(start)
	for {
		if dir == "/" || dir == "." || dir == filepath.Clean(home) {
			break
		}
		if !insideContainer(dir, containerSuffix) {
			break
		}

		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			break
		}
		if err := os.Remove(dir); err != nil {
			break
		}
		removed = append(removed, dir)
		dir = filepath.Dir(dir)
	}

	return removed
}

// insideContainer reports whether any element of dir's path, including
// its own basename, carries the container suffix.
func insideContainer(dir, containerSuffix string) bool {
	for _, elem := range strings.Split(filepath.ToSlash(dir), "/") {
		if elem != containerSuffix && strings.HasSuffix(elem, containerSuffix) {
			return true
		}
	}
	return false
}
