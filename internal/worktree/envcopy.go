package worktree

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// skipDirs are never descended into when scanning for env files.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
}

// FindEnvFiles returns paths (relative to root) of .env* files under
// root, descending at most maxDepth directory levels. Depth 0 means
// only the root directory itself. Only regular files match.
func FindEnvFiles(root string, maxDepth int) ([]string, error) {
	var found []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: skip it, don't fail the scan.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if rel == "." {
			return nil
		}

		depth := strings.Count(rel, string(filepath.Separator))
		if d.IsDir() {
			if skipDirs[d.Name()] || depth >= maxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(d.Name(), ".env") {
			found = append(found, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// CopyEnvFiles copies every .env* file found under srcRoot to the same
// relative location under dstRoot, creating intermediate directories.
// Per-file failures become warnings; only a failed scan is an error.
func CopyEnvFiles(srcRoot, dstRoot string, maxDepth int) (copied int, warnings []string, err error) {
	files, err := FindEnvFiles(srcRoot, maxDepth)
	if err != nil {
		return 0, nil, fmt.Errorf("scan env files: %w", err)
	}

	for _, rel := range files {
		if err := copyFile(filepath.Join(srcRoot, rel), filepath.Join(dstRoot, rel)); err != nil {
			warnings = append(warnings, fmt.Sprintf("copy %s: %v", rel, err))
			continue
		}
		copied++
	}
	return copied, warnings, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
