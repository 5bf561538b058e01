package worktree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arbor-cli/arbor/internal/exec"
)

// PackageManager describes a dependency manager detected via its lock
// file.
type PackageManager struct {
	Name     string
	LockFile string
}

// packageManagers is the fixed detection priority order; first lock
// file found wins.
var packageManagers = []PackageManager{
	{Name: "pnpm", LockFile: "pnpm-lock.yaml"},
	{Name: "yarn", LockFile: "yarn.lock"},
	{Name: "npm", LockFile: "package-lock.json"},
}

// DetectPackageManager returns the manager whose lock file exists in
// dir. ok is false when none matches, which means "skip install", not
// an error.
func DetectPackageManager(dir string) (PackageManager, bool) {
	for _, pm := range packageManagers {
		info, err := os.Stat(filepath.Join(dir, pm.LockFile))
		if err == nil && !info.IsDir() {
			return pm, true
		}
	}
	return PackageManager{}, false
}

// installDependencies runs the detected manager's install in dir with
// the given timeout. Returns the manager name used; "" when no lock
// file was found.
func installDependencies(ctx context.Context, e exec.Executor, dir string, timeout time.Duration) (string, error) {
	pm, ok := DetectPackageManager(dir)
	if !ok {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := e.Output(ctx, dir, pm.Name, "install"); err != nil {
		return pm.Name, fmt.Errorf("%s install: %w", pm.Name, err)
	}
	return pm.Name, nil
}
