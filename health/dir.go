package health

import (
	"context"
	"fmt"
	"os"
)

// DirChecker verifies that a directory exists and can be listed.
type DirChecker struct {
	name string
	path string
}

// NewDirChecker creates a checker for the directory at path.
func NewDirChecker(name, path string) *DirChecker {
	return &DirChecker{name: name, path: path}
}

// Name returns the name of this checker.
func (d *DirChecker) Name() string {
	return d.name
}

// Check lists the directory. An empty directory is degraded.
func (d *DirChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context cancelled", err)
	}

	entries, err := os.ReadDir(d.path)
	if err != nil {
		return Unhealthy(fmt.Sprintf("cannot read %s", d.path), err)
	}

	files := 0
	for _, e := range entries {
		if e.Type().IsRegular() {
			files++
		}
	}
	details := map[string]any{"path": d.path, "files": files}
	if files == 0 {
		return Degraded(fmt.Sprintf("%s is empty", d.path)).WithDetails(details)
	}
	return Healthy(fmt.Sprintf("%d files", files)).WithDetails(details)
}
