package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"logograb/internal/store"
)

// RevisionSource reports the current revision of the remote catalog.
type RevisionSource interface {
	Revision(ctx context.Context) (string, error)
}

// CheckCatalog verifies that the remote catalog answers a revision request.
// It uses a 15-second timeout on top of whatever the client enforces.
func CheckCatalog(ctx context.Context, remote RevisionSource) Result {
	const name = "Catalog"

	if remote == nil {
		return Result{Name: name, Detail: "not configured"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	revision, err := remote.Revision(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeCatalogError(err)}
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("reachable (revision %s)", revision)}
}

// CheckHostDatabase verifies that the host database opens with the expected schema.
func CheckHostDatabase(ctx context.Context, path string) Result {
	const name = "Host database"

	st, err := store.OpenPath(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer st.Close()

	channels, err := st.ListChannels(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d channels)", path, len(channels))}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// summarizeCatalogError produces a human-readable summary for catalog check failures.
func summarizeCatalogError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "revision check timed out (catalog unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "revision check timed out (catalog unreachable)"
	}
	return err.Error()
}
