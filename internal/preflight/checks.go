package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"annunciator/internal/backend"
	"annunciator/internal/config"
	"annunciator/internal/deps"
	"annunciator/internal/services"
)

const backendCheckTimeout = 10 * time.Second

// CheckBackend verifies that the announcement backend is reachable and the
// configured token is accepted. It makes a single attempt without retries.
func CheckBackend(ctx context.Context, cfg *config.Config) Result {
	const name = "Backend"
	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if cfg.Backend.APIToken == "" {
		return Result{Name: name, Detail: "missing api token"}
	}
	client, err := backend.NewFromConfig(cfg, backend.WithRetryMaxAttempts(1))
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}

	checkCtx, cancel := context.WithTimeout(ctx, backendCheckTimeout)
	defer cancel()

	info, err := client.Ping(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeBackendError(err)}
	}
	detail := "Reachable"
	if info.Version != "" {
		detail = fmt.Sprintf("Reachable (version %s)", info.Version)
	}
	return Result{Name: name, Passed: true, Detail: detail}
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

// CheckSystemDeps evaluates the local binaries named in cfg. Both the status
// command and session startup use this list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	if cfg == nil {
		return nil
	}
	statuses := []deps.Status{
		deps.CheckPlayer(cfg.Media.PlayerCommand),
		deps.CheckOpener(cfg.Media.VideoPlayerCommand),
	}
	if cfg.Media.ProbeCommand != "" {
		statuses = append(statuses, deps.CheckBinaries([]deps.Requirement{{
			Name:        "Media probe",
			Command:     cfg.Media.ProbeCommand,
			Description: "Rejects downloaded media without a playable stream",
		}})...)
	}
	return statuses
}

// summarizeBackendError produces a human-readable summary for backend check failures.
func summarizeBackendError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (backend unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (backend unreachable)"
	}
	if errors.Is(err, services.ErrAuth) {
		return "auth failed (token rejected)"
	}
	return services.UserMessage(err)
}
