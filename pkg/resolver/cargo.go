package resolver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/depstatus/pkg/errors"
	"github.com/matzehuels/depstatus/pkg/lockfile"
	"github.com/matzehuels/depstatus/pkg/manifest"
	"github.com/matzehuels/depstatus/pkg/sandbox"
)

// DefaultTimeout bounds a single cargo invocation.
const DefaultTimeout = 2 * time.Minute

// CargoOptions configures [NewCargo].
type CargoOptions struct {
	// Binary is the cargo executable. Defaults to "cargo" looked up in PATH.
	Binary string
	// SandboxRoot is where per-check projects are created.
	// Defaults to [sandbox.DefaultRoot].
	SandboxRoot string
	// Timeout bounds the cargo process. Zero means [DefaultTimeout];
	// negative disables the bound.
	Timeout time.Duration
	// KeepSandbox leaves the project on disk after resolution, for debugging.
	KeepSandbox bool
	// Env is appended to the process environment.
	Env    []string
	Logger *log.Logger
}

// Cargo resolves through `cargo update --manifest-path`.
type Cargo struct {
	binary  string
	root    string
	timeout time.Duration
	keep    bool
	env     []string
	logger  *log.Logger
}

// NewCargo creates a cargo-backed resolver.
func NewCargo(opts CargoOptions) *Cargo {
	c := &Cargo{
		binary:  opts.Binary,
		root:    opts.SandboxRoot,
		timeout: opts.Timeout,
		keep:    opts.KeepSandbox,
		env:     opts.Env,
		logger:  opts.Logger,
	}
	if c.binary == "" {
		c.binary = "cargo"
	}
	if c.root == "" {
		c.root = sandbox.DefaultRoot()
	}
	if c.timeout == 0 {
		c.timeout = DefaultTimeout
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// Name implements [Named].
func (c *Cargo) Name() string { return KindCargo }

// Resolve writes manifestText into a fresh sandbox, lets cargo compute the
// lock file and parses it.
func (c *Cargo) Resolve(ctx context.Context, manifestText string, _ manifest.DependencySet) (lockfile.ResolvedSet, error) {
	sb, err := sandbox.Create(c.root, manifestText)
	if err != nil {
		return nil, err
	}
	if c.keep {
		c.logger.Debug("keeping sandbox", "dir", sb.Dir)
	} else {
		defer func() {
			if err := sb.Remove(); err != nil {
				c.logger.Warn("sandbox cleanup failed", "dir", sb.Dir, "err", err)
			}
		}()
	}

	if err := c.update(ctx, sb); err != nil {
		return nil, err
	}
	data, err := sb.ReadLock()
	if err != nil {
		return nil, err
	}
	return lockfile.Parse(data, manifest.PackageName(manifestText))
}

func (c *Cargo) update(ctx context.Context, sb *sandbox.Sandbox) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{"update", "--manifest-path", sb.ManifestPath}
	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Dir = sb.Dir
	cmd.Env = append(os.Environ(), c.env...)
	cmd.WaitDelay = 5 * time.Second

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err := cmd.Run()
	c.logger.Debug("cargo update", "dir", sb.Dir, "elapsed", time.Since(start).Round(time.Millisecond), "output", strings.TrimSpace(out.String()))

	switch {
	case err == nil:
		return nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return errs.Wrap(errs.ErrCodeResolve, errs.Wrap(errs.ErrCodeTimeout, ctx.Err(), "cargo update timed out after %s", time.Since(start).Round(time.Millisecond)), "resolve")
	case ctx.Err() != nil:
		return errs.Wrap(errs.ErrCodeResolve, ctx.Err(), "cargo update cancelled")
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return errs.Wrap(errs.ErrCodeResolve, err, "cargo update failed: %s", lastLine(out.String()))
		}
		return errs.Wrap(errs.ErrCodeResolve, err, "run %s", c.binary)
	}
}

// lastLine returns the final non-empty line of cargo's output, which is
// where it prints the error summary.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
