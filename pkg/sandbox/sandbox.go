// Package sandbox creates throwaway Cargo projects for dependency resolution.
//
// Each sandbox is a directory named by a random UUID under a shared root.
// It holds the fetched manifest byte-for-byte plus a stub src/lib.rs so
// cargo accepts the project. Concurrent checks never share a directory.
package sandbox

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	errs "github.com/matzehuels/depstatus/pkg/errors"
	"github.com/matzehuels/depstatus/pkg/manifest"
)

// LockFilename is written by the resolver next to the manifest.
const LockFilename = "Cargo.lock"

const stubSource = "// placeholder so cargo accepts the package\n"

// Sandbox is a single-use project directory.
type Sandbox struct {
	Dir          string
	ManifestPath string
	LockPath     string
	SourcePath   string
}

// DefaultRoot returns the directory sandboxes are created under when none
// is configured.
func DefaultRoot() string {
	return filepath.Join(os.TempDir(), "depstatus")
}

// Create makes a new sandbox under root and writes manifestText into it.
// root is created if missing. Any filesystem failure is a SANDBOX_ERROR.
func Create(root, manifestText string) (*Sandbox, error) {
	if root == "" {
		root = DefaultRoot()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errs.Wrap(errs.ErrCodeSandbox, err, "create sandbox root")
	}

	// Mkdir fails on an existing path, so a token collision surfaces as an
	// error rather than two checks sharing one directory.
	dir := filepath.Join(root, uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, errs.Wrap(errs.ErrCodeSandbox, err, "create sandbox")
	}

	sb := &Sandbox{
		Dir:          dir,
		ManifestPath: filepath.Join(dir, manifest.Filename),
		LockPath:     filepath.Join(dir, LockFilename),
		SourcePath:   filepath.Join(dir, "src", "lib.rs"),
	}

	if err := os.WriteFile(sb.ManifestPath, []byte(manifestText), 0o644); err != nil {
		sb.Remove()
		return nil, errs.Wrap(errs.ErrCodeSandbox, err, "write manifest")
	}
	if err := os.Mkdir(filepath.Dir(sb.SourcePath), 0o755); err != nil {
		sb.Remove()
		return nil, errs.Wrap(errs.ErrCodeSandbox, err, "create src directory")
	}
	if err := os.WriteFile(sb.SourcePath, []byte(stubSource), 0o644); err != nil {
		sb.Remove()
		return nil, errs.Wrap(errs.ErrCodeSandbox, err, "write stub source")
	}
	return sb, nil
}

// ReadLock returns the lock file the resolver wrote.
func (s *Sandbox) ReadLock() ([]byte, error) {
	data, err := os.ReadFile(s.LockPath)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeLockParse, err, "read %s", LockFilename)
	}
	return data, nil
}

// Remove deletes the sandbox directory. It is safe to call more than once.
func (s *Sandbox) Remove() error {
	if s == nil || s.Dir == "" {
		return nil
	}
	return os.RemoveAll(s.Dir)
}
