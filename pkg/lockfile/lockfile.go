// Package lockfile reads the versions cargo resolved for a project's direct
// dependencies out of Cargo.lock.
//
// Two layouts are understood. The legacy layout carries a [root] table whose
// dependencies array lists "name version (source)" strings. Current cargo
// writes only [[package]] entries; the root package is the one whose name
// matches the manifest, or else the only entry without a source, and its
// dependencies may omit the version when the name alone is unambiguous.
package lockfile

import (
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/depstatus/pkg/errors"
)

// Resolved is the version the resolver picked for one dependency.
type Resolved struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ResolvedSet maps dependency names to their resolved entry.
type ResolvedSet map[string]Resolved

// Version returns the resolved version for name, if present.
func (s ResolvedSet) Version(name string) (string, bool) {
	r, ok := s[name]
	return r.Version, ok
}

type lockPackage struct {
	Name         string    `toml:"name"`
	Version      string    `toml:"version"`
	Source       string    `toml:"source"`
	Dependencies *[]string `toml:"dependencies"`
}

type lockFile struct {
	Root     *lockPackage  `toml:"root"`
	Packages []lockPackage `toml:"package"`
}

// Parse extracts the root package's direct dependencies. rootName is the
// manifest's package name and may be empty. Parsing is a pure function of
// its inputs. Invalid TOML, a dependency entry that cannot be split, a lock
// file with no identifiable root, or a root without a dependencies array is a
// LOCK_PARSE_ERROR.
func Parse(data []byte, rootName string) (ResolvedSet, error) {
	var lf lockFile
	if _, err := toml.Decode(string(data), &lf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeLockParse, err, "invalid lock file")
	}

	if lf.Root != nil {
		if lf.Root.Dependencies == nil {
			return nil, errs.New(errs.ErrCodeLockParse, "lock file root has no dependencies")
		}
		return parseLegacy(*lf.Root.Dependencies)
	}
	return parsePackages(lf.Packages, rootName)
}

func parseLegacy(entries []string) (ResolvedSet, error) {
	set := make(ResolvedSet, len(entries))
	for _, entry := range entries {
		fields := strings.Fields(entry)
		if len(fields) < 2 {
			return nil, errs.New(errs.ErrCodeLockParse, "malformed root dependency %q", entry)
		}
		set[fields[0]] = Resolved{Name: fields[0], Version: fields[1]}
	}
	return set, nil
}

func parsePackages(pkgs []lockPackage, rootName string) (ResolvedSet, error) {
	root := findRoot(pkgs, rootName)
	if root == nil {
		return nil, errs.New(errs.ErrCodeLockParse, "lock file has no root package")
	}
	if root.Dependencies == nil {
		return nil, errs.New(errs.ErrCodeLockParse, "root package %s has no dependencies", root.Name)
	}

	byName := make(map[string][]string, len(pkgs))
	for _, p := range pkgs {
		byName[p.Name] = append(byName[p.Name], p.Version)
	}

	set := make(ResolvedSet, len(*root.Dependencies))
	for _, entry := range *root.Dependencies {
		fields := strings.Fields(entry)
		switch {
		case len(fields) == 0:
			return nil, errs.New(errs.ErrCodeLockParse, "empty dependency entry in %s", root.Name)
		case len(fields) >= 2:
			set[fields[0]] = Resolved{Name: fields[0], Version: fields[1]}
		default:
			// Cargo only drops the version when one package has the name.
			if versions := byName[fields[0]]; len(versions) == 1 {
				set[fields[0]] = Resolved{Name: fields[0], Version: versions[0]}
			}
		}
	}
	return set, nil
}

func findRoot(pkgs []lockPackage, rootName string) *lockPackage {
	if rootName != "" {
		for i := range pkgs {
			if pkgs[i].Name == rootName && pkgs[i].Source == "" {
				return &pkgs[i]
			}
		}
	}
	var root *lockPackage
	for i := range pkgs {
		if pkgs[i].Source != "" {
			continue
		}
		if root != nil {
			return nil
		}
		root = &pkgs[i]
	}
	return root
}
