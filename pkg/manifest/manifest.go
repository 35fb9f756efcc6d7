// Package manifest parses Cargo.toml files into declared dependency sets.
//
// A manifest is parsed once per check and one dependency table is selected
// by [Class]. A missing table is not an error: it means there is nothing to
// check, which [Parse] reports with ok=false.
package manifest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/depstatus/pkg/errors"
)

// Filename is the manifest name the resolver expects.
const Filename = "Cargo.toml"

// Class selects a dependency table of the manifest.
type Class string

const (
	Primary     Class = "dependencies"
	Development Class = "dev-dependencies"
	Build       Class = "build-dependencies"
)

// ParseClass maps user-facing names to a Class. It accepts the table
// names themselves plus the short forms used on the command line.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "primary", "normal", "runtime", "dependencies":
		return Primary, nil
	case "dev", "development", "dev-dependencies":
		return Development, nil
	case "build", "build-dependencies":
		return Build, nil
	default:
		return "", errs.New(errs.ErrCodeInvalidInput, "unknown dependency class %q", s)
	}
}

// Constraint is one declared dependency.
type Constraint struct {
	Name        string `json:"name"`
	Requirement string `json:"requirement,omitempty"`
	// Simple is true when the manifest declares the dependency as a plain
	// version string. Table declarations ({ version = "1", features = [..] },
	// { path = ".." }, { git = ".." }) are kept with Simple=false.
	Simple bool `json:"simple"`
}

// DependencySet maps exact, case-sensitive crate names to their constraint.
type DependencySet map[string]Constraint

// Names returns the dependency names in sorted order.
func (s DependencySet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Parse decodes manifest text and returns the dependencies of class.
//
// ok is false when the table is absent. Invalid TOML, or a class key whose
// value is not a table, is a PARSE_ERROR.
func Parse(text string, class Class) (set DependencySet, ok bool, err error) {
	var root map[string]any
	if _, err := toml.Decode(text, &root); err != nil {
		return nil, false, errs.Wrap(errs.ErrCodeParse, err, "invalid %s", Filename)
	}

	raw, present := root[string(class)]
	if !present {
		return nil, false, nil
	}
	table, isTable := raw.(map[string]any)
	if !isTable {
		return nil, false, errs.New(errs.ErrCodeParse, "[%s] in %s is %T, want a table", class, Filename, raw)
	}

	set = make(DependencySet, len(table))
	for name, value := range table {
		set[name] = constraintFor(name, value)
	}
	return set, true, nil
}

func constraintFor(name string, value any) Constraint {
	switch v := value.(type) {
	case string:
		return Constraint{Name: name, Requirement: v, Simple: true}
	case map[string]any:
		c := Constraint{Name: name}
		if version, ok := v["version"].(string); ok {
			c.Requirement = version
		}
		return c
	default:
		return Constraint{Name: name, Requirement: fmt.Sprint(v)}
	}
}

// PackageName returns [package].name, or "" when the manifest has none
// (virtual workspace manifests) or does not parse.
func PackageName(text string) string {
	var m struct {
		Package struct {
			Name string `toml:"name"`
		} `toml:"package"`
	}
	if _, err := toml.Decode(text, &m); err != nil {
		return ""
	}
	return m.Package.Name
}
