package status

import (
	"github.com/blang/semver/v4"

	"github.com/matzehuels/depstatus/pkg/lockfile"
	"github.com/matzehuels/depstatus/pkg/manifest"
)

// Reasons attached to entries that did not come out UpToDate.
const (
	ReasonNewer          = "newer version resolved"
	ReasonNotSimple      = "declaration is not a plain version string"
	ReasonNotResolved    = "no resolved version"
	ReasonBadRequirement = "declared version is not semver"
	ReasonBadResolved    = "resolved version is not semver"
)

// Entry is the comparison result for one declared dependency.
type Entry struct {
	Name     string `json:"name"`
	Declared string `json:"declared,omitempty"`
	Resolved string `json:"resolved,omitempty"`
	Status   Status `json:"status"`
	Reason   string `json:"reason,omitempty"`
}

// Report is the aggregate status plus the per-dependency breakdown, sorted
// by name.
type Report struct {
	Status  Status  `json:"status"`
	Entries []Entry `json:"entries"`
}

// Count returns how many entries have status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == s {
			n++
		}
	}
	return n
}

// Compare judges a single declared requirement against its resolved version.
// Both must be strict semantic versions; anything else is Unknown.
func Compare(declared, resolved string) (Status, string) {
	want, err := semver.Parse(declared)
	if err != nil {
		return Unknown, ReasonBadRequirement
	}
	got, err := semver.Parse(resolved)
	if err != nil {
		return Unknown, ReasonBadResolved
	}
	if got.GT(want) {
		return OutOfDate, ReasonNewer
	}
	return UpToDate, ""
}

// Evaluate compares every declared dependency with the resolved set and
// folds the results. It never fails: problems with single entries degrade
// that entry to Unknown.
func Evaluate(deps manifest.DependencySet, resolved lockfile.ResolvedSet) *Report {
	report := &Report{Status: UpToDate, Entries: make([]Entry, 0, len(deps))}
	for _, name := range deps.Names() {
		entry := evaluateOne(deps[name], resolved)
		report.Entries = append(report.Entries, entry)
		report.Status = Combine(report.Status, entry.Status)
	}
	return report
}

func evaluateOne(c manifest.Constraint, resolved lockfile.ResolvedSet) Entry {
	entry := Entry{Name: c.Name, Declared: c.Requirement}

	version, ok := resolved.Version(c.Name)
	entry.Resolved = version
	switch {
	case !c.Simple:
		entry.Status, entry.Reason = Unknown, ReasonNotSimple
	case !ok:
		entry.Status, entry.Reason = Unknown, ReasonNotResolved
	default:
		entry.Status, entry.Reason = Compare(c.Requirement, version)
	}
	return entry
}
