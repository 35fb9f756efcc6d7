// Package status compares declared dependency versions against resolved ones
// and folds the per-dependency results into one aggregate [Status].
//
// Aggregation uses the total order OutOfDate > Unknown > UpToDate: one stale
// dependency makes the project stale, and a dependency that cannot be
// judged makes an otherwise fresh project unknown.
package status

import (
	"encoding/json"
	"strings"

	errs "github.com/matzehuels/depstatus/pkg/errors"
)

// Status is the freshness of one dependency or of a whole dependency set.
type Status int

const (
	UpToDate Status = iota
	Unknown
	OutOfDate
)

// String returns the canonical lower-case name, which is also the badge
// asset stem.
func (s Status) String() string {
	switch s {
	case UpToDate:
		return "uptodate"
	case OutOfDate:
		return "outofdate"
	default:
		return "unknown"
	}
}

// Label returns the human-readable form.
func (s Status) Label() string {
	switch s {
	case UpToDate:
		return "up to date"
	case OutOfDate:
		return "out of date"
	default:
		return "unknown"
	}
}

// Parse is the inverse of [Status.String]. It also accepts the hyphenated
// and spaced spellings.
func Parse(s string) (Status, error) {
	switch strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s)) {
	case "uptodate":
		return UpToDate, nil
	case "outofdate":
		return OutOfDate, nil
	case "unknown":
		return Unknown, nil
	default:
		return Unknown, errs.New(errs.ErrCodeInvalidInput, "unknown status %q", s)
	}
}

// Combine returns the dominant of a and b.
func Combine(a, b Status) Status {
	if b > a {
		return b
	}
	return a
}

// Fold combines statuses starting from UpToDate. An empty input is UpToDate.
func Fold(statuses ...Status) Status {
	acc := UpToDate
	for _, s := range statuses {
		acc = Combine(acc, s)
	}
	return acc
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := Parse(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
