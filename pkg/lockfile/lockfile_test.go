package lockfile

import (
	"reflect"
	"testing"

	errs "github.com/matzehuels/depstatus/pkg/errors"
)

const legacyLock = `[root]
name = "demo"
version = "0.1.0"
dependencies = [
 "serde 1.0.5 (registry+https://github.com/rust-lang/crates.io-index)",
 "rand 0.3.18 (registry+https://github.com/rust-lang/crates.io-index)",
]

[[package]]
name = "serde"
version = "1.0.5"
source = "registry+https://github.com/rust-lang/crates.io-index"

[[package]]
name = "rand"
version = "0.3.18"
source = "registry+https://github.com/rust-lang/crates.io-index"
`

const modernLock = `# This file is automatically @generated by Cargo.
version = 3

[[package]]
name = "demo"
version = "0.1.0"
dependencies = [
 "rand 0.8.5",
 "rand 0.7.3",
 "serde",
]

[[package]]
name = "rand"
version = "0.7.3"
source = "registry+https://github.com/rust-lang/crates.io-index"

[[package]]
name = "rand"
version = "0.8.5"
source = "registry+https://github.com/rust-lang/crates.io-index"

[[package]]
name = "serde"
version = "1.0.210"
source = "registry+https://github.com/rust-lang/crates.io-index"
`

func TestParse_Legacy(t *testing.T) {
	got, err := Parse([]byte(legacyLock), "demo")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := ResolvedSet{
		"serde": {Name: "serde", Version: "1.0.5"},
		"rand":  {Name: "rand", Version: "0.3.18"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

func TestParse_LegacyWithoutSource(t *testing.T) {
	got, err := Parse([]byte("[root]\nname = \"demo\"\ndependencies = [\"serde 1.0.5\"]\n"), "")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if v, ok := got.Version("serde"); !ok || v != "1.0.5" {
		t.Errorf("serde = %q, %v", v, ok)
	}
}

func TestParse_RootDependencies(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"legacy missing", "[root]\nname = \"demo\"\nversion = \"0.1.0\"\n", true},
		{"legacy not an array", "[root]\nname = \"demo\"\ndependencies = \"serde 1.0.5\"\n", true},
		{"legacy table", "[root]\nname = \"demo\"\n[root.dependencies]\nserde = \"1.0.5\"\n", true},
		{"legacy empty array", "[root]\nname = \"demo\"\ndependencies = []\n", false},
		{"modern missing", "[[package]]\nname = \"demo\"\nversion = \"0.1.0\"\n", true},
		{"modern empty array", "[[package]]\nname = \"demo\"\nversion = \"0.1.0\"\ndependencies = []\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.data), "demo")
			if tt.wantErr {
				if !errs.Is(err, errs.ErrCodeLockParse) {
					t.Errorf("Parse() = %v, %v; want LOCK_PARSE_ERROR", got, err)
				}
				return
			}
			if err != nil || len(got) != 0 {
				t.Errorf("Parse() = %v, %v; want empty set", got, err)
			}
		})
	}
}

func TestParse_LegacyMalformedEntry(t *testing.T) {
	_, err := Parse([]byte("[root]\ndependencies = [\"serde\"]\n"), "")
	if !errs.Is(err, errs.ErrCodeLockParse) {
		t.Errorf("Parse() error = %v, want LOCK_PARSE_ERROR", err)
	}
}

func TestParse_Modern(t *testing.T) {
	got, err := Parse([]byte(modernLock), "demo")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if v, _ := got.Version("serde"); v != "1.0.210" {
		t.Errorf("serde = %q, want 1.0.210 from the unique package entry", v)
	}
	if _, ok := got.Version("rand"); !ok {
		t.Error("rand missing")
	}
}

func TestParse_ModernRootBySourceless(t *testing.T) {
	got, err := Parse([]byte(modernLock), "")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if _, ok := got["serde"]; !ok {
		t.Errorf("Parse() = %v, want serde resolved", got)
	}
}

func TestParse_ModernNoRoot(t *testing.T) {
	data := "[[package]]\nname = \"a\"\nversion = \"1.0.0\"\n\n[[package]]\nname = \"b\"\nversion = \"1.0.0\"\n"
	_, err := Parse([]byte(data), "")
	if !errs.Is(err, errs.ErrCodeLockParse) {
		t.Errorf("Parse() error = %v, want LOCK_PARSE_ERROR for ambiguous root", err)
	}
}

func TestParse_InvalidTOML(t *testing.T) {
	_, err := Parse([]byte("[root\n"), "")
	if !errs.Is(err, errs.ErrCodeLockParse) {
		t.Errorf("Parse() error = %v, want LOCK_PARSE_ERROR", err)
	}
}

func TestParse_Idempotent(t *testing.T) {
	first, err := Parse([]byte(legacyLock), "demo")
	if err != nil {
		t.Fatal(err)
	}
	second, err := Parse([]byte(legacyLock), "demo")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Parse() not deterministic: %v vs %v", first, second)
	}
}
