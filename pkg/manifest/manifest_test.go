package manifest

import (
	"slices"
	"testing"

	errs "github.com/matzehuels/depstatus/pkg/errors"
)

const sampleManifest = `
[package]
name = "demo"
version = "0.1.0"

[dependencies]
serde = "1.0.0"
rand = { version = "0.8.5", features = ["small_rng"] }
local = { path = "../local" }

[dev-dependencies]
criterion = "0.5.1"
`

func TestParse(t *testing.T) {
	set, ok, err := Parse(sampleManifest, Primary)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !ok {
		t.Fatal("Parse() ok = false, want true")
	}
	if len(set) != 3 {
		t.Fatalf("len(set) = %d, want 3", len(set))
	}

	tests := []struct {
		name   string
		want   string
		simple bool
	}{
		{"serde", "1.0.0", true},
		{"rand", "0.8.5", false},
		{"local", "", false},
	}
	for _, tt := range tests {
		c, found := set[tt.name]
		if !found {
			t.Errorf("missing %s", tt.name)
			continue
		}
		if c.Requirement != tt.want || c.Simple != tt.simple || c.Name != tt.name {
			t.Errorf("%s = %+v, want requirement %q simple %v", tt.name, c, tt.want, tt.simple)
		}
	}
}

func TestParse_DevDependencies(t *testing.T) {
	set, ok, err := Parse(sampleManifest, Development)
	if err != nil || !ok {
		t.Fatalf("Parse() = %v, %v", ok, err)
	}
	if c := set["criterion"]; c.Requirement != "0.5.1" || !c.Simple {
		t.Errorf("criterion = %+v", c)
	}
}

func TestParse_MissingSection(t *testing.T) {
	set, ok, err := Parse("[package]\nname = \"demo\"\n\n[dependencies]\nserde = \"1.0.0\"\n", Development)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if ok || set != nil {
		t.Errorf("Parse() = %v, %v; want nil, false", set, ok)
	}
}

func TestParse_EmptySection(t *testing.T) {
	set, ok, err := Parse("[dependencies]\n", Primary)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !ok || len(set) != 0 {
		t.Errorf("Parse() = %v, %v; want empty set, true", set, ok)
	}
}

func TestParse_InvalidTOML(t *testing.T) {
	_, _, err := Parse("[dependencies\nserde = ", Primary)
	if !errs.Is(err, errs.ErrCodeParse) {
		t.Errorf("Parse() error = %v, want PARSE_ERROR", err)
	}
}

func TestParse_SectionNotTable(t *testing.T) {
	_, _, err := Parse("dependencies = 5\n", Primary)
	if !errs.Is(err, errs.ErrCodeParse) {
		t.Errorf("Parse() error = %v, want PARSE_ERROR", err)
	}
}

func TestParse_CaseSensitiveNames(t *testing.T) {
	set, _, err := Parse("[dependencies]\nSerde = \"1.0.0\"\nserde = \"1.0.1\"\n", Primary)
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 2 {
		t.Errorf("names should be case-sensitive, got %v", set.Names())
	}
}

func TestDependencySet_Names(t *testing.T) {
	set := DependencySet{"b": {Name: "b"}, "a": {Name: "a"}, "c": {Name: "c"}}
	if got := set.Names(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestParseClass(t *testing.T) {
	tests := []struct {
		in      string
		want    Class
		wantErr bool
	}{
		{"", Primary, false},
		{"primary", Primary, false},
		{"dependencies", Primary, false},
		{"dev", Development, false},
		{"Development", Development, false},
		{"dev-dependencies", Development, false},
		{"build", Build, false},
		{"optional", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClass(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseClass(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}

func TestPackageName(t *testing.T) {
	if got := PackageName(sampleManifest); got != "demo" {
		t.Errorf("PackageName() = %q, want demo", got)
	}
	if got := PackageName("[workspace]\nmembers = [\"a\"]\n"); got != "" {
		t.Errorf("PackageName(workspace) = %q, want empty", got)
	}
	if got := PackageName("not toml ["); got != "" {
		t.Errorf("PackageName(invalid) = %q, want empty", got)
	}
}
