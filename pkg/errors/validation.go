package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// githubNameRegex matches GitHub owner and repository names.
var githubNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateRepoName validates a GitHub owner or repository identifier.
// The name ends up in a URL path, so anything that could change the path
// structure is rejected.
func ValidateRepoName(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidRepo, "%s cannot be empty", kind)
	}
	if len(name) > 100 {
		return New(ErrCodeInvalidRepo, "%s too long (max 100 characters)", kind)
	}
	if name == "." || name == ".." || !githubNameRegex.MatchString(name) {
		return New(ErrCodeInvalidRepo, "invalid %s: %q", kind, name)
	}
	return nil
}

// ValidateBranch validates a git branch name used in a raw content URL.
func ValidateBranch(branch string) error {
	if branch == "" {
		return New(ErrCodeInvalidInput, "branch cannot be empty")
	}
	if len(branch) > 255 {
		return New(ErrCodeInvalidInput, "branch too long (max 255 characters)")
	}
	for _, r := range branch {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "branch contains invalid characters")
		}
	}
	if strings.Contains(branch, "..") || strings.ContainsAny(branch, "\\?#~^:") {
		return New(ErrCodeInvalidInput, "invalid branch: %q", branch)
	}
	return nil
}

// ValidatePath validates a manifest directory prefix within a repository.
// An empty prefix means the repository root and is valid.
//
// Validation rules:
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return nil
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidInput, "path must be relative (cannot start with /)")
	}
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidInput, "path cannot contain backslashes")
	}
	return nil
}

// cratesPackageNameRegex matches valid crates.io package names.
var cratesPackageNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateCrateName validates a crates.io package name before it is used
// in a registry URL.
func ValidateCrateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "crate name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "crate name too long (max 64 characters)")
	}
	if !cratesPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid crate name: %q", name)
	}
	return nil
}
