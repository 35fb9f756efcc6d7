package github

import (
	"strings"

	errs "github.com/matzehuels/depstatus/pkg/errors"
)

// ValidateRepoRef validates both owner and repo parameters.
func ValidateRepoRef(owner, repo string) error {
	if err := errs.ValidateRepoName("owner", owner); err != nil {
		return err
	}
	return errs.ValidateRepoName("repository", repo)
}

// ParseRepoRef parses an "owner/repo" string and validates both parts.
func ParseRepoRef(ref string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(ref, "/")
	if !ok {
		return "", "", errs.New(errs.ErrCodeInvalidRepo, "invalid repo format %q: use owner/repo", ref)
	}
	if err := ValidateRepoRef(owner, repo); err != nil {
		return "", "", err
	}
	return owner, repo, nil
}
