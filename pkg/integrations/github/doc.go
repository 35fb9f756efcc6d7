// Package github fetches Cargo manifests from GitHub repositories.
//
// Manifests are downloaded from the raw content host, which serves files
// without authentication or API rate limits:
//
//	https://raw.githubusercontent.com/{owner}/{repo}/{branch}/{prefix/}Cargo.toml
//
// # Usage
//
//	client := github.NewRawClient()
//	text, err := client.FetchManifest(ctx, github.Repo{Owner: "serde-rs", Name: "serde"})
//
// Use [ParseRepoRef] to split and validate "owner/repo" command-line
// arguments.
package github
