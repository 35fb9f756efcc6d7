// Package crates provides an HTTP client for the crates.io API.
//
// # Overview
//
// The registry resolver uses this client to learn the newest published
// version of each declared crate when no cargo toolchain is available.
//
// # Usage
//
//	client := crates.NewClient(cache.NewNullCache(), time.Hour)
//	info, err := client.FetchCrate(ctx, "serde", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(info.Name, info.Latest())
//
// # Caching
//
// Responses are cached in the given [cache.Cache] under the "crates:"
// prefix. Pass refresh=true to bypass the cache.
//
// # User-Agent
//
// The client includes a User-Agent header as required by crates.io policy.
//
// [cache.Cache]: github.com/matzehuels/depstatus/pkg/cache.Cache
package crates
