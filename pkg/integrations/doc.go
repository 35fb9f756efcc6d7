// Package integrations provides the HTTP clients depstatus talks to.
//
// # Overview
//
//   - [github]: raw manifest downloads from raw.githubusercontent.com
//   - [crates]: crates.io metadata, used by the registry resolver
//
// # Shared Infrastructure
//
// [Client] wraps net/http with default headers, status mapping and
// retries. Every response status maps to one of three outcomes:
//
//   - 200: success
//   - 404: [ErrNotFound], returned immediately
//   - 5xx and transport failures: [ErrNetwork] wrapped in
//     [httputil.RetryableError], retried with exponential backoff
//
// [Client.Cached] adds a read-through cache on top of any [cache.Cache].
//
// [github]: github.com/matzehuels/depstatus/pkg/integrations/github
// [crates]: github.com/matzehuels/depstatus/pkg/integrations/crates
// [httputil.RetryableError]: github.com/matzehuels/depstatus/pkg/httputil.RetryableError
// [cache.Cache]: github.com/matzehuels/depstatus/pkg/cache.Cache
package integrations
