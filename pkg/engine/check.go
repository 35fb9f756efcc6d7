package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/depstatus/pkg/errors"
	"github.com/matzehuels/depstatus/pkg/manifest"
	"github.com/matzehuels/depstatus/pkg/observability"
	"github.com/matzehuels/depstatus/pkg/status"
)

const cacheKeyType = "status"

// Check runs the pipeline for req and returns the report.
//
// A missing or empty dependency table yields an UpToDate report without
// calling the resolver. Fetch, parse, sandbox, resolve and lock parse
// failures are returned as coded errors (see pkg/errors).
func (e *Engine) Check(ctx context.Context, req Request) (*status.Report, error) {
	req = e.normalize(req)
	if err := req.Repo().Validate(); err != nil {
		return nil, err
	}

	key := e.cacheKey(req)
	if !req.Refresh {
		if report, ok := e.cached(ctx, key); ok {
			return report, nil
		}
	}

	// The shared run must outlive any single caller that gives up, so it
	// is detached from ctx and bounded by the engine timeout instead.
	ch := e.group.DoChan(key, func() (any, error) {
		runCtx := context.WithoutCancel(ctx)
		if e.timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(runCtx, e.timeout)
			defer cancel()
		}
		return e.run(runCtx, req, key)
	})

	select {
	case <-ctx.Done():
		return nil, errs.Wrap(errs.ErrCodeTimeout, ctx.Err(), "check %s", req.Repo())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*status.Report), nil
	}
}

// Status is Check reduced to the aggregate status. Errors are logged and
// reported as Unknown.
func (e *Engine) Status(ctx context.Context, req Request) status.Status {
	report, err := e.Check(ctx, req)
	if err != nil {
		e.logger.Error("status check failed",
			"repo", req.Repo(),
			"class", req.Class,
			"code", errs.GetCode(err),
			"err", err)
		return status.Unknown
	}
	return report.Status
}

func (e *Engine) run(ctx context.Context, req Request, key string) (report *status.Report, err error) {
	start := time.Now()
	hooks := observability.Check()
	hooks.OnCheckStart(ctx, req.Owner, req.Name, string(req.Class))
	defer func() {
		st := status.Unknown
		if report != nil {
			st = report.Status
		}
		hooks.OnCheckComplete(ctx, req.Owner, req.Name, string(req.Class), st.String(), time.Since(start), err)
	}()

	logger := e.logger.With("repo", req.Repo(), "class", req.Class)

	text, err := e.source.FetchManifest(ctx, req.Repo())
	if err != nil {
		return nil, err
	}

	report, err = e.evaluate(ctx, text, req.Class, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("check complete",
		"status", report.Status,
		"deps", len(report.Entries),
		"elapsed", time.Since(start).Round(time.Millisecond))
	e.store(ctx, key, report)
	return report, nil
}

// CheckManifest runs parse, resolve and evaluate on manifest text the caller
// already has, such as a local Cargo.toml. Nothing is fetched or cached.
func (e *Engine) CheckManifest(ctx context.Context, text string, class manifest.Class) (*status.Report, error) {
	if class == "" {
		class = manifest.Primary
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	return e.evaluate(ctx, text, class, e.logger.With("class", class))
}

func (e *Engine) evaluate(ctx context.Context, text string, class manifest.Class, logger *log.Logger) (*status.Report, error) {
	deps, ok, err := manifest.Parse(text, class)
	if err != nil {
		return nil, err
	}
	if !ok || len(deps) == 0 {
		logger.Debug("nothing declared", "section", ok)
		return &status.Report{Status: status.UpToDate, Entries: []status.Entry{}}, nil
	}

	start := time.Now()
	resolved, err := e.resolver.Resolve(ctx, text, deps)
	observability.Check().OnResolveComplete(ctx, e.ResolverName(), len(deps), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return status.Evaluate(deps, resolved), nil
}

// =============================================================================
// Report cache
// =============================================================================

func (e *Engine) cached(ctx context.Context, key string) (*status.Report, bool) {
	if e.ttl < 0 {
		return nil, false
	}
	data, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	var report status.Report
	if err := json.Unmarshal(data, &report); err != nil {
		e.logger.Warn("discarding corrupt cache entry", "err", err)
		_ = e.cache.Delete(ctx, key)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return &report, true
}

func (e *Engine) store(ctx context.Context, key string, report *status.Report) {
	if e.ttl < 0 {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		e.logger.Warn("encode report", "err", err)
		return
	}
	if err := e.cache.Set(ctx, key, data, e.ttl); err != nil {
		e.logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

// Invalidate drops the cached report for req.
func (e *Engine) Invalidate(ctx context.Context, req Request) error {
	return e.cache.Delete(ctx, e.cacheKey(e.normalize(req)))
}
