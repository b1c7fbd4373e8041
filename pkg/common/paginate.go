package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/git-hulk/redmine-go/pkg/logger"
)

// maxChunkSize is the largest page size the Redmine server accepts.
const maxChunkSize = 100

// defaultPageParams are applied when the caller supplies filters but no
// explicit pagination bounds.
var defaultPageParams = Params{"limit": 25, "offset": 0}

// Paginator fetches collection endpoints page by page and merges the pages
// into one aggregate. Chunks are strictly sequential: each round's stop
// condition depends on the previous response's reported total_count.
type Paginator struct {
	restyCli   *resty.Client
	maxRetries uint64
}

// PaginatorOption configures a Paginator.
type PaginatorOption func(*Paginator)

// WithMaxRetries enables transient-error retries (transport failures, 429
// and 5xx statuses) for each chunk request. Retries are off by default.
func WithMaxRetries(n uint64) PaginatorOption {
	return func(p *Paginator) {
		p.maxRetries = n
	}
}

// NewPaginator creates a Paginator on top of a pre-configured resty client.
func NewPaginator(cli *resty.Client, options ...PaginatorOption) *Paginator {
	paginator := &Paginator{restyCli: cli}
	for _, option := range options {
		option(paginator)
	}
	return paginator
}

// FetchAll retrieves every item of a collection endpoint, up to the caller's
// limit (default 25), issuing chunk requests of at most 100 items each and
// merging the pages recursively: array-valued keys concatenate, and envelope
// scalars colliding across pages combine into sequences (see Merge).
//
// With no params at all, a single unparameterized GET is issued and its
// decoded body is returned as-is, whatever its shape. Otherwise the result
// is the merged map aggregate. The loop stops early when a chunk comes back
// empty, lacks a "limit" field (an unexpected, non-paginated response
// shape), or reports that offset has reached total_count.
func (p *Paginator) FetchAll(ctx context.Context, endpoint string, params Params) (any, error) {
	if len(params) == 0 {
		rsp, err := p.get(ctx, endpoint, "")
		if err != nil {
			return nil, err
		}
		decoded, err := Decode(rsp.Body(), rsp.Header().Get("Content-Type"))
		if err != nil {
			return nil, err
		}
		if !decoded.Ok() {
			return nil, errors.New(decoded.ErrMessage())
		}
		return decoded.Value(), nil
	}

	params = Sanitize(defaultPageParams, params)

	remaining := intParam(params, "limit", 25)
	offset := intParam(params, "offset", 0)
	delete(params, "limit")
	delete(params, "offset")

	aggregate := map[string]any{}
	for remaining > 0 {
		chunkSize := remaining
		if chunkSize > maxChunkSize {
			chunkSize = maxChunkSize
		}
		remaining -= chunkSize

		query := params.clonedWith("limit", chunkSize, "offset", offset)
		rsp, err := p.get(ctx, endpoint, EncodeQuery(query))
		if err != nil {
			return nil, err
		}
		decoded, err := Decode(rsp.Body(), rsp.Header().Get("Content-Type"))
		if err != nil {
			return nil, err
		}

		chunk := decoded.Map()
		if chunk == nil {
			// Scalar or malformed body: nothing to merge, nothing more to fetch.
			chunk = map[string]any{}
		}
		aggregate = Merge(aggregate, chunk)
		offset += chunkSize

		if stop, reason := pageDone(chunk); stop {
			logger.Get().Debug("pagination stopped",
				zap.String("endpoint", endpoint),
				zap.String("reason", reason),
				zap.Int("offset", offset))
			remaining = 0
		}
	}
	return aggregate, nil
}

// pageDone decides whether the loop has retrieved everything the server has.
// The missing-limit check is a heuristic about Redmine's response shape, not
// a guaranteed contract: a paginated collection always echoes its limit.
func pageDone(chunk map[string]any) (bool, string) {
	if len(chunk) == 0 {
		return true, "empty chunk"
	}
	if _, ok := chunk["limit"]; !ok {
		return true, "response not paginated"
	}
	total, hasTotal := toInt(chunk["total_count"])
	reported, hasOffset := toInt(chunk["offset"])
	if hasTotal && hasOffset && reported >= total {
		return true, "all items retrieved"
	}
	return false, ""
}

func (p *Paginator) get(ctx context.Context, endpoint, query string) (*resty.Response, error) {
	doGet := func() (*resty.Response, error) {
		req := p.restyCli.R().SetContext(ctx)
		if query != "" {
			req.SetQueryString(query)
		}
		return req.Get(endpoint)
	}
	if p.maxRetries == 0 {
		return doGet()
	}

	var rsp *resty.Response
	err := RetryTransient(ctx, p.maxRetries, func() error {
		r, err := doGet()
		if err != nil {
			return err
		}
		rsp = r
		if TransientStatus(r.StatusCode()) {
			return fmt.Errorf("transient status code %d", r.StatusCode())
		}
		return nil
	})
	if err != nil && rsp == nil {
		return nil, err
	}
	// Retries exhausted on a transient status: hand the response back and
	// let the caller see the status, same as with retries disabled.
	return rsp, nil
}

func (p Params) clonedWith(pairs ...any) Params {
	cloned := make(Params, len(p)+len(pairs)/2)
	for key, value := range p {
		cloned[key] = value
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		cloned[pairs[i].(string)] = pairs[i+1]
	}
	return cloned
}

func intParam(params Params, key string, fallback int) int {
	if value, ok := toInt(params[key]); ok {
		return value
	}
	return fallback
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
