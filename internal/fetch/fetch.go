// Package fetch implements the upstream wiki fetcher and its time-bounded,
// in-flight-deduplicated result cache. Grounded on
// _examples/original_source/src/labelize.rs's _fetch/fetch pair (the
// "#[cached(time=600)]" shared-future pattern, spec.md §9) and on
// lib/cache for the pluggable result-cache backend.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"labelize/lib/cache"
	"labelize/shared/logger"
)

// Fetcher fetches a persistent object's data subdocument by Z-number,
// deduplicating concurrent callers for the same identifier and caching
// results (success and error alike) for a bounded TTL. spec.md §4.1, §5, §9.
type Fetcher struct {
	domain     string
	httpClient *http.Client
	cache      cache.Cache
	ttl        time.Duration

	mu       sync.Mutex
	inflight map[string]*call
}

type call struct {
	done chan struct{}
	data json.RawMessage
	err  error
}

// New builds a Fetcher against the given upstream domain and result-cache
// backend, with entries expiring after ttl (spec.md §4.1 "≈600 s").
func New(domain string, c cache.Cache, ttl time.Duration) *Fetcher {
	return &Fetcher{
		domain:     domain,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      c,
		ttl:        ttl,
		inflight:   make(map[string]*call),
	}
}

// cachedResult is the shape stored in the result cache for both successful and failed
// fetches — spec.md §4.1: "the cache is keyed on the identifier alone"
// and covers error results too.
type cachedResult struct {
	Data    json.RawMessage `json:"data,omitempty"`
	ErrKind string          `json:"err_kind,omitempty"`
	ErrMsg  string          `json:"err_msg,omitempty"`
	ZNumber string          `json:"z_number,omitempty"`
}

const (
	errKindNetwork = "network"
	errKindSchema  = "schema"
)

func (r cachedResult) toError() error {
	switch r.ErrKind {
	case "":
		return nil
	case errKindNetwork:
		return &NetworkError{ZNumber: r.ZNumber, Err: fmt.Errorf("%s", r.ErrMsg)}
	case errKindSchema:
		return &SchemaError{ZNumber: r.ZNumber, Reason: r.ErrMsg}
	default:
		return fmt.Errorf("fetch: unknown cached error kind %q", r.ErrKind)
	}
}

func resultFromError(zNumber string, err error) cachedResult {
	switch e := err.(type) {
	case *NetworkError:
		return cachedResult{ErrKind: errKindNetwork, ErrMsg: e.Err.Error(), ZNumber: zNumber}
	case *SchemaError:
		return cachedResult{ErrKind: errKindSchema, ErrMsg: e.Reason, ZNumber: zNumber}
	default:
		return cachedResult{ErrKind: errKindSchema, ErrMsg: err.Error(), ZNumber: zNumber}
	}
}

// Fetch returns the `data` subdocument for zNumber, from cache if present
// and unexpired, otherwise via a single deduplicated upstream call shared
// by every concurrent caller for the same identifier. spec.md §4.1, §8
// "Cache correctness".
func (f *Fetcher) Fetch(ctx context.Context, zNumber string) (json.RawMessage, error) {
	if data, err, ok := f.lookupCache(ctx, zNumber); ok {
		return data, err
	}

	f.mu.Lock()
	if c, ok := f.inflight[zNumber]; ok {
		f.mu.Unlock()
		select {
		case <-c.done:
			return c.data, c.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if data, err, ok := f.lookupCache(ctx, zNumber); ok {
		f.mu.Unlock()
		return data, err
	}
	c := &call{done: make(chan struct{})}
	f.inflight[zNumber] = c
	f.mu.Unlock()

	data, err := f.doFetch(ctx, zNumber)
	c.data, c.err = data, err
	close(c.done)

	f.storeCache(ctx, zNumber, data, err)

	f.mu.Lock()
	delete(f.inflight, zNumber)
	f.mu.Unlock()

	return data, err
}

func (f *Fetcher) lookupCache(ctx context.Context, zNumber string) (json.RawMessage, error, bool) {
	raw, err := f.cache.Get(ctx, zNumber)
	if err != nil {
		return nil, nil, false
	}
	var r cachedResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, nil, false
	}
	return r.Data, r.toError(), true
}

func (f *Fetcher) storeCache(ctx context.Context, zNumber string, data json.RawMessage, err error) {
	var r cachedResult
	if err != nil {
		r = resultFromError(zNumber, err)
	} else {
		r = cachedResult{Data: data}
	}
	raw, mErr := json.Marshal(r)
	if mErr != nil {
		logger.Warn("fetch: failed to marshal cache entry", logger.String("z_number", zNumber), logger.Err(mErr))
		return
	}
	if sErr := f.cache.Set(ctx, zNumber, raw, f.ttl); sErr != nil {
		logger.Warn("fetch: failed to write cache entry", logger.String("z_number", zNumber), logger.Err(sErr))
	}
}

// doFetch performs the actual upstream GET and traverses
// query → wikilambdaload_zobjects → {id} → data. spec.md §4.1, §6.
func (f *Fetcher) doFetch(ctx context.Context, zNumber string) (json.RawMessage, error) {
	logger.Debug("fetching from wikifunction", logger.String("z_number", zNumber))

	u := fmt.Sprintf("%s/api.php?action=query&format=json&list=wikilambdaload_zobjects&wikilambdaload_zids=%s&wikilambdaload_canonical=true",
		f.domain, url.QueryEscape(zNumber))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &NetworkError{ZNumber: zNumber, Err: err}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		logger.Warn("error fetching from wikifunction", logger.String("z_number", zNumber), logger.Err(err))
		return nil, &NetworkError{ZNumber: zNumber, Err: err}
	}
	defer resp.Body.Close()

	var body map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &SchemaError{ZNumber: zNumber, Reason: "failed parsing wikifunction response"}
	}

	query, ok := body["query"]
	if !ok {
		return nil, &SchemaError{ZNumber: zNumber, Reason: `no "query" key in wikifunction response`}
	}
	var queryObj map[string]json.RawMessage
	if err := json.Unmarshal(query, &queryObj); err != nil {
		return nil, &SchemaError{ZNumber: zNumber, Reason: `"query" is not an object`}
	}

	zobjects, ok := queryObj["wikilambdaload_zobjects"]
	if !ok {
		return nil, &SchemaError{ZNumber: zNumber, Reason: `no "wikilambdaload_zobjects" key in wikifunction response`}
	}
	var zobjectsObj map[string]json.RawMessage
	if err := json.Unmarshal(zobjects, &zobjectsObj); err != nil {
		return nil, &SchemaError{ZNumber: zNumber, Reason: `"wikilambdaload_zobjects" is not an object`}
	}

	self, ok := zobjectsObj[zNumber]
	if !ok {
		return nil, &SchemaError{ZNumber: zNumber, Reason: fmt.Sprintf("no key for self (%s) in wikifunction response", zNumber)}
	}
	var selfObj map[string]json.RawMessage
	if err := json.Unmarshal(self, &selfObj); err != nil {
		return nil, &SchemaError{ZNumber: zNumber, Reason: fmt.Sprintf("entry for %s is not an object", zNumber)}
	}

	data, ok := selfObj["data"]
	if !ok {
		return nil, &SchemaError{ZNumber: zNumber, Reason: `no "data" key in wikifunction response`}
	}

	logger.Debug("fetched from wikifunction", logger.String("z_number", zNumber))
	return data, nil
}
