package bookql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/caddyserver/caddy/v2"
	"github.com/eko/gocache/v2/store"
	"github.com/pquerna/cachecontrol/cacheobject"
)

var (
	errQueryResultHasErrors  = errors.New("query result has errors")
	errQueryResultMissedData = errors.New("query result: `data` field missing")
)

type cachingQueryResult struct {
	Header    http.Header
	Body      json.RawMessage
	HitTime   uint64
	CreatedAt time.Time
	MaxAge    caddy.Duration
	Tags      cachingTags

	cacheKey string
}

// queryResultPayload is the part of a GraphQL response caching cares about.
type queryResultPayload struct {
	Data   map[string]interface{} `json:"data,omitempty"`
	Errors []json.RawMessage      `json:"errors,omitempty"`
}

func decodeQueryResult(body []byte) (*queryResultPayload, error) {
	payload := new(queryResultPayload)

	if err := json.Unmarshal(body, payload); err != nil {
		return nil, err
	}

	if len(payload.Data) == 0 {
		return nil, errQueryResultMissedData
	}

	return payload, nil
}

func (c *Caching) getCachingQueryResult(ctx context.Context, cacheKey string) (*cachingQueryResult, error) {
	result := new(cachingQueryResult)

	if _, err := c.store.Get(ctx, cacheKey, result); err != nil {
		return nil, err
	}

	result.cacheKey = cacheKey

	return result, nil
}

func (c *Caching) cachingQueryResult(ctx context.Context, request *cachingRequest, cacheKey string, body []byte, header http.Header) error {
	payload, err := decodeQueryResult(body)

	if err != nil {
		return err
	}

	if len(payload.Errors) > 0 {
		return errQueryResultHasErrors
	}

	tags := make(cachingTags)
	tagAnalyzer := newCachingTagAnalyzer(request, c.TypeKeys)

	if err = tagAnalyzer.AnalyzeResult(payload.Data, tags); err != nil {
		return err
	}

	result := &cachingQueryResult{
		Body:      body,
		Header:    header,
		CreatedAt: time.Now(),
		MaxAge:    c.MaxAge,
		Tags:      tags,
	}

	result.normalizeHeader()

	return c.store.Set(ctx, cacheKey, result, &store.Options{
		Tags:       tags.ToSlice(),
		Expiration: time.Duration(result.MaxAge),
	})
}

func (c *Caching) increaseQueryResultHitTimes(ctx context.Context, r *cachingQueryResult) error {
	r.HitTime++
	remaining := time.Duration(r.MaxAge) - r.Age()

	if remaining <= 0 {
		return nil
	}

	return c.store.Set(ctx, r.cacheKey, r, &store.Options{
		Tags:       r.Tags.ToSlice(),
		Expiration: remaining,
	})
}

// ValidFor check caching result still valid with request cache control directives
// https://datatracker.ietf.org/doc/html/rfc7234#section-5.2.1
func (r *cachingQueryResult) ValidFor(cc *cacheobject.RequestCacheDirectives) bool {
	age := r.Age()

	if age > time.Duration(r.MaxAge) {
		return false
	}

	if cc == nil {
		return true
	}

	if cc.NoCache {
		return false
	}

	if cc.MaxAge != -1 && age > time.Duration(cc.MaxAge)*time.Second {
		return false
	}

	if cc.MinFresh != -1 && age+time.Duration(cc.MinFresh)*time.Second > time.Duration(r.MaxAge) {
		return false
	}

	return true
}

func (r *cachingQueryResult) Age() time.Duration {
	return time.Since(r.CreatedAt)
}

func (r *cachingQueryResult) normalizeHeader() {
	r.Header.Del("date")
	r.Header.Del("server")
	r.Header.Del("x-cache")
}
