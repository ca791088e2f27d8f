package bookql

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/caddyserver/caddy/v2/modules/caddyhttp"
	"github.com/jensneuse/graphql-go-tools/pkg/graphql"
	"go.uber.org/zap"
)

var (
	errHandleUnknownOperationType = errors.New("unknown operation type")
	errQueryResultOutdated        = errors.New("query result outdated by a mutation")
)

// HandleRequest caching GraphQL query result and purging them on mutations.
func (c *Caching) HandleRequest(w http.ResponseWriter, r *cachingRequest, h caddyhttp.HandlerFunc) error {
	operationType, _ := r.gqlRequest.OperationType()

	switch operationType {
	case graphql.OperationTypeQuery:
		return c.handleQueryRequest(w, r, h)
	case graphql.OperationTypeMutation:
		return c.handleMutationRequest(w, r, h)
	}

	return errHandleUnknownOperationType
}

func (c *Caching) handleQueryRequest(w http.ResponseWriter, r *cachingRequest, h caddyhttp.HandlerFunc) (err error) {
	if r.cacheControl != nil && r.cacheControl.NoStore {
		defer c.addMetricsCachePass(r.gqlRequest)
		c.addCachingResponseHeaders(CachingStatusPass, nil, "", w.Header())

		return h(w, r.httpRequest)
	}

	cacheKey, err := r.queryResultCacheKey(c.Varies)

	if err != nil {
		return err
	}

	if result := c.resolveQueryResult(r, cacheKey); result != nil {
		defer c.addMetricsCacheHit(r.gqlRequest)

		for header, values := range result.Header {
			w.Header()[header] = values
		}

		c.addCachingResponseHeaders(CachingStatusHit, result, cacheKey, w.Header())
		w.WriteHeader(http.StatusOK)
		_, err = w.Write(result.Body)

		return err
	}

	defer c.addMetricsCacheMiss(r.gqlRequest)

	recordBuff := bufferPool.Get().(*bytes.Buffer)
	defer bufferPool.Put(recordBuff)
	recordBuff.Reset()

	recorder := caddyhttp.NewResponseRecorder(w, recordBuff, func(status int, header http.Header) bool {
		if shouldRecordResponse(status, header) {
			return true
		}

		c.addCachingResponseHeaders(CachingStatusMiss, nil, cacheKey, header)

		return false
	})

	epoch := atomic.LoadUint64(&c.mutationEpoch)

	if err = h(recorder, r.httpRequest); err != nil {
		return err
	}

	if !recorder.Buffered() {
		return nil
	}

	header := recorder.Header().Clone()
	ctx := r.httpRequest.Context()

	if err = c.cachingQueryResultAtEpoch(ctx, r, epoch, cacheKey, recordBuff.Bytes(), header); err != nil {
		c.logger.Debug("skip caching query result", zap.String("cache_key", cacheKey), zap.Error(err))
	} else {
		c.logger.Debug("caching query result successful", zap.String("cache_key", cacheKey))
	}

	var stored *cachingQueryResult

	if c.DebugHeaders {
		stored, _ = c.getCachingQueryResult(ctx, cacheKey)
	}

	c.addCachingResponseHeaders(CachingStatusMiss, stored, cacheKey, recorder.Header())

	return recorder.WriteResponse()
}

// cachingQueryResultAtEpoch stores the result only when no mutation ran since epoch,
// a result stored concurrently with a mutation is removed again.
func (c *Caching) cachingQueryResultAtEpoch(ctx context.Context, r *cachingRequest, epoch uint64, cacheKey string, body []byte, header http.Header) error {
	if atomic.LoadUint64(&c.mutationEpoch) != epoch {
		return errQueryResultOutdated
	}

	if err := c.cachingQueryResult(ctx, r, cacheKey, body, header); err != nil {
		return err
	}

	if atomic.LoadUint64(&c.mutationEpoch) == epoch {
		return nil
	}

	if err := c.store.Delete(ctx, cacheKey); err != nil {
		return err
	}

	return errQueryResultOutdated
}

func (c *Caching) resolveQueryResult(r *cachingRequest, cacheKey string) *cachingQueryResult {
	ctx := r.httpRequest.Context()
	result, err := c.getCachingQueryResult(ctx, cacheKey)

	if err != nil || !result.ValidFor(r.cacheControl) {
		return nil
	}

	if err = c.increaseQueryResultHitTimes(ctx, result); err != nil {
		c.logger.Debug("fail to increase query result hit times", zap.String("cache_key", cacheKey), zap.Error(err))
	}

	return result
}

func (c *Caching) addCachingResponseHeaders(s CachingStatus, r *cachingQueryResult, cacheKey string, h http.Header) {
	h.Set("x-cache", string(s))

	if s == CachingStatusPass {
		return
	}

	for _, vary := range c.Varies {
		h.Add("vary", vary)
	}

	if c.DebugHeaders {
		h.Set("x-debug-result-cache-key", cacheKey)

		if r != nil {
			h.Set("x-debug-result-tags", strings.Join(r.Tags.ToSlice(), ", "))
		}
	}

	if s != CachingStatusHit {
		return
	}

	age := int64(r.Age().Seconds())
	maxAge := int64(time.Duration(r.MaxAge).Seconds())

	h.Set("age", fmt.Sprintf("%d", age))
	h.Set("cache-control", fmt.Sprintf("public, s-maxage=%d", maxAge))
	h.Set("x-cache-hits", fmt.Sprintf("%d", r.HitTime))
}

func (c *Caching) handleMutationRequest(w http.ResponseWriter, r *cachingRequest, h caddyhttp.HandlerFunc) (err error) {
	if !c.autoInvalidate() {
		return h(w, r.httpRequest)
	}

	recordBuff := bufferPool.Get().(*bytes.Buffer)
	defer bufferPool.Put(recordBuff)
	recordBuff.Reset()

	recorder := caddyhttp.NewResponseRecorder(w, recordBuff, func(status int, header http.Header) bool {
		return shouldRecordResponse(status, header)
	})

	err = h(recorder, r.httpRequest)
	atomic.AddUint64(&c.mutationEpoch, 1)

	if err != nil {
		return err
	}

	if !recorder.Buffered() {
		return nil
	}

	if err = c.purgeQueryResultByMutationResult(r.httpRequest.Context(), r, recordBuff.Bytes()); err != nil {
		c.logger.Info("fail to purge query result", zap.Error(err))
	}

	return recorder.WriteResponse()
}

func shouldRecordResponse(status int, header http.Header) bool {
	mt, _, _ := mime.ParseMediaType(header.Get("content-type"))

	return status == http.StatusOK && mt == "application/json"
}
