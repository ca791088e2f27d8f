package bookql

import (
	"context"
	"fmt"
	"strconv"

	"github.com/eko/gocache/v2/store"
	"github.com/jensneuse/graphql-go-tools/pkg/graphql"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// purgeQueryResultByMutationResult purges query results having object types returned by the mutation.
func (c *Caching) purgeQueryResultByMutationResult(ctx context.Context, request *cachingRequest, result []byte) error {
	payload, err := decodeQueryResult(result)

	if err != nil {
		return err
	}

	foundTags := make(cachingTags)
	tagAnalyzer := newCachingTagAnalyzer(request, c.TypeKeys)

	if err = tagAnalyzer.AnalyzeResult(payload.Data, foundTags); err != nil {
		return err
	}

	schema := request.schema
	purgeTags := foundTags.Types().Without(schema.QueryTypeName(), schema.MutationTypeName())

	return c.purgeQueryResultByTags(ctx, purgeTags.ToSlice())
}

func (c *Caching) PurgeQueryResultBySchema(ctx context.Context, schema *graphql.Schema) error {
	hash, err := schema.Hash()

	if err != nil {
		return err
	}

	return c.purgeQueryResultByTags(ctx, []string{fmt.Sprintf(cachingTagSchemaHashPattern, hash)})
}

func (c *Caching) PurgeQueryResultByOperationName(ctx context.Context, name string) error {
	return c.purgeQueryResultByTags(ctx, []string{fmt.Sprintf(cachingTagOperationPattern, name)})
}

func (c *Caching) PurgeQueryResultByTypeName(ctx context.Context, name string) error {
	return c.purgeQueryResultByTags(ctx, []string{fmt.Sprintf(cachingTagTypePattern, name)})
}

func (c *Caching) PurgeQueryResultByTypeField(ctx context.Context, typeName, fieldName string) error {
	return c.purgeQueryResultByTags(ctx, []string{fmt.Sprintf(cachingTagTypeFieldPattern, typeName, fieldName)})
}

func (c *Caching) PurgeQueryResultByTypeKey(ctx context.Context, typeName, fieldName string, value interface{}) error {
	var key string

	switch v := value.(type) {
	case string:
		key = v
	case int:
		key = strconv.Itoa(v)
	default:
		return fmt.Errorf("only support purging type key value int or string, got %T", v)
	}

	return c.purgeQueryResultByTags(ctx, []string{fmt.Sprintf(cachingTagTypeKeyPattern, typeName, fieldName, key)})
}

func (c *Caching) purgeQueryResultByTags(ctx context.Context, tags []string) error {
	var err error

	if len(tags) == 0 {
		return nil
	}

	c.logger.Debug("purging query result by tags", zap.Strings("tags", tags))

	for _, t := range tags {
		// store invalidation stops on the first error, so tags are invalidated one by one.
		if e := c.store.Invalidate(ctx, store.InvalidateOptions{Tags: []string{t}}); e != nil {
			if err == nil {
				err = e
			} else {
				err = errors.WithMessage(err, e.Error())
			}
		}
	}

	return err
}
