package admin

import (
	"context"

	"github.com/jensneuse/graphql-go-tools/pkg/graphql"
	"go.uber.org/zap"
)

type QueryResultCachePurger interface {
	PurgeQueryResultBySchema(context.Context, *graphql.Schema) error
	PurgeQueryResultByOperationName(context.Context, string) error
	PurgeQueryResultByTypeName(context.Context, string) error
	PurgeQueryResultByTypeField(ctx context.Context, typeName, fieldName string) error
	PurgeQueryResultByTypeKey(ctx context.Context, typeName, fieldName string, value interface{}) error
}

type Resolver struct {
	schema *graphql.Schema
	purger QueryResultCachePurger
	logger *zap.Logger
}

func NewResolver(s *graphql.Schema, l *zap.Logger, p QueryResultCachePurger) *Resolver {
	return &Resolver{
		schema: s,
		logger: l,
		purger: p,
	}
}
