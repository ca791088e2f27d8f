package admin

import (
	gographql "github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

func (r *Resolver) PurgeAll(p gographql.ResolveParams) (interface{}, error) {
	if err := r.purger.PurgeQueryResultBySchema(p.Context, r.schema); err != nil {
		r.logger.Warn("fail to purge query result by schema", zap.Error(err))

		return false, nil
	}

	return true, nil
}

func (r *Resolver) PurgeOperation(p gographql.ResolveParams) (interface{}, error) {
	name, _ := p.Args["name"].(string)

	if err := r.purger.PurgeQueryResultByOperationName(p.Context, name); err != nil {
		r.logger.Warn("fail to purge query result by operation name", zap.Error(err))

		return false, nil
	}

	return true, nil
}

func (r *Resolver) PurgeTypeKey(p gographql.ResolveParams) (interface{}, error) {
	typeName, _ := p.Args["type"].(string)
	field, _ := p.Args["field"].(string)
	key, _ := p.Args["key"].(string)

	if err := r.purger.PurgeQueryResultByTypeKey(p.Context, typeName, field, key); err != nil {
		r.logger.Warn("fail to purge query result by type key", zap.Error(err))

		return false, nil
	}

	return true, nil
}

func (r *Resolver) PurgeQueryRootField(p gographql.ResolveParams) (interface{}, error) {
	field, _ := p.Args["field"].(string)

	if err := r.purger.PurgeQueryResultByTypeField(p.Context, r.schema.QueryTypeName(), field); err != nil {
		r.logger.Warn("fail to purge query result by root field", zap.Error(err))

		return false, nil
	}

	return true, nil
}

func (r *Resolver) PurgeType(p gographql.ResolveParams) (interface{}, error) {
	typeName, _ := p.Args["type"].(string)

	if err := r.purger.PurgeQueryResultByTypeName(p.Context, typeName); err != nil {
		r.logger.Warn("fail to purge query result by type", zap.Error(err))

		return false, err
	}

	return true, nil
}

func (r *Resolver) Dummy(p gographql.ResolveParams) (interface{}, error) {
	return "no query fields exists", nil
}
