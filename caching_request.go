package bookql

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jensneuse/graphql-go-tools/pkg/ast"
	"github.com/jensneuse/graphql-go-tools/pkg/astnormalization"
	"github.com/jensneuse/graphql-go-tools/pkg/astparser"
	"github.com/jensneuse/graphql-go-tools/pkg/graphql"
	"github.com/jensneuse/graphql-go-tools/pkg/pool"
	"github.com/pquerna/cachecontrol/cacheobject"
)

const cachingQueryResultKeyPattern = "bookql_cqr_%d"

type cachingRequest struct {
	httpRequest           *http.Request
	schema                *graphql.Schema
	gqlRequest            *graphql.Request
	definition, operation *ast.Document
	cacheControl          *cacheobject.RequestCacheDirectives
}

func newCachingRequest(r *http.Request, d *ast.Document, s *graphql.Schema, gr *graphql.Request) *cachingRequest {
	cr := &cachingRequest{
		httpRequest: r,
		schema:      s,
		definition:  d,
		gqlRequest:  gr,
	}

	cr.cacheControl, _ = cacheobject.ParseRequestCacheControl(r.Header.Get("cache-control"))

	return cr
}

// initOperation parses and normalizes the operation document once, the tag analyzer walks it against the definition.
func (r *cachingRequest) initOperation() error {
	if r.operation != nil {
		return nil
	}

	operation, report := astparser.ParseGraphqlDocumentString(r.gqlRequest.Query)

	if report.HasErrors() {
		return &report
	}

	operation.Input.Variables = r.gqlRequest.Variables
	normalizer := astnormalization.NewWithOpts(
		astnormalization.WithExtractVariables(),
		astnormalization.WithRemoveFragmentDefinitions(),
		astnormalization.WithRemoveUnusedVariables(),
	)

	if r.gqlRequest.OperationName != "" {
		normalizer.NormalizeNamedOperation(&operation, r.definition, []byte(r.gqlRequest.OperationName), &report)
	} else {
		normalizer.NormalizeOperation(&operation, r.definition, &report)
	}

	if report.HasErrors() {
		return &report
	}

	r.operation = &operation

	return nil
}

// queryResultCacheKey identifies a query result by schema, normalized operation, variables and vary headers.
func (r *cachingRequest) queryResultCacheKey(varies []string) (string, error) {
	hash := pool.Hash64.Get()
	defer pool.Hash64.Put(hash)
	hash.Reset()

	schemaHash, err := r.schema.Hash()

	if err != nil {
		return "", err
	}

	fmt.Fprintf(hash, "schema=%d;", schemaHash)

	documentBuffer := bufferPool.Get().(*bytes.Buffer)
	defer bufferPool.Put(documentBuffer)
	documentBuffer.Reset()

	if _, err = r.gqlRequest.Print(documentBuffer); err != nil {
		return "", err
	}

	fmt.Fprintf(hash, "document=%s;", documentBuffer.Bytes())

	if err = json.NewEncoder(hash).Encode(struct {
		OperationName string          `json:"operationName"`
		Variables     json.RawMessage `json:"variables,omitempty"`
	}{
		OperationName: r.gqlRequest.OperationName,
		Variables:     r.gqlRequest.Variables,
	}); err != nil {
		return "", err
	}

	for _, name := range varies {
		fmt.Fprintf(hash, "header:%s=%s;", http.CanonicalHeaderKey(name), r.httpRequest.Header.Get(name))
	}

	return fmt.Sprintf(cachingQueryResultKeyPattern, hash.Sum64()), nil
}
