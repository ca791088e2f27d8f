package bookql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	gographql "github.com/graphql-go/graphql"
	"github.com/jensneuse/graphql-go-tools/pkg/ast"
	"github.com/jensneuse/graphql-go-tools/pkg/astparser"
	"github.com/jensneuse/graphql-go-tools/pkg/astprinter"
	"github.com/jensneuse/graphql-go-tools/pkg/graphql"
	"github.com/jensneuse/graphql-go-tools/pkg/introspection"
	"go.uber.org/zap"
)

// schemaLoader derives the request schema used for normalization, complexity and cache tagging
// by introspecting the executable schema in process.
type schemaLoader struct {
	executable gographql.Schema
	context    context.Context
	logger     *zap.Logger
}

func (s *schemaLoader) load() (*graphql.Schema, *ast.Document, error) {
	data, err := s.introspect()

	if err != nil {
		return nil, nil, err
	}

	schema, err := s.schemaFromIntrospectionData(data)

	if err != nil {
		return nil, nil, err
	}

	document, report := astparser.ParseGraphqlDocumentBytes(schema.Document())

	if report.HasErrors() {
		return nil, nil, &report
	}

	hash, _ := schema.Hash()
	s.logger.Info("request schema loaded", zap.Uint64("schema_hash", hash))

	return schema, &document, nil
}

func (s *schemaLoader) introspect() (*introspection.Data, error) {
	result := gographql.Do(gographql.Params{
		Schema:        s.executable,
		RequestString: introspectionQuery,
		OperationName: "IntrospectionQuery",
		Context:       s.context,
	})

	if result.HasErrors() {
		return nil, fmt.Errorf("introspection query failed: %s", result.Errors[0].Message)
	}

	rawData, err := json.Marshal(result.Data)

	if err != nil {
		return nil, err
	}

	data := new(introspection.Data)

	if err = json.Unmarshal(rawData, data); err != nil {
		return nil, err
	}

	return data, nil
}

func (*schemaLoader) schemaFromIntrospectionData(data *introspection.Data) (*graphql.Schema, error) {
	dataJSON, _ := json.Marshal(data) // nolint:errchkjson
	converter := &introspection.JsonConverter{}
	document, err := converter.GraphQLDocument(bytes.NewBuffer(dataJSON))

	if err != nil {
		return nil, err
	}

	documentOutWriter := bufferPool.Get().(*bytes.Buffer)
	defer bufferPool.Put(documentOutWriter)
	documentOutWriter.Reset()

	if err = astprinter.Print(document, nil, documentOutWriter); err != nil {
		return nil, err
	}

	schema, err := graphql.NewSchemaFromReader(documentOutWriter)

	if err != nil {
		return nil, err
	}

	normalizationResult, _ := schema.Normalize()

	if !normalizationResult.Successful {
		return nil, normalizationResult.Errors
	}

	return schema, nil
}

const introspectionQuery = `
  query IntrospectionQuery {
    __schema {
      queryType { name }
      mutationType { name }
      subscriptionType { name }
      types {
        ...FullType
      }
      directives {
        name
        args {
          ...InputValue
        }
        locations
      }
    }
  }

  fragment FullType on __Type {
    kind
    name
    fields(includeDeprecated: true) {
      name
      args {
        ...InputValue
      }
      type {
        ...TypeRef
      }
      isDeprecated
      deprecationReason
    }
    inputFields {
      ...InputValue
    }
    interfaces {
      ...TypeRef
    }
    enumValues(includeDeprecated: true) {
      name
      isDeprecated
      deprecationReason
    }
    possibleTypes {
      ...TypeRef
    }
  }

  fragment InputValue on __InputValue {
    name
    type { ...TypeRef }
  }

  fragment TypeRef on __Type {
    kind
    name
    ofType {
      kind
      name
      ofType {
        kind
        name
        ofType {
          kind
          name
          ofType {
            kind
            name
          }
        }
      }
    }
  }
`
