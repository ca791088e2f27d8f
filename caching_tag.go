package bookql

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jensneuse/graphql-go-tools/pkg/astvisitor"
	"github.com/jensneuse/graphql-go-tools/pkg/graphql"
	"github.com/jensneuse/graphql-go-tools/pkg/operationreport"
)

const (
	cachingTagSchemaHashPrefix  = "schema:"
	cachingTagSchemaHashPattern = cachingTagSchemaHashPrefix + "%d"
	cachingTagTypeFieldPrefix   = "field:"
	cachingTagTypeFieldPattern  = cachingTagTypeFieldPrefix + "%s:%s"
	cachingTagTypePrefix        = "type:"
	cachingTagTypePattern       = cachingTagTypePrefix + "%s"
	cachingTagTypeKeyPrefix     = "key:"
	cachingTagTypeKeyPattern    = cachingTagTypeKeyPrefix + "%s:%s:%s"
	cachingTagOperationPrefix   = "operation:"
	cachingTagOperationPattern  = cachingTagOperationPrefix + "%s"

	defaultCachingTypeKey = "id"
)

type cachingTagVisitor struct {
	*cachingTagAnalyzer
	*astvisitor.Walker
	data map[string]interface{}
	tags cachingTags
}

func (c *cachingTagVisitor) EnterField(ref int) {
	operation, definition := c.request.operation, c.request.definition
	fieldName := operation.FieldNameString(ref)
	typeName := definition.NodeNameString(c.EnclosingTypeDefinition)

	c.tags.add(cachingTagTypePattern, typeName)

	// meta fields such as __typename still mark their enclosing type.
	if strings.HasPrefix(fieldName, "__") {
		return
	}

	c.tags.add(cachingTagTypeFieldPattern, typeName, fieldName)

	if !c.isTypeKey(typeName, fieldName) {
		return
	}

	path := make([]string, 0, len(c.Path))

	for _, p := range c.Path[1:] {
		path = append(path, p.FieldName.String())
	}

	path = append(path, operation.FieldAliasOrNameString(ref))
	c.collectTypeKeyTags(path, c.data, typeName, fieldName)
}

func (c *cachingTagVisitor) isTypeKey(typeName, fieldName string) bool {
	keys, ok := c.typeKeys[typeName]

	if !ok {
		return fieldName == defaultCachingTypeKey
	}

	_, ok = keys[fieldName]

	return ok
}

func (c *cachingTagVisitor) addTagForTypeKey(typeName, fieldName string, value interface{}) {
	switch v := value.(type) {
	case string:
		c.tags.add(cachingTagTypeKeyPattern, typeName, fieldName, v)
	case float64:
		c.tags.add(cachingTagTypeKeyPattern, typeName, fieldName, strconv.FormatInt(int64(v), 10))
	default:
		c.Walker.StopWithInternalErr(fmt.Errorf("invalid type key of %s.%s only accept string or numeric but got: %T", typeName, fieldName, v))
	}
}

// collectTypeKeyTags follows the response path through nested objects and lists down to the key values.
func (c *cachingTagVisitor) collectTypeKeyTags(path []string, data interface{}, typeName, fieldName string) {
	at := path[0]
	next := path[1:]

	switch v := data.(type) {
	case []interface{}:
		for _, item := range v {
			c.collectTypeKeyTags(path, item, typeName, fieldName)
		}
	case map[string]interface{}:
		item, ok := v[at]

		if !ok || item == nil {
			return
		}

		if len(next) > 0 {
			c.collectTypeKeyTags(next, item, typeName, fieldName)

			return
		}

		c.addTagForTypeKey(typeName, fieldName, item)
	case nil:
		// null parent, ex: book(id: 404) { id }
	default:
		c.Walker.StopWithInternalErr(fmt.Errorf("invalid data type expected map or array map but got %T", v))
	}
}

type cachingTags map[string]struct{}

type cachingTagAnalyzer struct {
	request  *cachingRequest
	typeKeys graphql.RequestTypes
}

func newCachingTagAnalyzer(r *cachingRequest, t graphql.RequestTypes) *cachingTagAnalyzer {
	return &cachingTagAnalyzer{r, t}
}

// AnalyzeResult collects schema, operation, type, field and key tags of the query result data.
func (c *cachingTagAnalyzer) AnalyzeResult(data map[string]interface{}, tags cachingTags) error {
	if err := c.request.initOperation(); err != nil {
		return err
	}

	report := &operationreport.Report{}
	walker := astvisitor.NewWalker(48)
	visitor := &cachingTagVisitor{
		cachingTagAnalyzer: c,
		Walker:             &walker,
		data:               data,
		tags:               tags,
	}

	walker.RegisterEnterFieldVisitor(visitor)
	walker.Walk(c.request.operation, c.request.definition, report)

	if report.HasErrors() {
		return report
	}

	schemaHash, err := c.request.schema.Hash()

	if err != nil {
		return err
	}

	tags.add(cachingTagSchemaHashPattern, schemaHash)
	tags.add(cachingTagOperationPattern, c.request.gqlRequest.OperationName)

	return nil
}

func (t cachingTags) add(pattern string, args ...interface{}) {
	t[fmt.Sprintf(pattern, args...)] = struct{}{}
}

func (t cachingTags) ToSlice() []string {
	s := make([]string, 0, len(t))

	for item := range t {
		s = append(s, item)
	}

	sort.Strings(s)

	return s
}

func (t cachingTags) TypeKeys() cachingTags {
	return t.filterWithPrefix(cachingTagTypeKeyPrefix)
}

func (t cachingTags) Types() cachingTags {
	return t.filterWithPrefix(cachingTagTypePrefix)
}

func (t cachingTags) TypeFields() cachingTags {
	return t.filterWithPrefix(cachingTagTypeFieldPrefix)
}

func (t cachingTags) SchemaHash() cachingTags {
	return t.filterWithPrefix(cachingTagSchemaHashPrefix)
}

func (t cachingTags) Operation() cachingTags {
	return t.filterWithPrefix(cachingTagOperationPrefix)
}

// Without returns tags except the given types tags, ex: root operation types.
func (t cachingTags) Without(typeNames ...string) cachingTags {
	tags := make(cachingTags, len(t))

	for tag := range t {
		tags[tag] = struct{}{}
	}

	for _, name := range typeNames {
		delete(tags, fmt.Sprintf(cachingTagTypePattern, name))
	}

	return tags
}

func (t cachingTags) filterWithPrefix(prefix string) cachingTags {
	keys := make(cachingTags)

	for tag := range t {
		if strings.HasPrefix(tag, prefix) {
			keys[tag] = struct{}{}
		}
	}

	return keys
}
