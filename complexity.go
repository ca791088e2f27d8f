package bookql

import (
	"fmt"

	"github.com/jensneuse/graphql-go-tools/pkg/graphql"
)

// Complexity limits how expensive a single request may be. Book and Author reference each other,
// so without limits a client can nest author { books { author { books ... } } } arbitrarily deep.
type Complexity struct {
	// Max query depth accept, disabled by default.
	MaxDepth int `json:"max_depth,omitempty"`

	// Query node count limit, disabled by default.
	NodeCountLimit int `json:"node_count_limit,omitempty"`

	// Max query complexity, disabled by default.
	MaxComplexity int `json:"complexity,omitempty"`
}

func (c *Complexity) validateRequest(s *graphql.Schema, r *graphql.Request) (requestErrors graphql.RequestErrors) {
	result, err := r.CalculateComplexity(graphql.DefaultComplexityCalculator, s)

	if err != nil {
		return graphql.RequestErrorsFromError(err)
	}

	limits := []struct {
		limit, current int
		pattern        string
	}{
		{c.MaxDepth, result.Depth, "query max depth is %d, current %d"},
		{c.NodeCountLimit, result.NodeCount, "query node count limit is %d, current %d"},
		{c.MaxComplexity, result.Complexity, "max query complexity allow is %d, current %d"},
	}

	for _, l := range limits {
		if l.limit > 0 && l.current > l.limit {
			requestErrors = append(requestErrors, graphql.RequestError{Message: fmt.Sprintf(l.pattern, l.limit, l.current)})
		}
	}

	return requestErrors
}
