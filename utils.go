package bookql

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"

	gographql "github.com/graphql-go/graphql"
	"github.com/jensneuse/graphql-go-tools/pkg/graphql"
)

var (
	bufferPool = sync.Pool{
		New: func() interface{} {
			return new(bytes.Buffer)
		},
	}
)

func writeResponseErrors(errors error, w http.ResponseWriter) error {
	gqlErrors := graphql.RequestErrorsFromError(errors)
	w.Header().Set("Content-Type", "application/json")

	if _, err := gqlErrors.WriteResponse(w); err != nil {
		return err
	}

	return nil
}

func writeResult(result *gographql.Result, w http.ResponseWriter) error {
	body, err := json.Marshal(result)

	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	_, err = w.Write(body)

	return err
}

func normalizeGraphqlRequest(s *graphql.Schema, r *graphql.Request) error {
	result, err := r.Normalize(s)

	if err != nil {
		return err
	}

	if !result.Successful {
		return result.Errors
	}

	return nil
}
