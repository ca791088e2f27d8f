package bookql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bookql/bookql/admin"
	"github.com/bookql/bookql/graph"
	"github.com/bookql/bookql/store"
	"github.com/caddyserver/caddy/v2"
	"github.com/caddyserver/caddy/v2/modules/caddyhttp"
	gographql "github.com/graphql-go/graphql"
	"github.com/jensneuse/graphql-go-tools/pkg/ast"
	"github.com/jensneuse/graphql-go-tools/pkg/graphql"
	"go.uber.org/zap"
)

type ctxKey string

const errorReporterCtxKey ctxKey = "bookql_error_reporter"

func init() {
	caddy.RegisterModule(Handler{})
}

type Handler struct {
	// Whether to disable introspection queries.
	DisabledIntrospection bool `json:"disabled_introspection,omitempty"`

	// Whether to disable playground paths.
	DisabledPlaygrounds bool `json:"disabled_playgrounds,omitempty"`

	// Whether to start with empty books and authors collections instead of the sample data.
	DisabledSeed bool `json:"disabled_seed,omitempty"`

	// Request complexity settings, disabled by default.
	Complexity *Complexity `json:"complexity,omitempty"`

	// Caching queries result settings, disabled by default.
	Caching *Caching `json:"caching,omitempty"`

	// Cors origins
	CORSOrigins []string `json:"cors_origins,omitempty"`

	// Cors allowed headers
	CORSAllowedHeaders []string `json:"cors_allowed_headers,omitempty"`

	ctxBackground       context.Context
	ctxBackgroundCancel func()
	logger              *zap.Logger
	store               *store.Store
	executableSchema    gographql.Schema
	adminSchema         gographql.Schema
	schema              *graphql.Schema
	schemaDocument      *ast.Document
	router              http.Handler
	metrics             *Metrics
}

type errorReporter struct {
	error
}

// executionParams is the GraphQL-over-HTTP request body as the executor consumes it.
type executionParams struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func (Handler) CaddyModule() caddy.ModuleInfo {
	return caddy.ModuleInfo{
		ID:  "http.handlers.bookql",
		New: func() caddy.Module { return new(Handler) },
	}
}

func (h *Handler) Provision(ctx caddy.Context) error {
	h.logger = ctx.Logger(h)

	if h.Caching != nil {
		if err := h.Caching.Provision(ctx); err != nil {
			return err
		}
	}

	return h.provision()
}

func (h *Handler) provision() (err error) {
	h.metrics = metrics
	h.ctxBackground, h.ctxBackgroundCancel = context.WithCancel(context.Background())

	if h.Caching != nil {
		h.Caching.withLogger(h.logger)
		h.Caching.withMetrics(h)
	}

	var opts []store.Option

	if h.DisabledSeed {
		opts = append(opts, store.WithoutSeed())
	}

	h.store = store.New(opts...)

	if h.executableSchema, err = graph.NewExecutableSchema(graph.NewResolver(h.store, h.logger)); err != nil {
		return fmt.Errorf("fail to build executable schema: %w", err)
	}

	contract, err := graph.Contract()

	if err != nil {
		return fmt.Errorf("fail to load schema contract: %w", err)
	}

	if err = graph.Verify(contract, h.executableSchema); err != nil {
		h.logger.Error("executable schema drifted from contract", zap.Error(err))

		return err
	}

	loader := &schemaLoader{
		executable: h.executableSchema,
		context:    h.ctxBackground,
		logger:     h.logger,
	}

	if h.schema, h.schemaDocument, err = loader.load(); err != nil {
		h.logger.Error("fail to load request schema", zap.Error(err))

		return err
	}

	if h.Caching != nil {
		resolver := admin.NewResolver(h.schema, h.logger, h.Caching)

		if h.adminSchema, err = admin.NewExecutableSchema(resolver); err != nil {
			return fmt.Errorf("fail to build admin schema: %w", err)
		}
	}

	h.initRouter()

	return nil
}

func (h *Handler) Validate() error {
	if h.Caching != nil {
		if err := h.Caching.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func (h *Handler) Cleanup() error {
	if h.ctxBackgroundCancel != nil {
		h.ctxBackgroundCancel()
	}

	if h.Caching != nil {
		return h.Caching.Cleanup()
	}

	return nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request, _ caddyhttp.Handler) error {
	reporter := new(errorReporter)
	ctx := context.WithValue(r.Context(), errorReporterCtxKey, reporter)

	h.router.ServeHTTP(w, r.WithContext(ctx))

	return reporter.error
}

// GraphQLHandle ensure GraphQL request is safe before executing it and caching query result of it.
func (h *Handler) GraphQLHandle(w http.ResponseWriter, r *http.Request) {
	reporter := r.Context().Value(errorReporterCtxKey).(*errorReporter)
	gqlRequest, params, err := h.unmarshalHTTPRequest(r)

	if err != nil {
		h.logger.Debug("can not unmarshal graphql request from http request", zap.Error(err))
		reporter.error = writeResponseErrors(err, w)

		return
	}

	h.addMetricsBeginRequest(gqlRequest)
	defer func(startedAt time.Time) {
		h.addMetricsEndRequest(gqlRequest, time.Since(startedAt))
	}(time.Now())

	if err = h.validateGraphqlRequest(gqlRequest); err != nil {
		reporter.error = writeResponseErrors(err, w)

		return
	}

	execute := caddyhttp.HandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
		return h.execute(w, r, h.executableSchema, params)
	})

	if h.Caching != nil {
		cachingRequest := newCachingRequest(r, h.schemaDocument, h.schema, gqlRequest)

		if err = h.Caching.HandleRequest(w, cachingRequest, execute); err != nil {
			reporter.error = writeResponseErrors(err, w)
		}

		return
	}

	reporter.error = execute(w, r)
}

// AdminGraphQLHandle purging query result cached.
func (h *Handler) AdminGraphQLHandle(w http.ResponseWriter, r *http.Request) {
	reporter := r.Context().Value(errorReporterCtxKey).(*errorReporter)
	params := new(executionParams)

	if err := json.NewDecoder(r.Body).Decode(params); err != nil {
		reporter.error = writeResponseErrors(err, w)

		return
	}

	reporter.error = h.execute(w, r, h.adminSchema, params)
}

func (h *Handler) unmarshalHTTPRequest(r *http.Request) (*graphql.Request, *executionParams, error) {
	gqlRequest := new(graphql.Request)
	rawBody, err := io.ReadAll(r.Body)

	if err != nil {
		return nil, nil, err
	}

	r.Body = io.NopCloser(bytes.NewReader(rawBody))
	copyHTTPRequest, err := http.NewRequestWithContext(r.Context(), r.Method, r.URL.String(), bytes.NewReader(rawBody))

	if err != nil {
		return nil, nil, err
	}

	copyHTTPRequest.Header = r.Header.Clone()

	if err = graphql.UnmarshalHttpRequest(copyHTTPRequest, gqlRequest); err != nil {
		return nil, nil, err
	}

	// normalization rewrites variables, the executor needs them as sent.
	params := new(executionParams)

	if err = json.Unmarshal(rawBody, params); err != nil {
		return nil, nil, err
	}

	if err = normalizeGraphqlRequest(h.schema, gqlRequest); err != nil {
		return nil, nil, err
	}

	return gqlRequest, params, nil
}

func (h *Handler) validateGraphqlRequest(r *graphql.Request) error {
	isIntrospectQuery, _ := r.IsIntrospectionQuery()

	if isIntrospectQuery && h.DisabledIntrospection {
		return ErrNotAllowIntrospectionQuery
	}

	if h.Complexity != nil {
		requestErrors := h.Complexity.validateRequest(h.schema, r)

		if requestErrors.Count() > 0 {
			return requestErrors
		}
	}

	return nil
}

func (h *Handler) execute(w http.ResponseWriter, r *http.Request, s gographql.Schema, params *executionParams) error {
	result := gographql.Do(gographql.Params{
		Schema:         s,
		RequestString:  params.Query,
		VariableValues: params.Variables,
		OperationName:  params.OperationName,
		Context:        r.Context(),
	})

	if result.HasErrors() {
		h.logger.Debug(
			"graphql execution finished with errors",
			zap.String("operation_name", params.OperationName),
			zap.Int("errors", len(result.Errors)),
		)
	}

	return writeResult(result, w)
}

// Interface guards
var (
	_ caddy.Module                = (*Handler)(nil)
	_ caddy.Provisioner           = (*Handler)(nil)
	_ caddy.Validator             = (*Handler)(nil)
	_ caddy.CleanerUpper          = (*Handler)(nil)
	_ caddyhttp.MiddlewareHandler = (*Handler)(nil)
)
