package bookql

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/caddyserver/caddy/v2"
	"github.com/caddyserver/caddy/v2/caddyconfig/caddyfile"
	"github.com/jensneuse/graphql-go-tools/pkg/graphql"
	"github.com/stretchr/testify/require"
)

func TestCaddyfile(t *testing.T) {
	testCases := map[string]struct {
		disabledIntrospection        string
		disabledPlaygrounds          string
		disabledSeed                 string
		enabledCaching               string
		enabledComplexity            string
		enabledCachingAutoInvalidate string
	}{
		"enabled_all_features": {
			enabledCaching:               "true",
			enabledCachingAutoInvalidate: "true",
			enabledComplexity:            "true",
			disabledIntrospection:        "false",
			disabledPlaygrounds:          "false",
			disabledSeed:                 "false",
		},
		"disabled_all_features": {
			enabledCaching:               "false",
			enabledCachingAutoInvalidate: "false",
			enabledComplexity:            "false",
			disabledIntrospection:        "true",
			disabledPlaygrounds:          "true",
			disabledSeed:                 "true",
		},
		"enabled_caching_and_disabled_caching_auto_invalidate": {
			enabledCaching:               "true",
			enabledCachingAutoInvalidate: "false",
			enabledComplexity:            "false",
			disabledIntrospection:        "true",
			disabledPlaygrounds:          "true",
			disabledSeed:                 "false",
		},
	}

	for name, testCase := range testCases {
		h := &Handler{}
		d := caddyfile.NewTestDispenser(fmt.Sprintf(`
bookql {
	complexity {
		enabled %s
		max_depth 3
		max_complexity 2
		node_count_limit 1
	}
	disabled_playgrounds %s
	disabled_introspection %s
	disabled_seed %s
	cors_origins http://localhost:3000
	cors_allowed_headers Authorization Content-Type
	caching {
		enabled %s
		auto_invalidate_cache %s
		store_dsn freecache://?cache_size=1024
		max_age 10m
		varies Authorization X-Tenant
		debug_headers true
		type_keys {
			Book id name
			Author id
		}
	}
}
`, testCase.enabledComplexity, testCase.disabledPlaygrounds, testCase.disabledIntrospection, testCase.disabledSeed, testCase.enabledCaching, testCase.enabledCachingAutoInvalidate))
		require.NoErrorf(t, h.UnmarshalCaddyfile(d), "case %s: unmarshal caddy file error", name)

		enabledComplexity, _ := strconv.ParseBool(testCase.enabledComplexity)
		enabledCaching, _ := strconv.ParseBool(testCase.enabledCaching)
		disabledPlaygrounds, _ := strconv.ParseBool(testCase.disabledPlaygrounds)
		disabledIntrospection, _ := strconv.ParseBool(testCase.disabledIntrospection)
		disabledSeed, _ := strconv.ParseBool(testCase.disabledSeed)
		enabledCachingAutoInvalidate, _ := strconv.ParseBool(testCase.enabledCachingAutoInvalidate)

		if enabledCaching {
			require.Equalf(t, enabledCachingAutoInvalidate, h.Caching.autoInvalidate(), "case %s: unexpected caching auto invalidate", name)
			require.Equalf(t, "freecache://?cache_size=1024", h.Caching.StoreDsn, "case %s: unexpected store dsn", name)
			require.Equalf(t, caddy.Duration(time.Minute*10), h.Caching.MaxAge, "case %s: unexpected max age", name)
			require.Equalf(t, []string{"Authorization", "X-Tenant"}, h.Caching.Varies, "case %s: unexpected varies", name)
			require.Truef(t, h.Caching.DebugHeaders, "case %s: debug headers should be enabled", name)
			require.Equalf(t, graphql.RequestTypes{
				"Book":   graphql.RequestFields{"id": struct{}{}, "name": struct{}{}},
				"Author": graphql.RequestFields{"id": struct{}{}},
			}, h.Caching.TypeKeys, "case %s: unexpected type keys", name)
		} else {
			require.Nilf(t, h.Caching, "case %s: caching should be nil if not enabled", name)
		}

		if enabledComplexity {
			require.Equalf(t, 3, h.Complexity.MaxDepth, "case %s: max depth should be 3", name)
			require.Equalf(t, 2, h.Complexity.MaxComplexity, "case %s: max complexity should be 2", name)
			require.Equalf(t, 1, h.Complexity.NodeCountLimit, "case %s: node count limit should be 1", name)
		} else {
			require.Nilf(t, h.Complexity, "case %s: complexity should be nil if not enabled", name)
		}

		require.Equalf(t, disabledIntrospection, h.DisabledIntrospection, "case %s: unexpected disabled introspection", name)
		require.Equalf(t, disabledPlaygrounds, h.DisabledPlaygrounds, "case %s: unexpected disabled playgrounds", name)
		require.Equalf(t, disabledSeed, h.DisabledSeed, "case %s: unexpected disabled seed", name)
		require.Equalf(t, []string{"http://localhost:3000"}, h.CORSOrigins, "case %s: unexpected cors origins", name)
		require.Equalf(t, []string{"Authorization", "Content-Type"}, h.CORSAllowedHeaders, "case %s: unexpected cors headers", name)
	}
}

func TestCaddyfileErrors(t *testing.T) {
	testCases := map[string]struct {
		config   string
		errorMsg string
	}{
		"unexpected_bookql_subdirective": {
			config:   `unknown`,
			errorMsg: `unrecognized subdirective unknown`,
		},
		"blank_bookql_disabled_introspection": {
			config: `
disabled_introspection
`,
			errorMsg: `Wrong argument count`,
		},
		"invalid_syntax_bookql_disabled_introspection": {
			config: `
disabled_introspection invalid
`,
			errorMsg: `invalid syntax`,
		},
		"blank_bookql_complexity_enabled": {
			config: `
complexity {
	enabled
}
`,
			errorMsg: `Wrong argument count`,
		},
		"invalid_syntax_bookql_complexity_enabled": {
			config: `
complexity {
	enabled invalid
}
`,
			errorMsg: `invalid syntax`,
		},
		"blank_bookql_complexity_max_complexity": {
			config: `
complexity {
	max_complexity
}
`,
			errorMsg: `Wrong argument count`,
		},
		"invalid_syntax_bookql_complexity_max_complexity": {
			config: `
complexity {
	max_complexity invalid
}
`,
			errorMsg: `invalid syntax`,
		},
		"blank_bookql_complexity_max_depth": {
			config: `
complexity {
	max_depth
}
`,
			errorMsg: `Wrong argument count`,
		},
		"invalid_syntax_bookql_complexity_max_depth": {
			config: `
complexity {
	max_depth invalid
}
`,
			errorMsg: `invalid syntax`,
		},
		"blank_bookql_complexity_node_count_limit": {
			config: `
complexity {
	node_count_limit
}
`,
			errorMsg: `Wrong argument count`,
		},
		"invalid_syntax_bookql_complexity_node_count_limit": {
			config: `
complexity {
	max_depth invalid
}
`,
			errorMsg: `invalid syntax`,
		},
		"unexpected_bookql_complexity_subdirective": {
			config: `
complexity {
	unknown
}
`,
			errorMsg: `unrecognized subdirective unknown`,
		},
		"unexpected_bookql_caching_subdirective": {
			config: `
caching {
	unknown
}
`,
			errorMsg: `unrecognized subdirective unknown`,
		},
		"blank_bookql_caching_enabled": {
			config: `
caching {
	enabled
}
`,
			errorMsg: `Wrong argument count`,
		},
		"invalid_syntax_bookql_caching_enabled": {
			config: `
caching {
	enabled invalid
}
`,
			errorMsg: `invalid syntax`,
		},
		"blank_bookql_caching_auto_invalidate_cache": {
			config: `
caching {
	auto_invalidate_cache
}
`,
			errorMsg: `Wrong argument count`,
		},
		"invalid_syntax_bookql_caching_auto_invalidate_cache": {
			config: `
caching {
	auto_invalidate_cache invalid
}
`,
			errorMsg: `invalid syntax`,
		},
		"blank_bookql_caching_store_dsn": {
			config: `
caching {
	store_dsn
}
`,
			errorMsg: `Wrong argument count`,
		},
		"invalid_syntax_bookql_caching_store_dsn": {
			config: `
caching {
	store_dsn !://a
}
`,
			errorMsg: `first path segment in URL cannot contain colon`,
		},
		"blank_bookql_disabled_seed": {
			config: `
disabled_seed
`,
			errorMsg: `Wrong argument count`,
		},
		"duplicate_bookql_complexity": {
			config: `
complexity {
	max_depth 1
}
complexity {
	max_depth 2
}
`,
			errorMsg: `complexity already specified`,
		},
		"blank_bookql_cors_origins": {
			config: `
cors_origins
`,
			errorMsg: `Wrong argument count`,
		},
		"invalid_bookql_caching_max_age": {
			config: `
caching {
	max_age forever
}
`,
			errorMsg: `invalid duration`,
		},
		"blank_bookql_caching_varies": {
			config: `
caching {
	varies
}
`,
			errorMsg: `Wrong argument count`,
		},
		"duplicate_bookql_caching_varies": {
			config: `
caching {
	varies Authorization Authorization
}
`,
			errorMsg: `duplicate vary: Authorization`,
		},
		"duplicate_bookql_caching_type_keys": {
			config: `
caching {
	type_keys {
		Book id
		Book name
	}
}
`,
			errorMsg: `type keys of Book already specified`,
		},
		"invalid_syntax_bookql_caching_debug_headers": {
			config: `
caching {
	debug_headers invalid
}
`,
			errorMsg: `invalid syntax`,
		},
		"unexpected_bookql_caching_type_keys": {
			config: `
caching {
	type_keys {
		UserTest
	}
}
`,
			errorMsg: `Wrong argument count`,
		},
	}

	for name, testCase := range testCases {
		h := &Handler{}
		d := caddyfile.NewTestDispenser(fmt.Sprintf(`
bookql {
	%s
}
`, testCase.config))
		e := h.UnmarshalCaddyfile(d)
		require.Errorf(t, e, "case %s: should be invalid", name)
		require.Contains(t, e.Error(), testCase.errorMsg, "case %s: unexpected error message", name)
	}
}
