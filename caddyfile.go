package bookql

import (
	"strconv"

	"github.com/caddyserver/caddy/v2/caddyconfig/caddyfile"
	"github.com/caddyserver/caddy/v2/caddyconfig/httpcaddyfile"
	"github.com/caddyserver/caddy/v2/modules/caddyhttp"
)

func init() { // nolint:gochecknoinits
	httpcaddyfile.RegisterHandlerDirective("bookql", parseCaddyfile)
}

func parseCaddyfile(h httpcaddyfile.Helper) (caddyhttp.MiddlewareHandler, error) { // nolint:ireturn
	m := new(Handler).CaddyModule().New().(*Handler)

	if err := m.UnmarshalCaddyfile(h.Dispenser); err != nil {
		return nil, err
	}

	return m, nil
}

// UnmarshalCaddyfile sets up the handler from Caddyfile tokens. Syntax:
//
//	bookql {
//	    disabled_introspection <bool>
//	    disabled_playgrounds <bool>
//	    disabled_seed <bool>
//	    complexity { ... }
//	    caching { ... }
//	    cors_origins <origins...>
//	    cors_allowed_headers <headers...>
//	}
//
// nolint:funlen,gocyclo
func (h *Handler) UnmarshalCaddyfile(d *caddyfile.Dispenser) (err error) {
	for d.Next() {
		for d.NextBlock(0) {
			switch d.Val() {
			case "disabled_introspection":
				if h.DisabledIntrospection, err = parseCaddyfileBool(d); err != nil {
					return err
				}
			case "disabled_playgrounds":
				if h.DisabledPlaygrounds, err = parseCaddyfileBool(d); err != nil {
					return err
				}
			case "disabled_seed":
				if h.DisabledSeed, err = parseCaddyfileBool(d); err != nil {
					return err
				}
			case "complexity":
				if h.Complexity != nil {
					return d.Err("complexity already specified")
				}

				if err = h.unmarshalCaddyfileComplexity(d.NewFromNextSegment()); err != nil {
					return err
				}
			case "caching":
				if h.Caching != nil {
					return d.Err("caching already specified")
				}

				if err = h.unmarshalCaddyfileCaching(d.NewFromNextSegment()); err != nil {
					return err
				}
			case "cors_origins":
				origins := d.RemainingArgs()

				if len(origins) == 0 {
					return d.ArgErr()
				}

				h.CORSOrigins = origins
			case "cors_allowed_headers":
				headers := d.RemainingArgs()

				if len(headers) == 0 {
					return d.ArgErr()
				}

				h.CORSAllowedHeaders = headers
			default:
				return d.Errf("unrecognized subdirective %s", d.Val())
			}
		}
	}

	return err
}

func parseCaddyfileBool(d *caddyfile.Dispenser) (bool, error) {
	if !d.NextArg() {
		return false, d.ArgErr()
	}

	return strconv.ParseBool(d.Val())
}

func parseCaddyfileInt(d *caddyfile.Dispenser) (int, error) {
	if !d.NextArg() {
		return 0, d.ArgErr()
	}

	v, err := strconv.ParseInt(d.Val(), 10, 32)

	return int(v), err
}

// Interface guards.
var (
	_ caddyfile.Unmarshaler = (*Handler)(nil)
)
