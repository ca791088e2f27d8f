package bookql

import (
	"net/url"
	"time"

	"github.com/caddyserver/caddy/v2"
	"github.com/caddyserver/caddy/v2/caddyconfig/caddyfile"
	"github.com/jensneuse/graphql-go-tools/pkg/graphql"
)

// nolint:funlen,gocyclo
func (h *Handler) unmarshalCaddyfileCaching(d *caddyfile.Dispenser) (err error) {
	enabled := true
	caching := new(Caching)

	for d.Next() {
		for d.NextBlock(0) {
			switch d.Val() {
			case "enabled":
				enabled, err = parseCaddyfileBool(d)
			case "store_dsn":
				if !d.NextArg() {
					return d.ArgErr()
				}

				if _, err = url.Parse(d.Val()); err == nil {
					caching.StoreDsn = d.Val()
				}
			case "max_age":
				if !d.NextArg() {
					return d.ArgErr()
				}

				var v time.Duration

				if v, err = caddy.ParseDuration(d.Val()); err == nil {
					caching.MaxAge = caddy.Duration(v)
				}
			case "varies":
				args := d.RemainingArgs()

				if len(args) == 0 {
					return d.ArgErr()
				}

				for _, arg := range args {
					for _, vary := range caching.Varies {
						if vary == arg {
							return d.Errf("duplicate vary: %s", arg)
						}
					}

					caching.Varies = append(caching.Varies, arg)
				}
			case "type_keys":
				err = caching.unmarshalCaddyfileTypeKeys(d.NewFromNextSegment())
			case "auto_invalidate_cache":
				var autoInvalidate bool

				if autoInvalidate, err = parseCaddyfileBool(d); err == nil {
					caching.AutoInvalidate = &autoInvalidate
				}
			case "debug_headers":
				caching.DebugHeaders, err = parseCaddyfileBool(d)
			default:
				return d.Errf("unrecognized subdirective %s", d.Val())
			}

			if err != nil {
				return err
			}
		}
	}

	if enabled {
		h.Caching = caching
	}

	return nil
}

func (c *Caching) unmarshalCaddyfileTypeKeys(d *caddyfile.Dispenser) error {
	typeKeys := make(graphql.RequestTypes)

	for d.Next() {
		for d.NextBlock(0) {
			typeName := d.Val()

			if _, ok := typeKeys[typeName]; ok {
				return d.Errf("type keys of %s already specified", typeName)
			}

			args := d.RemainingArgs()

			if len(args) == 0 {
				return d.ArgErr()
			}

			fields := make(graphql.RequestFields)

			for _, field := range args {
				fields[field] = struct{}{}
			}

			typeKeys[typeName] = fields
		}
	}

	c.TypeKeys = typeKeys

	return nil
}
