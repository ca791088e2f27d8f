package bookql

import (
	"github.com/caddyserver/caddy/v2/caddyconfig/caddyfile"
)

func (h *Handler) unmarshalCaddyfileComplexity(d *caddyfile.Dispenser) (err error) {
	enabled := true
	complexity := new(Complexity)

	for d.Next() {
		for d.NextBlock(0) {
			switch d.Val() {
			case "enabled":
				enabled, err = parseCaddyfileBool(d)
			case "max_depth":
				complexity.MaxDepth, err = parseCaddyfileInt(d)
			case "node_count_limit":
				complexity.NodeCountLimit, err = parseCaddyfileInt(d)
			case "max_complexity":
				complexity.MaxComplexity, err = parseCaddyfileInt(d)
			default:
				return d.Errf("unrecognized subdirective %s", d.Val())
			}

			if err != nil {
				return err
			}
		}
	}

	if enabled {
		h.Complexity = complexity
	}

	return nil
}
