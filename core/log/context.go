// Package log provides a minimal context-carrying structured logger in the
// spirit of google/gapid's core/log: severities are cheap to leave in code
// and disabled by a filter rather than by removing call sites, messages are
// built from a context plus key/value pairs, and the destination is a
// pluggable Handler rather than a direct write to stdout.
package log

import "context"

type valuesKey struct{}

type value struct {
	key   string
	val   interface{}
	outer *value
}

// Enter returns a context carrying an additional key/value pair that will
// be attached to any record logged through it or a descendant context.
func Enter(ctx context.Context, key string, val interface{}) context.Context {
	v := &value{key: key, val: val}
	if outer, ok := ctx.Value(valuesKey{}).(*value); ok {
		v.outer = outer
	}
	return context.WithValue(ctx, valuesKey{}, v)
}

func values(ctx context.Context) []value {
	v, _ := ctx.Value(valuesKey{}).(*value)
	var out []value
	for v != nil {
		out = append(out, *v)
		v = v.outer
	}
	return out
}
