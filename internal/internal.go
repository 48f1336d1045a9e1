// Package internal parses the loosely typed log arguments accepted by the
// report constructors and loghelper into slog attributes.
package internal

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

type (
	logAttrCtxKeyType struct{}
	AttrFunc          func(a slog.Attr)
)

var logAttrCtxKey logAttrCtxKeyType

// ContextWithLogArgs returns a copy of ctx carrying args merged over the
// attributes ctx already carries.
func ContextWithLogArgs(ctx context.Context, args ...any) context.Context {

	am := maps.Clone(logAttrsFromContext(ctx))
	ParseLogArgs(args, func(a slog.Attr) {
		am[a.Key] = a
	})

	return context.WithValue(
		ctx,
		logAttrCtxKey,
		am,
	)
}

// ParseLogArgs turns args into attributes and calls f once per distinct
// key. Accepted args are key/value pairs, slog.Attr, context.Context (its
// attached attributes) and errors implementing slog.LogValuer (their
// attributes). Unnamed groups are flattened.
func ParseLogArgs(args []any, f AttrFunc) {

	am := make(map[string]slog.Attr)
	for len(args) > 0 {
		var attrs []slog.Attr
		attrs, args = argsToAttr(args)
		for _, a := range attrs {
			if isEmptyGroup(a.Value) {
				continue
			} else if a.Key == "" {
				if a.Value.Kind() == slog.KindGroup {
					for _, ga := range a.Value.Group() {
						am[ga.Key] = ga
					}
				} else {
					am[badKey] = slog.Any(badKey, a.Value)
				}
			} else {
				am[a.Key] = a
			}
		}
	}

	for _, a := range Sorted(am) {
		f(a)
	}
}

// Sorted returns the values of m ordered by key.
func Sorted(m map[string]slog.Attr) []slog.Attr {
	ret := make([]slog.Attr, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		ret = append(ret, m[k])
	}
	return ret
}

// Format renders attrs as space separated key=value pairs.
func Format(attrs []slog.Attr) string {
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " ")
}

// ValueOf converts v into plain Go values: groups become maps keyed by
// attribute name, LogValuers are resolved.
func ValueOf(v slog.Value) any {
	v = v.Resolve()
	if v.Kind() != slog.KindGroup {
		return v.Any()
	}
	m := make(map[string]any, len(v.Group()))
	for _, a := range v.Group() {
		m[a.Key] = ValueOf(a.Value)
	}
	return m
}

const badKey = "!BADKEY"

func argsToAttr(args []any) ([]slog.Attr, []any) {
	switch x := args[0].(type) {
	case string:
		if len(args) == 1 {
			return []slog.Attr{slog.String(badKey, x)}, nil
		}
		return []slog.Attr{slog.Any(x, args[1])}, args[2:]
	case context.Context:
		return Sorted(logAttrsFromContext(x)), args[1:]
	case error:
		return logAttrsFromError(x), args[1:]
	case slog.Attr:
		return []slog.Attr{x}, args[1:]
	default:
		return []slog.Attr{slog.Any(badKey, x)}, args[1:]
	}
}

func isEmptyGroup(v slog.Value) bool {
	if v.Kind() != slog.KindGroup {
		return false
	}
	return len(v.Group()) == 0
}

func logAttrsFromError(err error) []slog.Attr {
	if lv, ok := err.(slog.LogValuer); ok {
		if v := lv.LogValue().Resolve(); v.Kind() == slog.KindGroup {
			return v.Group()
		} else {
			return []slog.Attr{slog.Any(badKey, v)}
		}
	}
	return nil
}

func logAttrsFromContext(ctx context.Context) map[string]slog.Attr {
	if attr, ok := ctx.Value(logAttrCtxKey).(map[string]slog.Attr); ok {
		return attr
	}
	return make(map[string]slog.Attr)
}
