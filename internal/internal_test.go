package internal

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type valuerErr struct{}

func (valuerErr) Error() string { return "valuer" }

func (valuerErr) LogValue() slog.Value {
	return slog.GroupValue(slog.String("op", "read"))
}

func parse(args ...any) []slog.Attr {
	var ret []slog.Attr
	ParseLogArgs(args, func(a slog.Attr) {
		ret = append(ret, a)
	})
	return ret
}

func TestParseLogArgs(t *testing.T) {
	ctx := ContextWithLogArgs(context.Background(), "request", "r-1")

	for _, td := range []struct {
		description string
		args        []any
		want        string
	}{
		{
			description: "key value pairs",
			args:        []any{"b", 2, "a", 1},
			want:        "a=1 b=2",
		},
		{
			description: "attrs and unnamed groups",
			args:        []any{slog.Int("n", 1), slog.Attr{Value: slog.GroupValue(slog.Bool("ok", true))}},
			want:        "n=1 ok=true",
		},
		{
			description: "context attributes",
			args:        []any{ctx, "x", "y"},
			want:        "request=r-1 x=y",
		},
		{
			description: "error attributes",
			args:        []any{valuerErr{}, errors.New("plain")},
			want:        "op=read",
		},
		{
			description: "dangling key",
			args:        []any{"lonely"},
			want:        "!BADKEY=lonely",
		},
		{
			description: "later values win",
			args:        []any{"k", 1, "k", 2},
			want:        "k=2",
		},
	} {
		t.Run(td.description, func(t *testing.T) {
			assert.Equal(t, td.want, Format(parse(td.args...)))
		})
	}
}

func TestContextWithLogArgsDoesNotMutateParent(t *testing.T) {
	parent := ContextWithLogArgs(context.Background(), "a", 1)
	_ = ContextWithLogArgs(parent, "b", 2)

	assert.Equal(t, "a=1", Format(parse(parent)))
}

func TestValueOf(t *testing.T) {
	v := slog.GroupValue(slog.String("name", "x"), slog.Group("inner", slog.Int("n", 3)))
	assert.Equal(t, map[string]any{
		"name":  "x",
		"inner": map[string]any{"n": int64(3)},
	}, ValueOf(v))

	assert.Equal(t, "plain", ValueOf(slog.StringValue("plain")))
}
