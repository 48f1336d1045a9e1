package loghelper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovanec/report"
	"github.com/vovanec/report/handler/minimal"
)

func TestAttr(t *testing.T) {
	assert.Equal(t, slog.Attr{}, Attr())
	assert.Equal(t, "a=1", Attr("a", 1).String())

	group := Attr("b", 2, "a", 1)
	assert.Empty(t, group.Key)
	require.Equal(t, slog.KindGroup, group.Value.Kind())
	assert.Len(t, group.Value.Group(), 2)
}

func TestContext(t *testing.T) {
	ctx := Context(context.Background(), slog.String("request", "r-1"))
	assert.Equal(t, "request=r-1", Attr(ctx).String())
}

func TestSlogReport(t *testing.T) {
	var buf bytes.Buffer
	InitLogging(WithOutput(&buf), WithLevel(slog.LevelDebug))
	t.Cleanup(func() { InitLogging() })

	err := report.Using(minimal.Hook()).Wrap(errors.New("no rows"), "get user", "user", "u-1")
	slog.Error("request failed", Attr(err))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "u-1", line["user"])

	group, ok := line["error"].(map[string]any)
	require.True(t, ok, "%v", line)
	assert.Equal(t, "get user", group["msg"])
	assert.Equal(t, []any{"no rows"}, group["causes"])
	assert.Contains(t, group["origin"], "helper_test.go:")
}

func TestZapField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZapLogger(WithOutput(&buf))

	err := report.Using(minimal.Hook()).Wrap(errors.New("no rows"), "get user", "user", "u-1")
	logger.Error("request failed", ZapField(fmt.Errorf("handler: %w", err)))
	logger.Debug("filtered out")
	logger.Warn("plain", ZapField(errors.New("plain")))
	require.NoError(t, logger.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	obj, ok := first["error"].(map[string]any)
	require.True(t, ok, "%v", first)
	assert.Equal(t, "u-1", obj["user"])
	inner, ok := obj["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "get user", inner["msg"])

	var second map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "plain", second["error"])
}
