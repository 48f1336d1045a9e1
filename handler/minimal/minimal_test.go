package minimal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovanec/report/stack"
)

func TestDebug(t *testing.T) {
	err := fmt.Errorf("startup failed: %w",
		fmt.Errorf("failed to read config: %w", errors.New("disk unreachable")))

	h := Hook()(context.Background(), err)

	var first, second strings.Builder
	assert.NoError(t, h.Debug(&first, err))
	assert.NoError(t, h.Debug(&second, err))
	assert.Equal(t, first.String(), second.String())
	assert.True(t, strings.HasPrefix(first.String(), "startup failed: "))
	assert.Contains(t, first.String(), "\n\nCaused by:\n    0: failed to read config")
}

func TestDisplayAndExtract(t *testing.T) {
	h := &Handler{}

	var sb strings.Builder
	assert.NoError(t, h.Display(&sb, errors.New("one line")))
	assert.Equal(t, "one line", sb.String())

	var st stack.Trace
	assert.False(t, h.Extract(&st))
	assert.Equal(t, "minimal", h.Name())
}
