package shared

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceID(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))

	ctx := WithTraceID(context.Background(), "abc123")
	assert.Equal(t, "abc123", GetTraceID(ctx))

	hex32 := regexp.MustCompile(`^[0-9a-f]{32}$`)
	first, second := NewTraceID(), NewTraceID()
	assert.Regexp(t, hex32, first)
	assert.Regexp(t, hex32, fallbackTraceID())
	assert.NotEqual(t, first, second)
}
