package service

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pinPattern = regexp.MustCompile(`^[0-9]{6}$`)

func TestGeneratePINBatch(t *testing.T) {
	pins, err := GeneratePINBatch(200, nil)
	require.NoError(t, err)
	require.Len(t, pins, 200)

	seen := make(map[string]bool, len(pins))
	for _, pin := range pins {
		assert.Regexp(t, pinPattern, pin)
		assert.False(t, seen[pin], "duplicate pin %s", pin)
		seen[pin] = true
	}
}

func TestGeneratePINBatchAvoidsExisting(t *testing.T) {
	existing := map[string]bool{
		"000000": true,
		"123456": true,
	}
	pins, err := GeneratePINBatch(50, existing)
	require.NoError(t, err)
	for _, pin := range pins {
		assert.False(t, existing[pin], "pin %s collides with an existing code", pin)
	}
}
