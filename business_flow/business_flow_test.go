// Package businessflow contains the business logic for the application.
package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTo(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		places   int
		expected float64
	}{
		{
			name:     "two places",
			value:    8.20 * 0.9,
			places:   2,
			expected: 7.38,
		},
		{
			name:     "four places",
			value:    3.14159,
			places:   4,
			expected: 3.1416,
		},
		{
			name:     "zero places",
			value:    13.3,
			places:   0,
			expected: 13,
		},
		{
			name:     "half rounds away from zero",
			value:    2.5,
			places:   0,
			expected: 3,
		},
		{
			name:     "negative half rounds away from zero",
			value:    -1.25,
			places:   1,
			expected: -1.3,
		},
		{
			name:     "already exact",
			value:    5,
			places:   2,
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, roundTo(tt.value, tt.places), 1e-9)
		})
	}
}

func TestClientMetadata_ActorOrNil(t *testing.T) {
	t.Run("nil metadata", func(t *testing.T) {
		var metadata *ClientMetadata
		assert.Nil(t, metadata.ActorOrNil())
	})

	t.Run("empty actor", func(t *testing.T) {
		metadata := NewClientMetadata("10.0.0.1", "test-agent")
		assert.Nil(t, metadata.ActorOrNil())
	})

	t.Run("set actor", func(t *testing.T) {
		metadata := NewClientMetadata("10.0.0.1", "test-agent")
		metadata.SetActor("jan.kowalski")

		actor := metadata.ActorOrNil()
		require.NotNil(t, actor)
		assert.Equal(t, "jan.kowalski", *actor)
	})
}

func TestClientMetadata_AddAdditional(t *testing.T) {
	metadata := &ClientMetadata{}
	metadata.AddAdditional("endpoint", "/api/v1/prices/bulk/apply")
	metadata.SetRequestID("req-123")

	assert.Equal(t, "/api/v1/prices/bulk/apply", metadata.Additional["endpoint"])
	assert.Equal(t, "req-123", metadata.RequestID)
}
