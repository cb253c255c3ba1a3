package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/tickbot/internal/domain"
	"github.com/alanyoungcy/tickbot/internal/strategy"
)

func TestDecodeColdStart(t *testing.T) {
	for _, blob := range []string{"", "   ", "\n\t"} {
		got, err := Decode(blob)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{name: "not json", blob: "{{{"},
		{name: "truncated", blob: `{"v":1,"instruments"`},
		{name: "unknown version", blob: `{"v":2,"instruments":{}}`},
		{name: "missing version", blob: `{"instruments":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.blob)
			assert.ErrorIs(t, err, domain.ErrStateDecode)
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := map[string]Snapshot{
		"STARFRUIT": {
			Long:    []strategy.Lot{{Price: 100, Quantity: 3}, {Price: 102, Quantity: 1}},
			Short:   []strategy.Lot{{Price: 110, Quantity: 2}},
			History: []int{101, 102, 103},
		},
		"AMETHYSTS": {},
	}

	blob, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncodeIsDeterministic(t *testing.T) {
	in := map[string]Snapshot{
		"B": {History: []int{1}},
		"A": {History: []int{2}},
		"C": {History: []int{3}},
	}

	first, err := Encode(in)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Encode(in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCaptureApplyRoundTrip(t *testing.T) {
	st := strategy.NewState(10)
	st.Long.Add(100, 3)
	st.Long.Add(98, 2)
	st.Short.Add(110, 4)
	st.History.Push(101)
	st.History.Push(102)

	snap := Capture(st)
	assert.Equal(t, []strategy.Lot{{Price: 98, Quantity: 2}, {Price: 100, Quantity: 3}}, snap.Long)
	assert.Equal(t, []strategy.Lot{{Price: 110, Quantity: 4}}, snap.Short)
	assert.Equal(t, []int{101, 102}, snap.History)

	restored := strategy.NewState(10)
	Apply(snap, restored)
	assert.Equal(t, snap, Capture(restored))
}
