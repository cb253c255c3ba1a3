// Package state serializes per-instrument strategy state to and from the
// opaque blob the host echoes back each tick. The blob is the engine's only
// persistence mechanism: a host restart with an empty blob must behave
// exactly like a cold start.
package state

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alanyoungcy/tickbot/internal/domain"
	"github.com/alanyoungcy/tickbot/internal/strategy"
)

// Version is the current blob schema version. Decoding rejects any other
// version rather than trusting a reconstructed structure it does not know.
const Version = 1

// Snapshot is the wire form of one instrument's state. Ledgers are ordered
// price-ascending lot lists and the history is a plain price array, so the
// encoding is explicit and loses nothing on round trip.
type Snapshot struct {
	Long    []strategy.Lot `json:"long,omitempty"`
	Short   []strategy.Lot `json:"short,omitempty"`
	History []int          `json:"hist,omitempty"`
}

type blob struct {
	Version     int                 `json:"v"`
	Instruments map[string]Snapshot `json:"instruments"`
}

// Encode serializes the instrument snapshots into the opaque blob string.
func Encode(instruments map[string]Snapshot) (string, error) {
	data, err := json.Marshal(blob{Version: Version, Instruments: instruments})
	if err != nil {
		return "", fmt.Errorf("state: encode: %w", err)
	}
	return string(data), nil
}

// Decode parses a blob back into per-instrument snapshots. An empty or
// whitespace-only input is a cold start and yields an empty map, not an
// error. Malformed input or an unknown schema version returns an error
// wrapping domain.ErrStateDecode so callers can tell the two apart.
func Decode(s string) (map[string]Snapshot, error) {
	if strings.TrimSpace(s) == "" {
		return map[string]Snapshot{}, nil
	}

	var b blob
	if err := json.Unmarshal([]byte(s), &b); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStateDecode, err)
	}
	if b.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", domain.ErrStateDecode, b.Version)
	}
	if b.Instruments == nil {
		b.Instruments = map[string]Snapshot{}
	}
	return b.Instruments, nil
}

// Capture extracts the wire snapshot of a strategy state. Ledgers are
// captured in ascending price order so encoding is deterministic.
func Capture(st *strategy.State) Snapshot {
	return Snapshot{
		Long:    st.Long.Ascending(),
		Short:   st.Short.Ascending(),
		History: st.History.Prices(),
	}
}

// Apply restores a wire snapshot into a freshly constructed strategy state.
func Apply(snap Snapshot, st *strategy.State) {
	for _, lot := range snap.Long {
		st.Long.Add(lot.Price, lot.Quantity)
	}
	for _, lot := range snap.Short {
		st.Short.Add(lot.Price, lot.Quantity)
	}
	for _, price := range snap.History {
		st.History.Push(price)
	}
}
