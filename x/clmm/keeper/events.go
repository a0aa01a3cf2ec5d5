package keeper

import (
	"sync"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

// EventBuffer collects emitted events. It is safe for concurrent use, unlike
// *sdk.EventManager.
type EventBuffer struct {
	mu     sync.Mutex
	events sdk.Events
}

var _ types.EventSink = (*EventBuffer)(nil)

// NewEventBuffer returns an empty buffer.
func NewEventBuffer() *EventBuffer {
	return &EventBuffer{}
}

// EmitEvent appends event.
func (b *EventBuffer) EmitEvent(event sdk.Event) {
	b.mu.Lock()
	b.events = append(b.events, event)
	b.mu.Unlock()
}

// Events returns a copy of the events emitted so far.
func (b *EventBuffer) Events() sdk.Events {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append(sdk.Events(nil), b.events...)
}
