package session

import "github.com/daway0/pors/internal/domain/models"

// messageBuffer accumulates server messages published during an operation so
// the transport layer can drain and forward them verbatim. Ordering is
// arrival order; the buffer never rewrites level, text or duration.
type messageBuffer struct {
	pending []models.ServerMessage
}

func (b *messageBuffer) publish(msgs ...models.ServerMessage) {
	b.pending = append(b.pending, msgs...)
}

// drain returns and clears all buffered messages.
func (b *messageBuffer) drain() []models.ServerMessage {
	out := b.pending
	b.pending = nil
	return out
}
