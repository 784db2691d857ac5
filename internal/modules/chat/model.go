// README: Dispatch chat message model.
package chat

import (
	"time"

	"courier/internal/types"
)

type Sender string

const (
	SenderDriver   Sender = "driver"
	SenderDispatch Sender = "dispatch"
)

// Message is one entry in the append-only driver/dispatch thread. No delivery
// guarantees beyond the feed order.
type Message struct {
	ID       types.ID  `json:"id"`
	DriverID types.ID  `json:"driver_id"`
	From     Sender    `json:"from"`
	Body     string    `json:"body"`
	SentAt   time.Time `json:"sent_at"`
}
