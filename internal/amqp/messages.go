package amqp

import (
	"encoding/json"
	"time"
)

// Recompute reasons carried on messages, for log correlation only.
const (
	ReasonOrderCreated   = "order_created"
	ReasonOrderStatus    = "order_status_changed"
	ReasonExpenseCreated = "expense_created"
	ReasonExpenseDeleted = "expense_deleted"
	ReasonNightly        = "nightly_rollover"
	ReasonManual         = "manual"
)

// RecomputeMessage asks the worker to refresh the daily summary for one
// calendar day. It carries only the date key; the worker recomputes from
// raw records so stale messages are harmless.
type RecomputeMessage struct {
	Date      string    `json:"date"` // YYYY-MM-DD
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecomputeMessage(date, reason string) *RecomputeMessage {
	return &RecomputeMessage{
		Date:      date,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

func (m *RecomputeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecomputeMessageFromJSON(data []byte) (*RecomputeMessage, error) {
	var msg RecomputeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
