package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// LedgerExportMessage tells the worker a purchase or income entry is
// ready for export. It carries only the kind and id; the worker
// re-reads the row from the database so stale queue payloads can never
// overwrite fresher data.
type LedgerExportMessage struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerExportMessage(kind string, id int64) *LedgerExportMessage {
	return &LedgerExportMessage{
		Kind:      kind,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *LedgerExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerExportMessageFromJSON(data []byte) (*LedgerExportMessage, error) {
	var msg LedgerExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Kind == "" || msg.ID <= 0 {
		return nil, fmt.Errorf("invalid export message: kind=%q id=%d", msg.Kind, msg.ID)
	}
	return &msg, nil
}
