package amqp

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// LedgerUpdateMessage carries a full replacement ledger document for one
// user.
type LedgerUpdateMessage struct {
	UserID    string          `json:"userId"`
	Ledger    json.RawMessage `json:"ledger"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewLedgerUpdateMessage(userID string, ledger []byte) *LedgerUpdateMessage {
	return &LedgerUpdateMessage{
		UserID:    userID,
		Ledger:    json.RawMessage(ledger),
		Timestamp: time.Now(),
	}
}

func (m *LedgerUpdateMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerUpdateMessageFromJSON decodes a message and checks that it names a
// user and carries a document. The document itself is not inspected.
func LedgerUpdateMessageFromJSON(data []byte) (*LedgerUpdateMessage, error) {
	var msg LedgerUpdateMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(msg.UserID) == "" {
		return nil, errors.New("message has no userId")
	}
	if len(msg.Ledger) == 0 || string(msg.Ledger) == "null" {
		return nil, errors.New("message has no ledger")
	}
	return &msg, nil
}
