package entity

import (
	"encoding/json"
	"strings"
	"time"
)

// EntityType is the kind of row a change event refers to
type EntityType string

const (
	EntityPrice   EntityType = "price"
	EntityBooking EntityType = "booking"
	EntityReview  EntityType = "review"
)

// Operation is the row-level mutation that produced the event
type Operation string

const (
	OperationInsert Operation = "insert"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

var tableEntities = map[string]EntityType{
	"prices":   EntityPrice,
	"bookings": EntityBooking,
	"reviews":  EntityReview,
}

// ChangeEvent is a decoded change notification. It is consumed once.
type ChangeEvent struct {
	EntityType EntityType
	Table      string
	Operation  Operation
	RecordID   int64
	EmittedAt  time.Time
}

type changePayload struct {
	Table     string     `json:"table"`
	Operation string     `json:"operation"`
	RecordID  *int64     `json:"record_id"`
	EmittedAt *time.Time `json:"emitted_at,omitempty"`
}

// DecodeChangeEvent parses a notification payload of the form
// {"table": "prices", "operation": "UPDATE", "record_id": 42}.
// Tables outside the tracked set decode with an empty EntityType.
func DecodeChangeEvent(payload string, receivedAt time.Time) (ChangeEvent, error) {
	var p changePayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return ChangeEvent{}, &DecodeError{Payload: payload, Err: err}
	}
	if p.Table == "" {
		return ChangeEvent{}, &DecodeError{Payload: payload, Err: errMissingField("table")}
	}
	if p.RecordID == nil {
		return ChangeEvent{}, &DecodeError{Payload: payload, Err: errMissingField("record_id")}
	}

	evt := ChangeEvent{
		EntityType: tableEntities[p.Table],
		Table:      p.Table,
		Operation:  Operation(strings.ToLower(p.Operation)),
		RecordID:   *p.RecordID,
		EmittedAt:  receivedAt,
	}
	if p.EmittedAt != nil {
		evt.EmittedAt = *p.EmittedAt
	}
	return evt, nil
}
