package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeChangeEvent(t *testing.T) {
	received := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		payload    string
		wantEntity EntityType
		wantOp     Operation
		wantID     int64
		wantErr    bool
	}{
		{
			name:       "price update",
			payload:    `{"table":"prices","operation":"UPDATE","record_id":42}`,
			wantEntity: EntityPrice,
			wantOp:     OperationUpdate,
			wantID:     42,
		},
		{
			name:       "booking insert",
			payload:    `{"table":"bookings","operation":"INSERT","record_id":7}`,
			wantEntity: EntityBooking,
			wantOp:     OperationInsert,
			wantID:     7,
		},
		{
			name:       "review delete",
			payload:    `{"table":"reviews","operation":"delete","record_id":3}`,
			wantEntity: EntityReview,
			wantOp:     OperationDelete,
			wantID:     3,
		},
		{
			name:    "untracked table decodes without entity",
			payload: `{"table":"payments","operation":"INSERT","record_id":1}`,
			wantOp:  OperationInsert,
			wantID:  1,
		},
		{name: "not json", payload: `prices:42`, wantErr: true},
		{name: "missing record id", payload: `{"table":"prices","operation":"UPDATE"}`, wantErr: true},
		{name: "missing table", payload: `{"operation":"UPDATE","record_id":1}`, wantErr: true},
		{name: "record id wrong type", payload: `{"table":"prices","record_id":"x"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, err := DecodeChangeEvent(tt.payload, received)
			if tt.wantErr {
				var decodeErr *DecodeError
				require.Error(t, err)
				assert.True(t, errors.As(err, &decodeErr))
				assert.Equal(t, tt.payload, decodeErr.Payload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEntity, evt.EntityType)
			assert.Equal(t, tt.wantOp, evt.Operation)
			assert.Equal(t, tt.wantID, evt.RecordID)
			assert.Equal(t, received, evt.EmittedAt)
		})
	}
}

func TestDecodeChangeEvent_EmittedAtFromPayload(t *testing.T) {
	evt, err := DecodeChangeEvent(
		`{"table":"prices","operation":"UPDATE","record_id":1,"emitted_at":"2026-02-01T08:00:00Z"}`,
		time.Now(),
	)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC), evt.EmittedAt.UTC())
}

func TestFlight_OccupancyRate(t *testing.T) {
	f := Flight{TotalSeats: 200, AvailableSeats: 140}
	assert.Equal(t, "0.3", f.OccupancyRate().String())

	empty := Flight{TotalSeats: 0, AvailableSeats: 0}
	assert.True(t, empty.OccupancyRate().IsZero())
}

func TestInsight_IsExpired(t *testing.T) {
	generated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	insight := Insight{GeneratedAt: generated, ExpiresAt: generated.Add(6 * time.Hour)}

	assert.False(t, insight.IsExpired(generated.Add(5*time.Hour)))
	assert.False(t, insight.IsExpired(generated.Add(6*time.Hour)))
	assert.True(t, insight.IsExpired(generated.Add(6*time.Hour+time.Minute)))
}
