package main

import (
	"testing"

	"flightsync-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name   string
		report entity.ReconcileReport
		want   int
	}{
		{name: "clean run", report: entity.ReconcileReport{PricesSynced: 3, ReviewsSynced: 2}, want: exitOK},
		{name: "price row failed", report: entity.ReconcileReport{PricesSynced: 2, PriceErrors: 1}, want: exitRowErrors},
		{name: "review row failed", report: entity.ReconcileReport{ReviewErrors: 1}, want: exitRowErrors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(&tt.report))
		})
	}
}
