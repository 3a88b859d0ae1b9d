package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revxcli/pkg/contracts/domain"
)

func TestFilterRows(t *testing.T) {
	rows := enrich(t, []domain.ResultRow{
		{Broker: "Axis", PickedType: "Top Pick", Sales: 110, ExpectedSales: 100, EBITDA: 20, ExpectedEBITDA: 20, PAT: 10, ExpectedPAT: 10},
		{Broker: "HDFC", PickedType: "Neutral", Sales: 90, ExpectedSales: 100, EBITDA: 20, ExpectedEBITDA: 20, PAT: 10, ExpectedPAT: 10},
		{Broker: "Axis", PickedType: "Neutral", Sales: 100, ExpectedSales: 100, EBITDA: 20, ExpectedEBITDA: 20, PAT: 10, ExpectedPAT: 10},
	})

	tests := []struct {
		name        string
		filter      Filter
		wantBrokers []string
	}{
		{
			name:        "empty filter passes everything",
			filter:      Filter{},
			wantBrokers: []string{"Axis", "HDFC", "Axis"},
		},
		{
			name:        "by broker",
			filter:      Filter{Brokers: []string{"Axis"}},
			wantBrokers: []string{"Axis", "Axis"},
		},
		{
			name:        "by picked type",
			filter:      Filter{PickedTypes: []string{"Neutral"}},
			wantBrokers: []string{"HDFC", "Axis"},
		},
		{
			name: "by sales flag",
			filter: Filter{Flags: map[domain.Metric][]domain.BeatFlag{
				domain.MetricSales: {domain.FlagBeat},
			}},
			wantBrokers: []string{"Axis"},
		},
		{
			name: "facets combine conjunctively",
			filter: Filter{
				Brokers: []string{"Axis"},
				Flags: map[domain.Metric][]domain.BeatFlag{
					domain.MetricSales: {domain.FlagInline, domain.FlagMiss},
				},
			},
			wantBrokers: []string{"Axis"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := FilterRows(rows, tt.filter)
			require.Len(t, filtered, len(tt.wantBrokers))
			for i, b := range tt.wantBrokers {
				assert.Equal(t, b, filtered[i].Broker)
			}
			// Input untouched.
			assert.Len(t, rows, 3)
		})
	}
}
