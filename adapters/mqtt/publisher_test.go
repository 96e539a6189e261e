package mqtt

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gazecenter/ports"
)

func TestEncodeSummary(t *testing.T) {
	record := ports.SummaryRecord{
		ID:          "0190f3a4-0000-7000-8000-000000000000",
		Scope:       ports.ScopeAggregate,
		Label:       "All participants",
		RadiusDeg:   10,
		Total:       4,
		Inside:      2,
		Outside:     2,
		InsideRatio: 0.5,
		CreatedAt:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	payload, err := EncodeSummary(record)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "aggregate", decoded["scope"])
	assert.Equal(t, 0.5, decoded["inside_ratio"])
	assert.Equal(t, float64(2), decoded["inside"])
}
