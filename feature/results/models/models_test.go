package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_Unmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"RFC3339", `"2024-05-01T10:30:00Z"`, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)},
		{"Offset", `"2024-05-01T10:30:00+02:00"`, time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)},
		{"DotNetNoZone", `"2024-05-01T10:30:00"`, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)},
		{"DotNetTicks", `"2024-05-01T10:30:00.1234567"`, time.Date(2024, 5, 1, 10, 30, 0, 123456700, time.UTC)},
		{"DateOnly", `"1990-03-15"`, time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"Null", `null`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestStorageKey(t *testing.T) {
	id := uuid.MustParse("3f2504e0-4f89-11d3-9a0c-0305e82c3301")
	assert.Equal(t, "3f2504e0-4f89-11d3-9a0c-0305e82c3301.pdf", AppointmentResult{ResultID: id}.StorageKey())
}
