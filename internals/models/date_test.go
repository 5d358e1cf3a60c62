package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.March, 15)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-15"`, string(data))

	var parsed Date
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.True(t, d.Equal(parsed.Time))
}

func TestDateUnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"15/03/2024"`), &d))
}

func TestDaysSince(t *testing.T) {
	testCases := []struct {
		name     string
		from     Date
		to       Date
		expected int
	}{
		{"same day", NewDate(2024, time.March, 15), NewDate(2024, time.March, 15), 0},
		{"next day", NewDate(2024, time.March, 15), NewDate(2024, time.March, 16), 1},
		{"across month", NewDate(2024, time.March, 15), NewDate(2024, time.April, 15), 31},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.to.DaysSince(tc.from))
		})
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, time.March, 15, 13, 45, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-15", d.String())

	require.NoError(t, d.Scan("2024-03-15 00:00:00+00:00"))
	assert.Equal(t, "2024-03-15", d.String())
}
