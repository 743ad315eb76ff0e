package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectOdometer(t *testing.T) {
	updated := dayN(0)

	tests := []struct {
		name      string
		pace      *float64
		daysSince int
		expected  *int
	}{
		{"no pace", nil, 10, nil},
		{"same day", floatPtr(30), 0, nil},
		{"one day old", floatPtr(30), 1, intPtr(20030)},
		{"sixty days old", floatPtr(30), 60, intPtr(21800)},
		{"sixty-one days old is stale", floatPtr(30), 61, nil},
		{"rounds to nearest", floatPtr(10.4), 3, intPtr(20031)},
		{"rounds half away from zero", floatPtr(10.5), 1, intPtr(20011)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectOdometer(tt.pace, 20000, &updated, dayN(tt.daysSince))
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func TestProjectOdometer_NoUpdateTime(t *testing.T) {
	assert.Nil(t, ProjectOdometer(floatPtr(30), 20000, nil, dayN(5)))
}

func TestProjectOdometer_UpdateInTheFuture(t *testing.T) {
	updated := dayN(5)
	assert.Nil(t, ProjectOdometer(floatPtr(30), 20000, &updated, dayN(0)))
}

func TestEffectiveOdometer(t *testing.T) {
	updated := dayN(0)
	assert.Equal(t, 20300, EffectiveOdometer(floatPtr(30), 20000, &updated, dayN(10)))
	assert.Equal(t, 20000, EffectiveOdometer(floatPtr(30), 20000, &updated, dayN(90)))
	assert.Equal(t, 20000, EffectiveOdometer(nil, 20000, &updated, dayN(10)))
}
