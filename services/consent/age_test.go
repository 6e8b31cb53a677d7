package consent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAgeAt(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		birthDate time.Time
		want      int
	}{
		{"birthday already passed this year", time.Date(2013, 3, 1, 0, 0, 0, 0, time.UTC), 13},
		{"birthday is today", time.Date(2013, 6, 15, 0, 0, 0, 0, time.UTC), 13},
		{"birthday is tomorrow", time.Date(2013, 6, 16, 0, 0, 0, 0, time.UTC), 12},
		{"birthday later this year", time.Date(2013, 11, 1, 0, 0, 0, 0, time.UTC), 12},
		{"same month, earlier day", time.Date(2013, 6, 10, 0, 0, 0, 0, time.UTC), 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeAt(tt.birthDate, at))
		})
	}
}

func TestIsUnderCOPPAAge(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

	// Turning 13 today means COPPA no longer applies.
	assert.False(t, IsUnderCOPPAAge(time.Date(2013, 6, 15, 0, 0, 0, 0, time.UTC), at))
	// One day short of 13 is still covered.
	assert.True(t, IsUnderCOPPAAge(time.Date(2013, 6, 16, 0, 0, 0, 0, time.UTC), at))
	// Well under.
	assert.True(t, IsUnderCOPPAAge(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), at))
	// Well over.
	assert.False(t, IsUnderCOPPAAge(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), at))
}
