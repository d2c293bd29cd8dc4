package service

import (
	"testing"
	"time"

	"tedp_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestSchoolYearForDate(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2025-08-01", "2025-2026"},
		{"2025-12-31", "2025-2026"},
		{"2026-01-15", "2025-2026"},
		{"2026-07-31", "2025-2026"},
		{"2026-08-01", "2026-2027"},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := time.Parse("2006-01-02", tt.date)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, SchoolYearForDate(d))
		})
	}
}

func TestStatusRankOrdering(t *testing.T) {
	assert.Less(t, statusRank(model.PassationActive), statusRank(model.PassationClosed))
	assert.Less(t, statusRank(model.PassationClosed), statusRank(model.PassationArchived))
}
