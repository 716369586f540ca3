package product

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliderService_GetActiveSliders(t *testing.T) {
	db := setupCatalogTestDB(t)
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	sliders := []Slider{
		{Title: "Running", Image: "a.png", IsActive: true, SortOrder: 2, StartDate: at(-time.Hour), EndDate: at(time.Hour)},
		{Title: "Open ended", Image: "b.png", IsActive: true, SortOrder: 1},
		{Title: "Upcoming", Image: "c.png", IsActive: true, SortOrder: 0, StartDate: at(time.Hour)},
		{Title: "Ended", Image: "d.png", IsActive: true, SortOrder: 0, EndDate: at(-time.Minute)},
		{Title: "Hidden", Image: "e.png", IsActive: true, SortOrder: 0},
	}
	for i := range sliders {
		require.NoError(t, db.Create(&sliders[i]).Error)
	}
	require.NoError(t, db.Model(&sliders[4]).Update("is_active", false).Error)

	svc := NewSliderService(db)
	svc.now = func() time.Time { return now }

	got, err := svc.GetActiveSliders(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Open ended", got[0].Title)
	assert.Equal(t, "Running", got[1].Title)
}
