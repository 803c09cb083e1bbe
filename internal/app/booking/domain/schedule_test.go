package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2024, 7, 1, 14, 0, 0, 0, time.UTC)

	t.Run("intersecting ranges conflict", func(t *testing.T) {
		assert.True(t, Overlaps(base, base.AddDate(0, 0, 5), base.AddDate(0, 0, 2), base.AddDate(0, 0, 7)))
	})

	t.Run("containment conflicts", func(t *testing.T) {
		assert.True(t, Overlaps(base, base.AddDate(0, 0, 5), base.AddDate(0, 0, 1), base.AddDate(0, 0, 2)))
	})

	t.Run("touching ranges do not conflict", func(t *testing.T) {
		checkout := base.AddDate(0, 0, 5)
		assert.False(t, Overlaps(base, checkout, checkout, checkout.AddDate(0, 0, 3)))
	})

	t.Run("disjoint ranges do not conflict", func(t *testing.T) {
		assert.False(t, Overlaps(base, base.AddDate(0, 0, 1), base.AddDate(0, 0, 3), base.AddDate(0, 0, 4)))
	})
}

func TestTimeOfDay(t *testing.T) {
	t.Run("anchors on a date ignoring its clock", func(t *testing.T) {
		date := time.Date(2024, 7, 1, 23, 59, 0, 0, time.UTC)
		at := DefaultCheckinTime.At(date)
		assert.Equal(t, time.Date(2024, 7, 1, 14, 0, 0, 0, time.UTC), at)
	})

	t.Run("renders as hours and minutes", func(t *testing.T) {
		assert.Equal(t, "14:00", DefaultCheckinTime.String())
		assert.Equal(t, "10:00", DefaultCheckoutTime.String())
		assert.Equal(t, "00:00", Midnight.String())
	})
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2024, 7, 1, 14, 0, 0, 0, time.UTC)
	to := time.Date(2024, 7, 6, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 5, DaysBetween(from, to))
	assert.Equal(t, 0, DaysBetween(from, from))
	assert.Equal(t, -5, DaysBetween(to, from))
}

func TestConsumption_ContentKey(t *testing.T) {
	date := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	a := Consumption{ID: "c-1", GroupID: "grp-1", Type: ConsumptionBook, Date: date, Qty: 4}
	b := Consumption{ID: "c-2", GroupID: "grp-1", Type: ConsumptionBook, Date: date, Qty: 4}

	t.Run("identity ignores the generated id", func(t *testing.T) {
		assert.Equal(t, a.ContentKey(), b.ContentKey())
	})

	t.Run("content changes alter the key", func(t *testing.T) {
		c := b
		c.Qty = 5
		assert.NotEqual(t, a.ContentKey(), c.ContentKey())
	})
}
