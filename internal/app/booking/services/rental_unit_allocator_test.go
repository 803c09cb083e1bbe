package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discope/booking-service/internal/app/booking/domain"
)

func unit(id string, capacity int) domain.RentalUnit {
	return domain.RentalUnit{ID: id, CenterID: "center-1", Capacity: capacity, IsAccommodation: true}
}

func TestChooseUnits(t *testing.T) {
	t.Run("exact single match wins over combinations", func(t *testing.T) {
		pool := []domain.RentalUnit{unit("u-1", 2), unit("u-2", 3), unit("u-3", 5)}

		shares := ChooseUnits(pool, 5)

		require.Len(t, shares, 1)
		assert.Equal(t, "u-3", shares[0].Unit.ID)
		assert.Equal(t, 5, shares[0].Qty)
	})

	t.Run("smallest oversized unit when no exact match", func(t *testing.T) {
		pool := []domain.RentalUnit{unit("u-1", 4), unit("u-2", 6), unit("u-3", 10)}

		shares := ChooseUnits(pool, 5)

		require.Len(t, shares, 1)
		assert.Equal(t, "u-2", shares[0].Unit.ID)
		assert.Equal(t, 5, shares[0].Qty)
	})

	t.Run("combination covers what no single unit can", func(t *testing.T) {
		pool := []domain.RentalUnit{unit("u-1", 2), unit("u-2", 3), unit("u-3", 5)}

		shares := ChooseUnits(pool, 7)

		require.Len(t, shares, 2)
		total := 0
		for _, s := range shares {
			total += s.Qty
		}
		assert.Equal(t, 7, total)
		assert.Equal(t, "u-3", shares[0].Unit.ID)
		assert.Equal(t, "u-1", shares[1].Unit.ID)
	})

	t.Run("combination must sum exactly, fewest units first", func(t *testing.T) {
		pool := []domain.RentalUnit{unit("u-1", 4), unit("u-2", 4), unit("u-3", 4), unit("u-4", 6), unit("u-5", 6)}

		shares := ChooseUnits(pool, 10)

		require.Len(t, shares, 2)
		assert.Equal(t, "u-4", shares[0].Unit.ID)
		assert.Equal(t, 6, shares[0].Qty)
		assert.Equal(t, "u-1", shares[1].Unit.ID)
		assert.Equal(t, 4, shares[1].Qty)
	})

	t.Run("no exact sum degrades to the single largest unit", func(t *testing.T) {
		pool := []domain.RentalUnit{unit("u-1", 4), unit("u-2", 4), unit("u-3", 4), unit("u-4", 6), unit("u-5", 6)}

		// 11 has no subset sum over {4, 6}; overshooting combinations
		// are not an option.
		shares := ChooseUnits(pool, 11)

		require.Len(t, shares, 1)
		assert.Equal(t, "u-4", shares[0].Unit.ID)
		assert.Equal(t, 6, shares[0].Qty)
	})

	t.Run("degraded fallback picks the largest unit", func(t *testing.T) {
		pool := []domain.RentalUnit{unit("u-1", 2), unit("u-2", 3)}

		shares := ChooseUnits(pool, 40)

		require.Len(t, shares, 1)
		assert.Equal(t, "u-2", shares[0].Unit.ID)
		assert.Equal(t, 3, shares[0].Qty)
	})

	t.Run("empty pool yields nothing", func(t *testing.T) {
		assert.Nil(t, ChooseUnits(nil, 5))
		assert.Nil(t, ChooseUnits([]domain.RentalUnit{unit("u-1", 2)}, 0))
	})
}

func TestFilterAvailable(t *testing.T) {
	from := time.Date(2024, 7, 1, 14, 0, 0, 0, time.UTC)
	to := time.Date(2024, 7, 6, 10, 0, 0, 0, time.UTC)
	pool := []domain.RentalUnit{unit("u-1", 4), unit("u-2", 4)}

	t.Run("overlapping period removes the unit", func(t *testing.T) {
		booked := []domain.BookedPeriod{
			{RentalUnitID: "u-1", From: from.AddDate(0, 0, 2), To: from.AddDate(0, 0, 3)},
		}

		free := FilterAvailable(pool, booked, from, to)

		require.Len(t, free, 1)
		assert.Equal(t, "u-2", free[0].ID)
	})

	t.Run("touching periods do not conflict", func(t *testing.T) {
		booked := []domain.BookedPeriod{
			{RentalUnitID: "u-1", From: to, To: to.AddDate(0, 0, 4)},
			{RentalUnitID: "u-2", From: from.AddDate(0, 0, -4), To: from},
		}

		free := FilterAvailable(pool, booked, from, to)

		assert.Len(t, free, 2)
	})
}

func TestRentalUnitAllocator_Allocate(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2024, 7, 1, 14, 0, 0, 0, time.UTC)
	to := time.Date(2024, 7, 6, 10, 0, 0, 0, time.UTC)

	t.Run("allocates from the free pool", func(t *testing.T) {
		catalog := newFakeRentalUnitCatalog(unit("u-1", 2), unit("u-2", 5))
		catalog.booked = []domain.BookedPeriod{
			{RentalUnitID: "u-2", From: from, To: to},
		}
		allocator := NewRentalUnitAllocator(catalog)

		shares, err := allocator.Allocate(ctx, AllocationRequest{
			CenterID: "center-1", OnlyAccommodation: true, NbPers: 2, From: from, To: to,
		})
		require.NoError(t, err)
		require.Len(t, shares, 1)
		assert.Equal(t, "u-1", shares[0].Unit.ID)
	})

	t.Run("fully booked center reports no availability", func(t *testing.T) {
		catalog := newFakeRentalUnitCatalog(unit("u-1", 2))
		catalog.booked = []domain.BookedPeriod{
			{RentalUnitID: "u-1", From: from, To: to},
		}
		allocator := NewRentalUnitAllocator(catalog)

		_, err := allocator.Allocate(ctx, AllocationRequest{
			CenterID: "center-1", OnlyAccommodation: true, NbPers: 2, From: from, To: to,
		})
		assert.ErrorIs(t, err, domain.ErrNoAvailability)
	})
}

func TestRentalUnitAllocator_RelatedBlocks(t *testing.T) {
	ctx := context.Background()

	building := domain.RentalUnit{ID: "u-building", CenterID: "center-1", Capacity: 20, CanPartialRent: true, ChildrenIDs: []string{"u-floor"}}
	floor := domain.RentalUnit{ID: "u-floor", CenterID: "center-1", Capacity: 10, ParentID: "u-building", ChildrenIDs: []string{"u-room"}}
	room := domain.RentalUnit{ID: "u-room", CenterID: "center-1", Capacity: 4, ParentID: "u-floor"}
	catalog := newFakeRentalUnitCatalog(building, floor, room)
	allocator := NewRentalUnitAllocator(catalog)

	t.Run("children are hard-blocked, partial ancestors advisory-blocked", func(t *testing.T) {
		blocks, err := allocator.RelatedBlocks(ctx, floor)
		require.NoError(t, err)
		require.Len(t, blocks, 2)
		assert.Equal(t, domain.RelatedBlock{RentalUnitID: "u-room", Kind: domain.BlockLink}, blocks[0])
		assert.Equal(t, domain.RelatedBlock{RentalUnitID: "u-building", Kind: domain.BlockPart}, blocks[1])
	})

	t.Run("plain ancestors are hard-blocked", func(t *testing.T) {
		blocks, err := allocator.RelatedBlocks(ctx, room)
		require.NoError(t, err)
		require.Len(t, blocks, 2)
		assert.Equal(t, domain.BlockLink, blocks[0].Kind)
		assert.Equal(t, "u-floor", blocks[0].RentalUnitID)
		assert.Equal(t, domain.BlockPart, blocks[1].Kind)
		assert.Equal(t, "u-building", blocks[1].RentalUnitID)
	})
}
