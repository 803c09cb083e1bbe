//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/app/booking/repo"
	"github.com/discope/booking-service/internal/pkg/clock"
	"github.com/discope/booking-service/internal/pkg/committer"
	"github.com/discope/booking-service/tests/testutil"
)

func TestBookingRepository_InsertMut(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	clk := clock.NewMockClock(time.Now().UTC())
	repository := repo.NewBookingRepo(client, clk)

	booking, err := domain.NewBooking("bk-1", 1001, "cust-1", "center-1", "office-1", clk.Now(), clk)
	require.NoError(t, err)

	mutation := repository.InsertMut(booking)
	require.NotNil(t, mutation)

	_, err = client.Apply(ctx, []*spanner.Mutation{mutation})
	require.NoError(t, err)

	testutil.AssertRowCount(t, client, "bookings", 1)

	retrieved, err := repository.GetByID(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1001), retrieved.Code())
	assert.Equal(t, "cust-1", retrieved.CustomerID())
	assert.Equal(t, domain.StatusQuote, retrieved.Status())
	assert.NotEmpty(t, retrieved.PaymentRef())

	version, err := repository.Version(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestBookingRepository_UpdateMut(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	clk := clock.NewMockClock(time.Now().UTC())
	repository := repo.NewBookingRepo(client, clk)
	comm := committer.NewCommitter(client)

	booking, err := domain.NewBooking("bk-2", 1002, "cust-1", "center-1", "office-1", clk.Now(), clk)
	require.NoError(t, err)
	_, err = client.Apply(ctx, []*spanner.Mutation{repository.InsertMut(booking)})
	require.NoError(t, err)

	loaded, err := repository.GetByID(ctx, "bk-2")
	require.NoError(t, err)
	version, err := repository.Version(ctx, "bk-2")
	require.NoError(t, err)

	require.NoError(t, loaded.TransitionTo(domain.StatusOption))

	plan := committer.NewPlan()
	plan.Add(repository.UpdateMut(loaded, version))
	require.NoError(t, comm.ApplyWithVersionCheck(ctx, "bk-2", version, plan))

	reloaded, err := repository.GetByID(ctx, "bk-2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOption, reloaded.Status())

	bumped, err := repository.Version(ctx, "bk-2")
	require.NoError(t, err)
	assert.Equal(t, version+1, bumped)
}

func TestBookingRepository_VersionConflict(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	clk := clock.NewMockClock(time.Now().UTC())
	repository := repo.NewBookingRepo(client, clk)
	comm := committer.NewCommitter(client)

	booking, err := domain.NewBooking("bk-3", 1003, "cust-1", "center-1", "office-1", clk.Now(), clk)
	require.NoError(t, err)
	_, err = client.Apply(ctx, []*spanner.Mutation{repository.InsertMut(booking)})
	require.NoError(t, err)

	version, err := repository.Version(ctx, "bk-3")
	require.NoError(t, err)

	// First writer wins
	first, err := repository.GetByID(ctx, "bk-3")
	require.NoError(t, err)
	require.NoError(t, first.TransitionTo(domain.StatusOption))
	plan := committer.NewPlan()
	plan.Add(repository.UpdateMut(first, version))
	require.NoError(t, comm.ApplyWithVersionCheck(ctx, "bk-3", version, plan))

	// Second writer holds the stale version
	second, err := repository.GetByID(ctx, "bk-3")
	require.NoError(t, err)
	require.NoError(t, second.TransitionTo(domain.StatusConfirmed))
	stale := committer.NewPlan()
	stale.Add(repository.UpdateMut(second, version))
	err = comm.ApplyWithVersionCheck(ctx, "bk-3", version, stale)
	assert.ErrorIs(t, err, committer.ErrVersionConflict)
}

func TestBookingRepository_NextCode(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	clk := clock.NewMockClock(time.Now().UTC())
	repository := repo.NewBookingRepo(client, clk)

	code, err := repository.NextCode(ctx, "office-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), code)

	booking, err := domain.NewBooking("bk-4", code, "cust-1", "center-1", "office-1", clk.Now(), clk)
	require.NoError(t, err)
	_, err = client.Apply(ctx, []*spanner.Mutation{repository.InsertMut(booking)})
	require.NoError(t, err)

	next, err := repository.NextCode(ctx, "office-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), next)

	// Other offices run their own sequence
	other, err := repository.NextCode(ctx, "office-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other)
}

func TestBookingRepository_DeleteCascades(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	clk := clock.NewMockClock(time.Now().UTC())
	bookings := repo.NewBookingRepo(client, clk)
	groups := repo.NewGroupRepo(client, clk)

	booking, err := domain.NewBooking("bk-5", 1005, "cust-1", "center-1", "office-1", clk.Now(), clk)
	require.NoError(t, err)

	group, err := domain.NewBookingLineGroup("grp-1", "bk-5", "Sojourn", domain.GroupSojourn,
		clk.Now(), domain.DefaultCheckinTime, domain.DefaultCheckoutTime, "rc-standard", clk)
	require.NoError(t, err)

	muts := []*spanner.Mutation{bookings.InsertMut(booking)}
	muts = append(muts, groups.InsertMut(group)...)
	_, err = client.Apply(ctx, muts)
	require.NoError(t, err)

	testutil.AssertRowCount(t, client, "booking_line_groups", 1)

	_, err = client.Apply(ctx, []*spanner.Mutation{bookings.DeleteMut("bk-5")})
	require.NoError(t, err)

	testutil.AssertRowCount(t, client, "bookings", 0)
	testutil.AssertRowCount(t, client, "booking_line_groups", 0)
}
