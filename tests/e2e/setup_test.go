package e2e

import (
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/redis/go-redis/v9"

	"github.com/discope/booking-service/internal/app/booking/queries/get_booking"
	"github.com/discope/booking-service/internal/app/booking/queries/list_bookings"
	"github.com/discope/booking-service/internal/app/booking/queries/list_consumptions"
	"github.com/discope/booking-service/internal/app/booking/repo"
	engines "github.com/discope/booking-service/internal/app/booking/services"
	"github.com/discope/booking-service/internal/app/booking/usecases/check_units"
	"github.com/discope/booking-service/internal/app/booking/usecases/create_booking"
	"github.com/discope/booking-service/internal/app/booking/usecases/delete_booking"
	"github.com/discope/booking-service/internal/app/booking/usecases/replan"
	"github.com/discope/booking-service/internal/app/booking/usecases/set_line_product"
	"github.com/discope/booking-service/internal/app/booking/usecases/update_age_ranges"
	"github.com/discope/booking-service/internal/app/booking/usecases/update_booking_status"
	"github.com/discope/booking-service/internal/app/booking/usecases/update_group_dates"
	"github.com/discope/booking-service/internal/app/booking/usecases/update_line_qty"
	"github.com/discope/booking-service/internal/pkg/centerlock"
	"github.com/discope/booking-service/internal/pkg/clock"
	"github.com/discope/booking-service/internal/pkg/committer"
	"github.com/discope/booking-service/tests/testutil"
)

// Services holds all use cases and queries for E2E tests.
type Services struct {
	// Commands
	CreateBooking *create_booking.Interactor
	DeleteBooking *delete_booking.Interactor
	UpdateStatus  *update_booking_status.Interactor
	UpdateDates   *update_group_dates.Interactor
	UpdateAges    *update_age_ranges.Interactor
	SetProduct    *set_line_product.Interactor
	UpdateQty     *update_line_qty.Interactor
	CheckUnits    *check_units.Interactor

	// Queries
	GetBooking       *get_booking.Query
	ListBookings     *list_bookings.Query
	ListConsumptions *list_consumptions.Query

	// Infrastructure
	Clock  clock.Clock
	Client *spanner.Client
	Redis  *redis.Client
}

// setupTest initializes all dependencies for E2E testing with the given
// clock. Requires the Spanner emulator and a local Redis.
func setupTest(t *testing.T, clk clock.Clock) (*Services, func()) {
	t.Helper()

	client, cleanup := testutil.SetupSpannerTest(t)
	redisClient := testutil.NewTestRedis(t)

	comm := committer.NewCommitter(client)
	locker := centerlock.NewLocker(redisClient)

	bookingRepo := repo.NewBookingRepo(client, clk)
	groupRepo := repo.NewGroupRepo(client, clk)
	lineRepo := repo.NewLineRepo(client, clk)
	assignmentRepo := repo.NewAssignmentRepo(client)
	consumptionRepo := repo.NewConsumptionRepo(client)
	outboxRepo := repo.NewOutboxRepo(client)
	settingsRepo := repo.NewSettingsRepo(client)
	catalogRepo := repo.NewCatalogRepo(client)
	priceCatalog := repo.NewPriceCatalogRepo(client)
	discountCatalog := repo.NewDiscountCatalogRepo(client)
	rentalUnits := repo.NewRentalUnitRepo(client)
	statsRepo := repo.NewStatsRepo(client)
	taskScheduler := repo.NewTaskScheduler(client)
	readModel := repo.NewReadModel(client)

	allocator := engines.NewRentalUnitAllocator(rentalUnits)
	pipeline := engines.NewPipeline(
		catalogRepo,
		settingsRepo,
		engines.NewPriceResolver(priceCatalog),
		engines.NewQuantityCalculator(),
		engines.NewDiscountEngine(discountCatalog, statsRepo, clk),
		allocator,
		engines.NewConsumptionScheduler(catalogRepo, settingsRepo, allocator),
		clk,
	)

	replanner := replan.NewReplanner(
		bookingRepo,
		groupRepo,
		lineRepo,
		assignmentRepo,
		consumptionRepo,
		outboxRepo,
		settingsRepo,
		taskScheduler,
		pipeline,
		comm,
		locker,
		clk,
	)

	services := &Services{
		CreateBooking: create_booking.NewInteractor(bookingRepo, groupRepo, outboxRepo, settingsRepo, comm, clk),
		DeleteBooking: delete_booking.NewInteractor(bookingRepo, outboxRepo, comm, clk),
		UpdateStatus:  update_booking_status.NewInteractor(bookingRepo, outboxRepo, comm, clk),
		UpdateDates:   update_group_dates.NewInteractor(replanner),
		UpdateAges:    update_age_ranges.NewInteractor(replanner, catalogRepo),
		SetProduct:    set_line_product.NewInteractor(replanner, catalogRepo, clk),
		UpdateQty:     update_line_qty.NewInteractor(replanner),
		CheckUnits:    check_units.NewInteractor(taskScheduler, replanner, clk),

		GetBooking:       get_booking.NewQuery(readModel),
		ListBookings:     list_bookings.NewQuery(readModel),
		ListConsumptions: list_consumptions.NewQuery(readModel),

		Clock:  clk,
		Client: client,
		Redis:  redisClient,
	}

	return services, cleanup
}
