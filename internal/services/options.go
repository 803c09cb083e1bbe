package services

import (
	"context"
	"fmt"

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
	httphandler "github.com/discope/booking-service/internal/transport/http"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client
	RedisClient   *redis.Client

	BookingHandler *httphandler.BookingHandler

	// CheckUnits drains the deferred unit assignment checks; the worker
	// binary drives it on a ticker.
	CheckUnits *check_units.Interactor
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, spannerDB, redisAddr string) (*ServiceOptions, error) {
	// 1. Infrastructure clients
	spannerClient, err := spanner.NewClient(ctx, spannerDB)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		spannerClient.Close()
		return nil, fmt.Errorf("failed to reach Redis: %w", err)
	}

	clk := clock.NewRealClock()
	comm := committer.NewCommitter(spannerClient)
	locker := centerlock.NewLocker(redisClient)

	// 2. Repositories
	bookingRepo := repo.NewBookingRepo(spannerClient, clk)
	groupRepo := repo.NewGroupRepo(spannerClient, clk)
	lineRepo := repo.NewLineRepo(spannerClient, clk)
	assignmentRepo := repo.NewAssignmentRepo(spannerClient)
	consumptionRepo := repo.NewConsumptionRepo(spannerClient)
	outboxRepo := repo.NewOutboxRepo(spannerClient)
	settingsRepo := repo.NewSettingsRepo(spannerClient)
	catalogRepo := repo.NewCatalogRepo(spannerClient)
	priceCatalog := repo.NewPriceCatalogRepo(spannerClient)
	discountCatalog := repo.NewDiscountCatalogRepo(spannerClient)
	rentalUnits := repo.NewRentalUnitRepo(spannerClient)
	statsRepo := repo.NewStatsRepo(spannerClient)
	taskScheduler := repo.NewTaskScheduler(spannerClient)
	readModel := repo.NewReadModel(spannerClient)

	// 3. Recomputation pipeline
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

	// 4. Command use cases
	createBookingUseCase := create_booking.NewInteractor(bookingRepo, groupRepo, outboxRepo, settingsRepo, comm, clk)
	deleteBookingUseCase := delete_booking.NewInteractor(bookingRepo, outboxRepo, comm, clk)
	updateStatusUseCase := update_booking_status.NewInteractor(bookingRepo, outboxRepo, comm, clk)
	updateDatesUseCase := update_group_dates.NewInteractor(replanner)
	updateAgesUseCase := update_age_ranges.NewInteractor(replanner, catalogRepo)
	setProductUseCase := set_line_product.NewInteractor(replanner, catalogRepo, clk)
	updateQtyUseCase := update_line_qty.NewInteractor(replanner)
	checkUnitsUseCase := check_units.NewInteractor(taskScheduler, replanner, clk)

	// 5. Query use cases
	getBookingQuery := get_booking.NewQuery(readModel)
	listBookingsQuery := list_bookings.NewQuery(readModel)
	listConsumptionsQuery := list_consumptions.NewQuery(readModel)

	// 6. HTTP handler
	bookingHandler := httphandler.NewBookingHandler(
		createBookingUseCase,
		deleteBookingUseCase,
		updateStatusUseCase,
		updateDatesUseCase,
		updateAgesUseCase,
		setProductUseCase,
		updateQtyUseCase,
		getBookingQuery,
		listBookingsQuery,
		listConsumptionsQuery,
	)

	return &ServiceOptions{
		SpannerClient:  spannerClient,
		RedisClient:    redisClient,
		BookingHandler: bookingHandler,
		CheckUnits:     checkUnitsUseCase,
	}, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
	if s.RedisClient != nil {
		s.RedisClient.Close()
	}
}
