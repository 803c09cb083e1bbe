package testutil

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/discope/booking-service/internal/models/m_meal"
	"github.com/discope/booking-service/internal/models/m_outbox"
)

// CatalogFixture bundles the identifiers of a seeded sellable product.
type CatalogFixture struct {
	ProductID      string
	ProductModelID string
	PriceListID    string
	PriceID        string
	CategoryID     string
}

// ProductSpec tunes a seeded product model. CenterID keys the price
// list, price lists are grouped per center. CategoryID is the rental
// unit category the accommodation allocates from.
type ProductSpec struct {
	Name             string
	AccountingMethod string
	IsAccommodation  bool
	IsRentalUnit     bool
	IsMeal           bool
	Capacity         int64
	Amount           float64
	VatRate          float64
	CenterID         string
	CategoryID       string
}

// CreateTestProduct seeds a product, its model and a published price so
// the pricing pipeline can resolve it. The price list covers a wide
// window around now.
func CreateTestProduct(t *testing.T, client *spanner.Client, spec ProductSpec) CatalogFixture {
	t.Helper()

	ctx := context.Background()
	if spec.AccountingMethod == "" {
		spec.AccountingMethod = "person"
	}
	if spec.CenterID == "" {
		spec.CenterID = "center-1"
	}
	if spec.CategoryID == "" {
		spec.CategoryID = "cat-standard"
	}
	if spec.Amount == 0 {
		spec.Amount = 100
	}

	fixture := CatalogFixture{
		ProductID:      uuid.New().String(),
		ProductModelID: uuid.New().String(),
		PriceListID:    uuid.New().String(),
		PriceID:        uuid.New().String(),
		CategoryID:     spec.CategoryID,
	}

	now := time.Now().UTC()
	mutations := []*spanner.Mutation{
		spanner.InsertOrUpdate("product_models",
			[]string{"product_model_id", "name", "accounting_method",
				"is_repeatable", "is_accommodation", "is_rental_unit", "is_meal", "is_snack",
				"is_activity", "is_full_day", "is_transport", "is_supply", "is_schedulable",
				"capacity", "has_duration", "duration",
				"schedule_offset", "schedule_from", "schedule_to", "rental_unit_category_id"},
			[]interface{}{fixture.ProductModelID, spec.Name, spec.AccountingMethod,
				true, spec.IsAccommodation, spec.IsRentalUnit, spec.IsMeal, false,
				false, false, false, false, spec.IsAccommodation || spec.IsMeal,
				spec.Capacity, false, int64(0),
				int64(0), int64(0), int64(0), spanner.NullString{StringVal: spec.CategoryID, Valid: spec.IsRentalUnit}}),
		spanner.InsertOrUpdate("products",
			[]string{"product_id", "sku", "name", "product_model_id",
				"is_pack", "has_own_price", "has_age_range", "age_range_id"},
			[]interface{}{fixture.ProductID, "SKU-" + fixture.ProductID[:8], spec.Name,
				fixture.ProductModelID, false, true, false, spanner.NullString{}}),
		spanner.InsertOrUpdate("price_lists",
			[]string{"price_list_id", "category_id", "status", "date_from", "date_to"},
			[]interface{}{fixture.PriceListID, spec.CenterID, "published",
				now.AddDate(-1, 0, 0), now.AddDate(1, 0, 0)}),
		spanner.InsertOrUpdate("prices",
			[]string{"price_id", "price_list_id", "product_id", "rate_class_id", "amount", "vat_rate"},
			[]interface{}{fixture.PriceID, fixture.PriceListID, fixture.ProductID,
				spanner.NullString{}, spec.Amount, spec.VatRate}),
	}

	_, err := client.Apply(ctx, mutations)
	require.NoError(t, err, "failed to seed catalog fixture")

	return fixture
}

// CreateTestRentalUnit seeds one bookable unit of a center.
func CreateTestRentalUnit(t *testing.T, client *spanner.Client, centerID, categoryID string, capacity int64) string {
	t.Helper()

	ctx := context.Background()
	unitID := uuid.New().String()

	_, err := client.Apply(ctx, []*spanner.Mutation{
		spanner.InsertOrUpdate("rental_units",
			[]string{"rental_unit_id", "center_id", "name", "capacity",
				"is_accommodation", "category_id", "parent_id", "children_ids", "can_partial_rent"},
			[]interface{}{unitID, centerID, "Unit " + unitID[:8], capacity,
				true, spanner.NullString{StringVal: categoryID, Valid: true},
				spanner.NullString{}, []string{}, false}),
	})
	require.NoError(t, err, "failed to seed rental unit")

	return unitID
}

// CreateTestMeal pins a catered meal on one day of a group's stay.
func CreateTestMeal(t *testing.T, client *spanner.Client, groupID string, date time.Time, moment, mealType, place string) string {
	t.Helper()

	ctx := context.Background()
	mealID := uuid.New().String()

	model := m_meal.NewModel()
	_, err := client.Apply(ctx, []*spanner.Mutation{
		model.InsertMut(&m_meal.Data{
			MealID:   mealID,
			GroupID:  groupID,
			MealDate: date,
			Moment:   moment,
			MealType: mealType,
			Place:    place,
		}),
	})
	require.NoError(t, err, "failed to seed meal")

	return mealID
}

// CreateTestAgeRange seeds one age bracket for group compositions.
func CreateTestAgeRange(t *testing.T, client *spanner.Client, name string, ageFrom, ageTo int64, isChildren bool) string {
	t.Helper()

	ctx := context.Background()
	rangeID := uuid.New().String()

	_, err := client.Apply(ctx, []*spanner.Mutation{
		spanner.InsertOrUpdate("age_ranges",
			[]string{"age_range_id", "name", "age_from", "age_to", "is_children"},
			[]interface{}{rangeID, name, ageFrom, ageTo, isChildren}),
	})
	require.NoError(t, err, "failed to seed age range")

	return rangeID
}

// SeedCheckTimes stores a center's checkin and checkout times (seconds
// since midnight) the allocation window derives from.
func SeedCheckTimes(t *testing.T, client *spanner.Client, centerID, checkinSecs, checkoutSecs string) {
	t.Helper()

	ctx := context.Background()
	_, err := client.Apply(ctx, []*spanner.Mutation{
		spanner.InsertOrUpdate("settings",
			[]string{"package", "category", "setting_key", "value"},
			[]interface{}{"booking", centerID, "checkin_time", checkinSecs}),
		spanner.InsertOrUpdate("settings",
			[]string{"package", "category", "setting_key", "value"},
			[]interface{}{"booking", centerID, "checkout_time", checkoutSecs}),
	})
	require.NoError(t, err, "failed to seed check times")
}

// SeedOfficePreferences stores the per-office manual assignment flags.
func SeedOfficePreferences(t *testing.T, client *spanner.Client, officeID string, manualUnits, manualFreebies bool) {
	t.Helper()

	ctx := context.Background()
	_, err := client.Apply(ctx, []*spanner.Mutation{
		spanner.InsertOrUpdate("center_office_preferences",
			[]string{"office_id", "rental_units_manual_assignment", "freebies_manual_assignment"},
			[]interface{}{officeID, manualUnits, manualFreebies}),
	})
	require.NoError(t, err, "failed to seed office preferences")
}

// AssertOutboxEvent verifies an outbox event exists with the given event type.
func AssertOutboxEvent(t *testing.T, client *spanner.Client, eventType string) {
	t.Helper()

	ctx := context.Background()
	stmt := spanner.Statement{
		SQL:    "SELECT event_id FROM outbox_events WHERE event_type = @eventType",
		Params: map[string]interface{}{"eventType": eventType},
	}

	iter := client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	require.NoError(t, err, "outbox event not found for type: %s", eventType)
	require.NotNil(t, row, "outbox event not found for type: %s", eventType)
}

// AssertOutboxEventCount verifies the count of outbox events.
func AssertOutboxEventCount(t *testing.T, client *spanner.Client, expectedCount int) {
	t.Helper()

	AssertRowCount(t, client, m_outbox.TableName, expectedCount)
}

// CreateTestOutboxEvent creates a test outbox event.
func CreateTestOutboxEvent(t *testing.T, client *spanner.Client, eventType string, aggregateID string) string {
	t.Helper()

	ctx := context.Background()
	eventID := uuid.New().String()

	model := m_outbox.NewModel()
	data := &m_outbox.Data{
		EventID:     eventID,
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     spanner.NullJSON{Value: map[string]string{"test": "data"}, Valid: true},
		Status:      m_outbox.StatusPending,
		RetryCount:  0,
	}

	mutation := model.InsertMut(data)
	_, err := client.Apply(ctx, []*spanner.Mutation{mutation})
	require.NoError(t, err, "failed to create test outbox event")

	return eventID
}
