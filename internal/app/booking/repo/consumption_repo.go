package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/models/m_consumption"
	"github.com/discope/booking-service/internal/models/m_meal"
	"github.com/discope/booking-service/internal/pkg/query"
)

// ConsumptionRepo implements ConsumptionRepository for Spanner.
type ConsumptionRepo struct {
	client *spanner.Client
	model  *m_consumption.Model
}

// NewConsumptionRepo creates a new ConsumptionRepo.
func NewConsumptionRepo(client *spanner.Client) contracts.ConsumptionRepository {
	return &ConsumptionRepo{
		client: client,
		model:  m_consumption.NewModel(),
	}
}

// ListByGroup retrieves the planning entries of a group.
func (r *ConsumptionRepo) ListByGroup(ctx context.Context, groupID string) ([]domain.Consumption, error) {
	return r.list(ctx, "group_id", groupID)
}

// ListByBooking retrieves every planning entry of a booking.
func (r *ConsumptionRepo) ListByBooking(ctx context.Context, bookingID string) ([]domain.Consumption, error) {
	return r.list(ctx, "booking_id", bookingID)
}

func (r *ConsumptionRepo) list(ctx context.Context, column, value string) ([]domain.Consumption, error) {
	stmt := spanner.Statement{
		SQL: "SELECT consumption_id, booking_id, center_id, group_id, line_id, " +
			"consumption_type, consumption_date, schedule_from, schedule_to, " +
			"rental_unit_id, product_id, product_model_id, " +
			"is_accommodation, is_meal, qty, description, disclaimed " +
			"FROM consumptions WHERE " + column + " = @value " +
			"ORDER BY consumption_date, schedule_from, consumption_id",
		Params: map[string]interface{}{
			"value": value,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var consumptions []domain.Consumption
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate consumptions: %w", err)
		}

		var c domain.Consumption
		var lineID, rentalUnitID, productID, productModelID, description spanner.NullString
		var consumptionType string
		var scheduleFrom, scheduleTo, qty int64
		if err := row.Columns(&c.ID, &c.BookingID, &c.CenterID, &c.GroupID, &lineID,
			&consumptionType, &c.Date, &scheduleFrom, &scheduleTo,
			&rentalUnitID, &productID, &productModelID,
			&c.IsAccommodation, &c.IsMeal, &qty, &description, &c.Disclaimed); err != nil {
			return nil, fmt.Errorf("failed to parse consumption: %w", err)
		}
		c.LineID = lineID.StringVal
		c.Type = domain.ConsumptionType(consumptionType)
		c.ScheduleFrom = domain.TimeOfDay(scheduleFrom)
		c.ScheduleTo = domain.TimeOfDay(scheduleTo)
		c.RentalUnitID = rentalUnitID.StringVal
		c.ProductID = productID.StringVal
		c.ProductModelID = productModelID.StringVal
		c.Qty = int(qty)
		c.Description = description.StringVal
		consumptions = append(consumptions, c)
	}
	return consumptions, nil
}

// InsertMut creates a mutation writing a planning entry.
func (r *ConsumptionRepo) InsertMut(consumption domain.Consumption) *spanner.Mutation {
	return r.model.InsertMut(&m_consumption.Data{
		ConsumptionID:   consumption.ID,
		BookingID:       consumption.BookingID,
		CenterID:        consumption.CenterID,
		GroupID:         consumption.GroupID,
		LineID:          spanner.NullString{StringVal: consumption.LineID, Valid: consumption.LineID != ""},
		ConsumptionType: string(consumption.Type),
		ConsumptionDate: consumption.Date,
		ScheduleFrom:    int64(consumption.ScheduleFrom),
		ScheduleTo:      int64(consumption.ScheduleTo),
		RentalUnitID:    spanner.NullString{StringVal: consumption.RentalUnitID, Valid: consumption.RentalUnitID != ""},
		ProductID:       spanner.NullString{StringVal: consumption.ProductID, Valid: consumption.ProductID != ""},
		ProductModelID:  spanner.NullString{StringVal: consumption.ProductModelID, Valid: consumption.ProductModelID != ""},
		IsAccommodation: consumption.IsAccommodation,
		IsMeal:          consumption.IsMeal,
		Qty:             int64(consumption.Qty),
		Description:     spanner.NullString{StringVal: consumption.Description, Valid: consumption.Description != ""},
		Disclaimed:      consumption.Disclaimed,
	})
}

// DeleteByGroupMuts creates the mutations removing every planning entry of
// a group ahead of a regeneration.
func (r *ConsumptionRepo) DeleteByGroupMuts(ctx context.Context, groupID string) ([]*spanner.Mutation, error) {
	stmt := spanner.Statement{
		SQL: "SELECT consumption_id FROM consumptions WHERE group_id = @group_id",
		Params: map[string]interface{}{
			"group_id": groupID,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var muts []*spanner.Mutation
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate consumptions: %w", err)
		}

		var id string
		if err := row.Columns(&id); err != nil {
			return nil, fmt.Errorf("failed to parse consumption id: %w", err)
		}
		muts = append(muts, r.model.DeleteMut(id))
	}
	return muts, nil
}

// MealsByGroup retrieves the catered meals declared for a group.
func (r *ConsumptionRepo) MealsByGroup(ctx context.Context, groupID string) ([]domain.BookingMeal, error) {
	stmt := query.From(m_meal.TableName).
		Select(m_meal.MealID, m_meal.GroupID, m_meal.MealDate,
			m_meal.Moment, m_meal.MealType, m_meal.Place).
		Where(query.Eq(m_meal.GroupID, groupID)).
		OrderBy(m_meal.MealDate, query.Asc).
		ThenBy(m_meal.MealID, query.Asc).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var meals []domain.BookingMeal
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate meals: %w", err)
		}

		var m domain.BookingMeal
		var moment string
		if err := row.Columns(&m.ID, &m.GroupID, &m.Date, &moment, &m.Type, &m.Place); err != nil {
			return nil, fmt.Errorf("failed to parse meal: %w", err)
		}
		m.Moment = domain.TimeSlotMoment(moment)
		meals = append(meals, m)
	}
	return meals, nil
}

// MealPreferencesByGroup retrieves the dietary breakdown of a group.
func (r *ConsumptionRepo) MealPreferencesByGroup(ctx context.Context, groupID string) ([]domain.MealPreference, error) {
	stmt := spanner.Statement{
		SQL: "SELECT preference_id, group_id, preference_type, qty " +
			"FROM meal_preferences WHERE group_id = @group_id ORDER BY preference_type",
		Params: map[string]interface{}{
			"group_id": groupID,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var prefs []domain.MealPreference
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate meal preferences: %w", err)
		}

		var p domain.MealPreference
		var qty int64
		if err := row.Columns(&p.ID, &p.GroupID, &p.Type, &qty); err != nil {
			return nil, fmt.Errorf("failed to parse meal preference: %w", err)
		}
		p.Qty = int(qty)
		prefs = append(prefs, p)
	}
	return prefs, nil
}
