package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
)

// ScheduleInput bundles everything the scheduler needs to regenerate the
// planning entries of one group. The caller loads it in one pass so the
// scheduler itself stays free of repository round trips for booking data.
type ScheduleInput struct {
	Booking *domain.Booking
	Group   *domain.BookingLineGroup

	Lines    []*domain.BookingLine
	Models   map[string]domain.ProductModel
	Products map[string]*domain.Product

	Activities  []*domain.BookingActivity
	SPMs        []domain.SojournProductModel
	Assignments []domain.RentalUnitAssignment

	Meals       []domain.BookingMeal
	Preferences []domain.MealPreference
}

// ConsumptionScheduler projects a group onto day-and-time-slot planning
// entries. The generated set is ephemeral: callers delete the previous
// entries of the group and insert the new ones, comparing by ContentKey
// when they need to detect a no-op regeneration.
type ConsumptionScheduler struct {
	catalog   contracts.Catalog
	settings  contracts.SettingsRepository
	allocator *RentalUnitAllocator
}

// NewConsumptionScheduler creates a ConsumptionScheduler.
func NewConsumptionScheduler(catalog contracts.Catalog, settings contracts.SettingsRepository, allocator *RentalUnitAllocator) *ConsumptionScheduler {
	return &ConsumptionScheduler{catalog: catalog, settings: settings, allocator: allocator}
}

// Generate produces the full consumption set of one group in three
// passes: rental-unit occupancy from the assignments, activity entries,
// then the remaining schedulable service lines.
func (s *ConsumptionScheduler) Generate(ctx context.Context, in ScheduleInput) ([]domain.Consumption, error) {
	var out []domain.Consumption

	occupancy, err := s.occupancyPass(ctx, in)
	if err != nil {
		return nil, err
	}
	out = append(out, occupancy...)

	activities, err := s.activityPass(ctx, in)
	if err != nil {
		return nil, err
	}
	out = append(out, activities...)

	services, err := s.servicePass(ctx, in)
	if err != nil {
		return nil, err
	}
	out = append(out, services...)

	return out, nil
}

// occupancyPass emits one "book" entry per assigned unit per day of the
// stay, nbNights+1 days in total. The arrival day starts at the center's
// checkin time, the departure day ends at its checkout time, and full
// days in between span midnight to midnight. Units structurally tied to
// an assigned one get matching link or part entries over the same spans.
func (s *ConsumptionScheduler) occupancyPass(ctx context.Context, in ScheduleInput) ([]domain.Consumption, error) {
	if len(in.Assignments) == 0 {
		return nil, nil
	}

	checkin, err := s.settings.CheckinTime(ctx, in.Booking.CenterID())
	if err != nil {
		return nil, fmt.Errorf("failed to read checkin time: %w", err)
	}
	checkout, err := s.settings.CheckoutTime(ctx, in.Booking.CenterID())
	if err != nil {
		return nil, fmt.Errorf("failed to read checkout time: %w", err)
	}
	if in.Group.TimeFrom() > 0 {
		checkin = in.Group.TimeFrom()
	}
	if in.Group.TimeTo() > 0 {
		checkout = in.Group.TimeTo()
	}

	spmByID := make(map[string]domain.SojournProductModel, len(in.SPMs))
	for _, spm := range in.SPMs {
		spmByID[spm.ID] = spm
	}

	nights := in.Group.NbNights()
	var out []domain.Consumption

	for _, assignment := range in.Assignments {
		spm, ok := spmByID[assignment.SPMID]
		if !ok {
			continue
		}
		unit, err := s.allocator.catalog.Unit(ctx, assignment.RentalUnitID)
		if err != nil {
			return nil, fmt.Errorf("failed to read assigned unit %s: %w", assignment.RentalUnitID, err)
		}
		blocks, err := s.allocator.RelatedBlocks(ctx, *unit)
		if err != nil {
			return nil, err
		}

		for day := 0; day <= nights; day++ {
			date := in.Group.DateFrom().AddDate(0, 0, day)
			from := domain.Midnight
			to := domain.EndOfDay
			if day == 0 {
				from = checkin
			}
			if day == nights {
				to = checkout
			}
			if nights == 0 {
				// Same-day events occupy the unit between the two moments.
				from, to = checkin, checkout
			}
			if from >= to {
				continue
			}

			out = append(out, domain.Consumption{
				ID:              uuid.New().String(),
				BookingID:       in.Booking.ID(),
				CenterID:        in.Booking.CenterID(),
				GroupID:         in.Group.ID(),
				Type:            domain.ConsumptionBook,
				Date:            date,
				ScheduleFrom:    from,
				ScheduleTo:      to,
				RentalUnitID:    unit.ID,
				ProductModelID:  spm.ProductModelID,
				IsAccommodation: spm.IsAccommodation,
				Qty:             assignment.Qty,
			})
			for _, block := range blocks {
				ctype := domain.ConsumptionLink
				if block.Kind == domain.BlockPart {
					ctype = domain.ConsumptionPart
				}
				out = append(out, domain.Consumption{
					ID:              uuid.New().String(),
					BookingID:       in.Booking.ID(),
					CenterID:        in.Booking.CenterID(),
					GroupID:         in.Group.ID(),
					Type:            ctype,
					Date:            date,
					ScheduleFrom:    from,
					ScheduleTo:      to,
					RentalUnitID:    block.RentalUnitID,
					ProductModelID:  spm.ProductModelID,
					IsAccommodation: spm.IsAccommodation,
				})
			}
		}
	}
	return out, nil
}

// activityPass emits one entry per activity occurrence, virtual siblings
// included, on the occurrence date over its time-slot window.
func (s *ConsumptionScheduler) activityPass(ctx context.Context, in ScheduleInput) ([]domain.Consumption, error) {
	if len(in.Activities) == 0 {
		return nil, nil
	}
	slots, err := s.catalog.TimeSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read time slots: %w", err)
	}

	lineByID := make(map[string]*domain.BookingLine, len(in.Lines))
	for _, l := range in.Lines {
		lineByID[l.ID()] = l
	}

	var out []domain.Consumption
	for _, activity := range in.Activities {
		line, ok := lineByID[activity.LineID]
		if !ok {
			continue
		}
		model := in.Models[activity.ProductModelID]

		from, to := model.ScheduleFrom, model.ScheduleTo
		if slot, ok := slots[activity.TimeSlotID]; ok {
			from, to = slot.From, slot.To
		}

		qty := line.Qty()
		if qty <= 0 {
			qty = in.Group.NbPers()
		}

		out = append(out, domain.Consumption{
			ID:             uuid.New().String(),
			BookingID:      in.Booking.ID(),
			CenterID:       in.Booking.CenterID(),
			GroupID:        in.Group.ID(),
			LineID:         line.ID(),
			Type:           domain.ConsumptionBook,
			Date:           activity.ActivityDate,
			ScheduleFrom:   from,
			ScheduleTo:     to,
			RentalUnitID:   activity.RentalUnitID,
			ProductID:      line.ProductID(),
			ProductModelID: activity.ProductModelID,
			Qty:            qty,
			Description:    model.Name,
		})
	}
	return out, nil
}

// servicePass emits entries for the schedulable service lines that are
// neither accommodation occupancy nor activities: meals, transport,
// supplies. Repeatable lines yield one entry per day carrying that day's
// quantity; a single-shot line yields one entry at the model's offset.
func (s *ConsumptionScheduler) servicePass(ctx context.Context, in ScheduleInput) ([]domain.Consumption, error) {
	slots, err := s.catalog.TimeSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read time slots: %w", err)
	}

	activityLines := make(map[string]bool, len(in.Activities))
	for _, a := range in.Activities {
		activityLines[a.LineID] = true
	}

	qc := NewQuantityCalculator()
	var out []domain.Consumption

	for _, line := range in.Lines {
		model, ok := in.Models[line.ProductModelID()]
		if !ok || !model.IsSchedulable {
			continue
		}
		if model.IsAccommodation || model.IsActivity || activityLines[line.ID()] {
			continue
		}

		from, to := model.ScheduleFrom, model.ScheduleTo
		moment := domain.TimeSlotMoment("")
		if slot, ok := slots[line.TimeSlotID()]; ok {
			from, to = slot.From, slot.To
			moment = slot.Moment
		}

		baseDate := offsetDate(in.Group, model.ScheduleOffset)
		if !line.ServiceDate().IsZero() {
			baseDate = line.ServiceDate()
		}

		if model.IsRepeatable {
			nbRepeat := in.Group.NbNights()
			if nbRepeat < 1 {
				nbRepeat = 1
			}
			if model.HasDuration {
				nbRepeat = model.Duration
			}
			perDay := qc.PerDayQtys(line.Qty(), nbRepeat, line.QtyDeltas(nbRepeat))
			for day, qty := range perDay {
				if qty <= 0 {
					continue
				}
				date := baseDate.AddDate(0, 0, day)
				out = append(out, s.serviceEntry(in, line, model, date, moment, from, to, qty))
			}
			continue
		}

		if line.Qty() <= 0 {
			continue
		}
		out = append(out, s.serviceEntry(in, line, model, baseDate, moment, from, to, line.Qty()))
	}
	return out, nil
}

func (s *ConsumptionScheduler) serviceEntry(in ScheduleInput, line *domain.BookingLine, model domain.ProductModel, date time.Time, moment domain.TimeSlotMoment, from, to domain.TimeOfDay, qty int) domain.Consumption {
	entry := domain.Consumption{
		ID:             uuid.New().String(),
		BookingID:      in.Booking.ID(),
		CenterID:       in.Booking.CenterID(),
		GroupID:        in.Group.ID(),
		LineID:         line.ID(),
		Type:           domain.ConsumptionBook,
		Date:           date,
		ScheduleFrom:   from,
		ScheduleTo:     to,
		ProductID:      line.ProductID(),
		ProductModelID: model.ID,
		Qty:            qty,
	}
	if model.IsMeal {
		entry.IsMeal = true
		entry.Description = s.mealDescription(in, date, moment)
	}
	return entry
}

// mealDescription assembles the kitchen-facing metadata of one meal
// moment: the meal type and place pinned for that date and moment, the
// age-range breakdown of the group, and the declared dietary preferences.
func (s *ConsumptionScheduler) mealDescription(in ScheduleInput, date time.Time, moment domain.TimeSlotMoment) string {
	var parts []string

	for _, meal := range in.Meals {
		if meal.Date.Year() == date.Year() && meal.Date.YearDay() == date.YearDay() && meal.Moment == moment {
			label := meal.Type
			if meal.Place != "" {
				label += " (" + meal.Place + ")"
			}
			if label != "" {
				parts = append(parts, label)
			}
			break
		}
	}

	var ranges []string
	for _, ar := range in.Group.AgeRanges() {
		if ar.Qty > 0 {
			ranges = append(ranges, fmt.Sprintf("%d x %s", ar.Qty, ar.AgeRangeID))
		}
	}
	sort.Strings(ranges)
	parts = append(parts, ranges...)

	var prefs []string
	for _, p := range in.Preferences {
		if p.Qty > 0 {
			prefs = append(prefs, fmt.Sprintf("%d x %s", p.Qty, p.Type))
		}
	}
	sort.Strings(prefs)
	parts = append(parts, prefs...)

	return strings.Join(parts, ", ")
}

// offsetDate resolves a schedule offset against the group span. Offsets
// from zero upward count from the arrival day; negative offsets count
// backward from the departure day, -1 being the departure day itself.
func offsetDate(group *domain.BookingLineGroup, offset int) time.Time {
	if offset < 0 {
		return group.DateTo().AddDate(0, 0, offset+1)
	}
	return group.DateFrom().AddDate(0, 0, offset)
}
