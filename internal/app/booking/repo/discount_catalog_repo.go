package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
)

// DiscountCatalogRepo implements DiscountCatalog for Spanner. Rule
// conditions are stored as a JSON column and decoded into the typed
// condition list the engine evaluates.
type DiscountCatalogRepo struct {
	client *spanner.Client
}

// NewDiscountCatalogRepo creates a new DiscountCatalogRepo.
func NewDiscountCatalogRepo(client *spanner.Client) contracts.DiscountCatalog {
	return &DiscountCatalogRepo{client: client}
}

// conditionRow is the JSON wire shape of one stored condition.
type conditionRow struct {
	Operand  string  `json:"operand"`
	Operator string  `json:"operator"`
	Value    float64 `json:"value"`
}

func decodeConditions(raw spanner.NullJSON) ([]domain.Condition, error) {
	if !raw.Valid {
		return nil, nil
	}
	encoded, err := json.Marshal(raw.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode conditions: %w", err)
	}
	var rows []conditionRow
	if err := json.Unmarshal(encoded, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode conditions: %w", err)
	}
	conditions := make([]domain.Condition, 0, len(rows))
	for _, row := range rows {
		conditions = append(conditions, domain.Condition{
			Operand:  domain.Operand(row.Operand),
			Operator: domain.Operator(row.Operator),
			Value:    row.Value,
		})
	}
	return conditions, nil
}

// DiscountListFor returns the single list applicable for the category and
// date, or nil when none applies.
func (r *DiscountCatalogRepo) DiscountListFor(ctx context.Context, categoryID string, date time.Time) (*domain.DiscountList, error) {
	stmt := spanner.Statement{
		SQL: "SELECT discount_list_id, name, category_id, date_from, date_to, rate_min, rate_max " +
			"FROM discount_lists " +
			"WHERE category_id = @category_id AND date_from <= @date AND date_to >= @date " +
			"ORDER BY date_from DESC LIMIT 1",
		Params: map[string]interface{}{
			"category_id": categoryID,
			"date":        date,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read discount list: %w", err)
	}

	dl := &domain.DiscountList{}
	if err := row.Columns(&dl.ID, &dl.Name, &dl.CategoryID, &dl.DateFrom, &dl.DateTo, &dl.RateMin, &dl.RateMax); err != nil {
		return nil, fmt.Errorf("failed to parse discount list: %w", err)
	}
	return dl, nil
}

// DiscountRulesFor returns the rules of a discount list.
func (r *DiscountCatalogRepo) DiscountRulesFor(ctx context.Context, discountListID string) ([]domain.DiscountRule, error) {
	stmt := spanner.Statement{
		SQL: "SELECT discount_id, discount_list_id, discount_type, value, conditions, " +
			"value_max_operand, scale_by_duration " +
			"FROM discounts WHERE discount_list_id = @discount_list_id ORDER BY discount_id",
		Params: map[string]interface{}{
			"discount_list_id": discountListID,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var rules []domain.DiscountRule
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate discount rules: %w", err)
		}

		var rule domain.DiscountRule
		var discountType string
		var conditions spanner.NullJSON
		var valueMax spanner.NullString
		if err := row.Columns(&rule.ID, &rule.DiscountListID, &discountType, &rule.Value,
			&conditions, &valueMax, &rule.ScaleByDuration); err != nil {
			return nil, fmt.Errorf("failed to parse discount rule: %w", err)
		}
		rule.Type = domain.DiscountType(discountType)
		rule.ValueMax = domain.Operand(valueMax.StringVal)
		decoded, err := decodeConditions(conditions)
		if err != nil {
			return nil, fmt.Errorf("discount %s: %w", rule.ID, err)
		}
		rule.Conditions = decoded
		rules = append(rules, rule)
	}
	return rules, nil
}

// AutosaleListFor returns the single autosale list applicable for the
// center and date, or nil when none applies.
func (r *DiscountCatalogRepo) AutosaleListFor(ctx context.Context, centerID string, date time.Time) (*domain.AutosaleList, error) {
	stmt := spanner.Statement{
		SQL: "SELECT autosale_list_id, name, date_from, date_to " +
			"FROM autosale_lists " +
			"WHERE center_id = @center_id AND date_from <= @date AND date_to >= @date " +
			"ORDER BY date_from DESC LIMIT 1",
		Params: map[string]interface{}{
			"center_id": centerID,
			"date":      date,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read autosale list: %w", err)
	}

	al := &domain.AutosaleList{}
	if err := row.Columns(&al.ID, &al.Name, &al.DateFrom, &al.DateTo); err != nil {
		return nil, fmt.Errorf("failed to parse autosale list: %w", err)
	}
	return al, nil
}

// AutosaleRulesFor returns the rules of an autosale list.
func (r *DiscountCatalogRepo) AutosaleRulesFor(ctx context.Context, autosaleListID string) ([]domain.AutosaleRule, error) {
	stmt := spanner.Statement{
		SQL: "SELECT autosale_id, autosale_list_id, product_id, scope, has_own_qty, own_qty, conditions " +
			"FROM autosales WHERE autosale_list_id = @autosale_list_id ORDER BY autosale_id",
		Params: map[string]interface{}{
			"autosale_list_id": autosaleListID,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var rules []domain.AutosaleRule
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate autosale rules: %w", err)
		}

		var rule domain.AutosaleRule
		var scope string
		var ownQty int64
		var conditions spanner.NullJSON
		if err := row.Columns(&rule.ID, &rule.AutosaleListID, &rule.ProductID, &scope,
			&rule.HasOwnQty, &ownQty, &conditions); err != nil {
			return nil, fmt.Errorf("failed to parse autosale rule: %w", err)
		}
		rule.Scope = domain.AutosaleScope(scope)
		rule.OwnQty = int(ownQty)
		decoded, err := decodeConditions(conditions)
		if err != nil {
			return nil, fmt.Errorf("autosale %s: %w", rule.ID, err)
		}
		rule.Conditions = decoded
		rules = append(rules, rule)
	}
	return rules, nil
}

// SeasonFor returns the numeric season code of a center at a date, from
// the season calendar maintained by the host system.
func (r *DiscountCatalogRepo) SeasonFor(ctx context.Context, centerID string, date time.Time) (float64, error) {
	stmt := spanner.Statement{
		SQL: "SELECT season_code FROM season_periods " +
			"WHERE center_id = @center_id AND date_from <= @date AND date_to >= @date " +
			"ORDER BY date_from DESC LIMIT 1",
		Params: map[string]interface{}{
			"center_id": centerID,
			"date":      date,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read season: %w", err)
	}

	var code int64
	if err := row.Columns(&code); err != nil {
		return 0, fmt.Errorf("failed to parse season: %w", err)
	}
	return float64(code), nil
}
