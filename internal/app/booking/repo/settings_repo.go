package repo

import (
	"context"
	"fmt"
	"strconv"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
)

// SettingsRepo implements SettingsRepository on the settings table shared
// with the host system. Values are stored as strings and parsed on read;
// a missing or malformed entry falls back to the caller's default.
type SettingsRepo struct {
	client *spanner.Client
}

// NewSettingsRepo creates a new SettingsRepo.
func NewSettingsRepo(client *spanner.Client) contracts.SettingsRepository {
	return &SettingsRepo{client: client}
}

func (r *SettingsRepo) rawValue(ctx context.Context, pkg, category, key string) (string, bool, error) {
	stmt := spanner.Statement{
		SQL: "SELECT value FROM settings " +
			"WHERE package = @package AND category = @category AND setting_key = @setting_key",
		Params: map[string]interface{}{
			"package":     pkg,
			"category":    category,
			"setting_key": key,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %s.%s.%s: %w", pkg, category, key, err)
	}

	var value string
	if err := row.Columns(&value); err != nil {
		return "", false, fmt.Errorf("failed to parse setting %s.%s.%s: %w", pkg, category, key, err)
	}
	return value, true, nil
}

// StringValue returns the setting as a string, or the fallback.
func (r *SettingsRepo) StringValue(ctx context.Context, pkg, category, key, fallback string) (string, error) {
	value, found, err := r.rawValue(ctx, pkg, category, key)
	if err != nil {
		return "", err
	}
	if !found {
		return fallback, nil
	}
	return value, nil
}

// IntValue returns the setting as an integer, or the fallback.
func (r *SettingsRepo) IntValue(ctx context.Context, pkg, category, key string, fallback int64) (int64, error) {
	value, found, err := r.rawValue(ctx, pkg, category, key)
	if err != nil {
		return 0, err
	}
	if !found {
		return fallback, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback, nil
	}
	return parsed, nil
}

// BoolValue returns the setting as a boolean, or the fallback.
func (r *SettingsRepo) BoolValue(ctx context.Context, pkg, category, key string, fallback bool) (bool, error) {
	value, found, err := r.rawValue(ctx, pkg, category, key)
	if err != nil {
		return false, err
	}
	if !found {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback, nil
	}
	return parsed, nil
}

// OfficePreferences returns the per-office feature flags. An office with
// no row uses the automatic defaults.
func (r *SettingsRepo) OfficePreferences(ctx context.Context, officeID string) (*domain.CenterOfficePreferences, error) {
	row, err := r.client.Single().ReadRow(ctx, "center_office_preferences", spanner.Key{officeID}, []string{
		"office_id", "rental_units_manual_assignment", "freebies_manual_assignment",
	})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return &domain.CenterOfficePreferences{OfficeID: officeID}, nil
		}
		return nil, fmt.Errorf("failed to read office preferences: %w", err)
	}

	prefs := &domain.CenterOfficePreferences{}
	if err := row.Columns(&prefs.OfficeID, &prefs.RentalUnitsManualAssignment, &prefs.FreebiesManualAssignment); err != nil {
		return nil, fmt.Errorf("failed to parse office preferences: %w", err)
	}
	return prefs, nil
}

// CheckinTime returns the default check-in moment of a center.
func (r *SettingsRepo) CheckinTime(ctx context.Context, centerID string) (domain.TimeOfDay, error) {
	seconds, err := r.IntValue(ctx, "booking", centerID, "checkin_time", int64(domain.DefaultCheckinTime))
	if err != nil {
		return 0, err
	}
	return domain.TimeOfDay(seconds), nil
}

// CheckoutTime returns the default check-out moment of a center.
func (r *SettingsRepo) CheckoutTime(ctx context.Context, centerID string) (domain.TimeOfDay, error) {
	seconds, err := r.IntValue(ctx, "booking", centerID, "checkout_time", int64(domain.DefaultCheckoutTime))
	if err != nil {
		return 0, err
	}
	return domain.TimeOfDay(seconds), nil
}
