package contracts

import (
	"context"
	"time"

	"github.com/discope/booking-service/internal/app/booking/domain"
)

// SettingsRepository is the key-value configuration store shared with the
// host system, addressed by (package, category, key) with a typed default
// fallback.
type SettingsRepository interface {
	StringValue(ctx context.Context, pkg, category, key, fallback string) (string, error)
	IntValue(ctx context.Context, pkg, category, key string, fallback int64) (int64, error)
	BoolValue(ctx context.Context, pkg, category, key string, fallback bool) (bool, error)

	// OfficePreferences returns the per-office feature flags.
	OfficePreferences(ctx context.Context, officeID string) (*domain.CenterOfficePreferences, error)

	// CheckinTime and CheckoutTime return the default day moments of a
	// center.
	CheckinTime(ctx context.Context, centerID string) (domain.TimeOfDay, error)
	CheckoutTime(ctx context.Context, centerID string) (domain.TimeOfDay, error)
}

// TaskScheduler submits deferred work. Resubmitting with an existing
// unique key replaces the prior task, so only the latest scheduled check
// for a given booking survives.
type TaskScheduler interface {
	Schedule(ctx context.Context, uniqueKey string, runAt time.Time, handler string, payload map[string]string) error

	// Due returns the tasks whose run time has passed, at-least-once.
	Due(ctx context.Context, handler string, now time.Time, limit int) ([]ScheduledTask, error)

	// Complete removes a finished task.
	Complete(ctx context.Context, uniqueKey string) error
}

// ScheduledTask is one deferred work item.
type ScheduledTask struct {
	UniqueKey string
	Handler   string
	RunAt     time.Time
	Payload   map[string]string
}
