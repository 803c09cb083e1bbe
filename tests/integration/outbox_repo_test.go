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
	"github.com/discope/booking-service/internal/models/m_outbox"
	"github.com/discope/booking-service/tests/testutil"
)

func TestOutboxRepository_InsertMut(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	repository := repo.NewOutboxRepo(client)

	event := &domain.BookingCreatedEvent{
		BookingID:  "bk-1",
		Code:       1001,
		CustomerID: "cust-1",
		CreatedAt:  time.Now().UTC(),
	}

	enriched := repository.EnrichEvent(event, `{"booking_id":"bk-1"}`)
	require.NotEmpty(t, enriched.EventID)
	assert.Equal(t, "booking.created", enriched.EventType)
	assert.Equal(t, "bk-1", enriched.AggregateID)
	assert.Equal(t, m_outbox.StatusPending, enriched.Status)

	_, err := client.Apply(ctx, []*spanner.Mutation{repository.InsertMut(enriched)})
	require.NoError(t, err)

	testutil.AssertOutboxEvent(t, client, "booking.created")
	testutil.AssertOutboxEventCount(t, client, 1)
}

func TestOutboxModel_StatusFlow(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	eventID := testutil.CreateTestOutboxEvent(t, client, "booking.status_changed", "bk-2")

	model := m_outbox.NewModel()

	_, err := client.Apply(ctx, []*spanner.Mutation{model.MarkProcessingMut(eventID)})
	require.NoError(t, err)
	assertOutboxStatus(t, client, eventID, m_outbox.StatusProcessing)

	_, err = client.Apply(ctx, []*spanner.Mutation{model.MarkCompletedMut(eventID)})
	require.NoError(t, err)
	assertOutboxStatus(t, client, eventID, m_outbox.StatusCompleted)
}

func TestOutboxModel_MarkFailed(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	eventID := testutil.CreateTestOutboxEvent(t, client, "booking.deleted", "bk-3")

	model := m_outbox.NewModel()
	_, err := client.Apply(ctx, []*spanner.Mutation{
		model.MarkFailedMut(eventID, m_outbox.StatusFailed, "broker unreachable", 5),
	})
	require.NoError(t, err)

	row, err := client.Single().ReadRow(ctx, m_outbox.TableName, spanner.Key{eventID}, []string{
		m_outbox.Status, m_outbox.RetryCount, m_outbox.ErrorMessage,
	})
	require.NoError(t, err)

	var status string
	var retries int64
	var errMsg spanner.NullString
	require.NoError(t, row.Columns(&status, &retries, &errMsg))
	assert.Equal(t, m_outbox.StatusFailed, status)
	assert.Equal(t, int64(5), retries)
	assert.Equal(t, "broker unreachable", errMsg.StringVal)
}

func assertOutboxStatus(t *testing.T, client *spanner.Client, eventID, expected string) {
	t.Helper()

	ctx := context.Background()
	row, err := client.Single().ReadRow(ctx, m_outbox.TableName, spanner.Key{eventID}, []string{m_outbox.Status})
	require.NoError(t, err)

	var status string
	require.NoError(t, row.Columns(&status))
	assert.Equal(t, expected, status)
}
