package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/models/m_task"
)

// TaskSchedulerRepo implements TaskScheduler on the scheduled_tasks table.
// The task name is the primary key, so resubmitting coalesces with any
// pending task for the same key.
type TaskSchedulerRepo struct {
	client *spanner.Client
	model  *m_task.Model
}

// NewTaskScheduler creates a new TaskSchedulerRepo.
func NewTaskScheduler(client *spanner.Client) contracts.TaskScheduler {
	return &TaskSchedulerRepo{
		client: client,
		model:  m_task.NewModel(),
	}
}

// Schedule submits a deferred task, replacing a pending one with the same
// unique key.
func (r *TaskSchedulerRepo) Schedule(ctx context.Context, uniqueKey string, runAt time.Time, handler string, payload map[string]string) error {
	mut := r.model.UpsertMut(&m_task.Data{
		TaskName: uniqueKey,
		TaskType: handler,
		Payload:  spanner.NullJSON{Value: payload, Valid: payload != nil},
		DueAt:    runAt,
	})
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{mut}); err != nil {
		return fmt.Errorf("failed to schedule task %s: %w", uniqueKey, err)
	}
	return nil
}

// Due returns the tasks of one handler whose run time has passed.
func (r *TaskSchedulerRepo) Due(ctx context.Context, handler string, now time.Time, limit int) ([]contracts.ScheduledTask, error) {
	if limit <= 0 {
		limit = 50
	}

	stmt := spanner.Statement{
		SQL: "SELECT task_name, task_type, payload, due_at FROM scheduled_tasks " +
			"WHERE task_type = @task_type AND due_at <= @now " +
			"ORDER BY due_at LIMIT @limit",
		Params: map[string]interface{}{
			"task_type": handler,
			"now":       now,
			"limit":     int64(limit),
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var tasks []contracts.ScheduledTask
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate due tasks: %w", err)
		}

		var task contracts.ScheduledTask
		var payload spanner.NullJSON
		if err := row.Columns(&task.UniqueKey, &task.Handler, &payload, &task.RunAt); err != nil {
			return nil, fmt.Errorf("failed to parse task: %w", err)
		}
		task.Payload = decodeTaskPayload(payload)
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// Complete removes a finished task.
func (r *TaskSchedulerRepo) Complete(ctx context.Context, uniqueKey string) error {
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{r.model.DeleteMut(uniqueKey)}); err != nil {
		return fmt.Errorf("failed to complete task %s: %w", uniqueKey, err)
	}
	return nil
}

func decodeTaskPayload(raw spanner.NullJSON) map[string]string {
	if !raw.Valid {
		return nil
	}
	values, ok := raw.Value.(map[string]interface{})
	if !ok {
		return nil
	}
	payload := make(map[string]string, len(values))
	for key, value := range values {
		if s, ok := value.(string); ok {
			payload[key] = s
		}
	}
	return payload
}
