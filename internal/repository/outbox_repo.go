package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/upskillhq/workshop-platform/internal/model"
)

// OutboxRepository persists pending notifications so a payment confirmation
// survives an email-provider outage. The worker in internal/outbox drains it.
type OutboxRepository struct {
	db *pgxpool.Pool
}

func NewOutboxRepository(db *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// Enqueue inserts a pending entry due immediately.
func (r *OutboxRepository) Enqueue(ctx context.Context, kind model.NotificationKind, registrationID string) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO notification_outbox (id, kind, registration_id, status, attempts, next_attempt_at, created_at)
		 VALUES ($1, $2, $3, 'pending', 0, $4, $4)`,
		uuid.New().String(), kind, registrationID, now,
	)
	if err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

// ClaimDue returns up to limit pending entries whose next attempt is due and
// pushes their next_attempt_at forward so a second worker pass (or a second
// process) does not pick them up while they are in flight.
func (r *OutboxRepository) ClaimDue(ctx context.Context, limit int, holdFor time.Duration) ([]model.OutboxEntry, error) {
	now := time.Now().UTC()
	rows, err := r.db.Query(ctx,
		`UPDATE notification_outbox
		 SET next_attempt_at = $2
		 WHERE id IN (
		   SELECT id FROM notification_outbox
		   WHERE status = 'pending' AND next_attempt_at <= $1
		   ORDER BY next_attempt_at ASC
		   LIMIT $3
		   FOR UPDATE SKIP LOCKED
		 )
		 RETURNING id, kind, registration_id, status, attempts, next_attempt_at, last_error, created_at, sent_at`,
		now, now.Add(holdFor), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("claim outbox entries: %w", err)
	}
	defer rows.Close()

	var entries []model.OutboxEntry
	for rows.Next() {
		var e model.OutboxEntry
		if err := rows.Scan(&e.ID, &e.Kind, &e.RegistrationID, &e.Status, &e.Attempts,
			&e.NextAttemptAt, &e.LastError, &e.CreatedAt, &e.SentAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MarkSent records a successful delivery.
func (r *OutboxRepository) MarkSent(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notification_outbox SET status = 'sent', sent_at = $2, last_error = '' WHERE id = $1`,
		id, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("mark outbox sent: %w", err)
	}
	return nil
}

// MarkFailed records a delivery failure and schedules the retry; entries
// past maxAttempts are dead-lettered.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id, lastErr string, nextAttempt time.Time, maxAttempts int) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notification_outbox
		 SET attempts = attempts + 1,
		     last_error = $2,
		     next_attempt_at = $3,
		     status = CASE WHEN attempts + 1 >= $4 THEN 'dead' ELSE 'pending' END
		 WHERE id = $1`,
		id, lastErr, nextAttempt, maxAttempts,
	)
	if err != nil {
		return fmt.Errorf("mark outbox failed: %w", err)
	}
	return nil
}
