package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/rondo/internal/models"
)

// AppendTimelineEvent appends an event to a round's activity log.
// There is deliberately no update or delete for timeline rows.
func (s *SQLiteStore) AppendTimelineEvent(ctx context.Context, event *models.TimelineEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	data := event.EventData
	if len(data) == 0 {
		data = []byte("{}")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO timeline_events (id, round_id, user_id, event_type, event_data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.RoundID, event.UserID, event.EventType,
		string(data), event.CreatedAt.UTC().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to append timeline event: %w", err)
	}

	return nil
}

// ListTimelineByRound returns a round's events, newest first.
func (s *SQLiteStore) ListTimelineByRound(ctx context.Context, roundID string) ([]models.TimelineEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, round_id, user_id, event_type, event_data, created_at
		FROM timeline_events WHERE round_id = ?
		ORDER BY created_at DESC, rowid DESC`,
		roundID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline events: %w", err)
	}
	defer rows.Close()

	var events []models.TimelineEvent
	for rows.Next() {
		var ev models.TimelineEvent
		var data string
		var createdAt int64
		if err := rows.Scan(&ev.ID, &ev.RoundID, &ev.UserID, &ev.EventType, &data, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan timeline event: %w", err)
		}
		ev.EventData = []byte(data)
		ev.CreatedAt = time.Unix(createdAt, 0).UTC()
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timeline events: %w", err)
	}

	return events, nil
}
