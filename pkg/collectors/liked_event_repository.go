package collectors

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nightjol/nightjol/pkg/domain"
)

// LikedEventRepository persists per-session likes in a relational
// table. It runs on SQLite by default and on PostgreSQL when one is
// configured; the driver name picks the placeholder dialect.
type LikedEventRepository struct {
	db     *sql.DB
	driver string
}

func NewLikedEventRepository(db *sql.DB, driver string) (*LikedEventRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if driver != "sqlite3" && driver != "postgres" {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	repo := &LikedEventRepository{db: db, driver: driver}
	if err := repo.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return repo, nil
}

func (r *LikedEventRepository) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS liked_events (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		event_id TEXT NOT NULL,
		event_data TEXT NOT NULL,
		liked_at TIMESTAMP NOT NULL,
		UNIQUE(session_id, event_id)
	);

	CREATE INDEX IF NOT EXISTS idx_liked_events_session ON liked_events(session_id);
	`

	_, err := r.db.Exec(query)
	return err
}

// rebind rewrites ? placeholders into the $n form PostgreSQL expects.
func (r *LikedEventRepository) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}

func (r *LikedEventRepository) List(ctx context.Context, sessionID string) ([]domain.LikedEvent, error) {
	query := r.rebind(`
	SELECT id, session_id, event_id, event_data, liked_at
	FROM liked_events
	WHERE session_id = ?
	ORDER BY liked_at ASC
	`)

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list liked events: %w", err)
	}
	defer rows.Close()

	records := []domain.LikedEvent{}
	for rows.Next() {
		record, err := scanLikedEvent(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read liked events: %w", err)
	}

	return records, nil
}

// Add persists a like. Re-adding an existing (session, event) pair
// returns the stored record unchanged rather than creating a
// duplicate.
func (r *LikedEventRepository) Add(ctx context.Context, sessionID string, event domain.Event) (*domain.LikedEvent, error) {
	if existing, err := r.get(ctx, sessionID, event.ID); err == nil {
		return existing, nil
	} else if err != domain.ErrEventNotFound {
		return nil, err
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}

	record := domain.LikedEvent{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		EventID:   event.ID,
		Event:     event,
		LikedAt:   time.Now(),
	}

	query := r.rebind(`
	INSERT INTO liked_events (id, session_id, event_id, event_data, liked_at)
	VALUES (?, ?, ?, ?, ?)
	`)

	_, err = r.db.ExecContext(ctx, query,
		record.ID,
		record.SessionID,
		record.EventID,
		string(eventData),
		record.LikedAt,
	)
	if err != nil {
		// A concurrent add can win the race to the unique index; the
		// stored row is the answer either way.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
			strings.Contains(err.Error(), "duplicate key") {
			return r.get(ctx, sessionID, event.ID)
		}
		return nil, fmt.Errorf("failed to add liked event: %w", err)
	}

	return &record, nil
}

func (r *LikedEventRepository) Remove(ctx context.Context, sessionID string, eventID string) error {
	query := r.rebind(`
	DELETE FROM liked_events
	WHERE session_id = ? AND event_id = ?
	`)

	if _, err := r.db.ExecContext(ctx, query, sessionID, eventID); err != nil {
		return fmt.Errorf("failed to remove liked event: %w", err)
	}
	return nil
}

func (r *LikedEventRepository) get(ctx context.Context, sessionID, eventID string) (*domain.LikedEvent, error) {
	query := r.rebind(`
	SELECT id, session_id, event_id, event_data, liked_at
	FROM liked_events
	WHERE session_id = ? AND event_id = ?
	`)

	row := r.db.QueryRowContext(ctx, query, sessionID, eventID)
	record, err := scanLikedEvent(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLikedEvent(row rowScanner) (*domain.LikedEvent, error) {
	var record domain.LikedEvent
	var eventData string

	if err := row.Scan(&record.ID, &record.SessionID, &record.EventID, &eventData, &record.LikedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan liked event: %w", err)
	}

	if err := json.Unmarshal([]byte(eventData), &record.Event); err != nil {
		return nil, fmt.Errorf("failed to decode event data: %w", err)
	}

	return &record, nil
}
