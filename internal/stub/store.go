// Package stub is a local stand-in for the Vision One workbench API. It keeps
// alerts and notes in sqlite and serves them over the same REST paths, for
// integration tests and for running the MCP server without a tenant.
package stub

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/saeedalam/trendvision-mcp/pkg/types"
)

// ErrNotFound is returned for unknown alert ids
var ErrNotFound = errors.New("alert not found")

// Store persists alerts and notes
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens (or creates) the sqlite database at dsn. Use ":memory:"
// for a throwaway store.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open stub database: %w", err)
	}

	// One connection keeps ":memory:" databases shared and avoids locks
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		severity TEXT,
		status TEXT,
		created TEXT,
		updated TEXT,
		body TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS notes (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		alert_id TEXT NOT NULL REFERENCES alerts(id),
		content TEXT NOT NULL,
		created TEXT NOT NULL,
		created_by TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_notes_alert ON notes(alert_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create stub tables: %w", err)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// PutAlert inserts or replaces an alert
func (s *Store) PutAlert(alert types.AlertDetail) error {
	if alert.ID == "" {
		return errors.New("alert id is required")
	}
	body, err := json.Marshal(alert)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO alerts (id, severity, status, created, updated, body)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			severity = excluded.severity,
			status = excluded.status,
			created = excluded.created,
			updated = excluded.updated,
			body = excluded.body
	`, alert.ID, string(alert.Severity), string(alert.Status), alert.CreatedDateTime, alert.LastUpdatedDateTime, string(body))
	return err
}

// GetAlert loads one alert
func (s *Store) GetAlert(id string) (*types.AlertDetail, error) {
	var body string
	err := s.db.QueryRow(`SELECT body FROM alerts WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var alert types.AlertDetail
	if err := json.Unmarshal([]byte(body), &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}

// ListFilter narrows ListAlerts. Zero values mean no filtering.
type ListFilter struct {
	Severity  string
	Status    string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

var sortColumns = map[string]string{
	"createdDateTime":     "created",
	"lastUpdatedDateTime": "updated",
	"severity":            "severity",
	"status":              "status",
}

// ListAlerts returns matching alerts and whether more remain after this page
func (s *Store) ListAlerts(f ListFilter) ([]types.AlertDetail, bool, error) {
	query := `SELECT body FROM alerts WHERE 1=1`
	var args []interface{}

	if f.Severity != "" {
		query += ` AND severity = ?`
		args = append(args, f.Severity)
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}

	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = "updated"
	}
	order := "DESC"
	if f.SortOrder == "asc" {
		order = "ASC"
	}
	query += fmt.Sprintf(` ORDER BY %s %s, id ASC`, column, order)

	// Fetch one extra row to learn whether another page exists
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit+1, f.Offset)
	} else if f.Offset > 0 {
		query += ` LIMIT -1 OFFSET ?`
		args = append(args, f.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var alerts []types.AlertDetail
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, false, err
		}
		var alert types.AlertDetail
		if err := json.Unmarshal([]byte(body), &alert); err != nil {
			return nil, false, err
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	more := false
	if f.Limit > 0 && len(alerts) > f.Limit {
		alerts = alerts[:f.Limit]
		more = true
	}
	return alerts, more, nil
}

// AddNote appends a note to an alert's note log
func (s *Store) AddNote(alertID, content, author string) (types.Note, error) {
	if _, err := s.GetAlert(alertID); err != nil {
		return types.Note{}, err
	}

	note := types.Note{
		ID:              uuid.New().String(),
		Content:         content,
		CreatedDateTime: s.now().UTC().Format(time.RFC3339),
		CreatedBy:       author,
	}
	_, err := s.db.Exec(`
		INSERT INTO notes (id, alert_id, content, created, created_by)
		VALUES (?, ?, ?, ?, ?)
	`, note.ID, alertID, note.Content, note.CreatedDateTime, note.CreatedBy)
	if err != nil {
		return types.Note{}, err
	}
	return note, nil
}

// ListNotes returns an alert's notes oldest first
func (s *Store) ListNotes(alertID string) ([]types.Note, error) {
	if _, err := s.GetAlert(alertID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, content, created, COALESCE(created_by, '')
		FROM notes WHERE alert_id = ? ORDER BY seq ASC
	`, alertID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []types.Note{}
	for rows.Next() {
		var n types.Note
		if err := rows.Scan(&n.ID, &n.Content, &n.CreatedDateTime, &n.CreatedBy); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
