/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements the persistence interfaces (engine.EntityStore, engine.TaskStore)
  using SQLite. In production, the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  engine.EntityStore: Legal entity records (with nested patents/notes/credentials)
  engine.TaskStore:   Materialized obligation records

REPLACE-ALL SEMANTICS:
  The tracker owns the canonical in-memory state and persists whole lists
  after each mutation. Save operations therefore run DELETE + INSERT inside a
  single transaction; partial updates never happen, so a crash mid-save
  leaves either the old list or the new one.

KEY TABLES:
  entities: One row per legal entity; patents/notes/credentials as JSON columns
  tasks:    One row per obligation; provenance as a JSON column

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/clerkdesk.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  tracker := engine.NewTracker(gen, locker, planner, store, store, nil)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - engine/tracker.go: Interface definitions and the owning orchestrator
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/clerkdesk/compliance-engine/engine"
)

// Store implements the storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Legal entities
	CREATE TABLE IF NOT EXISTS entities (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		legal_form TEXT NOT NULL,
		tax_regime TEXT NOT NULL,
		tax_number TEXT,
		reg_number TEXT,
		legal_address TEXT,
		actual_address TEXT,
		contact_person TEXT,
		phone TEXT,
		email TEXT,
		has_employees BOOLEAN NOT NULL DEFAULT FALSE,
		vat_payer BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL,
		archived BOOLEAN NOT NULL DEFAULT FALSE,
		patents_json TEXT,
		notes_json TEXT,
		credentials_json TEXT
	);

	-- Materialized obligations
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		entity_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		due_date TEXT NOT NULL,
		due_time TEXT,
		transfer TEXT NOT NULL,
		cadence TEXT NOT NULL,
		reminder TEXT NOT NULL,
		status TEXT NOT NULL,
		automatic BOOLEAN NOT NULL DEFAULT FALSE,
		series_id TEXT,
		period_locked BOOLEAN NOT NULL DEFAULT FALSE,
		provenance_json TEXT,
		payment_share TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_entity
		ON tasks(entity_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_due_date
		ON tasks(due_date);
	CREATE INDEX IF NOT EXISTS idx_tasks_series
		ON tasks(series_id) WHERE series_id IS NOT NULL AND series_id != '';
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENTITY STORE (engine.EntityStore interface)
// =============================================================================

// ListEntities returns all stored legal entities.
func (s *Store) ListEntities(ctx context.Context) ([]engine.LegalEntity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, legal_form, tax_regime, tax_number, reg_number,
		       legal_address, actual_address, contact_person, phone, email,
		       has_employees, vat_payer, created_at, archived,
		       patents_json, notes_json, credentials_json
		FROM entities
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer rows.Close()

	var entities []engine.LegalEntity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}

// SaveEntities replaces the stored entity list atomically.
func (s *Store) SaveEntities(ctx context.Context, entities []engine.LegalEntity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entities"); err != nil {
		return fmt.Errorf("failed to clear entities: %w", err)
	}

	query := `
		INSERT INTO entities
		(id, name, legal_form, tax_regime, tax_number, reg_number,
		 legal_address, actual_address, contact_person, phone, email,
		 has_employees, vat_payer, created_at, archived,
		 patents_json, notes_json, credentials_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, e := range entities {
		patentsJSON, _ := json.Marshal(e.Patents)
		notesJSON, _ := json.Marshal(e.Notes)
		credentialsJSON, _ := json.Marshal(e.Credentials)

		if _, err := tx.ExecContext(ctx, query,
			string(e.ID), e.Name, string(e.LegalForm), string(e.TaxRegime),
			e.TaxNumber, e.RegNumber, e.LegalAddress, e.ActualAddress,
			e.ContactPerson, e.Phone, e.Email,
			e.HasEmployees, e.VATPayer,
			e.CreatedAt.String(), e.Archived,
			string(patentsJSON), string(notesJSON), string(credentialsJSON),
		); err != nil {
			return fmt.Errorf("failed to insert entity %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

func scanEntity(rows *sql.Rows) (engine.LegalEntity, error) {
	var (
		e               engine.LegalEntity
		createdAt       string
		taxNumber       sql.NullString
		regNumber       sql.NullString
		legalAddress    sql.NullString
		actualAddress   sql.NullString
		contactPerson   sql.NullString
		phone           sql.NullString
		email           sql.NullString
		patentsJSON     sql.NullString
		notesJSON       sql.NullString
		credentialsJSON sql.NullString
	)

	err := rows.Scan(
		&e.ID, &e.Name, &e.LegalForm, &e.TaxRegime, &taxNumber, &regNumber,
		&legalAddress, &actualAddress, &contactPerson, &phone, &email,
		&e.HasEmployees, &e.VATPayer, &createdAt, &e.Archived,
		&patentsJSON, &notesJSON, &credentialsJSON,
	)
	if err != nil {
		return e, fmt.Errorf("failed to scan entity: %w", err)
	}

	e.TaxNumber = taxNumber.String
	e.RegNumber = regNumber.String
	e.LegalAddress = legalAddress.String
	e.ActualAddress = actualAddress.String
	e.ContactPerson = contactPerson.String
	e.Phone = phone.String
	e.Email = email.String

	e.CreatedAt, err = engine.ParseDate(createdAt)
	if err != nil {
		return e, fmt.Errorf("entity %s: bad created_at %q: %w", e.ID, createdAt, err)
	}

	if patentsJSON.Valid && patentsJSON.String != "" {
		json.Unmarshal([]byte(patentsJSON.String), &e.Patents)
	}
	if notesJSON.Valid && notesJSON.String != "" {
		json.Unmarshal([]byte(notesJSON.String), &e.Notes)
	}
	if credentialsJSON.Valid && credentialsJSON.String != "" {
		json.Unmarshal([]byte(credentialsJSON.String), &e.Credentials)
	}

	return e, nil
}

// =============================================================================
// TASK STORE (engine.TaskStore interface)
// =============================================================================

// ListTasks returns all stored tasks ordered by due date.
func (s *Store) ListTasks(ctx context.Context) ([]engine.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, entity_id, title, description, due_date, due_time,
		       transfer, cadence, reminder, status, automatic, series_id,
		       period_locked, provenance_json, payment_share
		FROM tasks
		ORDER BY due_date ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []engine.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// SaveTasks replaces the stored task list atomically.
func (s *Store) SaveTasks(ctx context.Context, tasks []engine.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	query := `
		INSERT INTO tasks
		(id, entity_id, title, description, due_date, due_time,
		 transfer, cadence, reminder, status, automatic, series_id,
		 period_locked, provenance_json, payment_share)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, t := range tasks {
		var provenanceJSON string
		if t.Provenance != nil {
			b, _ := json.Marshal(t.Provenance)
			provenanceJSON = string(b)
		}

		var share string
		if !t.PaymentShare.IsZero() {
			share = t.PaymentShare.String()
		}

		if _, err := tx.ExecContext(ctx, query,
			string(t.ID), string(t.EntityID), t.Title, t.Description,
			t.DueDate.String(), t.DueTime,
			string(t.Transfer), string(t.Cadence), string(t.Reminder),
			string(t.Status), t.Automatic, string(t.SeriesID),
			t.PeriodLocked, provenanceJSON, share,
		); err != nil {
			return fmt.Errorf("failed to insert task %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

func scanTask(rows *sql.Rows) (engine.Task, error) {
	var (
		t              engine.Task
		description    sql.NullString
		dueDate        string
		dueTime        sql.NullString
		seriesID       sql.NullString
		provenanceJSON sql.NullString
		paymentShare   sql.NullString
	)

	err := rows.Scan(
		&t.ID, &t.EntityID, &t.Title, &description, &dueDate, &dueTime,
		&t.Transfer, &t.Cadence, &t.Reminder, &t.Status, &t.Automatic,
		&seriesID, &t.PeriodLocked, &provenanceJSON, &paymentShare,
	)
	if err != nil {
		return t, fmt.Errorf("failed to scan task: %w", err)
	}

	t.Description = description.String
	t.DueTime = dueTime.String
	t.SeriesID = engine.SeriesID(seriesID.String)

	t.DueDate, err = engine.ParseDate(dueDate)
	if err != nil {
		return t, fmt.Errorf("task %s: bad due_date %q: %w", t.ID, dueDate, err)
	}

	if provenanceJSON.Valid && provenanceJSON.String != "" {
		var p engine.Provenance
		if err := json.Unmarshal([]byte(provenanceJSON.String), &p); err == nil {
			t.Provenance = &p
		}
	}

	if paymentShare.Valid && paymentShare.String != "" {
		if d, err := decimal.NewFromString(paymentShare.String); err == nil {
			t.PaymentShare = d
		}
	}

	return t, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"tasks", "entities"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ engine.EntityStore = (*Store)(nil)
	_ engine.TaskStore   = (*Store)(nil)
)
