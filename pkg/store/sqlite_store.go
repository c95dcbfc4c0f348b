// Package store archives prediction results in SQLite.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// SQLite driver
	_ "modernc.org/sqlite"

	"github.com/oxygene76/orbittracker/internal/types"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Config holds SQLite store configuration
type Config struct {
	Path         string
	MaxOpenConns int
}

// Record is the listing view of an archived prediction
type Record struct {
	ID                 string     `json:"id"`
	StarName           string     `json:"starName"`
	Mode               types.Mode `json:"mode"`
	TimePeriodYears    float64    `json:"timePeriodYears"`
	TimeSteps          int        `json:"timeSteps"`
	FinalDistanceLy    float64    `json:"finalDistanceLy"`
	DisplacementArcsec float64    `json:"displacementArcsec"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// SQLiteStore persists prediction results
type SQLiteStore struct {
	db  *sql.DB
	cfg Config
}

// NewSQLiteStore creates a new SQLite store instance
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, errorsmod.Wrap(types.ErrConfig, "database path is required")
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 4
	}
	return &SQLiteStore{cfg: cfg}, nil
}

// Open creates, initializes and migrates a store in one call
func Open(ctx context.Context, cfg Config) (*SQLiteStore, error) {
	s, err := NewSQLiteStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Init opens the database connection with WAL mode and a busy timeout on
// every pooled connection
func (s *SQLiteStore) Init(ctx context.Context) error {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", s.cfg.Path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(s.cfg.MaxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs the embedded schema migrations
func (s *SQLiteStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// SaveResult stores r, replacing any earlier result with the same ID
func (s *SQLiteStore) SaveResult(ctx context.Context, r *types.PredictionResult) error {
	if r == nil || r.ID == "" {
		return errorsmod.Wrap(types.ErrValidation, "result has no id")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	query := `
		INSERT OR REPLACE INTO predictions (
			id, star_name, mode, time_period_years, time_steps,
			final_distance_ly, displacement_arcsec, result_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		r.ID,
		r.Star.Name,
		string(r.Mode),
		r.TimePeriodYears,
		r.TimeSteps,
		r.Summary.FinalDistanceLy,
		r.Summary.TotalDisplacementArcsec,
		string(data),
		created.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// GetResult loads the full result with id
func (s *SQLiteStore) GetResult(ctx context.Context, id string) (*types.PredictionResult, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT result_json FROM predictions WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorsmod.Wrapf(types.ErrNotFound, "prediction %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var r types.PredictionResult
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("failed to decode result %s: %w", id, err)
	}
	return &r, nil
}

// ListResults returns archived predictions newest first. An empty star
// lists every star; matching is case-insensitive.
func (s *SQLiteStore) ListResults(ctx context.Context, star string, limit, offset int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
		SELECT id, star_name, mode, time_period_years, time_steps,
		       final_distance_ly, displacement_arcsec, created_at
		FROM predictions
		WHERE (? = '' OR star_name = ? COLLATE NOCASE)
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`
	rows, err := s.db.QueryContext(ctx, query, star, star, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var (
			rec     Record
			mode    string
			created int64
		)
		err := rows.Scan(
			&rec.ID,
			&rec.StarName,
			&mode,
			&rec.TimePeriodYears,
			&rec.TimeSteps,
			&rec.FinalDistanceLy,
			&rec.DisplacementArcsec,
			&created,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		rec.Mode = types.Mode(mode)
		rec.CreatedAt = time.Unix(0, created).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}
	return records, nil
}

// DeleteResult removes the result with id
func (s *SQLiteStore) DeleteResult(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM predictions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return errorsmod.Wrapf(types.ErrNotFound, "prediction %s", id)
	}
	return nil
}
