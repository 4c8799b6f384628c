package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"optionpulse/internal/errors"
	"optionpulse/internal/models"
)

// SQLiteStore implements AnalysisStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based analysis store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Analyses table: one row per completed chain analysis
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		spot REAL NOT NULL,
		expiry DATETIME,
		timestamp DATETIME NOT NULL,
		bias TEXT NOT NULL,
		ce_strike REAL,
		pe_strike REAL,
		max_pain REAL,
		detail TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_symbol_time ON analyses(symbol, timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveAnalysis records one completed chain analysis.
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, a *models.ChainAnalysis) error {
	detail, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	var ceStrike, peStrike sql.NullFloat64
	if a.Pick.CE != nil {
		ceStrike = sql.NullFloat64{Float64: a.Pick.CE.Strike, Valid: true}
	}
	if a.Pick.PE != nil {
		peStrike = sql.NullFloat64{Float64: a.Pick.PE.Strike, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses (symbol, spot, expiry, timestamp, bias, ce_strike, pe_strike, max_pain, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Symbol, a.Spot, nullableTime(a.Expiry), a.Timestamp,
		string(a.Bias.Direction), ceStrike, peStrike, a.MaxPain.Price, string(detail))
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	return nil
}

// GetAnalyses returns stored analyses matching the filter, newest first.
func (s *SQLiteStore) GetAnalyses(ctx context.Context, filter AnalysisFilter) ([]StoredAnalysis, error) {
	query := `
		SELECT id, symbol, spot, expiry, timestamp, bias, ce_strike, pe_strike, max_pain, detail
		FROM analyses WHERE 1=1`
	var args []interface{}

	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if !filter.From.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, filter.To)
	}

	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var out []StoredAnalysis
	for rows.Next() {
		sa, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sa)
	}

	return out, rows.Err()
}

// GetAnalysisByID returns one stored analysis with its full detail.
func (s *SQLiteStore) GetAnalysisByID(ctx context.Context, id int64) (*StoredAnalysis, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symbol, spot, expiry, timestamp, bias, ce_strike, pe_strike, max_pain, detail
		FROM analyses WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("analysis %d: %w", id, errors.ErrDataNotFound)
	}
	sa, err := scanAnalysis(rows)
	if err != nil {
		return nil, err
	}
	return &sa, rows.Err()
}

// Close releases the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanAnalysis(rows *sql.Rows) (StoredAnalysis, error) {
	var sa StoredAnalysis
	var expiry sql.NullTime
	var ceStrike, peStrike sql.NullFloat64
	var bias, detail string

	if err := rows.Scan(&sa.ID, &sa.Symbol, &sa.Spot, &expiry, &sa.Timestamp,
		&bias, &ceStrike, &peStrike, &sa.MaxPain, &detail); err != nil {
		return sa, fmt.Errorf("failed to scan analysis: %w", err)
	}

	if expiry.Valid {
		sa.Expiry = expiry.Time
	}
	sa.Bias = models.BiasDirection(bias)
	sa.CEStrike = ceStrike.Float64
	sa.PEStrike = peStrike.Float64

	var full models.ChainAnalysis
	if err := json.Unmarshal([]byte(detail), &full); err == nil {
		sa.Detail = &full
	}

	return sa, nil
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
