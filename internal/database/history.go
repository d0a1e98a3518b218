package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/flowreport/internal/model"
)

// FileName is the name of the history database file inside its directory.
const FileName = "flowreport.db"

// storedTimeFormat keeps analyzed_at sortable as text.
const storedTimeFormat = "2006-01-02 15:04:05.000000000"

// HistoryDB stores analysis summaries so that exports can be compared
// with earlier analyses of the same file.
//
// Summaries are kept as JSON next to a few indexed columns used for listing;
// the report itself is never stored.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s: %w", dbPath, ErrNoDatabase)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the path of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		analyzed_at TEXT NOT NULL,
		total_nodes INTEGER NOT NULL,
		function_count INTEGER NOT NULL,
		summary_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_source ON analyses(source);
	CREATE INDEX IF NOT EXISTS idx_analyses_analyzed_at ON analyses(analyzed_at);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SourceKey normalizes an export path into the key analyses are stored under,
// so that "flows.json" and "./dir/../flows.json" share one history.
func SourceKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// SaveSummary stores a summary under the source key of s.Source
// and returns the new record ID.
func (hdb *HistoryDB) SaveSummary(ctx context.Context, s *model.Summary) (int64, error) {
	summaryJSON, err := json.Marshal(s)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize summary: %w", err)
	}

	query := `
	INSERT INTO analyses (source, fingerprint, analyzed_at, total_nodes, function_count, summary_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		SourceKey(s.Source),
		s.Fingerprint,
		s.AnalyzedAt.UTC().Format(storedTimeFormat),
		s.TotalNodes,
		len(s.Functions),
		string(summaryJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save summary: %w", err)
	}

	return result.LastInsertId()
}

// GetLatestSummary retrieves the most recent summary recorded for the export at path.
// It returns nil without error when the export has no history.
func (hdb *HistoryDB) GetLatestSummary(ctx context.Context, path string) (*model.Summary, error) {
	query := `
	SELECT summary_json FROM analyses
	WHERE source = ?
	ORDER BY analyzed_at DESC, id DESC
	LIMIT 1
	`

	return hdb.querySummary(ctx, query, SourceKey(path))
}

// GetSummaryByID retrieves a summary by its record ID.
// It returns nil without error when no such record exists.
func (hdb *HistoryDB) GetSummaryByID(ctx context.Context, id int64) (*model.Summary, error) {
	query := `
	SELECT summary_json FROM analyses
	WHERE id = ?
	`

	return hdb.querySummary(ctx, query, id)
}

func (hdb *HistoryDB) querySummary(ctx context.Context, query string, arg any) (*model.Summary, error) {
	var summaryJSON string
	err := hdb.db.QueryRowContext(ctx, query, arg).Scan(&summaryJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	var summary model.Summary
	if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}

	return &summary, nil
}

// ListSources returns every source key with recorded analyses, sorted.
func (hdb *HistoryDB) ListSources(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT source FROM analyses
	ORDER BY source
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// AnalysisMetadata describes one recorded analysis without its summary.
type AnalysisMetadata struct {
	// ID is the record ID.
	ID int64

	// Source is the source key.
	Source string

	// Fingerprint is the SHA3-256 of the analyzed export.
	Fingerprint string

	// AnalyzedAt is when the analysis ran.
	AnalyzedAt time.Time

	// TotalNodes is the number of nodes in the export.
	TotalNodes int

	// FunctionCount is the number of function nodes in the export.
	FunctionCount int
}

// GetHistory lists the analyses recorded for the export at path, newest first.
func (hdb *HistoryDB) GetHistory(ctx context.Context, path string) ([]AnalysisMetadata, error) {
	query := `
	SELECT id, source, fingerprint, analyzed_at, total_nodes, function_count
	FROM analyses
	WHERE source = ?
	ORDER BY analyzed_at DESC, id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, SourceKey(path))
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []AnalysisMetadata
	for rows.Next() {
		var meta AnalysisMetadata
		var timestamp string

		if err := rows.Scan(
			&meta.ID,
			&meta.Source,
			&meta.Fingerprint,
			&timestamp,
			&meta.TotalNodes,
			&meta.FunctionCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.AnalyzedAt = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats analyzed_at may hold.
// More specific formats come first.
var timestampFormats = []string{
	storedTimeFormat,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// parseTimestamp parses s with each known format in turn, as UTC.
// It returns the zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
