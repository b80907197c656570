package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/migramap/migramap/internal/model"
)

// DBFileName is the SQLite file created inside the data directory.
const DBFileName = "migramap.db"

// CrawlDB provides SQLite-based storage for crawl sessions and their
// mapped pages, so successive runs against the same portal can be
// compared while the migration is planned.
type CrawlDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file when missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for concurrent readers.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// CrawlSession is one completed crawl of a target site.
type CrawlSession struct {
	// ID is a random UUID assigned when the session is saved.
	ID string

	// Target is the crawled root URL.
	Target string

	// SiteName is the display name extracted from the homepage.
	SiteName string

	// Pages is the number of mapped pages.
	Pages int

	// Duration is the wall-clock crawl time.
	Duration time.Duration

	// FinishedAt is when the crawl completed.
	FinishedAt time.Time
}

// Open opens or creates a CrawlDB inside dbDir.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// Path returns the database file path.
func (cdb *CrawlDB) Path() string {
	return cdb.dbPath
}

func (cdb *CrawlDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		target TEXT NOT NULL,
		site_name TEXT,
		pages INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		finished_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_target ON sessions(target);
	CREATE INDEX IF NOT EXISTS idx_sessions_finished ON sessions(finished_at);

	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		hierarchy TEXT NOT NULL,
		breadcrumb TEXT,
		visible INTEGER NOT NULL,
		page_type TEXT NOT NULL,
		layout TEXT NOT NULL,
		attention TEXT,
		side_menu_title TEXT,
		content_count INTEGER NOT NULL,
		file_count INTEGER NOT NULL,
		internal_files TEXT,
		external_gov_files TEXT,
		discovered_at DATETIME NOT NULL,
		UNIQUE(session_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_session ON pages(session_id);
	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	`
	_, err := cdb.db.Exec(schema)
	return err
}

// SaveSession stores one completed crawl and its pages in a single
// transaction, returning the assigned session ID.
func (cdb *CrawlDB) SaveSession(ctx context.Context, session CrawlSession, records []*model.PageRecord, rootLabel string) (string, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.FinishedAt.IsZero() {
		session.FinishedAt = time.Now()
	}

	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, target, site_name, pages, duration_ms, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID, session.Target, session.SiteName,
		len(records), session.Duration.Milliseconds(), session.FinishedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pages (
			session_id, url, hierarchy, breadcrumb, visible, page_type,
			layout, attention, side_menu_title, content_count, file_count,
			internal_files, external_gov_files, discovered_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare page insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		internal, err := marshalURLSet(rec.InternalFileURLs)
		if err != nil {
			return "", err
		}
		external, err := marshalURLSet(rec.ExternalGovFileURLs)
		if err != nil {
			return "", err
		}

		display := model.DisplayHierarchy(rootLabel, rec.EffectiveHierarchy(rootLabel))
		rec.SyncTypeAndVisibility(display)

		_, err = stmt.ExecContext(ctx,
			session.ID,
			rec.URL,
			strings.Join(display, " > "),
			strings.Join(rec.BreadcrumbHierarchy, " > "),
			rec.IsVisible,
			rec.Type.String(),
			rec.Layout.String(),
			rec.Attention.String(),
			rec.SideMenuTitle,
			rec.ContentCount,
			rec.FileCount,
			internal,
			external,
			rec.DiscoveredAt,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert page %s: %w", rec.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit session: %w", err)
	}
	return session.ID, nil
}

// ListSessions returns saved sessions for a target, newest first. An
// empty target lists every session.
func (cdb *CrawlDB) ListSessions(ctx context.Context, target string) ([]CrawlSession, error) {
	query := `
		SELECT id, target, site_name, pages, duration_ms, finished_at
		FROM sessions`
	args := []any{}
	if target != "" {
		query += ` WHERE target = ?`
		args = append(args, target)
	}
	query += ` ORDER BY finished_at DESC`

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []CrawlSession
	for rows.Next() {
		var (
			s          CrawlSession
			durationMS int64
		)
		if err := rows.Scan(&s.ID, &s.Target, &s.SiteName, &s.Pages, &durationMS, &s.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.Duration = time.Duration(durationMS) * time.Millisecond
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// SessionPage is one stored page row, in the persisted (display) form.
type SessionPage struct {
	URL              string
	Hierarchy        string
	Breadcrumb       string
	Visible          bool
	PageType         string
	Layout           string
	Attention        string
	SideMenuTitle    string
	ContentCount     int
	FileCount        int
	InternalFiles    []string
	ExternalGovFiles []string
	DiscoveredAt     time.Time
}

// SessionPages returns the stored pages of a session ordered by URL.
func (cdb *CrawlDB) SessionPages(ctx context.Context, sessionID string) ([]SessionPage, error) {
	rows, err := cdb.db.QueryContext(ctx, `
		SELECT url, hierarchy, breadcrumb, visible, page_type, layout,
		       attention, side_menu_title, content_count, file_count,
		       internal_files, external_gov_files, discovered_at
		FROM pages WHERE session_id = ? ORDER BY url`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var pages []SessionPage
	for rows.Next() {
		var (
			p                  SessionPage
			internal, external sql.NullString
		)
		err := rows.Scan(&p.URL, &p.Hierarchy, &p.Breadcrumb, &p.Visible,
			&p.PageType, &p.Layout, &p.Attention, &p.SideMenuTitle,
			&p.ContentCount, &p.FileCount, &internal, &external, &p.DiscoveredAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		if p.InternalFiles, err = unmarshalURLList(internal); err != nil {
			return nil, err
		}
		if p.ExternalGovFiles, err = unmarshalURLList(external); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// marshalURLSet serializes a URL set as a sorted JSON array so stored
// rows compare stably across runs.
func marshalURLSet(set map[string]struct{}) (string, error) {
	urls := make([]string, 0, len(set))
	for u := range set {
		urls = append(urls, u)
	}
	slices.Sort(urls)
	data, err := json.Marshal(urls)
	if err != nil {
		return "", fmt.Errorf("failed to marshal url set: %w", err)
	}
	return string(data), nil
}

func unmarshalURLList(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(raw.String), &urls); err != nil {
		return nil, fmt.Errorf("failed to unmarshal url list: %w", err)
	}
	return urls, nil
}
