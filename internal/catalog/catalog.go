// Package catalog keeps an index of rendered model cards.
//
// Two backends share one table layout: a SQLite file (the default) and an
// embedded Dolt repository, which additionally commits every index run so
// the catalog has history.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/dolthub/driver"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/featrix/modelcard/internal/classify"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendDolt   = "dolt"
)

// doltDatabase is the database created inside a Dolt catalog repository.
const doltDatabase = "modelcards"

// ErrNotFound is returned when no entry has the requested id.
var ErrNotFound = errors.New("catalog entry not found")

// ErrUnsupported is returned for operations the backend cannot perform.
var ErrUnsupported = errors.New("not supported by catalog backend")

// Catalog is an open model-card index.
type Catalog struct {
	db      *sql.DB
	path    string
	backend string
	log     logrus.FieldLogger
}

// Open opens or creates the catalog at path using backend. For sqlite, path
// is the database file; for dolt it is the repository directory.
func Open(backend, path string, log logrus.FieldLogger) (*Catalog, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	var (
		db  *sql.DB
		err error
	)
	switch backend {
	case BackendSQLite, "":
		backend = BackendSQLite
		db, err = openSQLite(path)
	case BackendDolt:
		db, err = openDolt(path)
	default:
		return nil, fmt.Errorf("unknown catalog backend %q", backend)
	}
	if err != nil {
		return nil, err
	}

	c := &Catalog{db: db, path: path, backend: backend, log: log.WithField("backend", backend)}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	c.log.WithField("path", path).Debug("catalog opened")
	return c, nil
}

func openSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	return db, nil
}

func openDolt(dir string) (*sql.DB, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create dolt directory: %w", err)
	}

	base := fmt.Sprintf("file://%s?commitname=modelcard&commitemail=modelcard@local", dir)

	initDB, err := sql.Open("dolt", base)
	if err != nil {
		return nil, fmt.Errorf("open dolt for init: %w", err)
	}
	if _, err := initDB.Exec("CREATE DATABASE IF NOT EXISTS " + doltDatabase); err != nil {
		initDB.Close()
		return nil, fmt.Errorf("create database: %w", err)
	}
	initDB.Close()

	db, err := sql.Open("dolt", base+"&database="+doltDatabase)
	if err != nil {
		return nil, fmt.Errorf("open dolt db: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Path returns the catalog location.
func (c *Catalog) Path() string {
	return c.path
}

// Backend returns the backend name.
func (c *Catalog) Backend() string {
	return c.backend
}

// Index inserts or replaces entries, stamping each with now. On the dolt
// backend the change is committed.
func (c *Catalog) Index(ctx context.Context, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin index: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for i := range entries {
		e := &entries[i]
		e.IndexedAt = now
		_, err := tx.ExecContext(ctx, `
			REPLACE INTO cards (id, name, model_type, status, status_tier, assessment,
				accuracy, auc, warnings, source, indexed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Name, e.ModelType, e.Status, e.StatusTier.String(), e.Assessment,
			nullFloat(e.Accuracy), nullFloat(e.AUC), e.Warnings, e.Source,
			e.IndexedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("index %s: %w", e.ID, err)
		}
		c.log.WithFields(logrus.Fields{"id": e.ID, "name": e.Name}).Debug("indexed model card")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit index: %w", err)
	}

	if c.backend == BackendDolt {
		return c.doltCommit(ctx, fmt.Sprintf("index %d model card(s)", len(entries)))
	}
	return nil
}

func (c *Catalog) doltCommit(ctx context.Context, msg string) error {
	_, err := c.db.ExecContext(ctx, "CALL DOLT_COMMIT('-Am', ?)", msg)
	if err != nil && !strings.Contains(err.Error(), "nothing to commit") {
		return fmt.Errorf("dolt commit: %w", err)
	}
	return nil
}

// ListOptions filter List.
type ListOptions struct {
	// Tier keeps only entries whose status has this tier. Nil keeps all.
	Tier *classify.Tier

	// Limit caps the result. Zero means no limit.
	Limit int
}

// List returns entries, most recently indexed first.
func (c *Catalog) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	query := selectCards
	var args []any
	if opts.Tier != nil {
		query += " WHERE status_tier = ?"
		args = append(args, opts.Tier.String())
	}
	query += " ORDER BY indexed_at DESC, name"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Get returns the entry with id.
func (c *Catalog) Get(ctx context.Context, id string) (*Entry, error) {
	row := c.db.QueryRowContext(ctx, selectCards+" WHERE id = ?", id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

// Remove deletes the entry with id.
func (c *Catalog) Remove(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, "DELETE FROM cards WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if c.backend == BackendDolt {
		return c.doltCommit(ctx, "remove model card "+id)
	}
	return nil
}

// Count returns the number of entries.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cards").Scan(&n); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

// Commit is one catalog revision.
type Commit struct {
	Hash    string `yaml:"hash" json:"hash"`
	Date    string `yaml:"date" json:"date"`
	Message string `yaml:"message" json:"message"`
}

// History returns recent commits. Only the dolt backend keeps history.
func (c *Catalog) History(ctx context.Context, limit int) ([]Commit, error) {
	if c.backend != BackendDolt {
		return nil, fmt.Errorf("history: %w", ErrUnsupported)
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := c.db.QueryContext(ctx,
		"SELECT commit_hash, date, message FROM dolt_log ORDER BY date DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("dolt log query: %w", err)
	}
	defer rows.Close()

	var commits []Commit
	for rows.Next() {
		var cm Commit
		var date any
		if err := rows.Scan(&cm.Hash, &date, &cm.Message); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		cm.Date = fmt.Sprint(date)
		commits = append(commits, cm)
	}
	return commits, rows.Err()
}

const selectCards = `SELECT id, name, model_type, status, status_tier, assessment,
	accuracy, auc, warnings, source, indexed_at FROM cards`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var (
		e         Entry
		tier      string
		accuracy  sql.NullFloat64
		auc       sql.NullFloat64
		indexedAt string
	)
	err := s.Scan(&e.ID, &e.Name, &e.ModelType, &e.Status, &tier, &e.Assessment,
		&accuracy, &auc, &e.Warnings, &e.Source, &indexedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan card: %w", err)
	}
	if err := e.StatusTier.UnmarshalText([]byte(tier)); err != nil {
		return nil, fmt.Errorf("scan card %s: %w", e.ID, err)
	}
	if accuracy.Valid {
		e.Accuracy = &accuracy.Float64
	}
	if auc.Valid {
		e.AUC = &auc.Float64
	}
	if e.IndexedAt, err = time.Parse(time.RFC3339, indexedAt); err != nil {
		return nil, fmt.Errorf("scan card %s: indexed_at: %w", e.ID, err)
	}
	return &e, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
