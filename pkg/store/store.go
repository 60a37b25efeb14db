/*
Package store persists chain triplets in a relational table and answers the
prefix and suffix lookups the walkers need.

Schema:

	chain_freqs(prefix1 TEXT, prefix2 TEXT, suffix TEXT, freq INTEGER)

Two drivers are supported. "sqlite" (modernc.org/sqlite, pure Go) keeps the
chain in a single file next to the corpus; "postgres" (lib/pq) is for shared
deployments. Ingestion calls Create, Initialize and Persist once. Generation
calls Open per request and closes the handle when done.
*/
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	_ "github.com/lib/pq"
	"github.com/masaki925/marcov-rap/internal/utils"
	"github.com/masaki925/marcov-rap/pkg/chain"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrStoreMissing is returned by Open when the chain store has not been built.
// It wraps fs.ErrNotExist.
var ErrStoreMissing = fmt.Errorf("chain store missing: %w", fs.ErrNotExist)

// Reader is the read side used by generation.
type Reader interface {
	LookupByPrefix(ctx context.Context, keys ...string) ([]chain.Row, error)
	LookupBySuffix(ctx context.Context, keys ...string) ([]chain.Row, error)
}

// Config selects the backing database.
type Config struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
	DSN    string `toml:"dsn"`
}

// Store is a handle on the chain_freqs table.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to an existing store. For sqlite the file must already exist.
func Open(cfg Config) (*Store, error) {
	if driverOf(cfg) == DriverSQLite && !utils.FileExists(cfg.Path) {
		return nil, fmt.Errorf("%w: %s", ErrStoreMissing, cfg.Path)
	}
	return connect(cfg)
}

// Create connects to the store, creating the sqlite file when needed.
func Create(cfg Config) (*Store, error) {
	return connect(cfg)
}

func driverOf(cfg Config) string {
	if cfg.Driver == "" {
		return DriverSQLite
	}
	return cfg.Driver
}

func connect(cfg Config) (*Store, error) {
	driver := driverOf(cfg)
	var source string
	switch driver {
	case DriverSQLite:
		if cfg.Path == "" {
			return nil, errors.New("store: sqlite path is empty")
		}
		source = cfg.Path
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("store: postgres dsn is empty")
		}
		source = cfg.DSN
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		if driver == DriverPostgres {
			return nil, fmt.Errorf("%w: %v", ErrStoreMissing, err)
		}
		return nil, fmt.Errorf("ping %s store: %w", driver, err)
	}
	log.Debugf("Opened %s chain store", driver)
	return &Store{db: db, driver: driver}, nil
}

// Close releases the connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Initialize drops and recreates the chain table. All stored rows are lost.
func (s *Store) Initialize(ctx context.Context) error {
	stmts := []string{
		`DROP TABLE IF EXISTS chain_freqs`,
		`CREATE TABLE chain_freqs (prefix1 TEXT, prefix2 TEXT, suffix TEXT, freq INTEGER)`,
		`CREATE INDEX chain_freqs_prefix ON chain_freqs (prefix1, prefix2)`,
		`CREATE INDEX chain_freqs_suffix ON chain_freqs (suffix, prefix2)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("initialize chain store: %w", err)
		}
	}
	return nil
}

// Persist inserts every triplet in one transaction.
// Either all rows are stored or none are.
func (s *Store) Persist(ctx context.Context, freqs chain.Freqs) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin persist: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, s.rebind(
		`INSERT INTO chain_freqs (prefix1, prefix2, suffix, freq) VALUES (?, ?, ?, ?)`))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare persist: %w", err)
	}
	defer stmt.Close()

	for _, r := range freqs.Rows() {
		if _, err := stmt.ExecContext(ctx, r.Prefix1, r.Prefix2, r.Suffix, r.Freq); err != nil {
			tx.Rollback()
			return fmt.Errorf("persist %v: %w", r.Triplet, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit persist: %w", err)
	}
	log.Debugf("Persisted %d triplets", len(freqs))
	return nil
}

// LookupByPrefix returns rows whose prefix1 (and prefix2, when given) match.
func (s *Store) LookupByPrefix(ctx context.Context, keys ...string) ([]chain.Row, error) {
	switch len(keys) {
	case 1:
		return s.query(ctx, `WHERE prefix1 = ?`, keys...)
	case 2:
		return s.query(ctx, `WHERE prefix1 = ? AND prefix2 = ?`, keys...)
	default:
		return nil, fmt.Errorf("lookup by prefix: want 1 or 2 keys, got %d", len(keys))
	}
}

// LookupBySuffix returns rows whose suffix (and prefix2, when given) match.
func (s *Store) LookupBySuffix(ctx context.Context, keys ...string) ([]chain.Row, error) {
	switch len(keys) {
	case 1:
		return s.query(ctx, `WHERE suffix = ?`, keys...)
	case 2:
		return s.query(ctx, `WHERE suffix = ? AND prefix2 = ?`, keys...)
	default:
		return nil, fmt.Errorf("lookup by suffix: want 1 or 2 keys, got %d", len(keys))
	}
}

// Dump returns every stored row.
func (s *Store) Dump(ctx context.Context) ([]chain.Row, error) {
	return s.query(ctx, `ORDER BY prefix1, prefix2, suffix`)
}

func (s *Store) query(ctx context.Context, where string, keys ...string) ([]chain.Row, error) {
	q := s.rebind(`SELECT prefix1, prefix2, suffix, freq FROM chain_freqs ` + where)
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query chain store: %w", err)
	}
	defer rows.Close()

	var out []chain.Row
	for rows.Next() {
		var r chain.Row
		if err := rows.Scan(&r.Prefix1, &r.Prefix2, &r.Suffix, &r.Freq); err != nil {
			return nil, fmt.Errorf("scan chain row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *Store) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Ingest rebuilds the store at cfg from freqs, wiping any previous chain.
func Ingest(ctx context.Context, cfg Config, freqs chain.Freqs) error {
	s, err := Create(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Initialize(ctx); err != nil {
		return err
	}
	return s.Persist(ctx, freqs)
}
