// Package store persists flat file-system nodes per owner in SQLite or
// PostgreSQL. Trees are never stored; callers rebuild them with vfs.Project.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// ErrNodeNotFound is returned when an owner has no node with the given id
var ErrNodeNotFound = errors.New("node not found")

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS fs_nodes (
	owner_id    TEXT NOT NULL,
	id          TEXT NOT NULL,
	name        TEXT NOT NULL,
	kind        TEXT NOT NULL,
	parent_id   TEXT,
	created_at  BIGINT NOT NULL DEFAULT 0,
	size        BIGINT,
	mime_type   TEXT NOT NULL DEFAULT '',
	storage_url TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (owner_id, id)
);
CREATE INDEX IF NOT EXISTS fs_nodes_parent ON fs_nodes (owner_id, parent_id);
`

const selectColumns = `id, name, kind, parent_id, created_at, size, mime_type, storage_url`

// Config selects the database
type Config struct {
	Driver string
	DSN    string
}

// Store is a database/sql backed node store
type Store struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
}

// Open connects to the database and verifies the connection
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// each connection to :memory: is its own database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("Node store opened", zap.String("driver", cfg.Driver))
	return &Store{db: db, driver: cfg.Driver, logger: logger}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver returns the configured driver name
func (s *Store) Driver() string {
	return s.driver
}

// Migrate creates the schema if it does not exist
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// List returns every node of owner, oldest first
func (s *Store) List(ctx context.Context, owner string) ([]types.Node, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT `+selectColumns+` FROM fs_nodes WHERE owner_id = ? ORDER BY created_at, id`), owner)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	nodes := []types.Node{}
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}
	return nodes, nil
}

// Get returns one node
func (s *Store) Get(ctx context.Context, owner, id string) (types.Node, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+selectColumns+` FROM fs_nodes WHERE owner_id = ? AND id = ?`), owner, id)
	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Node{}, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return n, err
}

// Put inserts or replaces a node
func (s *Store) Put(ctx context.Context, owner string, node types.Node) error {
	return s.PutMany(ctx, owner, []types.Node{node})
}

// PutMany upserts nodes in one transaction
func (s *Store) PutMany(ctx context.Context, owner string, nodes []types.Node) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.rebind(`
		INSERT INTO fs_nodes (owner_id, id, name, kind, parent_id, created_at, size, mime_type, storage_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, id) DO UPDATE SET
			name = excluded.name,
			kind = excluded.kind,
			parent_id = excluded.parent_id,
			created_at = excluded.created_at,
			size = excluded.size,
			mime_type = excluded.mime_type,
			storage_url = excluded.storage_url`))
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, n := range nodes {
		if _, err := stmt.ExecContext(ctx,
			owner, n.ID, n.Name, string(n.Kind),
			nullString(n.ParentID), n.CreatedAt, nullInt(n.Size),
			n.MimeType, n.StorageURL,
		); err != nil {
			return fmt.Errorf("upsert node %s: %w", n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Debug("Nodes stored", zap.String("owner", owner), zap.Int("count", len(nodes)))
	return nil
}

// Delete removes one node. Children are left in place and become dangling,
// which the projector tolerates.
func (s *Store) Delete(ctx context.Context, owner, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(
		`DELETE FROM fs_nodes WHERE owner_id = ? AND id = ?`), owner, id)
	if err != nil {
		return fmt.Errorf("delete node: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete node: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNode(sc scanner) (types.Node, error) {
	var (
		n      types.Node
		kind   string
		parent sql.NullString
		size   sql.NullInt64
	)
	if err := sc.Scan(&n.ID, &n.Name, &kind, &parent, &n.CreatedAt, &size, &n.MimeType, &n.StorageURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return n, err
		}
		return n, fmt.Errorf("scan node: %w", err)
	}
	n.Kind = types.NodeKind(kind)
	if parent.Valid {
		n.ParentID = types.Ref(parent.String)
	}
	if size.Valid {
		v := size.Int64
		n.Size = &v
	}
	return n, nil
}

// rebind rewrites ? placeholders as $1, $2... for postgres
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
