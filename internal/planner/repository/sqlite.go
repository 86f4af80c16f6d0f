package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"planner/internal/planner/models"
	"planner/internal/planner/serializer"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ============================================================
// SQLite Repository
// ============================================================

type SQLite struct {
	db *sql.DB
}

// DocumentInfo describes a stored document without decoding it.
type DocumentInfo struct {
	ID        string    `json:"id"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// Init applies the embedded migrations.
func (r *SQLite) Init(ctx context.Context) error {
	if err := r.runMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (r *SQLite) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLite) Save(ctx context.Context, id string, doc *models.DrawingData) error {
	data, err := serializer.Marshal(doc)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO drawings (id, version, data, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            version = excluded.version,
            data = excluded.data,
            updated_at = excluded.updated_at
    `, id, doc.Version, string(data), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save drawing %s: %w", id, err)
	}
	return nil
}

func (r *SQLite) Load(ctx context.Context, id string) (*models.DrawingData, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM drawings WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return serializer.Deserialize([]byte(data))
}

// List returns stored documents, most recently updated first.
func (r *SQLite) List(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, version, updated_at
        FROM drawings
        ORDER BY updated_at DESC, id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DocumentInfo
	for rows.Next() {
		var info DocumentInfo
		var updatedAt int64
		if err := rows.Scan(&info.ID, &info.Version, &updatedAt); err != nil {
			return nil, err
		}
		info.UpdatedAt = time.UnixMilli(updatedAt).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

func (r *SQLite) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drawings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ============================================================
// Migrations
// ============================================================

func (r *SQLite) runMigrations(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS schema_migrations (
            name TEXT PRIMARY KEY
        )
    `); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var applied int
		if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE name = ?`, name).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if applied > 0 {
			continue
		}

		data, err := fs.ReadFile(migrationsFS, "migrations/"+name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := r.db.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	return nil
}

// OpenSQLite opens (creating if needed) the database file at dbPath.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
