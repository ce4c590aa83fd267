package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"

	"fotoladuViewer/internal/config"
	"fotoladuViewer/internal/models"
	"fotoladuViewer/internal/storage"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

//go:embed migrations/*
var embeddedMigrations embed.FS

const imageColumns = `id, fotoladu_id, path, path_corrected, path_thumb, aasta, w, h,
	peakaust, kaust, fail, lend, fotonr, kaardileht, tyyp, allikas, lat, lon, accuracy, created_at`

type Storage struct {
	db     *sqlx.DB
	driver string
}

func New(cfg *config.Storage) (*Storage, error) {
	const op = "storage.sqlstore.New"

	dsn := cfg.DSN

	switch cfg.Driver {
	case DriverSQLite:
		if dir := filepath.Dir(dsn); dir != "." && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("%s: unsupported driver %q", op, cfg.Driver)
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open database: %w", op, err)
	}

	if cfg.Driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: failed to connect to the database: %w", op, err)
	}

	return &Storage{db: db, driver: cfg.Driver}, nil
}

// Migrate applies the embedded migrations for the configured dialect and
// returns how many were applied.
func (s *Storage) Migrate() (int, error) {
	const op = "storage.sqlstore.Migrate"

	source := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: embeddedMigrations,
		Root:       "migrations/" + s.driver,
	}

	n, err := migrate.Exec(s.db.DB, s.driver, source, migrate.Up)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (s *Storage) RandomImages(ctx context.Context, n int) ([]models.Image, error) {
	const op = "storage.sqlstore.RandomImages"

	query := s.db.Rebind(`SELECT ` + imageColumns + ` FROM images ORDER BY RANDOM() LIMIT ?`)

	images := make([]models.Image, 0, n)
	if err := s.db.SelectContext(ctx, &images, query, n); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return images, nil
}

func (s *Storage) GetImage(ctx context.Context, id int64) (*models.Image, error) {
	const op = "storage.sqlstore.GetImage"

	query := s.db.Rebind(`SELECT ` + imageColumns + ` FROM images WHERE id = ?`)

	var image models.Image
	if err := s.db.GetContext(ctx, &image, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: image with ID %d: %w", op, id, storage.ErrImageNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &image, nil
}

// SaveImage inserts img unless a row with the same fotoladu_id exists. The id of
// the stored row is returned in both cases; an existing row also yields
// storage.ErrImageExists.
func (s *Storage) SaveImage(ctx context.Context, img *models.Image) (int64, error) {
	const op = "storage.sqlstore.SaveImage"

	query := `
        INSERT INTO images (fotoladu_id, path, aasta, w, h, peakaust, kaust, fail, lend, fotonr, kaardileht, tyyp, allikas, lat, lon, accuracy)
        VALUES (:fotoladu_id, :path, :aasta, :w, :h, :peakaust, :kaust, :fail, :lend, :fotonr, :kaardileht, :tyyp, :allikas, :lat, :lon, :accuracy)
        ON CONFLICT (fotoladu_id) DO NOTHING`

	res, err := s.db.NamedExecContext(ctx, query, img)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var id int64
	err = s.db.GetContext(ctx, &id, s.db.Rebind(`SELECT id FROM images WHERE fotoladu_id = ?`), img.FotoladuID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if inserted == 0 {
		return id, fmt.Errorf("%s: fotoladu id %d: %w", op, img.FotoladuID, storage.ErrImageExists)
	}

	return id, nil
}

// UpdateVariants records the corrected and thumbnail paths of an image. Empty
// paths are stored as NULL.
func (s *Storage) UpdateVariants(ctx context.Context, id int64, corrected, thumb string) error {
	const op = "storage.sqlstore.UpdateVariants"

	query := s.db.Rebind(`UPDATE images SET path_corrected = ?, path_thumb = ? WHERE id = ?`)

	correctedPath := sql.NullString{String: corrected, Valid: corrected != ""}
	thumbPath := sql.NullString{String: thumb, Valid: thumb != ""}

	res, err := s.db.ExecContext(ctx, query, correctedPath, thumbPath, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: image with ID %d: %w", op, id, storage.ErrImageNotFound)
	}

	return nil
}

func (s *Storage) CountImages(ctx context.Context) (int, error) {
	const op = "storage.sqlstore.CountImages"

	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM images`); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// DeleteImage removes the catalogue row. Files under the data dir are kept.
func (s *Storage) DeleteImage(ctx context.Context, id int64) error {
	const op = "storage.sqlstore.DeleteImage"

	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM images WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: image with ID %d: %w", op, id, storage.ErrImageNotFound)
	}

	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}
