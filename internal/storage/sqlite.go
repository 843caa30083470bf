package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pixel-adventure/spritekit/internal/models"
)

var ErrNotFound = errors.New("not found")

// SpriteRepository persists sprite sets and folders. Frames come back in the
// order they were saved with byte-identical data.
type SpriteRepository interface {
	SaveSpriteSet(ctx context.Context, set *models.SpriteSet) error
	GetSpriteSet(ctx context.Context, id string) (*models.SpriteSet, error)
	ListSpriteSets(ctx context.Context) ([]*models.SpriteSet, error)
	DeleteSpriteSet(ctx context.Context, id string) error

	SaveFolder(ctx context.Context, folder *models.Folder) error
	GetFolder(ctx context.Context, id string) (*models.Folder, error)
	ListFolders(ctx context.Context) ([]*models.Folder, error)
	DeleteFolder(ctx context.Context, id string) error
}

const schema = `
CREATE TABLE IF NOT EXISTS sprites (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	style       TEXT,
	object      TEXT,
	action      TEXT,
	background  TEXT,
	prompt      TEXT,
	created_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS frames (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	sprite_id   TEXT NOT NULL REFERENCES sprites(id),
	frame_index INTEGER NOT NULL,
	filename    TEXT NOT NULL,
	x           INTEGER NOT NULL DEFAULT 0,
	y           INTEGER NOT NULL DEFAULT 0,
	width       INTEGER NOT NULL DEFAULT 0,
	height      INTEGER NOT NULL DEFAULT 0,
	mime_type   TEXT NOT NULL,
	image_data  BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS frames_sprite ON frames(sprite_id, frame_index);
CREATE TABLE IF NOT EXISTS folders (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS folder_frames (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	folder_id   TEXT NOT NULL REFERENCES folders(id),
	frame_index INTEGER NOT NULL,
	filename    TEXT NOT NULL,
	width       INTEGER NOT NULL DEFAULT 0,
	height      INTEGER NOT NULL DEFAULT 0,
	mime_type   TEXT NOT NULL,
	image_data  BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS folder_frames_folder ON folder_frames(folder_id, frame_index);
`

// SQLiteStore is a SpriteRepository on top of database/sql.
type SQLiteStore struct {
	db *sql.DB

	upsertSprite  *sql.Stmt
	findSprite    *sql.Stmt
	listSprites   *sql.Stmt
	deleteSprite  *sql.Stmt
	insertFrame   *sql.Stmt
	findFrames    *sql.Stmt
	deleteFrames  *sql.Stmt
	upsertFolder  *sql.Stmt
	findFolder    *sql.Stmt
	listFolders   *sql.Stmt
	deleteFolder  *sql.Stmt
	insertFFrame  *sql.Stmt
	findFFrames   *sql.Stmt
	deleteFFrames *sql.Stmt
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	store, err := NewSQLiteStore(db, true)
	if err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("Sprite database ready", "path", path)
	return store, nil
}

// NewSQLiteStore prepares statements on db, optionally creating the tables first.
func NewSQLiteStore(db *sql.DB, createTables bool) (*SQLiteStore, error) {
	if createTables {
		if _, err := db.Exec(schema); err != nil {
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	s := &SQLiteStore{db: db}
	stmts := []struct {
		dst   **sql.Stmt
		query string
	}{
		{&s.upsertSprite, "INSERT INTO sprites (id, name, style, object, action, background, prompt, created_at) " +
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?) " +
			"ON CONFLICT(id) DO UPDATE SET name=excluded.name, style=excluded.style, object=excluded.object, " +
			"action=excluded.action, background=excluded.background, prompt=excluded.prompt"},
		{&s.findSprite, "SELECT id, name, style, object, action, background, prompt, created_at FROM sprites WHERE id = ?"},
		{&s.listSprites, "SELECT id, name, style, object, action, background, prompt, created_at FROM sprites ORDER BY created_at DESC, id"},
		{&s.deleteSprite, "DELETE FROM sprites WHERE id = ?"},
		{&s.insertFrame, "INSERT INTO frames (sprite_id, frame_index, filename, x, y, width, height, mime_type, image_data) " +
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"},
		{&s.findFrames, "SELECT frame_index, filename, x, y, width, height, mime_type, image_data FROM frames " +
			"WHERE sprite_id = ? ORDER BY frame_index"},
		{&s.deleteFrames, "DELETE FROM frames WHERE sprite_id = ?"},
		{&s.upsertFolder, "INSERT INTO folders (id, name, created_at) VALUES (?, ?, ?) " +
			"ON CONFLICT(id) DO UPDATE SET name=excluded.name"},
		{&s.findFolder, "SELECT id, name, created_at FROM folders WHERE id = ?"},
		{&s.listFolders, "SELECT id, name, created_at FROM folders ORDER BY created_at, id"},
		{&s.deleteFolder, "DELETE FROM folders WHERE id = ?"},
		{&s.insertFFrame, "INSERT INTO folder_frames (folder_id, frame_index, filename, width, height, mime_type, image_data) " +
			"VALUES (?, ?, ?, ?, ?, ?, ?)"},
		{&s.findFFrames, "SELECT frame_index, filename, width, height, mime_type, image_data FROM folder_frames " +
			"WHERE folder_id = ? ORDER BY frame_index"},
		{&s.deleteFFrames, "DELETE FROM folder_frames WHERE folder_id = ?"},
	}
	for _, st := range stmts {
		prepared, err := db.Prepare(st.query)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare %q: %w", st.query, err)
		}
		*st.dst = prepared
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSpriteSet(ctx context.Context, set *models.SpriteSet) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		m := set.Metadata
		if _, err := tx.StmtContext(ctx, s.upsertSprite).ExecContext(ctx, set.ID, set.Name,
			nullIfEmpty(m.Style), nullIfEmpty(m.Object), nullIfEmpty(m.Action),
			nullIfEmpty(m.Background), nullIfEmpty(m.Prompt), formatTime(m.CreatedAt)); err != nil {
			return fmt.Errorf("failed to save sprite %s: %w", set.ID, err)
		}
		if _, err := tx.StmtContext(ctx, s.deleteFrames).ExecContext(ctx, set.ID); err != nil {
			return fmt.Errorf("failed to clear frames of %s: %w", set.ID, err)
		}
		insert := tx.StmtContext(ctx, s.insertFrame)
		for i, f := range set.Frames {
			if _, err := insert.ExecContext(ctx, set.ID, i, f.Filename, f.X, f.Y, f.Width, f.Height, f.MIMEType, f.Data); err != nil {
				return fmt.Errorf("failed to save frame %d of %s: %w", i, set.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) GetSpriteSet(ctx context.Context, id string) (*models.SpriteSet, error) {
	set, err := scanSprite(s.findSprite.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sprite set %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sprite set %s: %w", id, err)
	}
	if set.Frames, err = s.loadFrames(ctx, id); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *SQLiteStore) ListSpriteSets(ctx context.Context) ([]*models.SpriteSet, error) {
	rows, err := s.listSprites.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprite sets: %w", err)
	}
	var sets []*models.SpriteSet
	for rows.Next() {
		set, err := scanSprite(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to read sprite set: %w", err)
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, set := range sets {
		if set.Frames, err = s.loadFrames(ctx, set.ID); err != nil {
			return nil, err
		}
	}
	return sets, nil
}

func (s *SQLiteStore) DeleteSpriteSet(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.StmtContext(ctx, s.deleteFrames).ExecContext(ctx, id); err != nil {
			return fmt.Errorf("failed to delete frames of %s: %w", id, err)
		}
		res, err := tx.StmtContext(ctx, s.deleteSprite).ExecContext(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to delete sprite set %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("sprite set %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (s *SQLiteStore) SaveFolder(ctx context.Context, folder *models.Folder) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.StmtContext(ctx, s.upsertFolder).ExecContext(ctx, folder.ID, folder.Name, formatTime(folder.CreatedAt)); err != nil {
			return fmt.Errorf("failed to save folder %s: %w", folder.ID, err)
		}
		if _, err := tx.StmtContext(ctx, s.deleteFFrames).ExecContext(ctx, folder.ID); err != nil {
			return fmt.Errorf("failed to clear folder %s: %w", folder.ID, err)
		}
		insert := tx.StmtContext(ctx, s.insertFFrame)
		for i, f := range folder.Frames {
			if _, err := insert.ExecContext(ctx, folder.ID, i, f.Filename, f.Width, f.Height, f.MIMEType, f.Data); err != nil {
				return fmt.Errorf("failed to save frame %d of folder %s: %w", i, folder.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	folder, err := scanFolder(s.findFolder.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("folder %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load folder %s: %w", id, err)
	}
	if folder.Frames, err = s.loadFolderFrames(ctx, id); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *SQLiteStore) ListFolders(ctx context.Context) ([]*models.Folder, error) {
	rows, err := s.listFolders.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	var folders []*models.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to read folder: %w", err)
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, folder := range folders {
		if folder.Frames, err = s.loadFolderFrames(ctx, folder.ID); err != nil {
			return nil, err
		}
	}
	return folders, nil
}

func (s *SQLiteStore) DeleteFolder(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.StmtContext(ctx, s.deleteFFrames).ExecContext(ctx, id); err != nil {
			return fmt.Errorf("failed to delete frames of folder %s: %w", id, err)
		}
		res, err := tx.StmtContext(ctx, s.deleteFolder).ExecContext(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to delete folder %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("folder %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (s *SQLiteStore) loadFrames(ctx context.Context, spriteID string) ([]models.Frame, error) {
	rows, err := s.findFrames.QueryContext(ctx, spriteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load frames of %s: %w", spriteID, err)
	}
	defer rows.Close()

	frames := []models.Frame{}
	for rows.Next() {
		var f models.Frame
		if err := rows.Scan(&f.Index, &f.Filename, &f.X, &f.Y, &f.Width, &f.Height, &f.MIMEType, &f.Data); err != nil {
			return nil, fmt.Errorf("failed to read frame of %s: %w", spriteID, err)
		}
		f.ID = f.Index + 1
		frames = append(frames, f)
	}
	return frames, rows.Err()
}

func (s *SQLiteStore) loadFolderFrames(ctx context.Context, folderID string) ([]models.Frame, error) {
	rows, err := s.findFFrames.QueryContext(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load frames of folder %s: %w", folderID, err)
	}
	defer rows.Close()

	frames := []models.Frame{}
	for rows.Next() {
		var f models.Frame
		if err := rows.Scan(&f.Index, &f.Filename, &f.Width, &f.Height, &f.MIMEType, &f.Data); err != nil {
			return nil, fmt.Errorf("failed to read frame of folder %s: %w", folderID, err)
		}
		f.ID = f.Index + 1
		frames = append(frames, f)
	}
	return frames, rows.Err()
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("Rollback failed", "err", rbErr)
		}
		return err
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSprite(row scanner) (*models.SpriteSet, error) {
	var (
		set                                       models.SpriteSet
		style, object, action, background, prompt *string
		created                                   string
	)
	if err := row.Scan(&set.ID, &set.Name, &style, &object, &action, &background, &prompt, &created); err != nil {
		return nil, err
	}
	set.Metadata = models.Metadata{
		Style:      emptyIfNull(style),
		Object:     emptyIfNull(object),
		Action:     emptyIfNull(action),
		Background: emptyIfNull(background),
		Prompt:     emptyIfNull(prompt),
		CreatedAt:  parseTime(created),
	}
	set.Frames = []models.Frame{}
	return &set, nil
}

func scanFolder(row scanner) (*models.Folder, error) {
	var (
		folder  models.Folder
		created string
	)
	if err := row.Scan(&folder.ID, &folder.Name, &created); err != nil {
		return nil, err
	}
	folder.CreatedAt = parseTime(created)
	folder.Frames = []models.Frame{}
	return &folder, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func emptyIfNull(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		slog.Warn("Unparseable timestamp in database", "value", s, "err", err)
		return time.Time{}
	}
	return t
}
