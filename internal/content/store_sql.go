package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

func (s *SQLStore) LibraryID(ctx context.Context, machineName string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT library_id FROM h5p_libraries WHERE machine_name=$1`, machineName).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrLibraryNotFound
	}
	return id, err
}

func (s *SQLStore) EnsureLibrary(ctx context.Context, machineName, title string) (int64, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO h5p_libraries (machine_name, title, created_at) VALUES ($1,$2,$3)
		 ON CONFLICT (machine_name) DO NOTHING`,
		machineName, title, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("insert library: %w", err)
	}
	return s.LibraryID(ctx, machineName)
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLStore) CreateContent(ctx context.Context, c Content) (Content, error) {
	return s.insertContent(ctx, s.db, c)
}

// CreateContentWithNode inserts the content and its node in one transaction.
func (s *SQLStore) CreateContentWithNode(ctx context.Context, c Content, n Node) (_ Content, _ Node, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Content{}, Node{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	c, err = s.insertContent(ctx, tx, c)
	if err != nil {
		return Content{}, Node{}, err
	}
	n.FieldH5P = c.ID
	n, err = s.insertNode(ctx, tx, n)
	if err != nil {
		return Content{}, Node{}, err
	}
	if err = tx.Commit(); err != nil {
		return Content{}, Node{}, fmt.Errorf("commit: %w", err)
	}
	return c, n, nil
}

func (s *SQLStore) insertContent(ctx context.Context, q queryer, c Content) (Content, error) {
	c.CreatedAt = s.now().Unix()
	var libID sql.NullInt64
	if c.LibraryID != nil {
		libID = sql.NullInt64{Int64: *c.LibraryID, Valid: true}
	}
	err := q.QueryRowContext(ctx,
		`INSERT INTO h5p_content
		   (title, a11y_title, library, library_id, parameters, language, authors,
		    license, license_version, license_extras, created_by, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		 RETURNING id`,
		c.Title, c.A11yTitle, c.Library, libID, c.Parameters, c.Language, c.Authors,
		c.License, c.LicenseVersion, c.LicenseExtras, c.CreatedBy, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return Content{}, fmt.Errorf("insert content: %w", err)
	}
	return c, nil
}

func (s *SQLStore) GetContent(ctx context.Context, id int64) (Content, error) {
	var c Content
	var libID sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, a11y_title, library, library_id, parameters, language, authors,
		        license, license_version, license_extras, created_by, created_at
		   FROM h5p_content WHERE id=$1`, id,
	).Scan(&c.ID, &c.Title, &c.A11yTitle, &c.Library, &libID, &c.Parameters, &c.Language, &c.Authors,
		&c.License, &c.LicenseVersion, &c.LicenseExtras, &c.CreatedBy, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Content{}, ErrNotFound
	}
	if err != nil {
		return Content{}, err
	}
	if libID.Valid {
		v := libID.Int64
		c.LibraryID = &v
	}
	return c, nil
}

func (s *SQLStore) CreateNode(ctx context.Context, n Node) (Node, error) {
	return s.insertNode(ctx, s.db, n)
}

func (s *SQLStore) insertNode(ctx context.Context, q queryer, n Node) (Node, error) {
	n.CreatedAt = s.now().Unix()
	err := q.QueryRowContext(ctx,
		`INSERT INTO nodes (type, title, field_h5p, created_by, created_at)
		 VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		n.Type, n.Title, n.FieldH5P, n.CreatedBy, n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		return Node{}, fmt.Errorf("insert node: %w", err)
	}
	return n, nil
}

func (s *SQLStore) GetNode(ctx context.Context, id int64) (Node, error) {
	var n Node
	var field sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, type, title, field_h5p, created_by, created_at FROM nodes WHERE id=$1`, id,
	).Scan(&n.ID, &n.Type, &n.Title, &field, &n.CreatedBy, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Node{}, ErrNotFound
	}
	if err != nil {
		return Node{}, err
	}
	n.FieldH5P = field.Int64
	return n, nil
}
