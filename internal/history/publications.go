package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Publication is one successful publish.
type Publication struct {
	ID            int64
	FilePath      string
	Title         string
	ContentHash   string
	Tags          []string
	PostID        string
	PostURL       string
	AuthorID      string
	PublishStatus string
	CreatedAt     time.Time
}

// createdAtLayout is fixed width so text order matches time order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

const publicationColumns = `id, file_path, title, content_hash, tags, post_id, post_url, author_id, publish_status, created_at`

// Record stores a publication and returns its id. CreatedAt defaults to now.
func (s *Store) Record(ctx context.Context, p Publication) (int64, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return 0, fmt.Errorf("marshal tags: %w", err)
	}

	res, err := s.ExecContext(ctx, `
		INSERT INTO publications (file_path, title, content_hash, tags, post_id, post_url, author_id, publish_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.FilePath,
		p.Title,
		p.ContentHash,
		string(tagsJSON),
		p.PostID,
		p.PostURL,
		p.AuthorID,
		p.PublishStatus,
		p.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert publication: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("publication id: %w", err)
	}
	return id, nil
}

// FindByHash returns the most recent publication of the given content, or
// nil if it was never published.
func (s *Store) FindByHash(ctx context.Context, hash string) (*Publication, error) {
	row := s.QueryRowContext(ctx,
		`SELECT `+publicationColumns+` FROM publications WHERE content_hash = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		hash,
	)

	p, err := scanPublication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find publication: %w", err)
	}
	return p, nil
}

// List returns up to limit publications, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Publication, error) {
	query := `SELECT ` + publicationColumns + ` FROM publications ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list publications: %w", err)
	}
	defer rows.Close()

	var pubs []Publication
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan publication: %w", err)
		}
		pubs = append(pubs, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate publications: %w", err)
	}

	return pubs, nil
}

// Count returns the number of recorded publications.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.QueryRowContext(ctx, "SELECT COUNT(*) FROM publications").Scan(&n); err != nil {
		return 0, fmt.Errorf("count publications: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPublication(row scanner) (*Publication, error) {
	var (
		p         Publication
		tags      string
		createdAt string
	)

	err := row.Scan(
		&p.ID,
		&p.FilePath,
		&p.Title,
		&p.ContentHash,
		&tags,
		&p.PostID,
		&p.PostURL,
		&p.AuthorID,
		&p.PublishStatus,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return nil, fmt.Errorf("parse tags %q: %w", tags, err)
	}
	if len(p.Tags) == 0 {
		p.Tags = nil
	}

	p.CreatedAt, err = time.Parse(createdAtLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}

	return &p, nil
}
