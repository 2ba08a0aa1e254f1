package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/proposalcraft/proposalcraft-backend/internal/logger"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS saved_proposals (
    seq        BIGSERIAL,
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    data       JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS saved_proposals_seq_idx ON saved_proposals (seq);
`

// PostgresRepository stores one row per saved proposal.
type PostgresRepository struct {
	db    *sql.DB
	clock Clock
	newID func() string
}

func NewPostgresRepository(db *sql.DB, clock Clock) *PostgresRepository {
	return &PostgresRepository{db: db, clock: clock, newID: domain.NewID}
}

// EnsureSchema creates the saved_proposals table if it does not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create saved_proposals: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *PostgresRepository) Save(ctx context.Context, name string, doc *domain.Document) (*domain.SavedProposal, error) {
	if doc == nil {
		return nil, fmt.Errorf("document required")
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	now := r.clock.now()
	for i := 0; i < 3; i++ {
		id := r.newID()
		const q = `
INSERT INTO saved_proposals (id, name, data, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5);
`
		_, err = r.db.ExecContext(ctx, q, id, name, data, now, now)
		if err == nil {
			return &domain.SavedProposal{ID: id, Name: name, Data: *doc.Clone(), CreatedAt: now, UpdatedAt: now}, nil
		}

		// unique violation on id → retry with a new one
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, fmt.Errorf("insert saved proposal: %w", err)
	}
	return nil, fmt.Errorf("failed to generate unique proposal id")
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd domain.SavedProposalUpdate) (*domain.SavedProposal, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const sel = `
SELECT id, name, data, created_at, updated_at
FROM saved_proposals
WHERE id = $1
FOR UPDATE;
`
	p, err := scanProposal(ctx, tx.QueryRowContext(ctx, sel, id))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}

	applyUpdate(p, upd, r.clock.now())
	data, err := json.Marshal(&p.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	const upq = `
UPDATE saved_proposals
SET name = $2, data = $3, updated_at = $4
WHERE id = $1;
`
	if _, err := tx.ExecContext(ctx, upq, p.ID, p.Name, data, p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("update saved proposal: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) GetOne(ctx context.Context, id string) (*domain.SavedProposal, error) {
	const q = `
SELECT id, name, data, created_at, updated_at
FROM saved_proposals
WHERE id = $1;
`
	return scanProposal(ctx, r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]domain.SavedProposal, error) {
	const q = `
SELECT id, name, data, created_at, updated_at
FROM saved_proposals
ORDER BY seq ASC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list saved proposals: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SavedProposal, 0, 16)
	for rows.Next() {
		p, err := decodeRow(ctx, rows)
		if err != nil {
			return nil, err
		}
		if p != nil {
			out = append(out, *p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list saved proposals: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) DeleteOne(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM saved_proposals WHERE id = $1;`, id)
	if err != nil {
		return false, fmt.Errorf("delete saved proposal: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresRepository) ClearAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM saved_proposals;`); err != nil {
		return fmt.Errorf("clear saved proposals: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProposal(ctx context.Context, row *sql.Row) (*domain.SavedProposal, error) {
	p, err := decodeRow(ctx, row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// decodeRow scans one row. A row whose data column is not a valid document
// is logged and reported as absent.
func decodeRow(ctx context.Context, s scanner) (*domain.SavedProposal, error) {
	var (
		p                    domain.SavedProposal
		data                 []byte
		createdAt, updatedAt time.Time
	)
	if err := s.Scan(&p.ID, &p.Name, &data, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan saved proposal: %w", err)
	}
	if err := json.Unmarshal(data, &p.Data); err != nil {
		logger.FromContext(ctx).Warn("saved proposal has malformed data, skipping",
			zap.String("proposal_id", p.ID), zap.Error(err))
		return nil, nil
	}
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	return &p, nil
}
