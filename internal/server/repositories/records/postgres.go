package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/schedvault/schedvault/internal/common"
	"github.com/schedvault/schedvault/internal/dbx"
	"github.com/schedvault/schedvault/internal/oracle"
	"github.com/schedvault/schedvault/internal/server/models"
)

// PostgresRepository implements record storage over a dbx.DBTX
// (*sql.DB or *sql.Tx). Handle refs are stored as text; the seq column
// preserves insertion order for ListIDs.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, record *models.Record) error {
	query := `
		INSERT INTO records (id, title, encrypted_start, encrypted_end, public_duration, creator, created_at, revealed_start, revealed_end, verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 0, false)
		ON CONFLICT (id) DO NOTHING;
	`
	res, err := r.db.ExecContext(ctx, query,
		record.ID, record.Title, record.EncryptedStart.Ref, record.EncryptedEnd.Ref,
		int64(record.PublicDuration), record.Creator, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorDuplicateID
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Record, error) {
	query := `
		SELECT id, title, encrypted_start, encrypted_end, public_duration, creator, created_at, revealed_start, revealed_end, verified
		FROM records WHERE id = $1;
	`
	var (
		record                     models.Record
		startRef, endRef           string
		duration, revStart, revEnd int64
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID, &record.Title, &startRef, &endRef,
		&duration, &record.Creator, &record.CreatedAt,
		&revStart, &revEnd, &record.Verified,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	record.EncryptedStart = oracle.Handle{Ref: startRef, Type: oracle.HandleUint32}
	record.EncryptedEnd = oracle.Handle{Ref: endRef, Type: oracle.HandleUint32}
	record.PublicDuration = uint32(duration)
	record.RevealedStart = uint32(revStart)
	record.RevealedEnd = uint32(revEnd)
	return &record, nil
}

func (r *PostgresRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM records ORDER BY seq;`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, id string, start, end uint32) error {
	query := `
		UPDATE records SET revealed_start = $2, revealed_end = $3, verified = true
		WHERE id = $1 AND verified = false;
	`
	res, err := r.db.ExecContext(ctx, query, id, int64(start), int64(end))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 1 {
		return nil
	}

	// No row updated: distinguish an unknown id from a terminal record.
	var verified bool
	err = r.db.QueryRowContext(ctx, `SELECT verified FROM records WHERE id = $1;`, id).Scan(&verified)
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return common.ErrorAlreadyVerified
}
