package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/domain/enums"
)

type ListingRecord struct {
	ID          int64
	UserID      int64
	DisplayName string
	Kind        enums.ListingKind
	ItemText    string
	CreatedAt   time.Time
}

type ListingRepo struct {
	pool *pgxpool.Pool
}

func NewListingRepo(pool *pgxpool.Pool) *ListingRepo {
	return &ListingRepo{pool: pool}
}

// EnsureSchema creates the listings table and its indexes if missing.
func (r *ListingRepo) EnsureSchema(ctx context.Context) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS listings (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	display_name TEXT NOT NULL,
	kind TEXT NOT NULL,
	item_text TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
		`CREATE INDEX IF NOT EXISTS idx_listings_user_kind ON listings (user_id, kind)`,
		`CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings (created_at)`,
	}

	for _, q := range queries {
		if _, err := r.pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("ensure listings schema: %w", err)
		}
	}

	return nil
}

// InsertBatch writes one row per item inside a single transaction. Submission
// order is preserved through the serial id.
func (r *ListingRepo) InsertBatch(ctx context.Context, userID int64, displayName string, kind enums.ListingKind, items []string) error {
	if userID <= 0 || !kind.Valid() || len(items) == 0 {
		return fmt.Errorf("invalid listing batch payload")
	}

	return WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		for _, item := range items {
			if _, err := tx.Exec(ctx, `
INSERT INTO listings (
	user_id,
	display_name,
	kind,
	item_text,
	created_at
) VALUES ($1, $2, $3, $4, NOW())
`, userID, displayName, string(kind), item); err != nil {
				return fmt.Errorf("insert listing: %w", err)
			}
		}
		return nil
	})
}

// ListByKind returns every user's listings of the given kind in insertion
// order.
func (r *ListingRepo) ListByKind(ctx context.Context, kind enums.ListingKind) ([]ListingRecord, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("invalid listing kind %q", kind)
	}
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, display_name, kind, item_text, created_at
FROM listings
WHERE kind = $1
ORDER BY id
`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	var records []ListingRecord
	for rows.Next() {
		var rec ListingRecord
		var rawKind string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.DisplayName, &rawKind, &rec.ItemText, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan listing row: %w", err)
		}
		rec.Kind = enums.ListingKind(rawKind)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listing rows: %w", err)
	}

	return records, nil
}

func (r *ListingRepo) DeleteByUserAndKind(ctx context.Context, userID int64, kind enums.ListingKind) (int64, error) {
	if userID <= 0 || !kind.Valid() {
		return 0, fmt.Errorf("invalid listing delete payload")
	}
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM listings
WHERE user_id = $1 AND kind = $2
`, userID, string(kind))
	if err != nil {
		return 0, fmt.Errorf("delete listings: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *ListingRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM listings
WHERE created_at < $1
`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete stale listings: %w", err)
	}

	return result.RowsAffected(), nil
}
