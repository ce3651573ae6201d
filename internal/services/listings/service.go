package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/domain/enums"
	pgrepo "github.com/MikuVocaloid1337/RiuChanReworkBot/internal/repo/postgres"
)

const (
	MaxLines      = 5
	MaxLineLength = 100
)

// ErrValidation marks user-input failures; the wrapped message is shown to
// the user verbatim.
var ErrValidation = errors.New("ошибка валидации")

type Repo interface {
	InsertBatch(ctx context.Context, userID int64, displayName string, kind enums.ListingKind, items []string) error
	ListByKind(ctx context.Context, kind enums.ListingKind) ([]pgrepo.ListingRecord, error)
	DeleteByUserAndKind(ctx context.Context, userID int64, kind enums.ListingKind) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// UserListings groups one user's items of a kind, in submission order.
type UserListings struct {
	UserID      int64
	DisplayName string
	Items       []string
}

type Service struct {
	repo Repo
	now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Submit validates the raw lines and persists one record per line
// atomically. No partial write happens on validation failure.
func (s *Service) Submit(ctx context.Context, userID int64, displayName string, kind enums.ListingKind, rawLines []string) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	if !kind.Valid() {
		return fmt.Errorf("invalid listing kind %q", kind)
	}
	if s.repo == nil {
		return fmt.Errorf("listing repo is nil")
	}

	if len(rawLines) == 0 {
		return fmt.Errorf("%w: пустая заявка", ErrValidation)
	}
	if len(rawLines) > MaxLines {
		return fmt.Errorf("%w: не больше %d строк за раз, получено %d", ErrValidation, MaxLines, len(rawLines))
	}

	items := make([]string, 0, len(rawLines))
	for i, raw := range rawLines {
		line := strings.TrimSpace(raw)
		if line == "" {
			return fmt.Errorf("%w: строка %d пустая", ErrValidation, i+1)
		}
		if utf8.RuneCountInString(line) > MaxLineLength {
			return fmt.Errorf("%w: строка %q длиннее %d символов", ErrValidation, line, MaxLineLength)
		}
		items = append(items, line)
	}

	if err := s.repo.InsertBatch(ctx, userID, strings.TrimSpace(displayName), kind, items); err != nil {
		return fmt.Errorf("persist listing batch: %w", err)
	}

	return nil
}

// List returns every user's listings of the kind, grouped by user in the
// backing store's natural order.
func (s *Service) List(ctx context.Context, kind enums.ListingKind) ([]UserListings, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("invalid listing kind %q", kind)
	}
	if s.repo == nil {
		return nil, fmt.Errorf("listing repo is nil")
	}

	records, err := s.repo.ListByKind(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}

	grouped := make([]UserListings, 0)
	indexByUser := make(map[int64]int)
	for _, rec := range records {
		idx, ok := indexByUser[rec.UserID]
		if !ok {
			grouped = append(grouped, UserListings{
				UserID:      rec.UserID,
				DisplayName: rec.DisplayName,
			})
			idx = len(grouped) - 1
			indexByUser[rec.UserID] = idx
		}
		grouped[idx].Items = append(grouped[idx].Items, rec.ItemText)
	}

	return grouped, nil
}

// Clear removes all of the user's records of the kind. Clearing an empty set
// is not an error.
func (s *Service) Clear(ctx context.Context, userID int64, kind enums.ListingKind) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	if !kind.Valid() {
		return fmt.Errorf("invalid listing kind %q", kind)
	}
	if s.repo == nil {
		return fmt.Errorf("listing repo is nil")
	}

	if _, err := s.repo.DeleteByUserAndKind(ctx, userID, kind); err != nil {
		return fmt.Errorf("clear listings: %w", err)
	}

	return nil
}

// PurgeOlderThan deletes records of any user and either kind created before
// now-age. Used by the retention sweeper only.
func (s *Service) PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	if age <= 0 {
		return 0, fmt.Errorf("retention age must be positive")
	}
	if s.repo == nil {
		return 0, fmt.Errorf("listing repo is nil")
	}

	deleted, err := s.repo.DeleteOlderThan(ctx, s.now().Add(-age))
	if err != nil {
		return 0, fmt.Errorf("purge stale listings: %w", err)
	}

	return deleted, nil
}
