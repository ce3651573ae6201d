package listings

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/domain/enums"
	pgrepo "github.com/MikuVocaloid1337/RiuChanReworkBot/internal/repo/postgres"
)

func TestSubmitRejectsTooManyLines(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)

	lines := []string{"a", "b", "c", "d", "e", "f"}
	err := service.Submit(context.Background(), 1, "Иван", enums.KindTrade, lines)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.records) != 0 {
		t.Fatalf("expected no partial insert, found %d records", len(repo.records))
	}
}

func TestSubmitRejectsOverlongLine(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)

	long := strings.Repeat("ф", MaxLineLength+1)
	err := service.Submit(context.Background(), 1, "Иван", enums.KindTrade, []string{long})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.records) != 0 {
		t.Fatalf("expected no insert for overlong line")
	}
}

func TestSubmitAcceptsMaxBounds(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)

	line := strings.Repeat("ф", MaxLineLength)
	lines := []string{line, line, line, line, line}
	if err := service.Submit(context.Background(), 1, "Иван", enums.KindTrade, lines); err != nil {
		t.Fatalf("submit at bounds: %v", err)
	}
	if len(repo.records) != MaxLines {
		t.Fatalf("expected %d records, got %d", MaxLines, len(repo.records))
	}
}

func TestSubmitRejectsEmptyLine(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)

	err := service.Submit(context.Background(), 1, "Иван", enums.KindTrade, []string{"Skull", "   "})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for blank line, got %v", err)
	}
}

func TestSubmitListRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)
	ctx := context.Background()

	if err := service.Submit(ctx, 1, "Иван", enums.KindTrade, []string{" Skull ", "Heart"}); err != nil {
		t.Fatalf("submit user 1: %v", err)
	}
	if err := service.Submit(ctx, 2, "Петя", enums.KindTrade, []string{"Arrow"}); err != nil {
		t.Fatalf("submit user 2: %v", err)
	}
	if err := service.Submit(ctx, 1, "Иван", enums.KindLook, []string{"Green baby"}); err != nil {
		t.Fatalf("submit lf: %v", err)
	}

	grouped, err := service.List(ctx, enums.KindTrade)
	if err != nil {
		t.Fatalf("list trade: %v", err)
	}
	if len(grouped) != 2 {
		t.Fatalf("expected 2 users, got %d", len(grouped))
	}
	if grouped[0].DisplayName != "Иван" || grouped[1].DisplayName != "Петя" {
		t.Fatalf("unexpected grouping order: %+v", grouped)
	}
	if len(grouped[0].Items) != 2 || grouped[0].Items[0] != "Skull" || grouped[0].Items[1] != "Heart" {
		t.Fatalf("expected trimmed items in submission order, got %v", grouped[0].Items)
	}

	looks, err := service.List(ctx, enums.KindLook)
	if err != nil {
		t.Fatalf("list lf: %v", err)
	}
	if len(looks) != 1 || looks[0].Items[0] != "Green baby" {
		t.Fatalf("unexpected lf listings: %+v", looks)
	}
}

func TestClearRemovesOnlyOwnKind(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)
	ctx := context.Background()

	if err := service.Submit(ctx, 1, "Иван", enums.KindTrade, []string{"Skull"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := service.Submit(ctx, 1, "Иван", enums.KindLook, []string{"Heart"}); err != nil {
		t.Fatalf("submit lf: %v", err)
	}
	if err := service.Submit(ctx, 2, "Петя", enums.KindTrade, []string{"Arrow"}); err != nil {
		t.Fatalf("submit other user: %v", err)
	}

	if err := service.Clear(ctx, 1, enums.KindTrade); err != nil {
		t.Fatalf("clear: %v", err)
	}

	trades, err := service.List(ctx, enums.KindTrade)
	if err != nil {
		t.Fatalf("list after clear: %v", err)
	}
	if len(trades) != 1 || trades[0].UserID != 2 {
		t.Fatalf("expected only user 2's trade listing to remain, got %+v", trades)
	}

	looks, err := service.List(ctx, enums.KindLook)
	if err != nil {
		t.Fatalf("list lf after clear: %v", err)
	}
	if len(looks) != 1 {
		t.Fatalf("clearing trade must not touch lf records")
	}

	// Clearing an already-empty set is not an error.
	if err := service.Clear(ctx, 1, enums.KindTrade); err != nil {
		t.Fatalf("idempotent clear: %v", err)
	}
}

func TestPurgeOlderThanRemovesOnlyStaleRecords(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }
	ctx := context.Background()

	repo.insertAt(1, "Иван", enums.KindTrade, "old item", now.Add(-8*24*time.Hour))
	repo.insertAt(2, "Петя", enums.KindLook, "fresh item", now.Add(-6*24*time.Hour))

	deleted, err := service.PurgeOlderThan(ctx, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected exactly 1 stale record deleted, got %d", deleted)
	}
	if len(repo.records) != 1 || repo.records[0].ItemText != "fresh item" {
		t.Fatalf("expected only the fresh record to remain, got %+v", repo.records)
	}
}

type fakeRepo struct {
	records []pgrepo.ListingRecord
	nextID  int64
	nowAt   time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nowAt: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeRepo) InsertBatch(_ context.Context, userID int64, displayName string, kind enums.ListingKind, items []string) error {
	for _, item := range items {
		f.insertAt(userID, displayName, kind, item, f.nowAt)
	}
	return nil
}

func (f *fakeRepo) insertAt(userID int64, displayName string, kind enums.ListingKind, item string, createdAt time.Time) {
	f.nextID++
	f.records = append(f.records, pgrepo.ListingRecord{
		ID:          f.nextID,
		UserID:      userID,
		DisplayName: displayName,
		Kind:        kind,
		ItemText:    item,
		CreatedAt:   createdAt,
	})
}

func (f *fakeRepo) ListByKind(_ context.Context, kind enums.ListingKind) ([]pgrepo.ListingRecord, error) {
	var out []pgrepo.ListingRecord
	for _, rec := range f.records {
		if rec.Kind == kind {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeRepo) DeleteByUserAndKind(_ context.Context, userID int64, kind enums.ListingKind) (int64, error) {
	var kept []pgrepo.ListingRecord
	var deleted int64
	for _, rec := range f.records {
		if rec.UserID == userID && rec.Kind == kind {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	f.records = kept
	return deleted, nil
}

func (f *fakeRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []pgrepo.ListingRecord
	var deleted int64
	for _, rec := range f.records {
		if rec.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	f.records = kept
	return deleted, nil
}
