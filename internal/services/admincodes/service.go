package admincodes

import (
	"context"
	"fmt"
	"strings"
)

type Store interface {
	SeedCodes(ctx context.Context, codes []string) error
	ConsumeCode(ctx context.Context, code string, userID int64) (bool, error)
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

// Service grants bot-local admin status through single-use activation codes.
// This privilege is distinct from Telegram chat roles; it gates the
// private-chat broadcast relay.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Seed(ctx context.Context, codes []string) error {
	if s.store == nil {
		return fmt.Errorf("admin code store is nil")
	}

	trimmed := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code != "" {
			trimmed = append(trimmed, code)
		}
	}

	return s.store.SeedCodes(ctx, trimmed)
}

// Activate consumes the code for the user. Returns false when the code is
// unknown or was already used by anyone, including this user.
func (s *Service) Activate(ctx context.Context, code string, userID int64) (bool, error) {
	if userID <= 0 {
		return false, fmt.Errorf("invalid user id")
	}
	if s.store == nil {
		return false, fmt.Errorf("admin code store is nil")
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}

	return s.store.ConsumeCode(ctx, code, userID)
}

func (s *Service) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	if userID <= 0 {
		return false, fmt.Errorf("invalid user id")
	}
	if s.store == nil {
		return false, fmt.Errorf("admin code store is nil")
	}

	return s.store.IsAdmin(ctx, userID)
}
