package admincodes

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/MikuVocaloid1337/RiuChanReworkBot/internal/repo/redis"
)

func TestActivateConsumesCodeExactlyOnce(t *testing.T) {
	service, cleanup := newRedisService(t)
	defer cleanup()
	ctx := context.Background()

	if err := service.Seed(ctx, []string{"#VagueOwner", "#MikuPikuBeam"}); err != nil {
		t.Fatalf("seed codes: %v", err)
	}

	granted, err := service.Activate(ctx, "#VagueOwner", 100)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !granted {
		t.Fatalf("expected first activation to succeed")
	}

	granted, err = service.Activate(ctx, "#VagueOwner", 200)
	if err != nil {
		t.Fatalf("second activate: %v", err)
	}
	if granted {
		t.Fatalf("consumed code must not be reusable")
	}

	isAdmin, err := service.IsAdmin(ctx, 100)
	if err != nil {
		t.Fatalf("is admin: %v", err)
	}
	if !isAdmin {
		t.Fatalf("expected user 100 to be admin")
	}

	isAdmin, err = service.IsAdmin(ctx, 200)
	if err != nil {
		t.Fatalf("is admin for loser: %v", err)
	}
	if isAdmin {
		t.Fatalf("user 200 must not be admin")
	}
}

func TestActivateUnknownCode(t *testing.T) {
	service, cleanup := newRedisService(t)
	defer cleanup()
	ctx := context.Background()

	granted, err := service.Activate(ctx, "#NoSuchCode", 1)
	if err != nil {
		t.Fatalf("activate unknown code: %v", err)
	}
	if granted {
		t.Fatalf("unknown code must not grant admin")
	}
}

func TestSeedDoesNotResurrectUsedCodes(t *testing.T) {
	service, cleanup := newRedisService(t)
	defer cleanup()
	ctx := context.Background()

	if err := service.Seed(ctx, []string{"#ShapkaKrutoi"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if granted, err := service.Activate(ctx, "#ShapkaKrutoi", 5); err != nil || !granted {
		t.Fatalf("activate: granted=%v err=%v", granted, err)
	}

	// Simulated restart.
	if err := service.Seed(ctx, []string{"#ShapkaKrutoi"}); err != nil {
		t.Fatalf("re-seed: %v", err)
	}

	granted, err := service.Activate(ctx, "#ShapkaKrutoi", 6)
	if err != nil {
		t.Fatalf("activate after re-seed: %v", err)
	}
	if granted {
		t.Fatalf("used code must stay consumed across re-seeding")
	}
}

func TestActivateConcurrentSameCode(t *testing.T) {
	service, cleanup := newRedisService(t)
	defer cleanup()
	ctx := context.Background()

	if err := service.Seed(ctx, []string{"#VagueOwner"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			granted, err := service.Activate(ctx, "#VagueOwner", userID)
			if err != nil {
				t.Errorf("concurrent activate: %v", err)
				return
			}
			if granted {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(int64(i + 1))
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("expected exactly one activation winner, got %d", winners)
	}
}

func newRedisService(t *testing.T) (*Service, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	service := NewService(redrepo.NewAdminRepo(client))

	return service, func() {
		_ = client.Close()
		mr.Close()
	}
}
