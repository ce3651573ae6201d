package redis

import (
	"context"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"
)

const (
	codesKey     = "admin:codes"
	usedCodesKey = "admin:codes:used"
	adminsKey    = "admin:users"
)

// consumeScript removes the code and grants admin status in one atomic step,
// so two users submitting the same code concurrently cannot both be admitted.
// Used codes are remembered so a restart does not resurrect them on re-seed.
const consumeScript = `
local removed = redis.call("SREM", KEYS[1], ARGV[1])
if removed == 1 then
	redis.call("SADD", KEYS[2], ARGV[1])
	redis.call("SADD", KEYS[3], ARGV[2])
	return 1
end
return 0
`

type AdminRepo struct {
	client *goredis.Client
}

func NewAdminRepo(client *goredis.Client) *AdminRepo {
	return &AdminRepo{client: client}
}

// SeedCodes adds activation codes to the available pool.
func (r *AdminRepo) SeedCodes(ctx context.Context, codes []string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if len(codes) == 0 {
		return nil
	}

	for _, code := range codes {
		used, err := r.client.SIsMember(ctx, usedCodesKey, code).Result()
		if err != nil {
			return fmt.Errorf("check used admin code: %w", err)
		}
		if used {
			continue
		}
		if err := r.client.SAdd(ctx, codesKey, code).Err(); err != nil {
			return fmt.Errorf("seed admin code: %w", err)
		}
	}

	return nil
}

// ConsumeCode atomically removes the code from the pool and marks the user
// as admin. Returns false when the code was never issued or already used.
func (r *AdminRepo) ConsumeCode(ctx context.Context, code string, userID int64) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	if code == "" || userID <= 0 {
		return false, fmt.Errorf("invalid admin code payload")
	}

	raw, err := r.client.Eval(ctx, consumeScript, []string{codesKey, usedCodesKey, adminsKey}, code, strconv.FormatInt(userID, 10)).Result()
	if err != nil {
		return false, fmt.Errorf("consume admin code: %w", err)
	}

	granted, ok := raw.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected consume script result %T", raw)
	}

	return granted == 1, nil
}

func (r *AdminRepo) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	if userID <= 0 {
		return false, fmt.Errorf("invalid user id")
	}

	member, err := r.client.SIsMember(ctx, adminsKey, strconv.FormatInt(userID, 10)).Result()
	if err != nil {
		return false, fmt.Errorf("check admin membership: %w", err)
	}

	return member, nil
}
