package botapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/app/opsapp"
	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/config"
	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/domain/catalog"
	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/domain/enums"
	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/domain/rules"
	tginfra "github.com/MikuVocaloid1337/RiuChanReworkBot/internal/infra/telegram"
	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/jobs/retention"
	pgrepo "github.com/MikuVocaloid1337/RiuChanReworkBot/internal/repo/postgres"
	redrepo "github.com/MikuVocaloid1337/RiuChanReworkBot/internal/repo/redis"
	admsvc "github.com/MikuVocaloid1337/RiuChanReworkBot/internal/services/admincodes"
	listsvc "github.com/MikuVocaloid1337/RiuChanReworkBot/internal/services/listings"
	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/services/rate"
	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/services/roles"
	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/services/scamfilter"
)

type transportClient interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendMarkdown(ctx context.Context, chatID int64, text string) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

type roleChecker interface {
	Elevated(ctx context.Context, chatID, userID int64) (bool, error)
}

type listingStore interface {
	Submit(ctx context.Context, userID int64, displayName string, kind enums.ListingKind, rawLines []string) error
	List(ctx context.Context, kind enums.ListingKind) ([]listsvc.UserListings, error)
	Clear(ctx context.Context, userID int64, kind enums.ListingKind) error
}

type adminStore interface {
	Activate(ctx context.Context, code string, userID int64) (bool, error)
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

type App struct {
	cfg    config.Config
	logger *zap.Logger

	postgres *pgxpool.Pool
	redis    *goredis.Client
	bot      *tginfra.Bot

	transport transportClient
	roles     roleChecker
	limiter   *rate.Limiter
	filter    *scamfilter.Filter
	listings  listingStore
	admins    adminStore
	catalog   *catalog.Catalog

	retentionJob *retention.Job
	ops          *opsapp.App
	now          func() time.Time
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	listingRepo := pgrepo.NewListingRepo(pool)
	if err := listingRepo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure listings schema: %w", err)
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	adminRepo := redrepo.NewAdminRepo(redisClient)
	adminService := admsvc.NewService(adminRepo)
	if err := adminService.Seed(ctx, cfg.Bot.AdminCodes); err != nil {
		logger.Warn("seed admin codes failed", zap.Error(err))
	}

	var bot *tginfra.Bot
	if strings.TrimSpace(cfg.Bot.Token) != "" {
		bot, err = tginfra.NewBot(cfg.Bot.Token, cfg.Bot.PollTimeoutSeconds)
		if err != nil {
			pool.Close()
			_ = redisClient.Close()
			return nil, fmt.Errorf("init telegram bot: %w", err)
		}
	} else {
		logger.Warn("BOT_TOKEN is empty, message listener disabled")
	}

	listingService := listsvc.NewService(listingRepo)

	app := &App{
		cfg:      cfg,
		logger:   logger,
		postgres: pool,
		redis:    redisClient,
		bot:      bot,
		limiter: rate.NewLimiter(
			cfg.Moderation.RateLimit,
			cfg.Moderation.RateWindow,
			cfg.Moderation.BanTime,
		),
		filter:       scamfilter.New(rules.ScamKeywords, rules.ScamDomains, rules.ScamPatterns),
		listings:     listingService,
		admins:       adminService,
		catalog:      catalog.Default(),
		retentionJob: retention.New(listingService, cfg.Retention.MaxAge, logger),
		ops:          opsapp.New(cfg.HTTP, pool, redisClient, logger),
		now:          time.Now,
	}

	if bot != nil {
		app.transport = bot
		app.roles = roles.NewCache(bot, cfg.Moderation.RoleCacheTTL)
	}

	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("bot app started")

	errCh := make(chan error, 3)

	go func() {
		errCh <- a.ops.Run(ctx)
	}()
	go func() {
		errCh <- a.runRetentionLoop(ctx)
	}()
	if a.bot != nil {
		go func() {
			errCh <- a.bot.Listen(ctx, tginfra.Handlers{OnMessage: a.handleMessage})
		}()
	}

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("bot app stopped")
			return nil
		case err := <-errCh:
			if err == nil || errors.Is(err, context.Canceled) {
				continue
			}
			return err
		}
	}
}

// runRetentionLoop fires the sweep at the configured wall-clock hour every
// day. A failed sweep is logged and does not cancel the schedule.
func (a *App) runRetentionLoop(ctx context.Context) error {
	for {
		next := retention.NextRunAfter(a.now(), a.cfg.Retention.RunAtHour)
		timer := time.NewTimer(next.Sub(a.now()))

		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
			if err := a.retentionJob.Run(ctx); err != nil {
				a.logger.Error("retention sweep failed", zap.Error(err))
			}
		}
	}
}

func (a *App) Close() {
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis client", zap.Error(err))
		}
	}
}
