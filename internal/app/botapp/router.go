package botapp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/domain/enums"
	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/infra/telegram"
	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/metrics"
	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/services/listings"
	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/services/scamfilter"
)

// handleMessage is the single entry point for inbound messages. Failures
// are logged and swallowed so one bad message never stops the listener.
func (a *App) handleMessage(ctx context.Context, upd telegram.MessageUpdate) error {
	metrics.MessagesTotal.Inc()

	if err := a.processMessage(ctx, upd); err != nil {
		a.logger.Error("handle message",
			zap.Error(err),
			zap.Int64("chat_id", upd.ChatID),
			zap.Int64("user_id", upd.UserID),
		)
	}
	return nil
}

func (a *App) processMessage(ctx context.Context, upd telegram.MessageUpdate) error {
	suppressed, err := a.moderate(ctx, upd)
	if err != nil {
		return err
	}
	if suppressed {
		return nil
	}

	cmd := parseCommand(upd)
	if cmd.kind == cmdNone {
		if upd.ChatType == "private" {
			return a.relayBroadcast(ctx, upd)
		}
		return nil
	}

	return a.dispatch(ctx, upd, cmd)
}

// moderate runs the rate limiter and then the scam filter for group
// messages. Elevated chat members bypass both stages; the role check
// happens before any state mutation. A failed role lookup is treated as a
// regular member (fail closed) and logged.
func (a *App) moderate(ctx context.Context, upd telegram.MessageUpdate) (bool, error) {
	if upd.ChatType != "group" && upd.ChatType != "supergroup" {
		return false, nil
	}

	elevated := false
	if a.roles != nil {
		var err error
		elevated, err = a.roles.Elevated(ctx, upd.ChatID, upd.UserID)
		if err != nil {
			elevated = false
			a.logger.Warn("role lookup failed, treating sender as regular member",
				zap.Error(err),
				zap.Int64("chat_id", upd.ChatID),
				zap.Int64("user_id", upd.UserID),
			)
		}
	}
	if elevated {
		return false, nil
	}

	decision, err := a.limiter.Admit(upd.UserID, a.now())
	if err != nil {
		return false, fmt.Errorf("admit message: %w", err)
	}
	if !decision.Allowed {
		metrics.RateLimited.Inc()
		if decision.FirstReject {
			warning := fmt.Sprintf("%s, слишком много сообщений. Бан на %d сек.", upd.DisplayName, decision.RetryAfterSec)
			if err := a.transport.SendText(ctx, upd.ChatID, warning); err != nil {
				a.logger.Warn("send rate limit warning", zap.Error(err), zap.Int64("chat_id", upd.ChatID))
			}
		}
		return true, nil
	}

	verdict := a.filter.Classify(upd.Text)
	if !verdict.Flagged {
		return false, nil
	}

	metrics.ScamDeleted.WithLabelValues(string(verdict.Reason)).Inc()
	if err := a.transport.DeleteMessage(ctx, upd.ChatID, upd.MessageID); err != nil {
		a.logger.Warn("delete flagged message", zap.Error(err), zap.Int64("chat_id", upd.ChatID), zap.Int("message_id", upd.MessageID))
	}

	warning := msgScamPattern
	switch verdict.Reason {
	case scamfilter.ReasonKeyword:
		warning = fmt.Sprintf("%s, сообщение удалено: похоже на спам.", upd.DisplayName)
	case scamfilter.ReasonDomain:
		warning = msgScamDomain
	}
	if err := a.transport.SendText(ctx, upd.ChatID, warning); err != nil {
		a.logger.Warn("send scam warning", zap.Error(err), zap.Int64("chat_id", upd.ChatID))
	}

	return true, nil
}

func (a *App) dispatch(ctx context.Context, upd telegram.MessageUpdate, cmd command) error {
	switch cmd.kind {
	case cmdStart:
		return a.transport.SendText(ctx, upd.ChatID, msgStart)
	case cmdHelp:
		return a.transport.SendText(ctx, upd.ChatID, msgHelp)
	case cmdAddTrade:
		return a.handleSubmit(ctx, upd, enums.KindTrade, cmd.lines, msgTradeAdded)
	case cmdAddLook:
		return a.handleSubmit(ctx, upd, enums.KindLook, cmd.lines, msgLookAdded)
	case cmdShowTrade:
		return a.handleShow(ctx, upd, enums.KindTrade, msgTradeHeader, msgTradeEmpty)
	case cmdShowLook:
		return a.handleShow(ctx, upd, enums.KindLook, msgLookHeader, msgLookEmpty)
	case cmdClearTrade:
		return a.handleClear(ctx, upd, enums.KindTrade, msgTradeCleared)
	case cmdClearLook:
		return a.handleClear(ctx, upd, enums.KindLook, msgLookCleared)
	case cmdCatalog:
		return a.transport.SendMarkdown(ctx, upd.ChatID, a.catalog.Render())
	case cmdAdminCode:
		return a.handleAdminCode(ctx, upd, cmd.code)
	default:
		return nil
	}
}

func (a *App) handleSubmit(ctx context.Context, upd telegram.MessageUpdate, kind enums.ListingKind, lines []string, ack string) error {
	err := a.listings.Submit(ctx, upd.UserID, upd.DisplayName, kind, lines)
	if err != nil {
		if errors.Is(err, listings.ErrValidation) {
			return a.transport.SendText(ctx, upd.ChatID, err.Error())
		}
		return fmt.Errorf("submit %s listing: %w", kind, err)
	}

	metrics.ListingsCreated.Add(float64(len(lines)))
	return a.transport.SendText(ctx, upd.ChatID, ack)
}

func (a *App) handleShow(ctx context.Context, upd telegram.MessageUpdate, kind enums.ListingKind, header, emptyMsg string) error {
	grouped, err := a.listings.List(ctx, kind)
	if err != nil {
		return fmt.Errorf("list %s listings: %w", kind, err)
	}

	if len(grouped) == 0 {
		return a.transport.SendText(ctx, upd.ChatID, emptyMsg)
	}

	return a.transport.SendMarkdown(ctx, upd.ChatID, formatListings(header, grouped))
}

func (a *App) handleClear(ctx context.Context, upd telegram.MessageUpdate, kind enums.ListingKind, ack string) error {
	if err := a.listings.Clear(ctx, upd.UserID, kind); err != nil {
		return fmt.Errorf("clear %s listings: %w", kind, err)
	}

	return a.transport.SendText(ctx, upd.ChatID, ack)
}

func (a *App) handleAdminCode(ctx context.Context, upd telegram.MessageUpdate, code string) error {
	granted, err := a.admins.Activate(ctx, code, upd.UserID)
	if err != nil {
		return fmt.Errorf("activate admin code: %w", err)
	}
	if !granted {
		// Unknown or already consumed code: stay silent, like any other
		// unrecognized message.
		return nil
	}

	return a.transport.SendText(ctx, upd.ChatID, msgAdminGranted)
}

// relayBroadcast forwards a private-chat message from a bot-local admin to
// every configured broadcast chat.
func (a *App) relayBroadcast(ctx context.Context, upd telegram.MessageUpdate) error {
	if len(a.cfg.Bot.BroadcastChatIDs) == 0 {
		return nil
	}

	isAdmin, err := a.admins.IsAdmin(ctx, upd.UserID)
	if err != nil {
		return fmt.Errorf("check broadcast sender: %w", err)
	}
	if !isAdmin {
		return nil
	}

	for _, chatID := range a.cfg.Bot.BroadcastChatIDs {
		if err := a.transport.SendText(ctx, chatID, upd.Text); err != nil {
			a.logger.Warn("broadcast relay failed", zap.Error(err), zap.Int64("target_chat_id", chatID))
		}
	}

	return nil
}

func formatListings(header string, grouped []listings.UserListings) string {
	var b strings.Builder
	b.WriteString(header)
	for _, group := range grouped {
		name := group.DisplayName
		if name == "" {
			name = strconv.FormatInt(group.UserID, 10)
		}
		fmt.Fprintf(&b, "\n*%s*:", name)
		for _, item := range group.Items {
			fmt.Fprintf(&b, "\n- %s", item)
		}
	}
	return b.String()
}
