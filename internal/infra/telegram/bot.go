package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MessageUpdate is the transport-neutral view of one inbound text message.
type MessageUpdate struct {
	ChatID      int64
	ChatType    string
	MessageID   int
	UserID      int64
	Username    string
	DisplayName string
	Text        string
	IsCommand   bool
	Command     string
}

type Handlers struct {
	OnMessage func(context.Context, MessageUpdate) error
}

type Bot struct {
	api         *tgbotapi.BotAPI
	pollTimeout int
}

func NewBot(token string, pollTimeout int) (*Bot, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}
	if pollTimeout <= 0 {
		pollTimeout = 30
	}

	api, err := tgbotapi.NewBotAPI(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("create telegram bot api: %w", err)
	}

	return &Bot{
		api:         api,
		pollTimeout: pollTimeout,
	}, nil
}

func (b *Bot) Listen(ctx context.Context, handlers Handlers) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(updateCfg)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-updates:
			message := update.Message
			if message == nil || message.From == nil || message.Text == "" {
				continue
			}
			if handlers.OnMessage == nil {
				continue
			}

			err := handlers.OnMessage(ctx, MessageUpdate{
				ChatID:      message.Chat.ID,
				ChatType:    message.Chat.Type,
				MessageID:   message.MessageID,
				UserID:      message.From.ID,
				Username:    message.From.UserName,
				DisplayName: displayName(message.From),
				Text:        message.Text,
				IsCommand:   message.IsCommand(),
				Command:     message.Command(),
			})
			if err != nil {
				return err
			}
		}
	}
}

func (b *Bot) SendText(ctx context.Context, chatID int64, text string) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}

	return nil
}

func (b *Bot) SendMarkdown(ctx context.Context, chatID int64, text string) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send markdown message to chat %d: %w", chatID, err)
	}

	return nil
}

func (b *Bot) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("delete message %d in chat %d: %w", messageID, chatID, err)
	}

	return nil
}

// IsElevated reports whether the user is the chat owner or an administrator.
func (b *Bot) IsElevated(ctx context.Context, chatID, userID int64) (bool, error) {
	if b == nil || b.api == nil {
		return false, fmt.Errorf("telegram bot is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if err != nil {
		return false, fmt.Errorf("get chat member %d in chat %d: %w", userID, chatID, err)
	}

	return member.IsCreator() || member.IsAdministrator(), nil
}

func displayName(user *tgbotapi.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = strings.TrimSpace(user.UserName)
	}
	return name
}
