package middleware

import (
	"context"
	"log"
	"time"

	"devops-bot/internal/cache"
	"devops-bot/internal/models"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// SeenTTL is how long a chat is considered recorded before it is written again.
const SeenTTL = time.Hour

// ChatStore persists chats the bot has been used in.
type ChatStore interface {
	UpsertChat(ctx context.Context, chat *models.Chat) error
}

// TrackChat records the chat of every incoming message, at most once per
// SeenTTL per chat. Failures are logged and never stop the update.
func TrackChat(store ChatStore, seen *cache.Cache[int64, time.Time]) func(b *gotgbot.Bot, ctx *ext.Context) error {
	return func(b *gotgbot.Bot, ctx *ext.Context) error {
		if ctx.EffectiveChat == nil {
			return nil
		}

		dbChat := ChatFromTelegram(ctx.EffectiveChat, time.Now())
		if !seen.Remember(dbChat.ID, dbChat.LastSeen, SeenTTL) {
			return nil
		}

		go func() {
			upsertCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := store.UpsertChat(upsertCtx, dbChat); err != nil {
				log.Printf("Failed to record chat %d: %v", dbChat.ID, err)
				seen.Delete(dbChat.ID)
			}
		}()
		return nil
	}
}

// ChatFromTelegram converts a Telegram chat to its stored form. Private chats
// have no title and fall back to the username.
func ChatFromTelegram(c *gotgbot.Chat, now time.Time) *models.Chat {
	chat := &models.Chat{
		ID:       c.Id,
		ChatType: c.Type,
		Title:    c.Title,
		LastSeen: now,
	}
	if chat.Title == "" {
		chat.Title = c.Username
	}
	return chat
}
