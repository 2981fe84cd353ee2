package commands

import (
	"context"
	"log"
	"strings"

	gh "devops-bot/internal/github"
	"devops-bot/internal/utils"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// IsCommand is the message filter for the dispatcher's Telegram handler.
func IsCommand(msg *gotgbot.Message) bool {
	return strings.HasPrefix(strings.TrimSpace(msg.GetText()), "!")
}

// HandleMessage adapts a Telegram update to Dispatch and sends the reply back
// to the originating chat.
func (d *Dispatcher) HandleMessage(b *gotgbot.Bot, ctx *ext.Context) error {
	in := Message{
		ChatID: ctx.EffectiveChat.Id,
		Text:   ctx.EffectiveMessage.GetText(),
	}
	if u := ctx.EffectiveUser; u != nil {
		in.SenderID = u.Id
		in.SenderName = utils.DisplayName(u)
	}

	reply, ok := d.Dispatch(context.Background(), in)
	if !ok {
		return nil
	}

	_, err := b.SendMessage(in.ChatID, gh.NormalizeMessage(reply), &gotgbot.SendMessageOpts{
		ParseMode: "MarkdownV2",
		LinkPreviewOptions: &gotgbot.LinkPreviewOptions{
			IsDisabled: true,
		},
	})
	if err != nil {
		log.Printf("Error sending reply to chat %d: %v", in.ChatID, err)
	}
	return nil
}
