package commands

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	gh "devops-bot/internal/github"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

type apiRequest struct {
	method string
	params map[string]any
}

// fakeBotClient records Bot API requests instead of sending them.
type fakeBotClient struct {
	mu       sync.Mutex
	requests []apiRequest
	err      error
}

func (f *fakeBotClient) RequestWithContext(_ context.Context, _ string, method string, params map[string]any, _ *gotgbot.RequestOpts) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, apiRequest{method: method, params: params})
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"message_id":1,"date":0,"chat":{"id":10,"type":"group"}}`), nil
}

func (f *fakeBotClient) GetAPIURL(*gotgbot.RequestOpts) string {
	return gotgbot.DefaultAPIURL
}

func (f *fakeBotClient) FileURL(string, string, *gotgbot.RequestOpts) string {
	return ""
}

func newTestBot(client *fakeBotClient) *gotgbot.Bot {
	return &gotgbot.Bot{
		Token:     "123:test",
		User:      gotgbot.User{Id: botID, IsBot: true, Username: "devopsbot"},
		BotClient: client,
	}
}

func incoming(b *gotgbot.Bot, from *gotgbot.User, text string) *ext.Context {
	return ext.NewContext(b, &gotgbot.Update{
		UpdateId: 1,
		Message: &gotgbot.Message{
			MessageId: 5,
			From:      from,
			Chat:      gotgbot.Chat{Id: 10, Type: "group"},
			Text:      text,
		},
	}, nil)
}

func TestHandleMessageSendsOneReply(t *testing.T) {
	client := &fakeBotClient{}
	b := newTestBot(client)
	d := newTestDispatcher(&fakeAPI{})

	err := d.HandleMessage(b, incoming(b, &gotgbot.User{Id: 1, FirstName: "Ada"}, "!ping"))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	if len(client.requests) != 1 {
		t.Fatalf("sent %d requests, want 1", len(client.requests))
	}
	req := client.requests[0]
	if req.method != "sendMessage" {
		t.Errorf("method = %s, want sendMessage", req.method)
	}
	if req.params["chat_id"] != int64(10) {
		t.Errorf("chat_id = %v, want 10", req.params["chat_id"])
	}
	if req.params["text"] != gh.NormalizeMessage("🏓 Pong\\!") {
		t.Errorf("text = %v", req.params["text"])
	}
	if req.params["parse_mode"] != "MarkdownV2" {
		t.Errorf("parse_mode = %v, want MarkdownV2", req.params["parse_mode"])
	}
	preview, ok := req.params["link_preview_options"].(*gotgbot.LinkPreviewOptions)
	if !ok || !preview.IsDisabled {
		t.Errorf("link_preview_options = %#v, want previews disabled", req.params["link_preview_options"])
	}
}

func TestHandleMessageUsesSenderName(t *testing.T) {
	client := &fakeBotClient{}
	b := newTestBot(client)
	d := newTestDispatcher(&fakeAPI{})

	_ = d.HandleMessage(b, incoming(b, &gotgbot.User{Id: 1, FirstName: "Ada", LastName: "L."}, "!hello"))

	if len(client.requests) != 1 {
		t.Fatalf("sent %d requests, want 1", len(client.requests))
	}
	if got := client.requests[0].params["text"]; got != "Hello, Ada L\\. 👋" {
		t.Errorf("text = %v", got)
	}
}

func TestHandleMessageSendsNothing(t *testing.T) {
	tests := []struct {
		name string
		from *gotgbot.User
		text string
	}{
		{name: "unknown command", from: &gotgbot.User{Id: 1}, text: "!nope"},
		{name: "plain text", from: &gotgbot.User{Id: 1}, text: "status please"},
		{name: "own message", from: &gotgbot.User{Id: botID, IsBot: true}, text: "!ping"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeBotClient{}
			b := newTestBot(client)
			api := &fakeAPI{}
			d := newTestDispatcher(api)

			if err := d.HandleMessage(b, incoming(b, tt.from, tt.text)); err != nil {
				t.Fatalf("HandleMessage() error = %v", err)
			}
			if len(client.requests) != 0 {
				t.Errorf("sent %d requests, want none", len(client.requests))
			}
			if len(api.calls) != 0 {
				t.Errorf("issued API calls: %v", api.calls)
			}
		})
	}
}

func TestHandleMessageSendFailureIsLogged(t *testing.T) {
	client := &fakeBotClient{err: errors.New("telegram down")}
	b := newTestBot(client)
	d := newTestDispatcher(&fakeAPI{})

	if err := d.HandleMessage(b, incoming(b, &gotgbot.User{Id: 1}, "!version")); err != nil {
		t.Errorf("HandleMessage() error = %v, want nil", err)
	}
	if len(client.requests) != 1 {
		t.Errorf("sent %d requests, want exactly 1 with no retry", len(client.requests))
	}
}

func TestIsCommand(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{text: "!status", want: true},
		{text: "  !help", want: true},
		{text: "status", want: false},
		{text: "", want: false},
		{text: "/start", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := IsCommand(&gotgbot.Message{Text: tt.text}); got != tt.want {
				t.Errorf("IsCommand(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
