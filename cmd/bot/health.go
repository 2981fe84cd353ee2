package main

import (
	"context"
	"fmt"
	"html"
	"log"
	"net/http"
	"time"

	"devops-bot/internal/github"
)

// chatCounter reports how many chats the registry holds.
type chatCounter interface {
	CountChats(ctx context.Context) (int64, error)
}

type healthPage struct {
	username string
	repo     string
	uptime   func() int
	// chats is nil when the registry is disabled.
	chats chatCounter
}

func (h *healthPage) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.index)
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = writer.Write([]byte("ok"))
	})
	return mux
}

func (h *healthPage) index(writer http.ResponseWriter, request *http.Request) {
	if request.URL.Path != "/" {
		http.NotFound(writer, request)
		return
	}

	chatsLine := ""
	if h.chats != nil {
		ctx, cancel := context.WithTimeout(request.Context(), 5*time.Second)
		defer cancel()
		if n, err := h.chats.CountChats(ctx); err != nil {
			log.Printf("Failed to count chats: %v", err)
		} else {
			chatsLine = fmt.Sprintf("\n\t\t\t<p>Chats: %d</p>", n)
		}
	}

	page := fmt.Sprintf(`
		<html>
		<head><title>DevOps Bot</title></head>
		<body style="font-family: sans-serif; text-align: center; padding: 50px;">
			<h1>DevOps Bot</h1>
			<p>The bot is running and watching <b>%s</b>.</p>
			<p>Uptime: %s</p>%s
			<p><a href="https://t.me/%s" style="text-decoration: none; background-color: #0088cc; color: white; padding: 10px 20px; border-radius: 5px;">Open in Telegram</a></p>
		</body>
		</html>`,
		html.EscapeString(h.repo),
		html.EscapeString(github.FormatDuration(h.uptime())),
		chatsLine,
		html.EscapeString(h.username),
	)
	writer.Header().Set("Content-Type", "text/html")
	_, _ = writer.Write([]byte(page))
}
