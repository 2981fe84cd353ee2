package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"devops-bot/internal/bot/commands"
	"devops-bot/internal/bot/middleware"
	"devops-bot/internal/cache"
	"devops-bot/internal/config"
	"devops-bot/internal/db"
	"devops-bot/internal/github"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
)

func main() {
	startedAt := time.Now()
	cfg := config.Load()

	client, err := github.NewClient(cfg.UpstreamToken, cfg.UpstreamRepo, cfg.GitHubAPIURL)
	if err != nil {
		log.Fatalf("Failed to create GitHub client: %v", err)
	}

	b, err := gotgbot.NewBot(cfg.ChatBotToken, nil)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *gotgbot.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			log.Printf("Error processing update: %v", err)
			return ext.DispatcherActionNoop
		},
	})
	updater := ext.NewUpdater(dispatcher, nil)

	var database *db.DB
	if cfg.RegistryEnabled() {
		database, err = db.Connect(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer func() { _ = database.Close(context.Background()) }()

		seen := cache.New[int64, time.Time]()
		go seen.Janitor(context.Background(), middleware.SeenTTL)
		dispatcher.AddHandlerToGroup(handlers.NewMessage(nil, middleware.TrackChat(database, seen)), -1)
		log.Printf("Chat registry enabled (database %s)", cfg.DatabaseName)
	}

	cmds := commands.NewDispatcher(client, cfg.UpstreamRepo, b.Id, startedAt)
	dispatcher.AddHandler(handlers.NewMessage(commands.IsCommand, cmds.HandleMessage))

	go func() {
		err := updater.StartPolling(b, &ext.PollingOpts{
			DropPendingUpdates: true,
			GetUpdatesOpts: &gotgbot.GetUpdatesOpts{
				Timeout: 9,
				RequestOpts: &gotgbot.RequestOpts{
					Timeout: time.Second * 10,
				},
			},
		})
		if err != nil {
			log.Fatalf("Failed to start polling: %v", err)
		}
	}()

	log.Printf("Bot started: @%s, watching %s", b.User.Username, cfg.UpstreamRepo)

	health := &healthPage{
		username: b.User.Username,
		repo:     cfg.UpstreamRepo,
		uptime:   cmds.Uptime,
	}
	if database != nil {
		health.chats = database
	}

	log.Printf("Server listening on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, health.routes()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
