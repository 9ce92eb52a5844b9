package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gregdel/pushover"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/showdeck/showdeck/cards"
	"github.com/showdeck/showdeck/config"
	"github.com/showdeck/showdeck/content"
	"github.com/showdeck/showdeck/db"
	"github.com/showdeck/showdeck/events"
	"github.com/showdeck/showdeck/migrations"
	"github.com/showdeck/showdeck/mockup"
	"github.com/showdeck/showdeck/playback"
	"github.com/showdeck/showdeck/render"
	"github.com/showdeck/showdeck/utils"
)

func main() {

	if err := godotenv.Load(); err != nil {
		fmt.Println(err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.GetLogLevel(),
	}))
	slog.SetDefault(logger)

	if utils.GetEnv("RESET_DB", "0") == "1" {
		if err := os.Remove(cfg.Showdeck.DbPath); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}

	database := db.Initialize(cfg)

	goose.SetBaseFS(migrations.GetMigrations())

	if err := goose.SetDialect("sqlite3"); err != nil {
		panic(err)
	}

	if err := goose.Up(database.DB, "."); err != nil {
		panic(err)
	}

	events.Init()

	store := playback.NewStore(database)
	coord := playback.NewCoordinator(store, events.Publish)

	// one factory for both render-time handles and placeholder activations,
	// so every player is keyed exactly like its registry entry
	players := render.PlayerFactory(func(cardID string, kind mockup.Kind, src string, clip *playback.Clip) playback.Player {
		id := playback.GenerateHandleID(cardID, kind, src)
		return playback.NewRemotePlayer(id, events.Publish)
	})
	renderer := render.New(players)

	covers := content.NewCovers(cfg.Showdeck.StorageDir)
	factory := cards.NewFactory(renderer, coord, covers.Ensure)
	deck := cards.NewDeck()

	client := content.NewClient(cfg.Content.BaseURL)
	refresher := content.NewRefresher(client, factory, deck, coord, events.Publish, cfg.Content.SortBy, buildNotifier(cfg))

	if err := refresher.Refresh(); err != nil {
		// the deck stays empty until the first successful refresh
		slog.Warn("Initial content refresh failed", slog.Any("error", err))
	}

	jobScheduler, err := SetupInBackground(cfg, refresher)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if cfg.Showdeck.BackgroundJobsEnabled {
		jobScheduler.Start()
		fmt.Println("Background jobs have started up in the background.")
	} else {
		fmt.Println("Background jobs are disabled.")
	}

	router := RegisterRoutes(http.NewServeMux(), cfg, deck, coord, store, refresher, covers, players)

	fmt.Printf("Showdeck is running at http://localhost:%s\n", cfg.Showdeck.Port)

	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Showdeck.Port), router); err != nil {
		fmt.Println(err)
		jobScheduler.Shutdown()
		os.Exit(1)
	}
}

func buildNotifier(cfg config.Config) content.NotifyFunc {
	if cfg.Pushover.Token == "" || cfg.Pushover.Recipient == "" {
		return nil
	}
	app := pushover.New(cfg.Pushover.Token)
	recipient := pushover.NewRecipient(cfg.Pushover.Recipient)
	return func(title, message string) {
		msg := &pushover.Message{
			Message:    message,
			Title:      title,
			Priority:   pushover.PriorityHigh,
			Timestamp:  time.Now().Unix(),
			DeviceName: "Showdeck",
		}
		if _, err := app.SendMessage(msg, recipient); err != nil {
			slog.Error("Failed to send pushover notification", slog.Any("error", err))
		}
	}
}
