package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"wenbucks-go/cogs"
	"wenbucks-go/utils"

	"github.com/bwmarrin/discordgo"
)

var botStatus atomic.Value

func main() {
	botStatus.Store("starting")

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	store, err := cfg.OpenStore(ctx)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	log.Printf("Using %s store for %s", cfg.StoreDriver, utils.CurrencyName)

	ledger := utils.NewLedger(store)
	if err := ledger.Load(ctx); err != nil {
		store.Close()
		log.Fatalf("Failed to load %s: %v", utils.CurrencyName, err)
	}
	log.Printf("Loaded %d accounts", ledger.Size())

	// Create Discord session
	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		store.Close()
		log.Fatalf("Failed to create Discord session: %v", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	casino := cogs.NewCasino(ledger, session, cogs.CasinoOptions{
		RewardChannelID: cfg.RewardChannelID,
		Cooldown:        cfg.SessionCooldown,
		SessionTTL:      cfg.SessionTTL,
	})

	// Add event handlers
	session.AddHandler(onReady)
	session.AddHandler(casino.OnMessageCreate)
	session.AddHandler(casino.OnInteractionCreate)

	healthServer := startHealthServer(cfg.Port, casino)

	// Open Discord connection
	if err := session.Open(); err != nil {
		store.Close()
		log.Fatalf("Failed to open Discord connection: %v", err)
	}

	casino.StartSweeper(cfg.SessionSweepInterval)

	log.Println("Bot is now running. Press CTRL+C to exit.")
	botStatus.Store("running")

	// Wait for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop

	log.Println("Gracefully shutting down...")
	botStatus.Store("shutting_down")

	casino.Close()
	if err := session.Close(); err != nil {
		log.Printf("Error closing Discord session: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Health server shutdown error: %v", err)
	}

	if err := ledger.Persist(shutdownCtx); err != nil {
		log.Printf("Failed to save %s on shutdown: %v", utils.CurrencyName, err)
	}
	if err := store.Close(); err != nil {
		log.Printf("Error closing store: %v", err)
	}
}

func onReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Printf("✅ Discord Bot logged in as %s (ID: %s)", event.User.Username, event.User.ID)
	botStatus.Store("online")

	if err := s.UpdateGameStatus(0, "$casino"); err != nil {
		log.Printf("Failed to update status: %v", err)
	}

	// Register slash commands
	commands := cogs.RegisterCasinoCommands()
	for _, command := range commands {
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, "", command); err != nil {
			log.Printf("Failed to create command %s: %v", command.Name, err)
			return
		}
	}
	log.Printf("Successfully registered %d slash commands", len(commands))
}

func startHealthServer(port string, casino *cogs.Casino) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Discord Bot Status: " + botStatus.Load().(string)))
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":     "healthy",
			"service":    "discord-bot",
			"bot_status": botStatus.Load().(string),
			"stats":      casino.Stats(),
		})
	})

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("Health server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Health server error: %v", err)
		}
	}()
	return server
}
