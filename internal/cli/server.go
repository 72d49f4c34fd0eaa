package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"popquiz-service/internal/app"
	"popquiz-service/internal/config"
	"popquiz-service/internal/domain"
	filestore "popquiz-service/internal/infra/file"
	"popquiz-service/internal/infra/memory"
	pgbank "popquiz-service/internal/infra/postgres"
	redisstore "popquiz-service/internal/infra/redis"
	transport "popquiz-service/internal/transport/http"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(sampleQuestions())
	switch {
	case pool != nil:
		loader = pgbank.NewBankLoader(pool, cfg.Bank.Name)
	case cfg.Bank.Path != "":
		loader = filestore.NewBankLoader(cfg.Bank.Path)
	}
	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	bankRepo := memory.NewBankRepository(loader, bankTTL)

	var store app.LeaderboardStore = filestore.NewLeaderboardStore(cfg.LeaderboardPath())
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = redisstore.NewLeaderboardStore(client)
	}

	service := app.NewQuizService(bankRepo, store, cfg.Quiz.DefaultCount)
	handler := transport.NewHandler(service, cfg.Quiz.RevealAnswers)

	router := mux.NewRouter()
	handler.Register(router)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuestions is the built-in demo bank used when neither a bank file
// nor Postgres is configured.
func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: 1, Text: "What is 2 + 2?", Choices: []string{"3", "4", "5", "22"}, Answer: 1},
		{ID: 2, Text: "Which planet is largest?", Choices: []string{"Earth", "Saturn", "Jupiter"}, Answer: 2},
		{ID: 3, Text: "What is the capital of France?", Choices: []string{"Lyon", "Paris", "Marseille"}, Answer: 1},
		{ID: 4, Text: "How many continents are there?", Choices: []string{"5", "6", "7"}, Answer: 2},
		{ID: 5, Text: "Which language is this service written in?", Choices: []string{"Rust", "Go", "Python"}, Answer: 1},
		{ID: 6, Text: "What does HTTP stand for?", Choices: []string{"HyperText Transfer Protocol", "High Throughput Transfer Process"}, Answer: 0},
		{ID: 7, Text: "What is 9 * 7?", Choices: []string{"56", "63", "72"}, Answer: 1},
		{ID: 8, Text: "Which ocean is the largest?", Choices: []string{"Atlantic", "Indian", "Pacific"}, Answer: 2},
		{ID: 9, Text: "What year did the web go public?", Choices: []string{"1989", "1991", "1995"}, Answer: 1},
		{ID: 10, Text: "Which of these is a prime number?", Choices: []string{"21", "27", "31"}, Answer: 2},
	}
}
