package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vncsmyrnk/livepoll/internal/adapters/broadcast"
	"github.com/vncsmyrnk/livepoll/internal/adapters/handler/http"
	"github.com/vncsmyrnk/livepoll/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/livepoll/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
	"github.com/vncsmyrnk/livepoll/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found")
	}
	configureLogger()

	var (
		polls ports.PollDirectory
		votes ports.VoteStore
	)

	if os.Getenv("POSTGRES_HOST") != "" {
		db, err := sql.Open("postgres", dbConnString())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open database")
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("failed to reach database")
		}

		polls = postgres.NewPollRepository(db)
		votes = postgres.NewVoteRepository(db)
	} else {
		log.Warn().Msg("POSTGRES_HOST not set, using in-memory storage")
		directory := memory.NewPollDirectory()
		seedDemoPoll(directory)
		polls = directory
		votes = memory.NewVoteStore()
	}

	hub := broadcast.NewHub(log.With().Str("component", "hub").Logger())

	voteService := services.NewVoteService(polls, votes, hub)
	resultService := services.NewResultService(polls, votes)

	handler := http.NewHandler(
		http.NewVoteHandler(voteService),
		http.NewResultHandler(resultService),
		http.NewEventsHandler(hub, polls),
	)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	server := &stdhttp.Server{Addr: "0.0.0.0:" + port, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("shutdown failed")
	}
}

func configureLogger() {
	zerolog.TimeFieldFormat = time.DateTime

	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && os.Getenv("LOG_LEVEL") != "" {
		level = parsed
	}

	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.DateTime,
	}

	log.Logger = zerolog.New(console).
		With().
		Timestamp().
		Logger().
		Level(level)
}

func dbConnString() string {
	user := os.Getenv("POSTGRES_USER")
	password := os.Getenv("POSTGRES_PASSWORD")
	host := os.Getenv("POSTGRES_HOST")
	port := os.Getenv("POSTGRES_PORT")
	dbName := os.Getenv("POSTGRES_DB")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbName)
}

func seedDemoPoll(directory *memory.PollDirectory) {
	pollID := uuid.New()
	directory.Seed(domain.Poll{
		ID:         pollID,
		Code:       "DEMO",
		Question:   "Which color?",
		ChoiceMode: domain.SingleChoice,
		CreatedAt:  time.Now(),
		Options: []domain.PollOption{
			{ID: uuid.New(), PollID: pollID, Label: "Red", DisplayOrder: 0},
			{ID: uuid.New(), PollID: pollID, Label: "Blue", DisplayOrder: 1},
		},
	})
	log.Info().Str("code", "DEMO").Msg("seeded demo poll")
}
