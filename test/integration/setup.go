package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vncsmyrnk/livepoll/internal/adapters/broadcast"
	handler "github.com/vncsmyrnk/livepoll/internal/adapters/handler/http"
	repo "github.com/vncsmyrnk/livepoll/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
	"github.com/vncsmyrnk/livepoll/internal/core/services"
)

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	VoteStore   ports.VoteStore
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		fullPath := filepath.Join(dirPath, entry.Name())
		content, err := os.ReadFile(fullPath)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		_, err = db.Exec(string(content))
		if err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	ctx := context.Background()

	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	err = applyMigrations(db)
	require.NoError(t, err)

	pollRepo := repo.NewPollRepository(db)
	voteRepo := repo.NewVoteRepository(db)
	hub := broadcast.NewHub(zerolog.Nop())

	voteSvc := services.NewVoteService(pollRepo, voteRepo, hub)
	resultSvc := services.NewResultService(pollRepo, voteRepo)

	router := handler.NewHandler(
		handler.NewVoteHandler(voteSvc),
		handler.NewResultHandler(resultSvc),
		handler.NewEventsHandler(hub, pollRepo),
	)

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		VoteStore:   voteRepo,
		DBContainer: dbContainer,
	}
}

// seedPoll inserts a poll and its options directly, standing in for the
// poll-management service that owns these tables.
func (app *TestApp) seedPoll(t *testing.T, code string, choiceMode string, closed bool, labels ...string) (uuid.UUID, []uuid.UUID) {
	t.Helper()

	pollID := uuid.New()
	_, err := app.DB.Exec(
		"INSERT INTO polls (id, code, question, choice_mode, closed) VALUES ($1, $2, $3, $4, $5)",
		pollID, code, "Which one?", choiceMode, closed,
	)
	require.NoError(t, err)

	optionIDs := make([]uuid.UUID, 0, len(labels))
	for i, label := range labels {
		optionID := uuid.New()
		_, err := app.DB.Exec(
			"INSERT INTO poll_options (id, poll_id, label, display_order) VALUES ($1, $2, $3, $4)",
			optionID, pollID, label, i,
		)
		require.NoError(t, err)
		optionIDs = append(optionIDs, optionID)
	}

	return pollID, optionIDs
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}
