package integration

import (
	"context"
	"testing"
	"time"

	"bidkart/internal/kvstore"

	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestStore is a Postgres-backed key-value store running in a container.
type TestStore struct {
	Container *postgres.PostgresContainer
	Store     kvstore.Store
	ConnStr   string
}

// SetupTestStore starts a PostgreSQL container and opens a key-value store
// against it. The schema is created by the store itself.
func SetupTestStore(t *testing.T) *TestStore {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	store, err := kvstore.NewPostgresStore(ctx, kvstore.PostgresConfig{
		ConnString:     connStr,
		MaxConnections: 10,
		MinConnections: 2,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestStore{
		Container: postgresContainer,
		Store:     store,
		ConnStr:   connStr,
	}
}
