package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgres starts a disposable Postgres, applies the schema and returns a handle.
func setupPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%s/testdb?sslmode=disable", host, port.Port())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(ctx, db))
	// Applying twice must be harmless.
	require.NoError(t, Migrate(ctx, db))

	return db
}

type testRepos struct {
	tx          *TxManager
	userRead    *UserReadRepository
	userWrite   *UserWriteRepository
	chatRead    *ChatReadRepository
	chatWrite   *ChatWriteRepository
	messageRead *MessageReadRepository
	msgWrite    *MessageWriteRepository
}

func newTestRepos(db *sqlx.DB) testRepos {
	return testRepos{
		tx:          NewTxManager(db),
		userRead:    NewUserReadRepository(db, GetTxFromContext),
		userWrite:   NewUserWriteRepository(db, GetTxFromContext),
		chatRead:    NewChatReadRepository(db, GetTxFromContext),
		chatWrite:   NewChatWriteRepository(db, GetTxFromContext),
		messageRead: NewMessageReadRepository(db, GetTxFromContext),
		msgWrite:    NewMessageWriteRepository(db, GetTxFromContext),
	}
}
