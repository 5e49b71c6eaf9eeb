//go:build integration

package sequences_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/libris/internal/dbx"
	"github.com/dmitrijs2005/libris/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/libris/internal/server/repositories/sequences"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const pgPort = "5432/tcp"

func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{pgPort},
		Env: map[string]string{
			"POSTGRES_USER":     "libris",
			"POSTGRES_PASSWORD": "libris",
			"POSTGRES_DB":       "libris",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(pgPort),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(90 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, pgPort)
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://libris:libris@%s:%s/libris?sslmode=disable", host, port.Port())
	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(32)
	t.Cleanup(func() { _ = db.Close() })

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	require.NoError(t, err)
	require.NoError(t, rm.RunMigrations(ctx, db))

	return db
}

func TestNext_ConcurrentAllocationsAreGapFree(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	const workers = 50

	var (
		mu  sync.Mutex
		got []int64
		wg  sync.WaitGroup
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := dbx.WithTxValue(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) (int64, error) {
				return sequences.NewPostgresRepository(tx).Next(ctx, "MEM")
			})
			if err != nil {
				t.Errorf("Next: %v", err)
				return
			}
			mu.Lock()
			got = append(got, n)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	require.Len(t, got, workers)
	for i, n := range got {
		require.Equal(t, int64(i+1), n, "allocation %d", i)
	}
}

func TestNext_RolledBackAllocationIsReused(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := sequences.NewPostgresRepository(tx).Next(ctx, "LIB")
		require.NoError(t, err)
		require.Equal(t, int64(1), n)
		return errors.New("abort")
	})
	require.Error(t, err)

	n, err := sequences.NewPostgresRepository(db).Next(ctx, "LIB")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	// scopes are independent
	n, err = sequences.NewPostgresRepository(db).Next(ctx, "ADM")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}
