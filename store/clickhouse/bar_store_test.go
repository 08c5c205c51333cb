package clickhouse

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/store"
)

// setupTestDB starts a ClickHouse container and migrates it.
func setupTestDB(t *testing.T) (*Conn, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "clickhouse/clickhouse-server:24.1-alpine",
		ExposedPorts: []string{"9000/tcp", "8123/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Application: Ready for connections").
				WithStartupTimeout(60*time.Second),
			wait.ForListeningPort("9000/tcp"),
		),
		Env: map[string]string{
			"CLICKHOUSE_DB":       "test",
			"CLICKHOUSE_USER":     "default",
			"CLICKHOUSE_PASSWORD": "",
		},
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	conn, err := NewConn(ctx, fmt.Sprintf("clickhouse://%s:%s/test", host, port.Port()))
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, conn))

	cleanup := func() {
		conn.Close()
		_ = container.Terminate(ctx)
	}
	return conn, cleanup
}

func TestBarStore_InsertAndQuery(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	s := NewBarStore(conn)
	ctx := context.Background()
	t0 := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

	_, err := s.Coverage(ctx, "ES", "M5")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.InsertBulk(ctx, "ES", "M5", nil))

	bars := market.Bars{
		{Time: t0, Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 10},
		{Time: t0.Add(5 * time.Minute), Open: 100.5, High: 102, Low: 100, Close: 101, Volume: 12},
		{Time: t0.Add(10 * time.Minute), Open: 101, High: 101.5, Low: 100.25, Close: 101.25, Volume: 8},
	}
	require.NoError(t, s.InsertBulk(ctx, "ES", "M5", bars))

	// A later duplicate of the first bar must not shadow it.
	dup := market.Bars{{Time: t0, Open: 999, High: 999, Low: 999, Close: 999}}
	require.NoError(t, s.InsertBulk(ctx, "ES", "M5", dup))

	got, err := s.Bars(ctx, "ES", "M5", t0, t0.Add(10*time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, t0, got[0].Time)
	assert.Equal(t, 100.0, got[0].Open)
	assert.Equal(t, 102.0, got[1].High)

	c, err := s.Coverage(ctx, "ES", "M5")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Count)
	assert.Equal(t, t0.Add(10*time.Minute), c.Last)

	// Duplicates inside one batch keep the first row.
	t1 := t0.Add(15 * time.Minute)
	same := market.Bars{
		{Time: t1, Open: 1, High: 1, Low: 1, Close: 1},
		{Time: t1, Open: 2, High: 2, Low: 2, Close: 2},
	}
	require.NoError(t, s.InsertBulk(ctx, "ES", "M5", same))

	got, err = s.Bars(ctx, "ES", "M5", t1, t1.Add(5*time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].Open)
}
