package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alphagrade/alphagrade-backend/internal/config"
	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		DatabaseDriver: config.DriverSQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "alphagrade.db"),
	}

	stores, err := Open(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer stores.Close()

	assert.Equal(t, config.DriverSQLite, stores.Driver)
	require.NoError(t, stores.Ping(ctx))

	err = stores.Accounts.Create(ctx, &model.Account{
		ID: uuid.New(), Role: model.RoleStudent, Name: "Sam", Email: "sam@example.com", PasswordHash: "x",
	})
	require.NoError(t, err)

	n, err := stores.Accounts.Count(ctx, model.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	exams, err := stores.Exams.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, exams)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{DatabaseDriver: "mysql"}, zerolog.Nop())
	assert.ErrorContains(t, err, "unknown database driver")
}
