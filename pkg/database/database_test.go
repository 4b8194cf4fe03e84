package database

import (
	"errors"
	"testing"

	"stocksense/config"
	"stocksense/internal/apperror"
	"stocksense/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB(t *testing.T) {
	t.Run("SQLite Success", func(t *testing.T) {
		db, err := NewDB(config.Database{URL: "sqlite://:memory:", LogLevel: "Silent"}, logger.NewNop())
		require.NoError(t, err)
		assert.Equal(t, DriverSQLite, db.Driver())
		assert.NoError(t, db.Ping())
		assert.NoError(t, db.Close())
	})

	t.Run("Unsupported Driver", func(t *testing.T) {
		_, err := NewDB(config.Database{URL: "mysql://localhost"}, logger.NewNop())
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperror.ErrConfiguration))
	})

	t.Run("Invalid SQLite Path", func(t *testing.T) {
		_, err := NewDB(config.Database{URL: "sqlite:///non/existent/path/db.sqlite"}, logger.NewNop())
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperror.ErrStorage))
	})

	t.Run("Invalid Lifetime", func(t *testing.T) {
		_, err := NewDB(config.Database{URL: "sqlite://:memory:", ConnMaxLifetime: "soon"}, logger.NewNop())
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperror.ErrConfiguration))
	})
}

func TestDialector(t *testing.T) {
	tests := []struct {
		url    string
		driver string
		ok     bool
	}{
		{url: "postgres://u:p@localhost:5432/db", driver: DriverPostgres, ok: true},
		{url: "postgresql://u:p@localhost:5432/db", driver: DriverPostgres, ok: true},
		{url: "sqlite://app.db", driver: DriverSQLite, ok: true},
		{url: "", ok: false},
		{url: "mongodb://localhost", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			d, driver, err := Dialector(tt.url)
			if !tt.ok {
				assert.Error(t, err)
				assert.Nil(t, d)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.driver, driver)
		})
	}
}
