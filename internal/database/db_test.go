package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isuci/isuci-backend/internal/config"
)

func TestDSN(t *testing.T) {
	t.Run("Should build a mysql DSN without password", func(t *testing.T) {
		dsn, err := DSN(config.Config{DBUser: "root", DBHost: "db", DBPort: "3306", DBName: "isuci"})
		require.NoError(t, err)
		assert.Equal(t, "root@tcp(db:3306)/isuci?charset=utf8mb4&parseTime=true&loc=UTC", dsn)
	})

	t.Run("Should build a postgres URL", func(t *testing.T) {
		dsn, err := DSN(config.Config{
			DBDriver: Postgres, DBUser: "isuci", DBPass: "p@ss", DBHost: "pg", DBPort: "5432",
			DBName: "isuci", DBSSLMode: "disable",
		})
		require.NoError(t, err)
		assert.Equal(t, "postgres://isuci:p%40ss@pg:5432/isuci?sslmode=disable", dsn)
	})

	t.Run("Should reject unknown drivers", func(t *testing.T) {
		_, err := DSN(config.Config{DBDriver: "oracle"})
		assert.Error(t, err)
	})
}

func TestRebind(t *testing.T) {
	q := "UPDATE usuario SET contrasenausuario=? WHERE iddocumento=?"

	assert.Equal(t, q, Rebind(MySQL, q))
	assert.Equal(t, "UPDATE usuario SET contrasenausuario=$1 WHERE iddocumento=$2", Rebind(Postgres, q))
}
