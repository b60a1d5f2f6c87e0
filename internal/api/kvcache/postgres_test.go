package kvcache

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresStore(mock)

	t.Run("hit", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM kv_cache WHERE key = \\$1").
			WithArgs("gemini_v8_1-4").
			WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(`{"aiDescription":"temple"}`))

		v, found, err := store.Get(ctx, "gemini_v8_1-4")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `{"aiDescription":"temple"}`, v)
	})

	t.Run("miss", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM kv_cache").
			WithArgs("absent").
			WillReturnError(pgx.ErrNoRows)

		_, found, err := store.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("read error", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM kv_cache").
			WithArgs("broken").
			WillReturnError(errors.New("connection reset"))

		_, found, err := store.Get(ctx, "broken")
		require.Error(t, err)
		assert.False(t, found)
	})

	t.Run("set upserts", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO kv_cache").
			WithArgs("k", "v").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, store.Set(ctx, "k", "v"))
	})

	t.Run("delete", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM kv_cache").
			WithArgs("k").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, store.Delete(ctx, "k"))
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
