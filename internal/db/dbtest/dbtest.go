// Package dbtest opens throwaway catalog stores for tests.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-meercat/internal/db"
)

// New returns an empty in-memory store that is closed when the test ends.
func New(t testing.TB, opts ...db.Option) *db.Store {
	t.Helper()
	store, err := db.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// Insert writes rows in order so tests can rely on insertion order.
func Insert(t testing.TB, store *db.Store, rows ...any) {
	t.Helper()
	err := store.WithTx(t.Context(), "dbtest insert", func(tx *gorm.DB) error {
		for _, r := range rows {
			if err := tx.Create(r).Error; err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}
