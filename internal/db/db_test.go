package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-meercat/internal/apperr"
	"go-meercat/internal/db"
	"go-meercat/internal/db/dbtest"
	"go-meercat/internal/models"
)

func countSwitches(t *testing.T, store *db.Store) int64 {
	var n int64
	err := store.WithTx(context.Background(), "count", func(tx *gorm.DB) error {
		return tx.Model(&models.Switch{}).Count(&n).Error
	})
	require.NoError(t, err)
	return n
}

func TestWithTxCommits(t *testing.T) {
	store := dbtest.New(t)

	err := store.WithTx(context.Background(), "create", func(tx *gorm.DB) error {
		return tx.Create(&models.Switch{ID: "MS120-8-HW", Model: "MS120-8-HW"}).Error
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, countSwitches(t, store))
}

func TestWithTxRollsBackOnDomainError(t *testing.T) {
	store := dbtest.New(t)

	err := store.WithTx(context.Background(), "create", func(tx *gorm.DB) error {
		if err := tx.Create(&models.Switch{ID: "MS120-8-HW"}).Error; err != nil {
			return err
		}
		return &apperr.FieldError{Field: "vlan", Expected: "integer", Value: "abc"}
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.False(t, errors.Is(err, apperr.ErrTransient))
	assert.EqualValues(t, 0, countSwitches(t, store))
}

func TestWithTxClassifiesStoreErrors(t *testing.T) {
	store := dbtest.New(t)

	err := store.WithTx(context.Background(), "raw", func(tx *gorm.DB) error {
		return tx.Exec("SELECT * FROM no_such_table").Error
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrTransient)

	err = store.WithTx(context.Background(), "first", func(tx *gorm.DB) error {
		var sw models.Switch
		return tx.Where("id = ?", "nope").First(&sw).Error
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestWithTxRecoversPanicWithRollback(t *testing.T) {
	store := dbtest.New(t)

	assert.Panics(t, func() {
		_ = store.WithTx(context.Background(), "panic", func(tx *gorm.DB) error {
			tx.Create(&models.Switch{ID: "MS120-8-HW"})
			panic("boom")
		})
	})
	assert.EqualValues(t, 0, countSwitches(t, store))
}

func TestWithTxHonoursTimeout(t *testing.T) {
	store := dbtest.New(t, db.WithTimeout(time.Nanosecond))
	time.Sleep(time.Millisecond)

	err := store.WithTx(context.Background(), "slow", func(tx *gorm.DB) error {
		time.Sleep(5 * time.Millisecond)
		var n int64
		return tx.Model(&models.Switch{}).Count(&n).Error
	})
	assert.ErrorIs(t, err, apperr.ErrTransient)
}

func TestClosedStoreIsTransient(t *testing.T) {
	store := dbtest.New(t)
	require.NoError(t, store.Close())

	err := store.WithTx(context.Background(), "closed", func(tx *gorm.DB) error {
		var n int64
		return tx.Model(&models.Switch{}).Count(&n).Error
	})
	assert.ErrorIs(t, err, apperr.ErrTransient)
}
