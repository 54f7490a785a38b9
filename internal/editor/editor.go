// Package editor implements the catalog maintenance commands and the
// editor allow list. Every method runs in its own store transaction and
// checks the actor's privilege before changing anything.
package editor

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"go-meercat/internal/apperr"
	"go-meercat/internal/db"
	"go-meercat/internal/models"
)

// Result tells whether SaveSwitch created or updated a row.
type Result int

const (
	ResultNew Result = iota + 1
	ResultEdit
)

const msgNoPermission = "Sorry, you don't have permission to do that."

type Editor struct {
	store *db.Store
}

func New(store *db.Store) *Editor {
	return &Editor{store: store}
}

// ListSwitches returns every switch, or those whose id contains filter.
func (e *Editor) ListSwitches(ctx context.Context, filter string) ([]models.Switch, error) {
	var switches []models.Switch
	err := e.store.WithTx(ctx, "list switches", func(tx *gorm.DB) error {
		stmt := tx.Model(&models.Switch{})
		if filter != "" {
			stmt = stmt.Where("id LIKE ?", "%"+filter+"%")
		}
		return stmt.Order("id").Find(&switches).Error
	})
	return switches, err
}

// ListMappings returns every mapping, or those with filter on either side.
func (e *Editor) ListMappings(ctx context.Context, filter string) ([]models.Mapping, error) {
	var mappings []models.Mapping
	err := e.store.WithTx(ctx, "list mappings", func(tx *gorm.DB) error {
		stmt := tx.Model(&models.Mapping{})
		if filter != "" {
			like := "%" + filter + "%"
			stmt = stmt.Where("meraki LIKE ? OR catalyst LIKE ?", like, like)
		}
		return stmt.Order("id").Find(&mappings).Error
	})
	return mappings, err
}

func findSwitch(tx *gorm.DB, id string) (*models.Switch, error) {
	var rows []models.Switch
	if err := tx.Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "query switch")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// GetSwitch looks a switch up by exact id.
func (e *Editor) GetSwitch(ctx context.Context, id string) (*models.Switch, error) {
	var sw *models.Switch
	err := e.store.WithTx(ctx, "get switch", func(tx *gorm.DB) error {
		var err error
		if sw, err = findSwitch(tx, id); err != nil {
			return err
		}
		if sw == nil {
			return apperr.New(apperr.ErrNotFound, "Cannot find switch with key %s.", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sw, nil
}

// SaveSwitch applies a submitted edit or add form. values must carry the
// "id" key; the switch is created when no row has that id.
func (e *Editor) SaveSwitch(ctx context.Context, actor string, values map[string]string) (Result, error) {
	id := strings.TrimSpace(values["id"])
	if id == "" {
		return 0, &apperr.FieldError{Field: "id", Expected: models.KindString.String(), Value: ""}
	}

	update := make(map[string]string, len(values))
	for k, v := range values {
		update[k] = v
	}
	update["id"] = id

	var result Result
	err := e.store.WithTx(ctx, "save switch", func(tx *gorm.DB) error {
		if err := requireEditor(tx, actor, msgNoPermission); err != nil {
			return err
		}
		existing, err := findSwitch(tx, id)
		if err != nil {
			return err
		}

		sw := models.Switch{}
		result = ResultNew
		if existing != nil {
			sw = *existing
			result = ResultEdit
		}
		if err := models.ApplyUpdate(&sw, update); err != nil {
			return err
		}

		if result == ResultNew {
			return tx.Create(&sw).Error
		}
		return tx.Save(&sw).Error
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

// RemoveSwitch deletes the switch with exactly this id.
func (e *Editor) RemoveSwitch(ctx context.Context, actor, id string) error {
	return e.store.WithTx(ctx, "remove switch", func(tx *gorm.DB) error {
		if err := requireEditor(tx, actor, msgNoPermission); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Switch{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.ErrNotFound, "Could not find **%s** in the database.", id)
		}
		return nil
	})
}

// pair orders two keys into (catalyst, meraki) by their leading character.
func pair(a, b string) (catalyst, meraki string, err error) {
	if a == "" || b == "" {
		return "", "", apperr.New(apperr.ErrValidation, "Please supply exactly 2 keys")
	}
	switch {
	case models.IsMerakiID(a) && !models.IsMerakiID(b):
		return b, a, nil
	case models.IsMerakiID(b) && !models.IsMerakiID(a):
		return a, b, nil
	}
	return "", "", apperr.New(apperr.ErrValidation, "A mapping needs one Catalyst and one Meraki key, got **%s** and **%s**.", a, b)
}

func findMappings(tx *gorm.DB, catalyst, meraki string) ([]models.Mapping, error) {
	var rows []models.Mapping
	err := tx.Where("catalyst = ? AND meraki = ?", catalyst, meraki).Find(&rows).Error
	return rows, errors.Wrap(err, "query mapping")
}

// AddMapping links two keys. Argument order does not matter.
func (e *Editor) AddMapping(ctx context.Context, actor, a, b string) error {
	return e.store.WithTx(ctx, "add mapping", func(tx *gorm.DB) error {
		if err := requireEditor(tx, actor, msgNoPermission); err != nil {
			return err
		}
		catalyst, meraki, err := pair(a, b)
		if err != nil {
			return err
		}
		existing, err := findMappings(tx, catalyst, meraki)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return apperr.New(apperr.ErrValidation, "Mapping **%s<=>%s** already exists in the database.", a, b)
		}
		return tx.Create(&models.Mapping{Catalyst: catalyst, Meraki: meraki}).Error
	})
}

// RemoveMapping deletes the link between two keys.
func (e *Editor) RemoveMapping(ctx context.Context, actor, a, b string) error {
	return e.store.WithTx(ctx, "remove mapping", func(tx *gorm.DB) error {
		if err := requireEditor(tx, actor, msgNoPermission); err != nil {
			return err
		}
		catalyst, meraki, err := pair(a, b)
		if err != nil {
			return err
		}
		existing, err := findMappings(tx, catalyst, meraki)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			return apperr.New(apperr.ErrNotFound, "Could not find **%s<=>%s** in the database.", a, b)
		}
		return tx.Delete(&existing).Error
	})
}
