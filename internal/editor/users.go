package editor

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"go-meercat/internal/apperr"
	"go-meercat/internal/models"
)

func lookupUser(tx *gorm.DB, username string) (*models.User, error) {
	var users []models.User
	if err := tx.Where("id = ?", username).Limit(1).Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "query user")
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func canEdit(tx *gorm.DB, username string) (bool, error) {
	if username == "" {
		return false, nil
	}
	u, err := lookupUser(tx, username)
	if err != nil || u == nil {
		return false, err
	}
	return u.CanEdit(), nil
}

// requireEditor fails with ErrPermission unless actor may edit.
func requireEditor(tx *gorm.DB, actor, msg string) error {
	ok, err := canEdit(tx, actor)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.New(apperr.ErrPermission, "%s", msg)
	}
	return nil
}

// CanEdit reports whether username holds edit privilege. Store failures
// count as no.
func (e *Editor) CanEdit(ctx context.Context, username string) bool {
	var ok bool
	err := e.store.WithTx(ctx, "can user edit", func(tx *gorm.DB) error {
		var err error
		ok, err = canEdit(tx, username)
		return err
	})
	return err == nil && ok
}

// ApprovedUsers lists everyone with a privilege record.
func (e *Editor) ApprovedUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := e.store.WithTx(ctx, "list users", func(tx *gorm.DB) error {
		return tx.Order("id").Find(&users).Error
	})
	return users, err
}

// AdminUsers lists the admins, who receive access requests.
func (e *Editor) AdminUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := e.store.WithTx(ctx, "list admins", func(tx *gorm.DB) error {
		return tx.Where("LOWER(privilege) = ?", models.PrivilegeAdmin).Order("id").Find(&users).Error
	})
	return users, err
}

// Allow grants username editor privilege. Existing admins stay admins.
func (e *Editor) Allow(ctx context.Context, actor, username string) error {
	if username == "" {
		return apperr.New(apperr.ErrValidation, "Please supply a user id in the format */allow USER_ID*")
	}
	return e.store.WithTx(ctx, "allow user", func(tx *gorm.DB) error {
		if err := requireEditor(tx, actor, msgNoUserPermission); err != nil {
			return err
		}
		existing, err := lookupUser(tx, username)
		if err != nil {
			return err
		}
		if existing != nil && existing.IsAdmin() {
			return nil
		}
		return tx.Save(&models.User{ID: username, Privilege: models.PrivilegeEditor}).Error
	})
}

// Disallow removes username from the editors. Admins cannot be removed.
func (e *Editor) Disallow(ctx context.Context, actor, username string) error {
	return e.store.WithTx(ctx, "disallow user", func(tx *gorm.DB) error {
		if err := requireEditor(tx, actor, msgNoUserPermission); err != nil {
			return err
		}
		u, err := lookupUser(tx, username)
		if err != nil {
			return err
		}
		if u == nil || !u.CanEdit() {
			return apperr.New(apperr.ErrNotFound, "User %s is not on the editors list.", username)
		}
		if u.IsAdmin() {
			return apperr.New(apperr.ErrPermission, "User %s is an admin and cannot be removed.", username)
		}
		return tx.Delete(u).Error
	})
}

const msgNoUserPermission = "You do not have permissions to edit allowed users."
