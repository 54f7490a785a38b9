package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-meercat/internal/apperr"
	"go-meercat/internal/db"
	"go-meercat/internal/db/dbtest"
	"go-meercat/internal/models"
)

const catalog = `
switches:
  - id: C9300L-48T-4G-E
    model: C9300L-48T-4G-E
    platform: C9300L
    stackable: true
    dl_ge: 48
    ul_ge_sfp: 4
  - id: MS125-48-HW
    model: MS125-48-HW
    stackable: true
    dl_ge: 48
    note: ~
mappings:
  - catalyst: C9300L-48T-4G-E
    meraki: MS125-48-HW
admins:
  - root
`

func loadSwitch(t *testing.T, store *db.Store, id string) models.Switch {
	t.Helper()
	var sw models.Switch
	require.NoError(t, store.WithTx(context.Background(), "test get", func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).First(&sw).Error
	}))
	return sw
}

func count(t *testing.T, store *db.Store, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, store.WithTx(context.Background(), "test count", func(tx *gorm.DB) error {
		return tx.Model(model).Count(&n).Error
	}))
	return n
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Switches, 2)
	assert.Equal(t, []MappingEntry{{Catalyst: "C9300L-48T-4G-E", Meraki: "MS125-48-HW"}}, c.Mappings)
	assert.Equal(t, []string{"root"}, c.Admins)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("routers: []\n"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	store := dbtest.New(t)
	c, err := Parse([]byte(catalog))
	require.NoError(t, err)

	stats, err := Apply(context.Background(), store, c, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, Stats{Switches: 2, Mappings: 1, Admins: 2}, stats)

	sw := loadSwitch(t, store, "C9300L-48T-4G-E")
	assert.Equal(t, "C9300L", sw.Platform)
	assert.True(t, sw.Stackable)
	assert.Equal(t, 48, sw.DlGe)
	assert.Equal(t, 4, sw.UlGeSfp)
	assert.Empty(t, loadSwitch(t, store, "MS125-48-HW").Note)
}

func TestApplyIsIdempotent(t *testing.T) {
	store := dbtest.New(t)
	dbtest.Insert(t, store, &models.User{ID: "jdoe", Privilege: models.PrivilegeEditor})
	c, err := Parse([]byte(catalog))
	require.NoError(t, err)

	_, err = Apply(context.Background(), store, c)
	require.NoError(t, err)

	c.Switches[0]["dl_ge"] = 24
	stats, err := Apply(context.Background(), store, c, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, Stats{Switches: 2, Mappings: 0, Admins: 1}, stats)

	assert.Equal(t, int64(2), count(t, store, &models.Switch{}))
	assert.Equal(t, int64(1), count(t, store, &models.Mapping{}))
	assert.Equal(t, int64(2), count(t, store, &models.User{}))
	assert.Equal(t, 24, loadSwitch(t, store, "C9300L-48T-4G-E").DlGe)
}

func TestApplyRollsBackInvalidCatalog(t *testing.T) {
	store := dbtest.New(t)
	c, err := Parse([]byte(`
switches:
  - id: C9200-24T
    model: C9200-24T
  - id: C9200-48T
    vlan: many
`))
	require.NoError(t, err)

	_, err = Apply(context.Background(), store, c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Zero(t, count(t, store, &models.Switch{}))

	_, err = Apply(context.Background(), store, &Catalog{Switches: []map[string]any{{"model": "C9200"}}})
	assert.Error(t, err)
}
