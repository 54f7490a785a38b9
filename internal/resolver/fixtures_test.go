package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-meercat/internal/db"
	"go-meercat/internal/db/dbtest"
	"go-meercat/internal/models"
)

// newCatalog returns a store holding a small Catalyst/Meraki catalog.
func newCatalog(t *testing.T) *db.Store {
	t.Helper()
	store := dbtest.New(t)
	dbtest.Insert(t, store,
		&models.Switch{ID: "C9300L-48T-4G-E", Model: "C9300L-48T-4G-E", Platform: "C9300L", Stackable: true, DlGe: 48},
		&models.Switch{ID: "C9300L-24T-4G-E", Model: "C9300L-24T-4G-E", Platform: "C9300L", Stackable: true, DlGe: 24},
		&models.Switch{ID: "C9300X-12Y-2Q", Model: "C9300X", NetworkModule: "C9300X-NM-2Q", Platform: "C9300X", Modular: true},
		&models.Switch{ID: "C9300X-24Y-2Q", Model: "C9300X", NetworkModule: "C9300X-NM-8Y", Platform: "C9300X", Modular: true},
		&models.Switch{ID: "C9200-24T", Model: "C9200-24T", Platform: "C9200"},
		&models.Switch{ID: "MS120-8-HW", Model: "MS120-8-HW", Platform: "MS120"},
		&models.Switch{ID: "MS120-48-HW", Model: "MS120-48-HW", Platform: "MS120"},
		&models.Switch{ID: "MS125-48-HW", Model: "MS125-48-HW", Platform: "MS125"},
		&models.Switch{ID: "MS390-24-HW", Model: "MS390-24-HW", Platform: "MS390", Modular: true},

		&models.Mapping{Catalyst: "C9300L-48T-4G-E", Meraki: "MS125-48-HW"},
		&models.Mapping{Catalyst: "C9300L-24T-4G-E", Meraki: "MS120-48-HW"},
		&models.Mapping{Catalyst: "C9300L-24T-4G-E", Meraki: "MS125-48"},
		&models.Mapping{Catalyst: "C9300X-24Y-2Q", Meraki: "MS390-24-HW"},
		&models.Mapping{Catalyst: "C9200-24T", Meraki: "C9200-24T"},
	)
	return store
}

func ids(switches []models.Switch) []string {
	out := make([]string, 0, len(switches))
	for _, sw := range switches {
		out = append(out, sw.ID)
	}
	return out
}

func search(t *testing.T, store *db.Store, q Query, fuzzy, expand bool) []models.Switch {
	t.Helper()
	var rows []models.Switch
	err := store.WithTx(context.Background(), "test search", func(tx *gorm.DB) error {
		var err error
		rows, err = Search(tx, q, fuzzy, expand)
		return err
	})
	require.NoError(t, err)
	return rows
}

func counterparts(t *testing.T, store *db.Store, source string) ([]string, error) {
	t.Helper()
	var out []string
	err := store.WithTx(context.Background(), "test counterparts", func(tx *gorm.DB) error {
		var err error
		out, err = Counterparts(tx, source)
		return err
	})
	return out, err
}
