// Package seed loads a YAML catalog into the store at start-up.
package seed

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-meercat/internal/apperr"
	"go-meercat/internal/db"
	"go-meercat/internal/models"
)

// Catalog is the seed file layout. Switch entries are keyed by column name
// and coerced the same way card submissions are.
type Catalog struct {
	Switches []map[string]any `yaml:"switches"`
	Mappings []MappingEntry   `yaml:"mappings"`
	Admins   []string         `yaml:"admins"`
}

type MappingEntry struct {
	Catalyst string `yaml:"catalyst"`
	Meraki   string `yaml:"meraki"`
}

// Stats counts what Apply wrote.
type Stats struct {
	Switches int
	Mappings int
	Admins   int
}

// Load reads and decodes a seed file. Unknown top-level keys are rejected.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read seed file")
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, errors.Wrap(err, "decode seed file")
	}
	return &c, nil
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Apply writes c into the store in one transaction. Switches are upserted
// by id, mappings and admins are only added when missing, so applying the
// same catalog twice changes nothing. Extra admins, such as the bootstrap
// list from the environment, are merged with the file's.
func Apply(ctx context.Context, store *db.Store, c *Catalog, extraAdmins ...string) (Stats, error) {
	var stats Stats
	err := store.WithTx(ctx, "seed catalog", func(tx *gorm.DB) error {
		for i, entry := range c.Switches {
			values := make(map[string]string, len(entry))
			for k, v := range entry {
				values[k] = stringify(v)
			}
			values["id"] = strings.TrimSpace(values["id"])
			if values["id"] == "" {
				return apperr.New(apperr.ErrValidation, "seed switch %d has no id", i)
			}

			var sw models.Switch
			if err := models.ApplyUpdate(&sw, values); err != nil {
				return errors.Wrapf(err, "seed switch %s", values["id"])
			}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&sw).Error; err != nil {
				return errors.Wrapf(err, "upsert switch %s", sw.ID)
			}
			stats.Switches++
		}

		for _, m := range c.Mappings {
			if m.Catalyst == "" || m.Meraki == "" {
				return apperr.New(apperr.ErrValidation, "seed mapping %q<=>%q is missing a side", m.Catalyst, m.Meraki)
			}
			var n int64
			if err := tx.Model(&models.Mapping{}).Where("catalyst = ? AND meraki = ?", m.Catalyst, m.Meraki).Count(&n).Error; err != nil {
				return errors.Wrap(err, "count mapping")
			}
			if n > 0 {
				continue
			}
			if err := tx.Create(&models.Mapping{Catalyst: m.Catalyst, Meraki: m.Meraki}).Error; err != nil {
				return errors.Wrap(err, "insert mapping")
			}
			stats.Mappings++
		}

		for _, id := range append(append([]string{}, c.Admins...), extraAdmins...) {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			var users []models.User
			if err := tx.Where("id = ?", id).Limit(1).Find(&users).Error; err != nil {
				return errors.Wrap(err, "query user")
			}
			if len(users) > 0 && users[0].IsAdmin() {
				continue
			}
			if err := tx.Save(&models.User{ID: id, Privilege: models.PrivilegeAdmin}).Error; err != nil {
				return errors.Wrapf(err, "save admin %s", id)
			}
			stats.Admins++
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}

	log.Info().
		Int("switches", stats.Switches).
		Int("mappings", stats.Mappings).
		Int("admins", stats.Admins).
		Msg("applied seed catalog")
	return stats, nil
}
