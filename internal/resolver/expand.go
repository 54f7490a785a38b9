package resolver

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go-meercat/internal/apperr"
	"go-meercat/internal/models"
)

// ErrNoMapping means the source switch exists but has no cataloged
// counterpart in the other family.
var ErrNoMapping = apperr.New(apperr.ErrNotFound, "no equivalent switch is mapped")

// Counterparts returns the ids mapped to sourceID in the opposite family:
// Catalyst ids for a Meraki source, Meraki ids otherwise. An exact match on
// the mapping column is tried first, then a containment match.
func Counterparts(tx *gorm.DB, sourceID string) ([]string, error) {
	if sourceID == "" {
		return nil, ErrNoMapping
	}

	column := "catalyst"
	other := func(m models.Mapping) string { return m.Meraki }
	if models.IsMerakiID(sourceID) {
		column = "meraki"
		other = func(m models.Mapping) string { return m.Catalyst }
	}

	for _, p := range []string{sourceID, "%" + sourceID + "%"} {
		var edges []models.Mapping
		err := tx.Where(column+" LIKE ?", p).Order("id").Find(&edges).Error
		if err != nil {
			return nil, errors.Wrap(err, "query mapping")
		}

		var ids []string
		for _, e := range edges {
			if id := other(e); id != "" && id != sourceID {
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			return ids, nil
		}
	}

	log.Debug().Str("source", sourceID).Msg("could not find mapping")
	return nil, ErrNoMapping
}
