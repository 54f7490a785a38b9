package resolver

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"go-meercat/internal/models"
)

// merakiHWSuffix is how Meraki hardware SKUs are stored in the catalog.
const merakiHWSuffix = "-HW"

// Query holds the switch filters. Empty fields are not applied.
type Query struct {
	Model         string
	NetworkModule string
	ID            string
}

// stage is one rung of the relaxation ladder.
type stage struct {
	fuzzy    bool
	hwSuffix bool
}

// plan lists the stages Search tries, in order. Without expand only the
// requested stage runs. With expand an exact search is followed by a
// wildcard one, and each is followed by a -HW retry when the model looks like
// a Meraki SKU stored without its suffix.
func plan(q Query, fuzzy, expand bool) []stage {
	if !expand {
		return []stage{{fuzzy: fuzzy}}
	}
	ladder := []bool{fuzzy}
	if !fuzzy {
		ladder = append(ladder, true)
	}
	hw := wantsHWSuffix(q.Model)

	var stages []stage
	for _, fz := range ladder {
		stages = append(stages, stage{fuzzy: fz})
		if hw {
			stages = append(stages, stage{fuzzy: fz, hwSuffix: true})
		}
	}
	return stages
}

func wantsHWSuffix(model string) bool {
	return models.IsMerakiID(model) && !strings.HasSuffix(strings.ToLower(model), "hw")
}

// wildcard surrounds every hyphen-separated segment with %, so
// C9300L-48T-4G-E becomes %C9300L%-%48T%-%4G%-%E% and C9300L-48T matches
// the whole family.
func wildcard(v string) string {
	return "%" + strings.ReplaceAll(v, "-", "%-%") + "%"
}

func pattern(v string, fuzzy bool) string {
	if fuzzy {
		return wildcard(v)
	}
	return v
}

func (q Query) run(tx *gorm.DB, st stage) ([]models.Switch, error) {
	model := q.Model
	if st.hwSuffix {
		model += merakiHWSuffix
	}

	stmt := tx.Model(&models.Switch{})
	if model != "" {
		stmt = stmt.Where("model LIKE ?", pattern(model, st.fuzzy))
	}
	if q.NetworkModule != "" {
		stmt = stmt.Where("network_module LIKE ?", pattern(q.NetworkModule, st.fuzzy))
	}
	if q.ID != "" {
		stmt = stmt.Where("id LIKE ?", pattern(q.ID, st.fuzzy))
	}

	var switches []models.Switch
	if err := stmt.Find(&switches).Error; err != nil {
		return nil, errors.Wrap(err, "query switch")
	}
	return switches, nil
}

// Search returns the switches matching every supplied filter of q, trying
// the stages from plan until one returns rows. A query with no filters
// returns the whole catalog.
func Search(tx *gorm.DB, q Query, fuzzy, expand bool) ([]models.Switch, error) {
	for _, st := range plan(q, fuzzy, expand) {
		switches, err := q.run(tx, st)
		if err != nil {
			return nil, err
		}
		if len(switches) > 0 {
			return switches, nil
		}
	}
	return nil, nil
}
