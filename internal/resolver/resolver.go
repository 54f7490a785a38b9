// Package resolver turns a user-typed switch model into the equivalent
// switches of the other product family.
package resolver

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"gorm.io/gorm"

	"go-meercat/internal/db"
	"go-meercat/internal/metrics"
	"go-meercat/internal/models"
)

// Fields are the free-form values extracted from a request. Any may be empty.
type Fields struct {
	Model         string
	NetworkModule string
	Platform      string
}

// FieldsFromParams reads the intent parameters produced by the NLU agent.
// List-valued parameters contribute their first element.
func FieldsFromParams(params gjson.Result) Fields {
	get := func(key string) string {
		v := params.Get(key)
		if v.IsArray() {
			if arr := v.Array(); len(arr) > 0 {
				return arr[0].String()
			}
			return ""
		}
		return v.String()
	}
	return Fields{
		Model:         get("Model"),
		NetworkModule: get("Network_Module"),
		Platform:      get("Platform"),
	}
}

// MatchResult is what the presentation layer branches on.
type MatchResult struct {
	// Matched is set once exactly one source switch was identified, whether
	// or not it has an equivalent.
	Matched bool
	// Modular is set when several candidates share a modular model.
	Modular bool
	// Switches holds the equivalents when Matched, the candidates otherwise.
	Switches []models.Switch
	// MatchedModel is the resolved source id, or the model as supplied.
	MatchedModel string
}

type Outcome int

const (
	OutcomeNoMatch Outcome = iota
	OutcomeAmbiguousFixed
	OutcomeAmbiguousModular
	OutcomeNoEquivalent
	OutcomeSingle
	OutcomeMany
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAmbiguousFixed:
		return "ambiguous_fixed"
	case OutcomeAmbiguousModular:
		return "ambiguous_modular"
	case OutcomeNoEquivalent:
		return "no_equivalent"
	case OutcomeSingle:
		return "single"
	case OutcomeMany:
		return "many"
	default:
		return "no_match"
	}
}

// Outcome classifies the result into the cases a reply has to handle.
func (m MatchResult) Outcome() Outcome {
	switch {
	case m.Matched && len(m.Switches) == 0:
		return OutcomeNoEquivalent
	case m.Matched && len(m.Switches) == 1:
		return OutcomeSingle
	case m.Matched:
		return OutcomeMany
	case len(m.Switches) == 0:
		return OutcomeNoMatch
	case m.Modular:
		return OutcomeAmbiguousModular
	default:
		return OutcomeAmbiguousFixed
	}
}

// Resolver is stateless; each call runs in its own store transaction.
type Resolver struct {
	store *db.Store
}

func New(store *db.Store) *Resolver {
	return &Resolver{store: store}
}

// FindEquivalentSwitch resolves f to one catalog switch and expands it
// through the mapping table. Ambiguity is returned to the caller rather than
// ranked away. A store failure degrades to a no-match result.
func (r *Resolver) FindEquivalentSwitch(ctx context.Context, f Fields) MatchResult {
	res := MatchResult{MatchedModel: f.Model}

	err := r.store.WithTx(ctx, "find equivalent switch", func(tx *gorm.DB) error {
		candidates, err := Search(tx, Query{Model: f.Model, NetworkModule: f.NetworkModule}, false, true)
		if err != nil {
			return err
		}
		switch len(candidates) {
		case 0:
			return nil
		case 1:
		default:
			res.Modular = candidates[0].Modular
			res.Switches = candidates
			return nil
		}

		source := candidates[0].ID
		res.MatchedModel = source

		ids, err := Counterparts(tx, source)
		if errors.Is(err, ErrNoMapping) {
			res.Matched = true
			return nil
		}
		if err != nil {
			return err
		}

		equivalents, err := materialize(tx, ids)
		if err != nil {
			return err
		}
		res.Switches = equivalents
		res.Matched = true
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("model", f.Model).Msg("degrading equivalent switch lookup to no match")
		res.Matched = false
		res.Modular = false
		res.Switches = nil
	}

	metrics.Resolutions.WithLabelValues(res.Outcome().String()).Inc()
	return res
}

// materialize loads the switches behind mapped ids: exact id first, a
// wildcard id match only when that finds nothing. Duplicates are dropped.
func materialize(tx *gorm.DB, ids []string) ([]models.Switch, error) {
	var out []models.Switch
	seen := map[string]bool{}
	for _, id := range ids {
		rows, err := Search(tx, Query{ID: id}, false, false)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			if rows, err = Search(tx, Query{ID: id}, true, false); err != nil {
				return nil, err
			}
		}
		for _, sw := range rows {
			if !seen[sw.ID] {
				seen[sw.ID] = true
				out = append(out, sw)
			}
		}
	}
	return out, nil
}
