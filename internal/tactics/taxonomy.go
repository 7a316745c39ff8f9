// Package tactics defines the static tactic taxonomy and the heuristic
// labeler that derives training targets from situational context.
package tactics

import (
	"github.com/yourusername/diamond-tactics/internal/models"
)

// Category groups tactics by the side of the game they serve
type Category string

// Tactic categories
const (
	CategoryOffensive   Category = "OFFENSIVE"
	CategoryBaserunning Category = "BASERUNNING"
	CategoryDefensive   Category = "DEFENSIVE"
)

// FallbackTactic is assigned when an outcome action maps to no tactic
const FallbackTactic = "contact_hitting"

// High-leverage thresholds shared by the labeler and recommendation reasoning
const (
	LateInningThreshold   = 7
	CloseScoreThreshold   = 2
	HighPressureThreshold = 1.5
)

// Context is the set of threshold clauses a situation is checked against.
// Nil fields are absent clauses; each present clause is evaluated
// independently.
type Context struct {
	MinRunners              *int
	MaxOuts                 *int
	ScoringPosition         *bool
	MinPressure             *float64
	MaxPressure             *float64
	ScoreDiffRange          *[2]int
	MinBalls                *int
	MaxStrikes              *int
	MinStrikes              *int
	MinOffensiveOpportunity *float64
	MinDefensivePressure    *float64
}

// MatchFraction returns how many of the present clauses the situation
// satisfies and how many clauses are present.
func (c Context) MatchFraction(s *models.Situation) (matched, total int) {
	if c.MinRunners != nil {
		total++
		if s.NumRunners >= *c.MinRunners {
			matched++
		}
	}
	if c.MaxOuts != nil {
		total++
		if s.Outs <= *c.MaxOuts {
			matched++
		}
	}
	if c.ScoringPosition != nil {
		total++
		if s.ScoringPosition == *c.ScoringPosition {
			matched++
		}
	}
	if c.MinPressure != nil {
		total++
		if s.PressureIndex >= *c.MinPressure {
			matched++
		}
	}
	if c.MaxPressure != nil {
		total++
		if s.PressureIndex <= *c.MaxPressure {
			matched++
		}
	}
	if c.ScoreDiffRange != nil {
		total++
		if s.ScoreDiff >= c.ScoreDiffRange[0] && s.ScoreDiff <= c.ScoreDiffRange[1] {
			matched++
		}
	}
	if c.MinBalls != nil {
		total++
		if s.Balls >= *c.MinBalls {
			matched++
		}
	}
	if c.MaxStrikes != nil {
		total++
		if s.Strikes <= *c.MaxStrikes {
			matched++
		}
	}
	if c.MinStrikes != nil {
		total++
		if s.Strikes >= *c.MinStrikes {
			matched++
		}
	}
	if c.MinOffensiveOpportunity != nil {
		total++
		if s.OffensiveOpportunity >= *c.MinOffensiveOpportunity {
			matched++
		}
	}
	if c.MinDefensivePressure != nil {
		total++
		if s.DefensivePressure >= *c.MinDefensivePressure {
			matched++
		}
	}
	return matched, total
}

// Tactic is one named approach: the outcome actions that can trigger it and
// the context clauses that make it likely.
type Tactic struct {
	Name     string
	Category Category
	Actions  []string
	Context  Context
}

// Registry is the immutable taxonomy built once at process start. It is safe
// for concurrent reads; nothing mutates it after construction.
type Registry struct {
	tactics  []Tactic
	byName   map[string]int
	byAction map[string][]int
}

var defaultRegistry = newRegistry(defaultTactics())

// Default returns the process-wide taxonomy registry
func Default() *Registry {
	return defaultRegistry
}

func newRegistry(list []Tactic) *Registry {
	r := &Registry{
		tactics:  list,
		byName:   make(map[string]int, len(list)),
		byAction: make(map[string][]int),
	}
	for i, t := range list {
		r.byName[t.Name] = i
		for _, action := range t.Actions {
			r.byAction[action] = append(r.byAction[action], i)
		}
	}
	return r
}

// Tactics returns all tactics in taxonomy insertion order
func (r *Registry) Tactics() []Tactic {
	return r.tactics
}

// Categories returns the category names in taxonomy order
func (r *Registry) Categories() []Category {
	return []Category{CategoryOffensive, CategoryBaserunning, CategoryDefensive}
}

// ForAction returns the tactics triggered by an outcome action, in taxonomy
// insertion order. The bool reports whether the action is mapped at all.
func (r *Registry) ForAction(action string) ([]Tactic, bool) {
	idxs, ok := r.byAction[action]
	if !ok {
		return nil, false
	}
	out := make([]Tactic, len(idxs))
	for i, idx := range idxs {
		out[i] = r.tactics[idx]
	}
	return out, true
}

// Lookup returns the tactic with the given name
func (r *Registry) Lookup(name string) (Tactic, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return Tactic{}, false
	}
	return r.tactics[idx], true
}

// CategoryOf returns the category for a tactic name, or empty if unknown
func (r *Registry) CategoryOf(name string) Category {
	if t, ok := r.Lookup(name); ok {
		return t.Category
	}
	return ""
}

// Actions returns the concrete actions associated with a tactic
func (r *Registry) Actions(name string) []string {
	t, ok := r.Lookup(name)
	if !ok {
		return nil
	}
	return append([]string(nil), t.Actions...)
}

// KnownAction reports whether the action belongs to the hitting, baserunning
// or fielding vocabulary. Unknown actions are filtered during extraction.
func (r *Registry) KnownAction(action string) bool {
	_, ok := r.byAction[action]
	return ok
}

func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }
func rangePtr(lo, hi int) *[2]int { return &[2]int{lo, hi} }

func defaultTactics() []Tactic {
	return []Tactic{
		{
			Name:     "power_hitting",
			Category: CategoryOffensive,
			Actions:  []string{"Home Run", "Double", "Triple"},
			Context: Context{
				MinRunners:      intPtr(1),
				ScoringPosition: boolPtr(true),
				MinPressure:     floatPtr(1.5),
			},
		},
		{
			Name:     "contact_hitting",
			Category: CategoryOffensive,
			Actions:  []string{"Single", "Ground Ball"},
			Context: Context{
				MaxPressure: floatPtr(1.5),
				MaxOuts:     intPtr(2),
			},
		},
		{
			Name:     "small_ball",
			Category: CategoryOffensive,
			Actions:  []string{"Sac Bunt", "Sac Fly", "Bunt Groundout"},
			Context: Context{
				ScoreDiffRange: rangePtr(-2, 2),
				MaxOuts:        intPtr(1),
			},
		},
		{
			Name:     "patient_hitting",
			Category: CategoryOffensive,
			Actions:  []string{"Walk", "Hit By Pitch", "Intent Walk"},
			Context: Context{
				MinBalls:   intPtr(2),
				MaxStrikes: intPtr(1),
			},
		},
		{
			Name:     "aggressive_baserunning",
			Category: CategoryBaserunning,
			Actions:  []string{"Stolen Base 2B", "Stolen Base 3B", "Stolen Base Home", "Triple"},
			Context: Context{
				MaxOuts:                 intPtr(1),
				MinOffensiveOpportunity: floatPtr(1.0),
			},
		},
		{
			Name:     "conservative_baserunning",
			Category: CategoryBaserunning,
			Actions:  []string{"Pickoff", "Caught Stealing", "Pickoff Caught Stealing"},
			Context: Context{
				MinPressure: floatPtr(1.5),
			},
		},
		{
			Name:     "defensive_outs",
			Category: CategoryDefensive,
			Actions:  []string{"Groundout", "Flyout", "Lineout", "Pop Out", "Forceout"},
			Context: Context{
				MinDefensivePressure: floatPtr(1.0),
			},
		},
		{
			Name:     "strikeout_pitching",
			Category: CategoryDefensive,
			Actions:  []string{"Strikeout", "Strikeout Double Play"},
			Context: Context{
				MinStrikes: intPtr(2),
			},
		},
		{
			Name:     "double_play",
			Category: CategoryDefensive,
			Actions:  []string{"Double Play", "Grounded Into DP", "Triple Play"},
			Context: Context{
				MinRunners: intPtr(1),
				MaxOuts:    intPtr(2),
			},
		},
		{
			Name:     "field_defense",
			Category: CategoryDefensive,
			Actions:  []string{"Field Error", "Pickoff", "Caught Stealing"},
			Context: Context{
				MinDefensivePressure: floatPtr(1.5),
			},
		},
	}
}
