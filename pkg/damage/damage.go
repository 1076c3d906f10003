package damage

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// InvalidInput is returned by CalculateDamage when any input is out of range
// or both combatants share a position. Valid damage is never negative.
const InvalidInput = -999.0

const (
	MinPunch = 0.0
	MaxPunch = 100.0
	MinCoord = 0.0
	MaxCoord = 20.0

	guardSpeedWeight    = 0.3
	guardStrengthWeight = 0.7
	openSpeedWeight     = 0.7
	openStrengthWeight  = 0.3

	closeRange  = 10.0
	mediumRange = 15.0

	closeMultiplier  = 2.0
	mediumMultiplier = 1.0
	farMultiplier    = 0.0

	extremeThreshold  = 90.0
	combinedThreshold = 150.0
	weakThreshold     = 10.0

	extremeMultiplier  = 0.0
	combinedMultiplier = 0.5
	weakMultiplier     = 0.2
	normalMultiplier   = 1.0
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrSamePosition = fmt.Errorf("%w: combatants share the same position", ErrInvalidInput)
)

// EffectivenessRule names the effectiveness rule that fired for a punch.
type EffectivenessRule string

const (
	RuleExtreme  EffectivenessRule = "extreme"
	RuleCombined EffectivenessRule = "combined"
	RuleWeak     EffectivenessRule = "weak"
	RuleNormal   EffectivenessRule = "normal"
)

// Position is a point on the 20x20 ring.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Punch holds the speed and strength of a single punch, each in [0, 100].
type Punch struct {
	Speed    float64 `json:"speed" yaml:"speed"`
	Strength float64 `json:"strength" yaml:"strength"`
}

// Strike is one punch thrown from You at Opponent.
type Strike struct {
	Punch    Punch    `json:"punch" yaml:"punch"`
	You      Position `json:"you" yaml:"you"`
	Opponent Position `json:"opponent" yaml:"opponent"`
	Guarding bool     `json:"guarding" yaml:"guarding"`
}

// Result is the breakdown of a damage calculation.
type Result struct {
	Strike             Strike            `json:"strike" yaml:"strike"`
	Distance           float64           `json:"distance" yaml:"distance"`
	Base               float64           `json:"base" yaml:"base"`
	DistanceMultiplier float64           `json:"distance_multiplier" yaml:"distance_multiplier"`
	Effectiveness      float64           `json:"effectiveness" yaml:"effectiveness"`
	Rule               EffectivenessRule `json:"rule" yaml:"rule"`
	Damage             float64           `json:"damage" yaml:"damage"`
}

// CalculateDamage returns the damage dealt by a punch, or InvalidInput.
func CalculateDamage(punchSpeed, punchStrength, xYou, yYou, xOpp, yOpp float64, isGuarding bool) float64 {
	r, err := Calculate(Strike{
		Punch:    Punch{Speed: punchSpeed, Strength: punchStrength},
		You:      Position{X: xYou, Y: yYou},
		Opponent: Position{X: xOpp, Y: yOpp},
		Guarding: isGuarding,
	})
	if err != nil {
		slog.Debug("damage - invalid input", "error", err)
		return InvalidInput
	}
	return r.Damage
}

// Calculate validates the strike and returns the full damage breakdown.
func Calculate(s Strike) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	r := &Result{
		Strike:   s,
		Distance: Distance(s.You, s.Opponent),
		Base:     BaseDamage(s.Punch, s.Guarding),
	}
	if r.Distance == 0 {
		return nil, ErrSamePosition
	}

	r.DistanceMultiplier = DistanceMultiplier(r.Distance)
	r.Effectiveness, r.Rule = Effectiveness(s.Punch)
	r.Damage = r.Base * r.DistanceMultiplier * r.Effectiveness

	slog.Debug("damage",
		"distance", r.Distance,
		"base", r.Base,
		"distance_multiplier", r.DistanceMultiplier,
		"effectiveness", r.Effectiveness,
		"rule", r.Rule,
		"damage", r.Damage,
	)

	return r, nil
}

// Validate checks every scalar of the strike against its range.
func (s Strike) Validate() error {
	if err := checkRange("punch speed", s.Punch.Speed, MinPunch, MaxPunch); err != nil {
		return err
	}
	if err := checkRange("punch strength", s.Punch.Strength, MinPunch, MaxPunch); err != nil {
		return err
	}
	if err := checkRange("your x", s.You.X, MinCoord, MaxCoord); err != nil {
		return err
	}
	if err := checkRange("your y", s.You.Y, MinCoord, MaxCoord); err != nil {
		return err
	}
	if err := checkRange("opponent x", s.Opponent.X, MinCoord, MaxCoord); err != nil {
		return err
	}
	return checkRange("opponent y", s.Opponent.Y, MinCoord, MaxCoord)
}

func checkRange(name string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return fmt.Errorf("%w: %s %v not in [%v, %v]", ErrInvalidInput, name, v, lo, hi)
	}
	return nil
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Position) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// BaseDamage favors strength against a guarding opponent and speed otherwise.
func BaseDamage(p Punch, guarding bool) float64 {
	if guarding {
		return guardSpeedWeight*p.Speed + guardStrengthWeight*p.Strength
	}
	return openSpeedWeight*p.Speed + openStrengthWeight*p.Strength
}

// DistanceMultiplier steps down at 10 and 15, both bounds inclusive.
func DistanceMultiplier(d float64) float64 {
	switch {
	case d <= closeRange:
		return closeMultiplier
	case d <= mediumRange:
		return mediumMultiplier
	default:
		return farMultiplier
	}
}

// Effectiveness returns the multiplier of the first matching rule.
func Effectiveness(p Punch) (float64, EffectivenessRule) {
	switch {
	case p.Speed >= extremeThreshold || p.Strength >= extremeThreshold:
		return extremeMultiplier, RuleExtreme
	case p.Speed+p.Strength >= combinedThreshold:
		return combinedMultiplier, RuleCombined
	case p.Speed <= weakThreshold || p.Strength <= weakThreshold:
		return weakMultiplier, RuleWeak
	default:
		return normalMultiplier, RuleNormal
	}
}

// IsInvalid reports whether v is the InvalidInput sentinel.
func IsInvalid(v float64) bool {
	return v == InvalidInput
}
