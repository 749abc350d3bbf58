package loan

import (
	"context"
	_ "embed"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"loan-predict/internal/domain"
)

//go:embed model/default_scorecard.yaml
var defaultScorecard []byte

// Feature names as they appear in model files and request bodies.
const (
	FeatureGrAppv       = "GrAppv"
	FeatureTerm         = "Term"
	FeatureNoEmp        = "NoEmp"
	FeatureState        = "State"
	FeatureNAICSSectors = "NAICS_Sectors"
	FeatureNew          = "New"
	FeatureFranchise    = "Franchise"
	FeatureRevLineCr    = "RevLineCr"
	FeatureLowDoc       = "LowDoc"
	FeatureRural        = "Rural"
)

var (
	numericFeatures     = []string{FeatureGrAppv, FeatureTerm, FeatureNoEmp}
	categoricalFeatures = []string{
		FeatureState, FeatureNAICSSectors, FeatureNew, FeatureFranchise,
		FeatureRevLineCr, FeatureLowDoc, FeatureRural,
	}
)

// NumericTerm weights one numeric feature.
type NumericTerm struct {
	Weight    float64 `yaml:"weight"`
	Transform string  `yaml:"transform"` // "" or "log1p"
}

// Scorecard is a logistic model over the loan features. Unknown categorical
// values contribute nothing.
type Scorecard struct {
	Name        string                        `yaml:"name"`
	Intercept   float64                       `yaml:"intercept"`
	Threshold   float64                       `yaml:"threshold"`
	Numeric     map[string]NumericTerm        `yaml:"numeric"`
	Categorical map[string]map[string]float64 `yaml:"categorical"`
}

// ParseScorecard decodes and validates a YAML scorecard.
func ParseScorecard(data []byte) (*Scorecard, error) {
	var sc Scorecard
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scorecard: %w", err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// LoadScorecard reads a scorecard from path, or the embedded default model
// when path is empty.
func LoadScorecard(path string) (*Scorecard, error) {
	if path == "" {
		return ParseScorecard(defaultScorecard)
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read scorecard: %w", err)
	}
	return ParseScorecard(data)
}

func (sc *Scorecard) validate() error {
	if sc.Threshold <= 0 || sc.Threshold >= 1 {
		return fmt.Errorf("scorecard threshold must be in (0, 1), got %v", sc.Threshold)
	}
	for name, term := range sc.Numeric {
		if !contains(numericFeatures, name) {
			return fmt.Errorf("scorecard: unknown numeric feature %q", name)
		}
		if term.Transform != "" && term.Transform != "log1p" {
			return fmt.Errorf("scorecard: feature %q has unsupported transform %q", name, term.Transform)
		}
	}
	for name := range sc.Categorical {
		if !contains(categoricalFeatures, name) {
			return fmt.Errorf("scorecard: unknown categorical feature %q", name)
		}
	}
	return nil
}

// Score returns the approval probability for f.
func (sc *Scorecard) Score(f domain.LoanFeatures) float64 {
	z := sc.Intercept

	numeric := map[string]float64{
		FeatureGrAppv: f.GrAppv,
		FeatureTerm:   f.Term,
		FeatureNoEmp:  f.NoEmp,
	}
	// Sorted so the float sum is deterministic.
	for _, name := range sortedKeys(sc.Numeric) {
		term := sc.Numeric[name]
		v := numeric[name]
		if term.Transform == "log1p" {
			v = math.Log1p(math.Max(v, 0))
		}
		z += term.Weight * v
	}

	categorical := map[string]string{
		FeatureState:        f.State,
		FeatureNAICSSectors: f.NAICSSectors,
		FeatureNew:          f.New,
		FeatureFranchise:    f.Franchise,
		FeatureRevLineCr:    f.RevLineCr,
		FeatureLowDoc:       f.LowDoc,
		FeatureRural:        f.Rural,
	}
	for _, name := range sortedKeys(sc.Categorical) {
		z += sc.Categorical[name][categorical[name]]
	}

	return 1 / (1 + math.Exp(-z))
}

// ScorecardPredictor implements domain.Predictor with a Scorecard.
type ScorecardPredictor struct {
	card *Scorecard
}

// NewScorecardPredictor creates a ScorecardPredictor.
func NewScorecardPredictor(card *Scorecard) *ScorecardPredictor {
	return &ScorecardPredictor{card: card}
}

var _ domain.Predictor = (*ScorecardPredictor)(nil)

// Predict approves the request when its score reaches the threshold.
func (p *ScorecardPredictor) Predict(ctx context.Context, f domain.LoanFeatures) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return p.card.Score(f) >= p.card.Threshold, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
