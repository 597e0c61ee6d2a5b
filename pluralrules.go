package fluent

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// PluralCategory is a CLDR plural category: the set a SelectExpression
// variant key can match against when the selector resolves to a number.
type PluralCategory string

const (
	PluralZero  PluralCategory = "zero"
	PluralOne   PluralCategory = "one"
	PluralTwo   PluralCategory = "two"
	PluralFew   PluralCategory = "few"
	PluralMany  PluralCategory = "many"
	PluralOther PluralCategory = "other"
)

func pluralCategoryOrder(category PluralCategory) int {
	switch category {
	case PluralZero:
		return 0
	case PluralOne:
		return 1
	case PluralTwo:
		return 2
	case PluralFew:
		return 3
	case PluralMany:
		return 4
	case PluralOther:
		return 5
	default:
		return 99
	}
}

func parsePluralCategory(raw string) (PluralCategory, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "zero":
		return PluralZero, nil
	case "one":
		return PluralOne, nil
	case "two":
		return PluralTwo, nil
	case "few":
		return PluralFew, nil
	case "many":
		return PluralMany, nil
	case "other":
		return PluralOther, nil
	default:
		return "", fmt.Errorf("fluent: unknown plural category %q", raw)
	}
}

// PluralConditionOperator is the comparison a PluralCondition applies
// between a CLDR operand and its Values/Ranges.
type PluralConditionOperator string

const (
	OperatorEquals    PluralConditionOperator = "equals"
	OperatorNotEquals PluralConditionOperator = "not-equals"
	OperatorIn        PluralConditionOperator = "in"
	OperatorNotIn     PluralConditionOperator = "not-in"
	OperatorWithin    PluralConditionOperator = "within"
	OperatorNotWithin PluralConditionOperator = "not-within"
)

func parseConditionOperator(raw string) (PluralConditionOperator, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(OperatorEquals), "=":
		return OperatorEquals, nil
	case string(OperatorNotEquals), "!=":
		return OperatorNotEquals, nil
	case string(OperatorIn):
		return OperatorIn, nil
	case string(OperatorNotIn):
		return OperatorNotIn, nil
	case string(OperatorWithin):
		return OperatorWithin, nil
	case string(OperatorNotWithin):
		return OperatorNotWithin, nil
	default:
		return "", fmt.Errorf("fluent: unknown condition operator %q", raw)
	}
}

// PluralRange is an inclusive bound used by the "within"/"not-within"
// operators, e.g. 3..7.
type PluralRange struct {
	Start float64
	End   float64
}

// PluralCondition is one CLDR relation clause, e.g. "i = 0 and v = 0" would
// be expressed as two PluralConditions ANDed together inside a group.
// Operand is one of the CLDR plural operands "n" (absolute value), "i"
// (integer part), "v" (number of visible fraction digits) or "f" (visible
// fraction digits as an integer); a condition on any other operand name
// never matches. Mod, when non-zero, reduces the operand modulo Mod before
// comparison ("i % 10").
type PluralCondition struct {
	Operand  string
	Mod      int
	Operator PluralConditionOperator
	Values   []float64
	Ranges   []PluralRange
}

func (c PluralCondition) matches(n float64, precision int) bool {
	operand, ok := computeOperand(c.Operand, n, precision)
	if !ok {
		return false
	}
	if c.Mod > 0 {
		operand = math.Mod(operand, float64(c.Mod))
	}

	inSet := containsValue(c.Values, operand) || containsRange(c.Ranges, operand)

	switch c.Operator {
	case OperatorEquals, OperatorIn, OperatorWithin:
		return inSet
	case OperatorNotEquals, OperatorNotIn, OperatorNotWithin:
		return !inSet
	default:
		return false
	}
}

func containsValue(values []float64, v float64) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func containsRange(ranges []PluralRange, v float64) bool {
	for _, r := range ranges {
		if v >= r.Start && v <= r.End {
			return true
		}
	}
	return false
}

// computeOperand derives one CLDR plural operand from a resolved number
// and the fractional precision carried by its NumberLiteral/NumberValue.
func computeOperand(name string, n float64, precision int) (float64, bool) {
	abs := math.Abs(n)
	switch name {
	case "n":
		return abs, true
	case "i":
		return math.Trunc(abs), true
	case "v":
		return float64(precision), true
	case "f":
		if precision == 0 {
			return 0, true
		}
		scale := math.Pow(10, float64(precision))
		frac := abs - math.Trunc(abs)
		return math.Round(frac * scale), true
	default:
		return 0, false
	}
}

// PluralRule maps one plural category to the condition groups that select
// it: a rule matches when any group matches, and a group matches when all
// of its conditions match (disjunction of conjunctions, as CLDR rules are
// expressed).
type PluralRule struct {
	Category PluralCategory
	Groups   [][]PluralCondition
}

func (r PluralRule) matches(n float64, precision int) bool {
	if len(r.Groups) == 0 {
		return r.Category == PluralOther
	}
	for _, group := range r.Groups {
		all := true
		for _, cond := range group {
			if !cond.matches(n, precision) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// PluralRuleSet is one locale's complete cardinal plural rule table.
type PluralRuleSet struct {
	Locale      string
	DisplayName string
	Parent      string
	Rules       []PluralRule
}

func (rs *PluralRuleSet) selectCategory(n float64, precision int) PluralCategory {
	for _, rule := range rs.Rules {
		if rule.Category == PluralOther {
			continue
		}
		if rule.matches(n, precision) {
			return rule.Category
		}
	}
	return PluralOther
}

// PluralRules is the pluggable collaborator the resolver asks to map a
// selector number onto a CLDR category when matching SelectExpression
// variants. Bundles default to EnglishPluralRules when none is configured.
type PluralRules interface {
	Select(locale string, n float64, precision int) PluralCategory
}

// EnglishPluralRules implements the (trivial) English cardinal rule:
// "one" for n == 1 with no visible fraction digits (precision 0), "other"
// otherwise. It is the Bundle default so a
// Bundle is usable out of the box without loading CLDR data.
type EnglishPluralRules struct{}

func (EnglishPluralRules) Select(_ string, n float64, precision int) PluralCategory {
	if precision == 0 && n == 1 {
		return PluralOne
	}
	return PluralOther
}

// TablePluralRules selects a plural category by walking a locale's
// PluralRuleSet, falling back through its BCP-47 parent chain and finally
// to EnglishPluralRules when a locale has no registered rules at all.
type TablePluralRules struct {
	sets map[string]*PluralRuleSet
}

// NewTablePluralRules builds a PluralRules backed by the given per-locale
// rule sets, as produced by LoadPluralRulesJSON/LoadPluralRulesYAML.
func NewTablePluralRules(sets map[string]*PluralRuleSet) *TablePluralRules {
	return &TablePluralRules{sets: sets}
}

func (t *TablePluralRules) Select(locale string, n float64, precision int) PluralCategory {
	if t != nil {
		if rs, ok := t.sets[normalizeLocale(locale)]; ok {
			return rs.selectCategory(n, precision)
		}
		for _, parent := range localeParentChain(locale) {
			if rs, ok := t.sets[parent]; ok {
				return rs.selectCategory(n, precision)
			}
		}
	}
	return EnglishPluralRules{}.Select(locale, n, precision)
}

// --- fixture loading -------------------------------------------------

type rawPluralRulesFile struct {
	Locales map[string]rawLocaleRules `json:"locales" yaml:"locales"`
}

type rawLocaleRules struct {
	Name     string                         `json:"name" yaml:"name"`
	Parent   string                         `json:"parent" yaml:"parent"`
	Cardinal map[string][]rawConditionGroup `json:"cardinal" yaml:"cardinal"`
}

type rawConditionGroup []rawCondition

type rawCondition struct {
	Operand  string     `json:"operand" yaml:"operand"`
	Mod      *int       `json:"mod,omitempty" yaml:"mod,omitempty"`
	Operator string     `json:"operator" yaml:"operator"`
	Values   []float64  `json:"values,omitempty" yaml:"values,omitempty"`
	Ranges   []rawRange `json:"ranges,omitempty" yaml:"ranges,omitempty"`
}

type rawRange struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// LoadPluralRulesJSON decodes a CLDR-style plural rule fixture, keyed by
// locale, accepting either `{"locales": {...}}` or a bare locale map.
func LoadPluralRulesJSON(data []byte) (map[string]*PluralRuleSet, error) {
	wrapper := rawPluralRulesFile{}
	if err := json.Unmarshal(data, &wrapper); err != nil || len(wrapper.Locales) == 0 {
		var direct map[string]rawLocaleRules
		if errDirect := json.Unmarshal(data, &direct); errDirect != nil {
			if err != nil {
				return nil, err
			}
			return nil, errDirect
		}
		wrapper.Locales = direct
	}
	return buildRuleSets(wrapper.Locales)
}

// LoadPluralRulesYAML decodes the YAML form of the same fixture shape as
// LoadPluralRulesJSON.
func LoadPluralRulesYAML(data []byte) (map[string]*PluralRuleSet, error) {
	wrapper := rawPluralRulesFile{}
	if err := yaml.Unmarshal(data, &wrapper); err != nil || len(wrapper.Locales) == 0 {
		var direct map[string]rawLocaleRules
		if errDirect := yaml.Unmarshal(data, &direct); errDirect != nil {
			if err != nil {
				return nil, err
			}
			return nil, errDirect
		}
		wrapper.Locales = direct
	}
	return buildRuleSets(wrapper.Locales)
}

func buildRuleSets(raw map[string]rawLocaleRules) (map[string]*PluralRuleSet, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("fluent: plural rule fixture has no locales")
	}
	result := make(map[string]*PluralRuleSet, len(raw))
	for locale, rawRules := range raw {
		ruleSet, err := buildRuleSet(locale, rawRules)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", locale, err)
		}
		result[normalizeLocale(locale)] = ruleSet
	}
	return result, nil
}

func buildRuleSet(locale string, raw rawLocaleRules) (*PluralRuleSet, error) {
	if len(raw.Cardinal) == 0 {
		return nil, fmt.Errorf("fluent: missing cardinal rules")
	}

	categories := make([]string, 0, len(raw.Cardinal))
	for category := range raw.Cardinal {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	entries := make([]PluralRule, 0, len(categories))
	for _, category := range categories {
		cat, err := parsePluralCategory(category)
		if err != nil {
			return nil, err
		}

		rawGroups := raw.Cardinal[category]
		groups := make([][]PluralCondition, 0, len(rawGroups))
		for _, rawGroup := range rawGroups {
			if len(rawGroup) == 0 {
				continue
			}
			conditions := make([]PluralCondition, 0, len(rawGroup))
			for _, rc := range rawGroup {
				operator, err := parseConditionOperator(rc.Operator)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", category, err)
				}
				cond := PluralCondition{Operand: rc.Operand, Operator: operator}
				if rc.Mod != nil {
					cond.Mod = *rc.Mod
				}
				if len(rc.Values) > 0 {
					cond.Values = append([]float64(nil), rc.Values...)
				}
				if len(rc.Ranges) > 0 {
					cond.Ranges = make([]PluralRange, 0, len(rc.Ranges))
					for _, r := range rc.Ranges {
						cond.Ranges = append(cond.Ranges, PluralRange{Start: r.Start, End: r.End})
					}
				}
				conditions = append(conditions, cond)
			}
			if len(conditions) > 0 {
				groups = append(groups, conditions)
			}
		}
		entries = append(entries, PluralRule{Category: cat, Groups: groups})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return pluralCategoryOrder(entries[i].Category) < pluralCategoryOrder(entries[j].Category)
	})

	hasOther := false
	for _, entry := range entries {
		if entry.Category == PluralOther {
			hasOther = true
			break
		}
	}
	if !hasOther {
		entries = append(entries, PluralRule{Category: PluralOther})
	}

	return &PluralRuleSet{
		Locale:      normalizeLocale(locale),
		DisplayName: raw.Name,
		Parent:      normalizeLocale(raw.Parent),
		Rules:       entries,
	}, nil
}
