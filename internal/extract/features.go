package extract

import (
	"fmt"
	"slices"
	"strings"
)

// FeatureSet is a conditional-compilation predicate: any one of the
// named features being enabled activates the gated declaration. The
// empty set means unconditional. Names are kept sorted and deduped.
type FeatureSet []string

// NewFeatureSet builds a normalized feature set.
func NewFeatureSet(names ...string) FeatureSet {
	set := slices.Clone(names)
	slices.Sort(set)

	return slices.Compact(set)
}

// Empty reports whether the predicate is unconditional.
func (fs FeatureSet) Empty() bool {
	return len(fs) == 0
}

// Contains reports whether the set names the feature.
func (fs FeatureSet) Contains(name string) bool {
	_, found := slices.BinarySearch(fs, name)

	return found
}

func (fs FeatureSet) subsetOf(other FeatureSet) bool {
	for _, name := range fs {
		if !other.Contains(name) {
			return false
		}
	}

	return true
}

// Merge combines two predicates attached to one declaration. The empty
// predicate is absorbed by any non-empty one; otherwise one side must
// be a subset of the other and the smaller (more specific) side wins.
// Overlapping but incomparable predicates violate an invariant: the
// modeled library never layers two independent narrowings on one
// declaration.
func Merge(a, b FeatureSet) (FeatureSet, error) {
	switch {
	case a.Empty():
		return b, nil
	case b.Empty():
		return a, nil
	case len(a) < len(b):
		if !a.subsetOf(b) {
			return nil, incomparable(a, b)
		}

		return a, nil
	default:
		if !b.subsetOf(a) {
			return nil, incomparable(a, b)
		}

		return b, nil
	}
}

// Resolve folds a declaration's accumulated predicates into one.
func Resolve(sets []FeatureSet) (FeatureSet, error) {
	var merged FeatureSet

	for _, set := range sets {
		var err error

		merged, err = Merge(merged, set)
		if err != nil {
			return nil, err
		}
	}

	return merged, nil
}

func incomparable(a, b FeatureSet) error {
	return fmt.Errorf("%w: incomparable feature predicates %v and %v", ErrInvariant, []string(a), []string(b))
}

// ParseCfg parses the argument tokens of a `cfg` attribute. Only two
// forms are understood: a single `feature = "name"` and a disjunction
// `any(feature = "a", feature = "b", ...)`. Anything else is an
// invariant violation.
func ParseCfg(args string) (FeatureSet, error) {
	inner, ok := delimited(strings.TrimSpace(args), "(", ")")
	if !ok {
		return nil, badCfg(args)
	}

	if rest, found := strings.CutPrefix(inner, "any"); found {
		list, ok := delimited(strings.TrimSpace(rest), "(", ")")
		if !ok {
			return nil, badCfg(args)
		}

		var names []string

		for entry := range strings.SplitSeq(list, ",") {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}

			name, err := parseFeatureEq(entry)
			if err != nil {
				return nil, err
			}

			names = append(names, name)
		}

		if len(names) == 0 {
			return nil, badCfg(args)
		}

		return NewFeatureSet(names...), nil
	}

	name, err := parseFeatureEq(inner)
	if err != nil {
		return nil, err
	}

	return NewFeatureSet(name), nil
}

func parseFeatureEq(entry string) (string, error) {
	rest, found := strings.CutPrefix(strings.TrimSpace(entry), "feature")
	if !found {
		return "", badCfg(entry)
	}

	rest, found = strings.CutPrefix(strings.TrimSpace(rest), "=")
	if !found {
		return "", badCfg(entry)
	}

	name, ok := delimited(strings.TrimSpace(rest), `"`, `"`)
	if !ok || name == "" || strings.ContainsAny(name, `"\`) {
		return "", badCfg(entry)
	}

	return name, nil
}

func delimited(s, opening, closing string) (string, bool) {
	inner, found := strings.CutPrefix(s, opening)
	if !found {
		return "", false
	}

	inner, found = strings.CutSuffix(inner, closing)
	if !found {
		return "", false
	}

	return strings.TrimSpace(inner), true
}

func badCfg(text string) error {
	return fmt.Errorf("%w: unsupported cfg expression %q", ErrInvariant, text)
}
