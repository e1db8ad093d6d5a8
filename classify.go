package docbind

import "regexp"

// Band is a reserved numeric range of chapter numbers denoting a
// content category.
type Band int

// Band constants, ordered by classification precedence.
const (
	// BandDefault holds standard documentation, numbers 1-99.
	BandDefault Band = iota

	// BandFeature holds feature documentation, numbers 100-499.
	BandFeature

	// BandTemplate holds template series pages, numbers 500-999.
	BandTemplate

	// BandAPIReference holds API reference pages, numbers 1000 and up.
	BandAPIReference
)

// Base returns the first chapter number of the band.
func (b Band) Base() int {
	switch b {
	case BandFeature:
		return 100
	case BandTemplate:
		return 500
	case BandAPIReference:
		return 1000
	default:
		return 1
	}
}

// Max returns the last chapter number of the band, or 0 if the band
// is unbounded.
func (b Band) Max() int {
	switch b {
	case BandDefault:
		return 99
	case BandFeature:
		return 499
	case BandTemplate:
		return 999
	default:
		return 0
	}
}

// String returns the band name.
func (b Band) String() string {
	switch b {
	case BandFeature:
		return "feature"
	case BandTemplate:
		return "template"
	case BandAPIReference:
		return "api-reference"
	default:
		return "default"
	}
}

// Rule matches source paths into a band.
type Rule struct {
	Pattern *regexp.Regexp
	Band    Band
}

// Rules is an ordered list of classification rules, evaluated top to
// bottom with first match winning. Paths matching no rule classify
// into BandDefault.
type Rules []Rule

// Classify returns the band for a source path.
func (r Rules) Classify(path string) Band {
	for _, rule := range r {
		if rule.Pattern.MatchString(path) {
			return rule.Band
		}
	}
	return BandDefault
}

// DefaultRules returns the built-in classification rules. Callers can
// replace them with externally configured rules; the band contract
// stays the same either way.
func DefaultRules() Rules {
	return Rules{
		{Pattern: regexp.MustCompile(`(^|/)[a-z0-9-]*api(-reference)?(/|-)`), Band: BandAPIReference},
		{Pattern: regexp.MustCompile(`[a-z0-9-]+-\d+\.md$`), Band: BandTemplate},
		{Pattern: regexp.MustCompile(`(^|/)using-[a-z-]+-in-`), Band: BandFeature},
	}
}
