package fluent

import (
	"strings"

	"golang.org/x/text/language"
)

func localeParentTag(locale string) string {
	if locale == "" {
		return ""
	}

	tag, err := language.Parse(locale)
	if err == nil {
		parent := tag.Parent()
		if parent == language.Und {
			return ""
		}
		value := parent.String()
		if value == "" || value == "und" {
			return ""
		}
		return value
	}

	if idx := strings.LastIndex(locale, "-"); idx > 0 {
		return locale[:idx]
	}

	return ""
}

// localeParentChain returns locale's BCP-47 ancestor chain, ordered from
// closest parent to root, used by TablePluralRules to find a rule set when
// the locale itself has none registered.
func localeParentChain(locale string) []string {
	if locale == "" {
		return nil
	}

	var chain []string
	seen := make(map[string]struct{}, 4)

	if tag, err := language.Parse(locale); err == nil {
		for parent := tag.Parent(); parent != language.Und; parent = parent.Parent() {
			parentValue := parent.String()
			if parentValue == "" || parentValue == "und" {
				break
			}
			if _, exists := seen[parentValue]; exists {
				break
			}
			seen[parentValue] = struct{}{}
			chain = append(chain, parentValue)
		}
	}

	for current := localeParentTag(locale); current != ""; current = localeParentTag(current) {
		if _, exists := seen[current]; exists {
			continue
		}
		seen[current] = struct{}{}
		chain = append(chain, current)
	}

	return chain
}

// normalizeLocale normalizes a single locale identifier by replacing
// underscores with hyphens and trimming whitespace.
func normalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
}

// normalizeLocales normalizes and deduplicates locales, preserving order:
// a Bundle's locale list is a fallback chain from most to least specific,
// not a set, so it must not be sorted.
func normalizeLocales(locales []string) []string {
	if len(locales) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(locales))
	result := make([]string, 0, len(locales))
	for _, locale := range locales {
		normalized := normalizeLocale(locale)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}

	return result
}
