package utils

import "strings"

// Canonical shop category labels
const (
	CategoryMotor       = "Motor"
	CategoryKaporta     = "Kaporta"
	CategoryElektrik    = "Elektrik"
	CategoryLastik      = "Lastik"
	CategoryMaintenance = "Bakım"
)

// CanonicalCategories lists the preferred labels in display order
var CanonicalCategories = []string{
	CategoryMotor,
	CategoryKaporta,
	CategoryElektrik,
	CategoryLastik,
	CategoryMaintenance,
}

// categoryAliases maps lower-cased client values to canonical labels
var categoryAliases = map[string]string{
	"motor":       CategoryMotor,
	"engine":      CategoryMotor,
	"kaporta":     CategoryKaporta,
	"bodywork":    CategoryKaporta,
	"elektrik":    CategoryElektrik,
	"electric":    CategoryElektrik,
	"electrical":  CategoryElektrik,
	"lastik":      CategoryLastik,
	"tires":       CategoryLastik,
	"tyres":       CategoryLastik,
	"bakim":       CategoryMaintenance,
	"bakım":       CategoryMaintenance,
	"maintenance": CategoryMaintenance,
}

// NormalizeCategory maps a client-supplied category to its canonical label.
// Unknown values pass through trimmed but otherwise unchanged.
func NormalizeCategory(category string) string {
	trimmed := strings.TrimSpace(category)
	if canonical, ok := categoryAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// NormalizeCategories normalizes a list, dropping empties and duplicates while
// keeping first-seen order.
func NormalizeCategories(categories []string) []string {
	out := make([]string, 0, len(categories))
	seen := make(map[string]struct{}, len(categories))
	for _, category := range categories {
		normalized := NormalizeCategory(category)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
