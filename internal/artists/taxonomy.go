package artists

// The five capability taxonomies. Terms belong to exactly one taxonomy;
// the set is fixed, term administration beyond seeding is out of scope.
const (
	TaxonomyPerformerType      = "performer_type"
	TaxonomyInstrumentCategory = "instrument_category"
	TaxonomyKeyboardParts      = "keyboard_parts"
	TaxonomyVocalType          = "vocal_type"
	TaxonomyVocalRole          = "vocal_role"
)

// Taxonomies lists all capability taxonomies in display order.
var Taxonomies = []string{
	TaxonomyPerformerType,
	TaxonomyInstrumentCategory,
	TaxonomyKeyboardParts,
	TaxonomyVocalType,
	TaxonomyVocalRole,
}

// IsValidTaxonomy reports whether name is one of the fixed taxonomies.
func IsValidTaxonomy(name string) bool {
	for _, t := range Taxonomies {
		if t == name {
			return true
		}
	}
	return false
}

// Weekdays accepted in the availability set.
var weekdays = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

// IsValidWeekday reports whether day is an accepted weekday name.
func IsValidWeekday(day string) bool {
	return weekdays[day]
}
