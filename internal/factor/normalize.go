package factor

import (
	"strings"
)

// activitySynonyms folds the alternate spellings seen in extracted documents
// onto the dataset's canonical activity keys.
var activitySynonyms = map[string]string{
	"petrol":            "gasoline",
	"motor_spirit":      "gasoline",
	"hsd":               "diesel",
	"high_speed_diesel": "diesel",
	"gas_oil":           "diesel",
	"power":             "electricity",
	"grid_electricity":  "electricity",
	"electricity_grid":  "electricity",
	"png":               "natural_gas",
	"piped_natural_gas": "natural_gas",
	"aviation_fuel":     "jet_fuel",
	"atf":               "jet_fuel",
	"cooking_gas":       "lpg",
	"air_conditioning":  "refrigerant_r410a",
	"goods_transport":   "freight_truck",
	"road_freight":      "freight_truck",
	"employee_commute":  "passenger_car",
	"municipal_water":   "water_supply",
	"solid_waste":       "waste_landfill",
	"garbage":           "waste_landfill",
}

// NormalizeActivity folds a caller-facing activity name onto the identity
// used for store lookups: lowercased, separators collapsed to underscores,
// synonyms resolved. It is intentionally forgiving; unresolved names pass
// through in folded form so the resolver's later layers can still try them.
func NormalizeActivity(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", " ", "/", " ", ".", " ", ",", " ").Replace(key)
	key = strings.Join(strings.Fields(key), "_")

	if canonical, ok := activitySynonyms[key]; ok {
		return canonical
	}
	return key
}

// NormalizeRegion folds a region name for index comparison. The
// distinguished GlobalRegion folds onto itself so callers may spell it in
// any case.
func NormalizeRegion(raw string) string {
	region := strings.ToLower(strings.TrimSpace(raw))
	return strings.Join(strings.Fields(region), " ")
}

// IsGlobal reports whether a region names the universal fallback scope.
func IsGlobal(region string) bool {
	return NormalizeRegion(region) == NormalizeRegion(GlobalRegion)
}
