package resolver

import (
	"strings"

	"github.com/greenledger/emfactor/internal/factor"
)

// defaultProxies maps activity prefixes onto the coarser category queried
// when the activity itself has no records. Longest prefix wins. Datasets may
// extend this table through the engine's WithProxies option.
var defaultProxies = map[string]string{
	"refrigerant_":   "refrigerant_leak",
	"freight_truck_": "freight_truck",
	"freight_rail_":  "freight_rail",
	"freight_ship_":  "freight_ship",
	"passenger_car_": "passenger_car",
	"passenger_bus_": "passenger_bus",
	"flight_":        "air_travel",
	"hotel_":         "hotel_stay",
	"waste_":         "waste_landfill",
	"biomass_":       "biomass",
	"coal_":          "coal",
}

// proxyFor returns the coarser category to retry with for an activity the
// store does not know. The explicit table is consulted first (longest
// matching prefix), then trailing qualifier segments are trimmed until a
// known activity appears.
func (e *Engine) proxyFor(store *factor.Store, activityKey string) (string, bool) {
	// Longest prefix wins; lexical order settles equal lengths so the choice
	// never depends on map iteration order.
	var best string
	var bestLen int
	for prefix, category := range e.proxies {
		if !strings.HasPrefix(activityKey, prefix) {
			continue
		}
		if len(prefix) > bestLen || (len(prefix) == bestLen && category < best) {
			best, bestLen = category, len(prefix)
		}
	}
	if best != "" && best != activityKey && store.HasActivity(best) {
		return best, true
	}

	// freight_truck_heavy -> freight_truck -> freight
	trimmed := activityKey
	for {
		idx := strings.LastIndex(trimmed, "_")
		if idx <= 0 {
			return "", false
		}
		trimmed = trimmed[:idx]
		if store.HasActivity(trimmed) {
			return trimmed, true
		}
	}
}
