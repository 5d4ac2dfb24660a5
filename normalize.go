package breeze

import "fmt"

// CityKey is the canonical argument key for the weather tool.
const CityKey = "city"

// citySynonyms lists the keys models use instead of CityKey, in precedence order.
var citySynonyms = []string{"city_name", "location"}

// NormalizeArguments returns a copy of args in which the first known
// synonym of CityKey has been renamed to CityKey. Arguments that already
// carry CityKey are returned unchanged. When no city-bearing key is
// present the error wraps ErrInvalidToolArguments.
func NormalizeArguments(args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	if _, ok := out[CityKey]; ok {
		return out, nil
	}
	for _, key := range citySynonyms {
		if v, ok := out[key]; ok {
			delete(out, key)
			out[CityKey] = v
			return out, nil
		}
	}
	return nil, fmt.Errorf("missing %q argument: %w", CityKey, ErrInvalidToolArguments)
}
