package catalog

import "strings"

// guidProviders lists provider keys in order of preference.
var guidProviders = []string{"imdb", "tmdb", "tvdb"}

// CanonicalGUID derives the stable identifier used to match items across
// servers. Provider keys are compared case-insensitively; the first present
// provider in imdb, tmdb, tvdb order wins. Returns "" when none is present.
func CanonicalGUID(providerIDs map[string]string) string {
	if len(providerIDs) == 0 {
		return ""
	}
	normalized := make(map[string]string, len(providerIDs))
	for k, v := range providerIDs {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		normalized[strings.ToLower(k)] = v
	}
	for _, p := range guidProviders {
		if v, ok := normalized[p]; ok {
			return p + "://" + strings.ToLower(v)
		}
	}
	return ""
}
