// README: Place-to-airport resolution backed by the static reference table.
// Resolution is a pure lookup: the same input always yields the same codes
// in the same order, with no network calls involved.
package airports

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

var ErrUnresolved = errors.New("airports: place not resolved")

// Resolution is the outcome of resolving a free-text place mention.
type Resolution struct {
	City  string   // canonical city name, lower case
	Codes []string // IATA codes, primary airport first
}

// Primary returns the preferred airport for the resolved city.
func (r Resolution) Primary() string {
	if len(r.Codes) == 0 {
		return ""
	}
	return r.Codes[0]
}

var iataPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// strippable noise words around a city mention ("to london", "from the city of paris").
var fillerWords = map[string]bool{
	"to": true, "from": true, "in": true, "at": true, "the": true,
	"city": true, "of": true, "airport": true,
}

// Resolve maps a free-text place mention to its city and airport codes.
// A bare three-letter token is treated as an IATA code when the table
// knows it; unknown codes are passed through as-is so explicit user
// codes are never discarded. Unknown city names return ErrUnresolved.
func Resolve(place string) (Resolution, error) {
	normalized := normalize(place)
	if normalized == "" {
		return Resolution{}, ErrUnresolved
	}

	if iataPattern.MatchString(normalized) {
		code := strings.ToUpper(normalized)
		if city, ok := cityByCode[code]; ok {
			return Resolution{City: city, Codes: []string{code}}, nil
		}
		return Resolution{City: normalized, Codes: []string{code}}, nil
	}

	if codes, ok := multiAirportCities[normalized]; ok {
		return Resolution{City: normalized, Codes: codes}, nil
	}
	if codes, ok := singleAirportCities[normalized]; ok {
		return Resolution{City: normalized, Codes: codes}, nil
	}

	// Substring fallback over sorted keys keeps the match deterministic
	// when more than one city name contains the mention.
	for _, city := range allCityNames() {
		if strings.Contains(normalized, city) {
			return Resolution{City: city, Codes: codesFor(city)}, nil
		}
	}

	return Resolution{}, ErrUnresolved
}

// CityFor returns the canonical city served by the given IATA code.
func CityFor(code string) (string, bool) {
	city, ok := cityByCode[strings.ToUpper(strings.TrimSpace(code))]
	return city, ok
}

func normalize(place string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(place)))
	kept := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, ".,!?")
		if f == "" || fillerWords[f] {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

func codesFor(city string) []string {
	if codes, ok := multiAirportCities[city]; ok {
		return codes
	}
	return singleAirportCities[city]
}

var (
	cityByCode = buildReverseIndex()
	cityNames  = buildCityNames()
)

func allCityNames() []string { return cityNames }

func buildReverseIndex() map[string]string {
	index := make(map[string]string, 256)
	for city, codes := range multiAirportCities {
		for _, code := range codes {
			index[code] = city
		}
	}
	for city, codes := range singleAirportCities {
		for _, code := range codes {
			if _, taken := index[code]; !taken {
				index[code] = city
			}
		}
	}
	return index
}

func buildCityNames() []string {
	names := make([]string, 0, len(multiAirportCities)+len(singleAirportCities))
	for city := range multiAirportCities {
		names = append(names, city)
	}
	for city := range singleAirportCities {
		names = append(names, city)
	}
	sort.Strings(names)
	return names
}
