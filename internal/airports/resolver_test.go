package airports

import (
	"errors"
	"testing"
)

func TestResolveMultiAirportCity(t *testing.T) {
	res, err := Resolve("London")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	want := []string{"LHR", "LGW", "STN", "LTN", "LCY"}
	if len(res.Codes) != len(want) {
		t.Fatalf("expected %d codes, got %v", len(want), res.Codes)
	}
	for i, code := range want {
		if res.Codes[i] != code {
			t.Errorf("code[%d] = %s, want %s", i, res.Codes[i], code)
		}
	}
	if res.Primary() != "LHR" {
		t.Errorf("primary = %s, want LHR", res.Primary())
	}
}

func TestResolveStripsFillerWords(t *testing.T) {
	cases := []struct {
		in   string
		city string
	}{
		{"to New York", "new york"},
		{"from the city of Paris", "paris"},
		{"Karachi airport", "karachi"},
		{"  MADRID  ", "madrid"},
	}
	for _, tc := range cases {
		res, err := Resolve(tc.in)
		if err != nil {
			t.Fatalf("Resolve(%q) returned error: %v", tc.in, err)
		}
		if res.City != tc.city {
			t.Errorf("Resolve(%q).City = %s, want %s", tc.in, res.City, tc.city)
		}
	}
}

func TestResolveIATACode(t *testing.T) {
	res, err := Resolve("jfk")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.City != "new york" || len(res.Codes) != 1 || res.Codes[0] != "JFK" {
		t.Errorf("unexpected resolution: %+v", res)
	}

	// unknown three-letter codes pass through untouched
	res, err = Resolve("XQZ")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(res.Codes) != 1 || res.Codes[0] != "XQZ" {
		t.Errorf("unknown code should pass through, got %+v", res)
	}
}

func TestResolveUnknownPlace(t *testing.T) {
	if _, err := Resolve("atlantis"); !errors.Is(err, ErrUnresolved) {
		t.Errorf("expected ErrUnresolved, got %v", err)
	}
	if _, err := Resolve("   "); !errors.Is(err, ErrUnresolved) {
		t.Errorf("expected ErrUnresolved for blank input, got %v", err)
	}
}

func TestResolveDeterministic(t *testing.T) {
	first, err := Resolve("new york")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := Resolve("new york")
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		for j := range first.Codes {
			if again.Codes[j] != first.Codes[j] {
				t.Fatalf("iteration %d: codes changed order: %v vs %v", i, again.Codes, first.Codes)
			}
		}
	}
}

func TestCityFor(t *testing.T) {
	city, ok := CityFor("lhr")
	if !ok || city != "london" {
		t.Errorf("CityFor(lhr) = %q, %v", city, ok)
	}
	if _, ok := CityFor("ZZZ"); ok {
		t.Error("CityFor(ZZZ) should not resolve")
	}
}
