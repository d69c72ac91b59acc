package dialog

import (
	"strings"
	"testing"
	"time"

	"farelink/internal/flights"
)

func TestFormatAnswerRoundTrip(t *testing.T) {
	dep := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	ret := dep.Add(7 * 24 * time.Hour)
	it := &flights.Itinerary{
		Origin:        "LHR",
		Destination:   "KHI",
		DepartureDate: "2026-09-01",
		ReturnDate:    "2026-09-08",
		Outbound: []flights.Segment{
			{CarrierCode: "TK", FlightNumber: "TK1980", From: "LHR", To: "IST", Departure: dep, Arrival: dep.Add(4 * time.Hour)},
			{CarrierCode: "TK", FlightNumber: "TK708", From: "IST", To: "KHI", Departure: dep.Add(6 * time.Hour), Arrival: dep.Add(12 * time.Hour)},
		},
		Inbound: []flights.Segment{
			{CarrierCode: "TK", FlightNumber: "TK709", From: "KHI", To: "LHR", Departure: ret, Arrival: ret.Add(10 * time.Hour)},
		},
		Price:   flights.Price{Base: 380, Taxes: 95, Total: 475, Currency: "USD"},
		Baggage: flights.Baggage{Specified: true, Pieces: 2, Weight: "23kg"},
	}

	text := formatAnswer(it, nil, "en")
	for _, want := range []string{
		"LHR → KHI · 2026-09-01",
		"KHI → LHR · 2026-09-08",
		"TK TK1980",
		"(1 stop(s))",
		"475.00 USD",
		"(380.00 + 95.00 taxes)",
		"2 x 23kg checked baggage",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("answer missing %q in:\n%s", want, text)
		}
	}
}

func TestFormatAnswerAlternatives(t *testing.T) {
	dep := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	best := &flights.Itinerary{
		Origin: "LHR", Destination: "JFK", DepartureDate: "2026-09-01",
		Outbound: []flights.Segment{{CarrierCode: "BA", FlightNumber: "BA117", From: "LHR", To: "JFK", Departure: dep, Arrival: dep.Add(8 * time.Hour)}},
		Price:    flights.Price{Total: 420, Currency: "USD"},
	}
	alt := flights.Itinerary{
		Origin: "LGW", Destination: "JFK", DepartureDate: "2026-09-01",
		Outbound: []flights.Segment{{CarrierCode: "VS", FlightNumber: "VS153", From: "LGW", To: "JFK", Departure: dep, Arrival: dep.Add(8 * time.Hour)}},
		Price:    flights.Price{Total: 455, Currency: "USD"},
	}

	text := formatAnswer(best, []flights.Itinerary{alt}, "en")
	if !strings.Contains(text, "Other options:") {
		t.Errorf("missing alternatives header:\n%s", text)
	}
	if !strings.Contains(text, "2. VS · 2026-09-01, 455.00 USD") {
		t.Errorf("missing alternative line:\n%s", text)
	}
}

func TestFormatAnswerBaggageUnspecified(t *testing.T) {
	dep := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	it := &flights.Itinerary{
		Origin: "LHR", Destination: "JFK", DepartureDate: "2026-09-01",
		Outbound: []flights.Segment{{CarrierCode: "BA", FlightNumber: "BA117", From: "LHR", To: "JFK", Departure: dep, Arrival: dep.Add(8 * time.Hour)}},
		Price:    flights.Price{Total: 420, Currency: "USD"},
	}

	text := formatAnswer(it, nil, "en")
	if !strings.Contains(text, "🧳 Baggage allowance not specified") {
		t.Errorf("missing unspecified-baggage line:\n%s", text)
	}

	if got := formatAnswer(it, nil, "es"); !strings.Contains(got, "Equipaje no especificado") {
		t.Errorf("missing localized unspecified-baggage line:\n%s", got)
	}
}

func TestLocalizeFallsBackToEnglish(t *testing.T) {
	if localize("xx", replyAskOrigin) != localize("en", replyAskOrigin) {
		t.Error("unknown language should fall back to English")
	}
	if localize("ur", replyAskOrigin) == localize("en", replyAskOrigin) {
		t.Error("urdu translation should differ from English")
	}
}
