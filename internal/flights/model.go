// README: Flight supplier domain types shared by the gateway and the
// bulk-search layer.
package flights

import (
	"context"
	"time"
)

// Segment is one flown leg of an itinerary.
type Segment struct {
	CarrierCode   string        `json:"carrier_code"`
	CarrierName   string        `json:"carrier_name,omitempty"`
	FlightNumber  string        `json:"flight_number"`
	From          string        `json:"from"`
	FromCity      string        `json:"from_city,omitempty"`
	To            string        `json:"to"`
	ToCity        string        `json:"to_city,omitempty"`
	Departure     time.Time     `json:"departure"`
	Arrival       time.Time     `json:"arrival"`
	FlightTime    time.Duration `json:"flight_time"`
	BookingClass  string        `json:"booking_class,omitempty"`
}

// Price is the quoted fare for the whole itinerary.
type Price struct {
	Base     float64 `json:"base"`
	Taxes    float64 `json:"taxes"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

// Baggage is the checked allowance attached to a fare. Suppliers often
// omit it; Specified distinguishes "no allowance" from "not stated".
type Baggage struct {
	Specified   bool   `json:"specified"`
	Pieces      int    `json:"pieces,omitempty"`
	Weight      string `json:"weight,omitempty"`
	Description string `json:"description,omitempty"`
}

// Itinerary is one bookable option returned by the supplier.
type Itinerary struct {
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureDate string    `json:"departure_date"`
	ReturnDate    string    `json:"return_date,omitempty"`
	Outbound      []Segment `json:"outbound"`
	Inbound       []Segment `json:"inbound,omitempty"`
	Price         Price     `json:"price"`
	Baggage       Baggage   `json:"baggage"`
	CabinClass    string    `json:"cabin_class,omitempty"`
}

// Stops counts intermediate stops on the outbound journey.
func (it *Itinerary) Stops() int {
	if len(it.Outbound) == 0 {
		return 0
	}
	return len(it.Outbound) - 1
}

// DepartureTime is the first outbound departure, used as the final
// ranking tiebreak.
func (it *Itinerary) DepartureTime() time.Time {
	if len(it.Outbound) == 0 {
		return time.Time{}
	}
	return it.Outbound[0].Departure
}

// Elapsed is total door-to-door time across both directions, the second
// ranking tiebreak after price.
func (it *Itinerary) Elapsed() time.Duration {
	var total time.Duration
	total += spanOf(it.Outbound)
	total += spanOf(it.Inbound)
	return total
}

func spanOf(segments []Segment) time.Duration {
	if len(segments) == 0 {
		return 0
	}
	return segments[len(segments)-1].Arrival.Sub(segments[0].Departure)
}

// Carriers lists the distinct marketing carriers across all segments.
func (it *Itinerary) Carriers() []string {
	seen := make(map[string]bool, 2)
	var out []string
	for _, seg := range append(append([]Segment{}, it.Outbound...), it.Inbound...) {
		if seg.CarrierCode != "" && !seen[seg.CarrierCode] {
			seen[seg.CarrierCode] = true
			out = append(out, seg.CarrierCode)
		}
	}
	return out
}

// Query is a single origin-destination-date probe against the supplier.
type Query struct {
	Origin        string
	Destination   string
	DepartureDate string // ISO date
	ReturnDate    string // ISO date, empty for one-way
	Passengers    int
	CabinClass    string
}

// SearchClient is the supplier-facing search surface. Implementations
// return an empty slice, not an error, when the route simply has no
// availability.
type SearchClient interface {
	Search(ctx context.Context, q Query) ([]Itinerary, error)
}
