// README: Conversation slot model. A SlotSet accumulates everything collected
// across turns; merging newer extractions always lets the latest user
// statement win over earlier ones.
package trip

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"farelink/internal/dates"
)

var ErrSameOriginDestination = errors.New("trip: origin and destination are the same place")

// TripType is the journey shape requested by the user.
type TripType string

const (
	TripUnknown   TripType = ""
	TripOneWay    TripType = "one_way"
	TripRoundTrip TripType = "round_trip"
)

// Slot names the pieces of information a search needs, in the order
// clarification questions are asked.
type Slot string

const (
	SlotOrigin      Slot = "origin"
	SlotDestination Slot = "destination"
	SlotTripType    Slot = "trip_type"
	SlotDeparture   Slot = "departure_date"
	SlotReturn      Slot = "return_date"
)

// Place is a resolved place mention.
type Place struct {
	Raw   string   `json:"raw"`
	City  string   `json:"city"`
	Codes []string `json:"codes"`
}

func (p Place) Resolved() bool { return len(p.Codes) > 0 }

// SlotSet is everything the conversation has collected so far.
type SlotSet struct {
	Origin      Place      `json:"origin"`
	Destination Place      `json:"destination"`
	TripType    TripType   `json:"trip_type"`
	Departure   *dates.Set `json:"departure,omitempty"`
	Return      *dates.Set `json:"return,omitempty"`

	Passengers int      `json:"passengers"`
	CabinClass string   `json:"cabin_class,omitempty"`
	Carriers   []string `json:"carriers,omitempty"`
}

// Update carries one turn's worth of freshly extracted values. Nil and
// zero fields mean "the user said nothing about this".
type Update struct {
	Origin      *Place
	Destination *Place
	TripType    TripType
	Departure   *dates.Set
	Return      *dates.Set
	Passengers  int
	CabinClass  string
	Carriers    []string
}

// Merge folds an update into the slot set. A newer value for a slot
// replaces the old one outright; slots the update is silent about keep
// their previous values.
func (s *SlotSet) Merge(u Update) {
	if u.Origin != nil {
		s.Origin = *u.Origin
	}
	if u.Destination != nil {
		s.Destination = *u.Destination
	}
	if u.TripType != TripUnknown {
		s.TripType = u.TripType
	}
	if u.Departure != nil {
		s.Departure = u.Departure
	}
	if u.Return != nil {
		s.Return = u.Return
		if s.TripType == TripUnknown {
			s.TripType = TripRoundTrip
		}
	}
	if u.Passengers > 0 {
		s.Passengers = u.Passengers
	}
	if u.CabinClass != "" {
		s.CabinClass = u.CabinClass
	}
	if len(u.Carriers) > 0 {
		s.Carriers = u.Carriers
	}
}

// Missing lists the slots still needed before a search can run, in
// clarification priority order. Only one question is asked per turn, so
// callers take the first entry.
func (s *SlotSet) Missing() []Slot {
	var missing []Slot
	if !s.Origin.Resolved() {
		missing = append(missing, SlotOrigin)
	}
	if !s.Destination.Resolved() {
		missing = append(missing, SlotDestination)
	}
	if s.TripType == TripUnknown {
		missing = append(missing, SlotTripType)
	}
	if s.Departure == nil || len(s.Departure.Dates) == 0 {
		missing = append(missing, SlotDeparture)
	} else if s.needsReturnDate() {
		missing = append(missing, SlotReturn)
	}
	return missing
}

// A round trip with a single exact departure date needs an explicit
// return date; flexible departures (range or month) get return dates
// derived at planning time instead.
func (s *SlotSet) needsReturnDate() bool {
	if s.TripType != TripRoundTrip {
		return false
	}
	if s.Return != nil && len(s.Return.Dates) > 0 {
		return false
	}
	return s.Departure.Kind == dates.KindExact
}

// SearchReady reports whether every required slot is filled.
func (s *SlotSet) SearchReady() bool { return len(s.Missing()) == 0 }

// Validate rejects slot combinations no search can satisfy.
func (s *SlotSet) Validate() error {
	if s.Origin.Resolved() && s.Destination.Resolved() && samePlace(s.Origin, s.Destination) {
		return ErrSameOriginDestination
	}
	return nil
}

func samePlace(a, b Place) bool {
	if a.City != "" && a.City == b.City {
		return true
	}
	for _, ca := range a.Codes {
		for _, cb := range b.Codes {
			if ca == cb {
				return true
			}
		}
	}
	return false
}

// SearchHash fingerprints the search-relevant slots. Two identical
// requests in a row produce the same hash, letting the dialog re-render
// the previous answer instead of hitting the supplier again.
func (s *SlotSet) SearchHash() string {
	var b strings.Builder
	b.WriteString(strings.Join(s.Origin.Codes, ","))
	b.WriteByte('|')
	b.WriteString(strings.Join(s.Destination.Codes, ","))
	b.WriteByte('|')
	b.WriteString(string(s.TripType))
	b.WriteByte('|')
	if s.Departure != nil {
		b.WriteString(strings.Join(s.Departure.Strings(), ","))
	}
	b.WriteByte('|')
	if s.Return != nil {
		b.WriteString(strings.Join(s.Return.Strings(), ","))
	}
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(s.PassengerCount()))
	b.WriteByte('|')
	b.WriteString(s.CabinClass)
	b.WriteByte('|')
	b.WriteString(strings.Join(s.Carriers, ","))
	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// PassengerCount defaults to a single traveller.
func (s *SlotSet) PassengerCount() int {
	if s.Passengers < 1 {
		return 1
	}
	return s.Passengers
}
