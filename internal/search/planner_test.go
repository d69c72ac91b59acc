package search

import (
	"errors"
	"testing"
	"time"

	"farelink/internal/dates"
	"farelink/internal/trip"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func exactSet(ts ...time.Time) *dates.Set {
	return &dates.Set{Kind: dates.KindExact, Dates: ts}
}

func londonToNewYork() *trip.SlotSet {
	return &trip.SlotSet{
		Origin:      trip.Place{City: "london", Codes: []string{"LHR", "LGW", "STN", "LTN", "LCY"}},
		Destination: trip.Place{City: "new york", Codes: []string{"JFK", "LGA", "EWR"}},
		TripType:    trip.TripOneWay,
		Departure:   exactSet(day(2026, 9, 1)),
	}
}

func TestPlanCartesianProduct(t *testing.T) {
	tasks, err := Plan(londonToNewYork(), 30)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	// 5 origins x 3 destinations x 1 date
	if len(tasks) != 15 {
		t.Fatalf("planned %d tasks, want 15", len(tasks))
	}
	first := tasks[0]
	if first.Origin != "LHR" || first.Destination != "JFK" || first.DepartureDate != "2026-09-01" {
		t.Errorf("first task = %+v, want primary airports on the requested date", first)
	}
	if first.ReturnDate != "" {
		t.Errorf("one-way task carries return date %q", first.ReturnDate)
	}
}

func TestPlanCapKeepsEarliestDatesAndPrimaryAirports(t *testing.T) {
	slots := londonToNewYork()
	slots.Departure = &dates.Set{
		Kind:  dates.KindRange,
		Dates: []time.Time{day(2026, 9, 1), day(2026, 9, 2), day(2026, 9, 3)},
	}

	tasks, err := Plan(slots, 20)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if len(tasks) != 20 {
		t.Fatalf("planned %d tasks, want cap of 20", len(tasks))
	}
	// all 15 pairs for the earliest date survive
	for i := 0; i < 15; i++ {
		if tasks[i].DepartureDate != "2026-09-01" {
			t.Fatalf("task %d departs %s, want 2026-09-01", i, tasks[i].DepartureDate)
		}
	}
	// the second date begins again from the primary pair
	if tasks[15].DepartureDate != "2026-09-02" || tasks[15].Origin != "LHR" || tasks[15].Destination != "JFK" {
		t.Errorf("task 15 = %+v, want LHR-JFK on 2026-09-02", tasks[15])
	}
	// dates never interleave out of order
	for i := 1; i < len(tasks); i++ {
		if tasks[i].DepartureDate < tasks[i-1].DepartureDate {
			t.Fatalf("task %d departs %s before task %d's %s", i, tasks[i].DepartureDate, i-1, tasks[i-1].DepartureDate)
		}
	}
}

func TestPlanRoundTripExplicitReturns(t *testing.T) {
	slots := londonToNewYork()
	slots.TripType = trip.TripRoundTrip
	slots.Departure = exactSet(day(2026, 9, 1), day(2026, 9, 5))
	slots.Return = exactSet(day(2026, 9, 3), day(2026, 9, 5))

	tasks, err := Plan(slots, 0)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	// depart 09-01 pairs with both returns; depart 09-05 only with 09-05
	// (same-day return is allowed, an earlier one is not)
	combos := map[string]bool{}
	for _, task := range tasks {
		combos[task.DepartureDate+"/"+task.ReturnDate] = true
	}
	want := []string{"2026-09-01/2026-09-03", "2026-09-01/2026-09-05", "2026-09-05/2026-09-05"}
	if len(combos) != len(want) {
		t.Fatalf("combos = %v, want %v", combos, want)
	}
	for _, w := range want {
		if !combos[w] {
			t.Errorf("missing combo %s", w)
		}
	}
}

func TestPlanFlexibleRoundTripDerivesReturns(t *testing.T) {
	slots := londonToNewYork()
	slots.TripType = trip.TripRoundTrip
	slots.Departure = &dates.Set{Kind: dates.KindMonth, Dates: []time.Time{day(2026, 9, 1)}}

	tasks, err := Plan(slots, 0)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	// one depart date x 3 stay lengths x 15 pairs
	if len(tasks) != 45 {
		t.Fatalf("planned %d tasks, want 45", len(tasks))
	}
	returns := map[string]bool{}
	for _, task := range tasks {
		returns[task.ReturnDate] = true
	}
	for _, want := range []string{"2026-09-08", "2026-09-11", "2026-09-15"} {
		if !returns[want] {
			t.Errorf("missing derived return date %s", want)
		}
	}
}

func TestPlanRejectsSameOriginDestination(t *testing.T) {
	slots := londonToNewYork()
	slots.Destination = slots.Origin
	if _, err := Plan(slots, 30); !errors.Is(err, trip.ErrSameOriginDestination) {
		t.Errorf("expected ErrSameOriginDestination, got %v", err)
	}
}
