package search

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"farelink/internal/config"
	"farelink/internal/flights"
	"farelink/internal/trip"
)

type fakeClient struct {
	calls  atomic.Int64
	search func(q flights.Query, call int64) ([]flights.Itinerary, error)
}

func (f *fakeClient) Search(_ context.Context, q flights.Query) ([]flights.Itinerary, error) {
	return f.search(q, f.calls.Add(1))
}

func testConfig() config.SearchConfig {
	return config.SearchConfig{
		MaxTasks:      30,
		Concurrency:   5,
		MaxRetries:    3,
		BackoffBase:   time.Millisecond,
		BackoffCap:    2 * time.Millisecond,
		RoundTimeout:  5 * time.Second,
		RatePerSecond: 1000,
	}
}

func offer(price float64, carrier string, departure time.Time, elapsed time.Duration) flights.Itinerary {
	return flights.Itinerary{
		Outbound: []flights.Segment{{
			CarrierCode: carrier,
			From:        "LHR",
			To:          "JFK",
			Departure:   departure,
			Arrival:     departure.Add(elapsed),
		}},
		Price: flights.Price{Total: price, Currency: "USD"},
	}
}

func singlePairSlots() *trip.SlotSet {
	return &trip.SlotSet{
		Origin:      trip.Place{City: "london", Codes: []string{"LHR"}},
		Destination: trip.Place{City: "new york", Codes: []string{"JFK"}},
		TripType:    trip.TripOneWay,
		Departure:   exactSet(day(2026, 9, 1)),
	}
}

func TestRunPicksCheapestAcrossPartialFailure(t *testing.T) {
	dep := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	client := &fakeClient{search: func(q flights.Query, _ int64) ([]flights.Itinerary, error) {
		switch q.Origin {
		case "LGW", "STN":
			return nil, errors.New("supplier rejected the request")
		case "LHR":
			return []flights.Itinerary{offer(450, "BA", dep, 8*time.Hour)}, nil
		case "LTN":
			return []flights.Itinerary{offer(500, "EK", dep, 9*time.Hour)}, nil
		default: // LCY
			return []flights.Itinerary{offer(420, "PK", dep, 10*time.Hour)}, nil
		}
	}}

	slots := londonToNewYork()
	slots.Destination = trip.Place{City: "new york", Codes: []string{"JFK"}}
	out, err := NewStrategy(client, testConfig(), zap.NewNop()).Run(context.Background(), slots)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if out.Kind != OutcomeFound {
		t.Fatalf("kind = %v, want found", out.Kind)
	}
	if best := out.Best(); best == nil || best.Price.Total != 420 {
		t.Errorf("best price = %+v, want 420", out.Best())
	}
	if out.TasksFailed != 2 {
		t.Errorf("failed = %d, want 2", out.TasksFailed)
	}
}

func TestRunAllTasksFailed(t *testing.T) {
	client := &fakeClient{search: func(flights.Query, int64) ([]flights.Itinerary, error) {
		return nil, errors.New("supplier down")
	}}
	_, err := NewStrategy(client, testConfig(), zap.NewNop()).Run(context.Background(), singlePairSlots())
	if !errors.Is(err, ErrAllTasksFailed) {
		t.Errorf("expected ErrAllTasksFailed, got %v", err)
	}
}

func TestRunSameOriginDestinationNeverCallsSupplier(t *testing.T) {
	client := &fakeClient{search: func(flights.Query, int64) ([]flights.Itinerary, error) {
		return nil, nil
	}}
	slots := singlePairSlots()
	slots.Destination = slots.Origin

	_, err := NewStrategy(client, testConfig(), zap.NewNop()).Run(context.Background(), slots)
	if !errors.Is(err, trip.ErrSameOriginDestination) {
		t.Fatalf("expected ErrSameOriginDestination, got %v", err)
	}
	if calls := client.calls.Load(); calls != 0 {
		t.Errorf("supplier called %d times, want 0", calls)
	}
}

func TestRunRetriesTransientFailures(t *testing.T) {
	dep := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	client := &fakeClient{search: func(_ flights.Query, call int64) ([]flights.Itinerary, error) {
		if call < 3 {
			return nil, &flights.TransientError{Op: "search", StatusCode: 429, Err: errors.New("throttled")}
		}
		return []flights.Itinerary{offer(300, "PK", dep, 8*time.Hour)}, nil
	}}

	out, err := NewStrategy(client, testConfig(), zap.NewNop()).Run(context.Background(), singlePairSlots())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if out.Best() == nil || out.Best().Price.Total != 300 {
		t.Errorf("best = %+v, want the post-retry offer", out.Best())
	}
	if calls := client.calls.Load(); calls != 3 {
		t.Errorf("supplier called %d times, want 3", calls)
	}
}

func TestRunDoesNotRetryPermanentFailures(t *testing.T) {
	client := &fakeClient{search: func(flights.Query, int64) ([]flights.Itinerary, error) {
		return nil, errors.New("invalid airport code")
	}}
	_, err := NewStrategy(client, testConfig(), zap.NewNop()).Run(context.Background(), singlePairSlots())
	if !errors.Is(err, ErrAllTasksFailed) {
		t.Fatalf("expected ErrAllTasksFailed, got %v", err)
	}
	if calls := client.calls.Load(); calls != 1 {
		t.Errorf("supplier called %d times, want 1 (no retry on permanent errors)", calls)
	}
}

func TestRunCarrierFilter(t *testing.T) {
	dep := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	client := &fakeClient{search: func(flights.Query, int64) ([]flights.Itinerary, error) {
		return []flights.Itinerary{offer(300, "BA", dep, 8*time.Hour)}, nil
	}}

	slots := singlePairSlots()
	slots.Carriers = []string{"EK"}
	out, err := NewStrategy(client, testConfig(), zap.NewNop()).Run(context.Background(), slots)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if out.Kind != OutcomeFilteredOut {
		t.Errorf("kind = %v, want filtered-out", out.Kind)
	}

	slots.Carriers = []string{"BA"}
	out, err = NewStrategy(client, testConfig(), zap.NewNop()).Run(context.Background(), slots)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if out.Kind != OutcomeFound {
		t.Errorf("kind = %v, want found when the filter matches", out.Kind)
	}
}

func TestRunNoAvailability(t *testing.T) {
	client := &fakeClient{search: func(flights.Query, int64) ([]flights.Itinerary, error) {
		return nil, nil
	}}
	out, err := NewStrategy(client, testConfig(), zap.NewNop()).Run(context.Background(), singlePairSlots())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if out.Kind != OutcomeNoAvailability {
		t.Errorf("kind = %v, want no-availability", out.Kind)
	}
}

func TestRankTiebreaks(t *testing.T) {
	dep := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	later := dep.Add(3 * time.Hour)
	its := []flights.Itinerary{
		offer(400, "A", dep, 10*time.Hour),
		offer(400, "B", later, 8*time.Hour),
		offer(400, "C", dep, 8*time.Hour),
		offer(390, "D", later, 12*time.Hour),
	}
	rank(its)

	// cheapest wins outright
	if its[0].Price.Total != 390 {
		t.Fatalf("rank[0] price = %v, want 390", its[0].Price.Total)
	}
	// price tie: shorter elapsed first, then earlier departure
	if its[1].Outbound[0].CarrierCode != "C" {
		t.Errorf("rank[1] = %s, want C (shortest, earliest)", its[1].Outbound[0].CarrierCode)
	}
	if its[2].Outbound[0].CarrierCode != "B" {
		t.Errorf("rank[2] = %s, want B", its[2].Outbound[0].CarrierCode)
	}
	if its[3].Outbound[0].CarrierCode != "A" {
		t.Errorf("rank[3] = %s, want A (longest elapsed)", its[3].Outbound[0].CarrierCode)
	}
}

func TestRunExpiredDeadlineFailsRound(t *testing.T) {
	cfg := testConfig()
	cfg.RoundTimeout = time.Nanosecond

	client := &fakeClient{search: func(q flights.Query, _ int64) ([]flights.Itinerary, error) {
		return []flights.Itinerary{offer(500, "BA", day(2026, 9, 1), 8*time.Hour)}, nil
	}}
	s := NewStrategy(client, cfg, zap.NewNop())

	outcome, err := s.Run(context.Background(), singlePairSlots())
	if !errors.Is(err, ErrAllTasksFailed) {
		t.Fatalf("expected ErrAllTasksFailed for an expired round, got outcome %+v, err %v", outcome, err)
	}
	if outcome.TasksFailed != outcome.TasksPlanned {
		t.Errorf("failed = %d, planned = %d; every task of a dead round must count as failed",
			outcome.TasksFailed, outcome.TasksPlanned)
	}
}
