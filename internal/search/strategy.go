// README: Concurrent search execution. Tasks fan out across a bounded
// worker pool behind a shared rate limiter; transient supplier failures
// retry with capped exponential backoff, and one failed airport pair never
// sinks a round that found flights elsewhere.
package search

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"farelink/internal/config"
	"farelink/internal/flights"
	"farelink/internal/trip"
)

var ErrAllTasksFailed = errors.New("search: all tasks failed")

// OutcomeKind classifies a completed round.
type OutcomeKind int

const (
	// OutcomeFound means at least one itinerary survived filtering.
	OutcomeFound OutcomeKind = iota
	// OutcomeNoAvailability means the supplier answered but had nothing.
	OutcomeNoAvailability
	// OutcomeFilteredOut means flights existed but the user's carrier
	// filter removed them all.
	OutcomeFilteredOut
)

// Outcome is the aggregated result of one search round.
type Outcome struct {
	Kind        OutcomeKind
	Ranked      []flights.Itinerary // best first
	TasksPlanned int
	TasksFailed  int
}

// Best returns the winning itinerary, nil when none survived.
func (o Outcome) Best() *flights.Itinerary {
	if len(o.Ranked) == 0 {
		return nil
	}
	return &o.Ranked[0]
}

// Strategy owns the worker pool and retry policy for search rounds.
type Strategy struct {
	client  flights.SearchClient
	cfg     config.SearchConfig
	limiter *rate.Limiter
	log     *zap.Logger
}

func NewStrategy(client flights.SearchClient, cfg config.SearchConfig, log *zap.Logger) *Strategy {
	return &Strategy{
		client:  client,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Concurrency),
		log:     log,
	}
}

// Run plans and executes a full search round for the given slots.
// Partial failure is tolerated; only a round where every task failed
// returns ErrAllTasksFailed.
func (s *Strategy) Run(ctx context.Context, slots *trip.SlotSet) (Outcome, error) {
	tasks, err := Plan(slots, s.cfg.MaxTasks)
	if err != nil {
		return Outcome{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RoundTimeout)
	defer cancel()

	jobs := make(chan Task)
	var (
		mu        sync.Mutex
		collected []flights.Itinerary
		attempted int
		failed    int
	)

	workers := s.cfg.Concurrency
	if workers > len(tasks) {
		workers = len(tasks)
	}
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range jobs {
				found, err := s.runTask(ctx, slots, task)
				mu.Lock()
				attempted++
				if err != nil {
					failed++
				} else {
					collected = append(collected, found...)
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, task := range tasks {
		select {
		case jobs <- task:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if parent := ctx.Err(); parent != nil && errors.Is(parent, context.Canceled) {
		return Outcome{}, parent
	}
	// tasks the deadline kept out of the pool failed without running
	failed += len(tasks) - attempted
	if len(tasks) > 0 && failed == len(tasks) {
		return Outcome{TasksPlanned: len(tasks), TasksFailed: failed}, ErrAllTasksFailed
	}

	outcome := Outcome{TasksPlanned: len(tasks), TasksFailed: failed}
	if len(collected) == 0 {
		outcome.Kind = OutcomeNoAvailability
		return outcome, nil
	}

	filtered := applyCarrierFilter(collected, slots.Carriers)
	if len(filtered) == 0 {
		outcome.Kind = OutcomeFilteredOut
		return outcome, nil
	}

	rank(filtered)
	outcome.Kind = OutcomeFound
	outcome.Ranked = filtered
	return outcome, nil
}

// runTask executes one probe with the retry policy. Only transient
// failures are retried; anything else fails the task immediately.
func (s *Strategy) runTask(ctx context.Context, slots *trip.SlotSet, task Task) ([]flights.Itinerary, error) {
	q := flights.Query{
		Origin:        task.Origin,
		Destination:   task.Destination,
		DepartureDate: task.DepartureDate,
		ReturnDate:    task.ReturnDate,
		Passengers:    slots.PassengerCount(),
		CabinClass:    slots.CabinClass,
	}

	var lastErr error
	for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff(attempt, s.cfg.BackoffBase, s.cfg.BackoffCap)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		found, err := s.client.Search(ctx, q)
		if err == nil {
			return found, nil
		}
		lastErr = err
		if !flights.IsTransient(err) || ctx.Err() != nil {
			break
		}
		s.log.Debug("retrying search task",
			zap.String("origin", task.Origin),
			zap.String("destination", task.Destination),
			zap.String("date", task.DepartureDate),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}

	s.log.Warn("search task failed",
		zap.String("origin", task.Origin),
		zap.String("destination", task.Destination),
		zap.String("date", task.DepartureDate),
		zap.Error(lastErr))
	return nil, lastErr
}

// backoff doubles per attempt up to the configured cap.
func backoff(attempt int, base, limit time.Duration) time.Duration {
	d := base << (attempt - 1)
	if d > limit || d <= 0 {
		return limit
	}
	return d
}

func applyCarrierFilter(its []flights.Itinerary, carriers []string) []flights.Itinerary {
	if len(carriers) == 0 {
		return its
	}
	wanted := make(map[string]bool, len(carriers))
	for _, c := range carriers {
		wanted[c] = true
	}
	var out []flights.Itinerary
	for _, it := range its {
		for _, c := range it.Carriers() {
			if wanted[c] {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// rank orders cheapest first, breaking price ties by total elapsed time
// and then by earliest departure.
func rank(its []flights.Itinerary) {
	sort.SliceStable(its, func(i, j int) bool {
		a, b := &its[i], &its[j]
		if a.Price.Total != b.Price.Total {
			return a.Price.Total < b.Price.Total
		}
		if ae, be := a.Elapsed(), b.Elapsed(); ae != be {
			return ae < be
		}
		return a.DepartureTime().Before(b.DepartureTime())
	})
}
