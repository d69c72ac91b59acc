// README: Turn orchestration. One HandleMessage call is one conversation
// turn: load memory, understand the message, resolve places and dates,
// ask the next question or run a search round, answer, persist.
package dialog

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"farelink/internal/airports"
	"farelink/internal/config"
	"farelink/internal/dates"
	"farelink/internal/flights"
	"farelink/internal/memory"
	"farelink/internal/nlu"
	"farelink/internal/quota"
	"farelink/internal/search"
	"farelink/internal/trip"
)

// Searcher runs one bulk search round. Satisfied by *search.Strategy.
type Searcher interface {
	Run(ctx context.Context, slots *trip.SlotSet) (search.Outcome, error)
}

// UsageLimiter meters understood messages per user. Satisfied by
// *quota.Service. Returning quota.ErrExhausted ends the turn with a
// polite refusal; any other error is logged and the turn proceeds.
type UsageLimiter interface {
	Consume(ctx context.Context, userID string) error
}

// Reply is what one turn sends back to the user. An empty Text means
// the turn was superseded by a newer message and nothing should be sent.
type Reply struct {
	Text      string             `json:"text"`
	Language  string             `json:"language"`
	State     State              `json:"state"`
	Itinerary *flights.Itinerary `json:"itinerary,omitempty"`
}

// Machine drives conversations.
type Machine struct {
	store    memory.Store
	nlu      nlu.Extractor
	resolver *dates.Resolver
	searcher Searcher
	cfg      config.DialogConfig
	log      *zap.Logger
	turns    *turnRegistry
	now      func() time.Time
	limiter  UsageLimiter
}

func NewMachine(store memory.Store, extractor nlu.Extractor, resolver *dates.Resolver, searcher Searcher, cfg config.DialogConfig, log *zap.Logger) *Machine {
	return &Machine{
		store:    store,
		nlu:      extractor,
		resolver: resolver,
		searcher: searcher,
		cfg:      cfg,
		log:      log,
		turns:    newTurnRegistry(),
		now:      time.Now,
	}
}

// WithLimiter enables per-user monthly metering of understood messages.
func (m *Machine) WithLimiter(l UsageLimiter) *Machine {
	m.limiter = l
	return m
}

// HandleMessage processes one inbound user message end to end.
func (m *Machine) HandleMessage(ctx context.Context, userID, text, langHint string) (Reply, error) {
	if !m.turns.acquire(ctx, userID, m.cfg.LockTimeout) {
		lang := langHint
		if lang == "" {
			lang = "en"
		}
		return Reply{Text: localize(lang, replyBusy), Language: lang}, nil
	}
	defer m.turns.release(userID)

	rec, err := m.store.Load(ctx, userID)
	switch {
	case errors.Is(err, memory.ErrNotFound):
		rec = memory.NewRecord(userID, m.now())
	case err != nil:
		lang := langHint
		if lang == "" {
			lang = "en"
		}
		return Reply{Text: localize(lang, replyMemoryTrouble), Language: lang}, err
	}

	lang := m.resolveLanguage(rec, langHint)
	rec.Language = lang
	rec.Append(memory.Message{Role: memory.RoleUser, Content: text, Language: lang, CreatedAt: m.now()}, m.cfg.MessageWindow)

	if m.limiter != nil {
		switch err := m.limiter.Consume(ctx, userID); {
		case errors.Is(err, quota.ErrExhausted):
			return m.finish(ctx, rec, localize(lang, replyQuotaUsed), nil)
		case err != nil:
			// metering must not take the assistant down; fail open
			m.log.Warn("quota check failed", zap.String("user", userID), zap.Error(err))
		}
	}

	extraction, err := m.nlu.Extract(ctx, m.buildRequest(rec, text, lang))
	if err != nil {
		m.log.Warn("slot extraction failed", zap.String("user", userID), zap.Error(err))
		return m.finish(ctx, rec, localize(lang, replyRephrase), nil)
	}

	// the extraction reports the message language in the same round-trip
	if l := extraction.Language; l != "" && l != lang && m.supported(l) {
		lang = l
		rec.Language = lang
	}

	switch extraction.Intent {
	case "reset":
		rec.Slots = trip.SlotSet{}
		rec.LastSearchHash = ""
		rec.LastAnswer = ""
		m.advance(rec, StateCollecting)
		return m.finish(ctx, rec, localize(lang, replyReset), nil)
	case "greeting", "chitchat":
		if !hasSlotContent(extraction) {
			m.advance(rec, StateCollecting)
			return m.finish(ctx, rec, localize(lang, replyGreeting), nil)
		}
	}

	update, clarification := m.buildUpdate(extraction, lang)
	if clarification != "" {
		m.advance(rec, StateCollecting)
		return m.finish(ctx, rec, clarification, nil)
	}

	rec.Slots.Merge(update)
	m.advance(rec, StateCollecting)

	if err := rec.Slots.Validate(); err != nil {
		if errors.Is(err, trip.ErrSameOriginDestination) {
			// keep the origin; ask for a fresh destination
			rec.Slots.Destination = trip.Place{}
			return m.finish(ctx, rec, localize(lang, replySamePlace), nil)
		}
		return m.finish(ctx, rec, localize(lang, replyRephrase), nil)
	}

	if missing := rec.Slots.Missing(); len(missing) > 0 {
		return m.finish(ctx, rec, m.askFor(missing[0], lang), nil)
	}

	// search-ready: an unchanged request re-renders the previous answer
	hash := rec.Slots.SearchHash()
	if hash == rec.LastSearchHash && rec.LastAnswer != "" {
		m.advance(rec, StateAnswered)
		return m.finish(ctx, rec, rec.LastAnswer, nil)
	}

	m.advance(rec, StateReady)
	return m.runSearch(ctx, rec, hash)
}

func (m *Machine) runSearch(ctx context.Context, rec *memory.Record, hash string) (Reply, error) {
	lang := rec.Language
	m.advance(rec, StateSearching)

	roundCtx, cancel := m.turns.beginRound(ctx, rec.UserID)
	defer cancel()
	defer m.turns.endRound(rec.UserID)

	outcome, err := m.searcher.Run(roundCtx, &rec.Slots)
	switch {
	case errors.Is(err, context.Canceled):
		// a newer message took over; drop this round's partial work
		m.log.Info("search round superseded", zap.String("user", rec.UserID))
		return Reply{Language: lang}, nil
	case errors.Is(err, trip.ErrSameOriginDestination):
		m.advance(rec, StateCollecting)
		rec.Slots.Destination = trip.Place{}
		return m.finish(ctx, rec, localize(lang, replySamePlace), nil)
	case errors.Is(err, search.ErrAllTasksFailed):
		m.advance(rec, StateError)
		m.log.Warn("search round failed entirely",
			zap.String("user", rec.UserID), zap.Int("tasks", outcome.TasksPlanned))
		return m.finish(ctx, rec, localize(lang, replyRetryLater), nil)
	case err != nil:
		m.advance(rec, StateError)
		m.log.Error("search round error", zap.String("user", rec.UserID), zap.Error(err))
		return m.finish(ctx, rec, localize(lang, replyRetryLater), nil)
	}

	m.advance(rec, StateAnswered)
	switch outcome.Kind {
	case search.OutcomeNoAvailability:
		rec.LastSearchHash = hash
		rec.LastAnswer = localize(lang, replyNoResults)
		return m.finish(ctx, rec, rec.LastAnswer, nil)
	case search.OutcomeFilteredOut:
		rec.LastSearchHash = hash
		rec.LastAnswer = localize(lang, replyNoForFilter)
		return m.finish(ctx, rec, rec.LastAnswer, nil)
	}

	best := outcome.Best()
	alternatives := outcome.Ranked[1:]
	if max := m.cfg.MaxResultsKept - 1; max >= 0 && len(alternatives) > max {
		alternatives = alternatives[:max]
	}
	answer := formatAnswer(best, alternatives, lang)
	rec.LastSearchHash = hash
	rec.LastAnswer = answer
	return m.finish(ctx, rec, answer, best)
}

// finish appends the assistant reply to the transcript, persists the
// record, and shapes the outgoing reply. A failed save downgrades the
// answer so state never silently diverges from what the user saw.
func (m *Machine) finish(ctx context.Context, rec *memory.Record, text string, itinerary *flights.Itinerary) (Reply, error) {
	rec.Append(memory.Message{Role: memory.RoleAssistant, Content: text, Language: rec.Language, CreatedAt: m.now()}, m.cfg.MessageWindow)
	if err := m.store.Save(ctx, rec); err != nil {
		m.log.Error("saving conversation failed", zap.String("user", rec.UserID), zap.Error(err))
		return Reply{Text: localize(rec.Language, replyMemoryTrouble), Language: rec.Language, State: State(rec.State)}, err
	}
	return Reply{Text: text, Language: rec.Language, State: State(rec.State), Itinerary: itinerary}, nil
}

// resolveLanguage picks the reply language before extraction has run:
// an explicit hint wins, otherwise the conversation keeps its language.
// A supported language reported by the extraction overrides this.
func (m *Machine) resolveLanguage(rec *memory.Record, hint string) string {
	if hint != "" && m.supported(hint) {
		return hint
	}
	if rec.Language != "" {
		return rec.Language
	}
	return "en"
}

func (m *Machine) supported(lang string) bool {
	for _, l := range m.cfg.Languages() {
		if l == lang {
			return true
		}
	}
	return false
}

func (m *Machine) buildRequest(rec *memory.Record, text, lang string) nlu.Request {
	req := nlu.Request{Text: text, Language: lang}
	// skip the message just appended; the model sees it as Text
	for _, msg := range rec.Messages[:len(rec.Messages)-1] {
		req.History = append(req.History, nlu.Turn{Role: msg.Role, Content: msg.Content})
	}
	req.Known = nlu.KnownSlots{
		Origin:      rec.Slots.Origin.City,
		Destination: rec.Slots.Destination.City,
		TripType:    string(rec.Slots.TripType),
	}
	if rec.Slots.Departure != nil && len(rec.Slots.Departure.Dates) > 0 {
		req.Known.DepartureDate = rec.Slots.Departure.Strings()[0]
	}
	if rec.Slots.Return != nil && len(rec.Slots.Return.Dates) > 0 {
		req.Known.ReturnDate = rec.Slots.Return.Strings()[0]
	}
	return req
}

// buildUpdate resolves the extraction's raw mentions. A non-empty
// clarification means resolution failed and the user must be asked
// before anything is merged.
func (m *Machine) buildUpdate(extraction *nlu.Extraction, lang string) (trip.Update, string) {
	var update trip.Update

	if extraction.Origin != "" {
		res, err := airports.Resolve(extraction.Origin)
		if err != nil {
			return update, localize(lang, replyUnknownPlace, extraction.Origin)
		}
		update.Origin = &trip.Place{Raw: extraction.Origin, City: res.City, Codes: res.Codes}
	}
	if extraction.Destination != "" {
		res, err := airports.Resolve(extraction.Destination)
		if err != nil {
			return update, localize(lang, replyUnknownPlace, extraction.Destination)
		}
		update.Destination = &trip.Place{Raw: extraction.Destination, City: res.City, Codes: res.Codes}
	}

	if extraction.DeparturePhrase != "" {
		set, err := m.resolver.Resolve(extraction.DeparturePhrase, m.now())
		if err != nil {
			return update, m.dateClarification(err, extraction.DeparturePhrase, lang)
		}
		update.Departure = &set
	}
	if extraction.ReturnPhrase != "" {
		set, err := m.resolver.Resolve(extraction.ReturnPhrase, m.now())
		if err != nil {
			return update, m.dateClarification(err, extraction.ReturnPhrase, lang)
		}
		update.Return = &set
	}

	switch extraction.TripType {
	case "one_way":
		update.TripType = trip.TripOneWay
	case "round_trip":
		update.TripType = trip.TripRoundTrip
	}
	update.Passengers = extraction.Passengers
	update.CabinClass = extraction.CabinClass
	update.Carriers = extraction.Carriers
	return update, ""
}

func (m *Machine) dateClarification(err error, phrase, lang string) string {
	if errors.Is(err, dates.ErrInPast) {
		return localize(lang, replyPastDate, phrase)
	}
	return localize(lang, replyBadDate, phrase)
}

func (m *Machine) askFor(slot trip.Slot, lang string) string {
	switch slot {
	case trip.SlotOrigin:
		return localize(lang, replyAskOrigin)
	case trip.SlotDestination:
		return localize(lang, replyAskDest)
	case trip.SlotTripType:
		return localize(lang, replyAskTripType)
	case trip.SlotReturn:
		return localize(lang, replyAskReturn)
	default:
		return localize(lang, replyAskDates)
	}
}

// advance moves the record's state, logging illegal jumps instead of
// applying them.
func (m *Machine) advance(rec *memory.Record, to State) {
	from := State(rec.State)
	if from == "" {
		from = StateEmpty
	}
	if from == to {
		return
	}
	if !CanTransition(from, to) {
		m.log.Warn("illegal state transition",
			zap.String("user", rec.UserID), zap.String("from", string(from)), zap.String("to", string(to)))
		return
	}
	rec.State = string(to)
}

func hasSlotContent(e *nlu.Extraction) bool {
	return e.Origin != "" || e.Destination != "" || e.DeparturePhrase != "" ||
		e.ReturnPhrase != "" || e.TripType != "" || e.Passengers > 0 ||
		e.CabinClass != "" || len(e.Carriers) > 0
}
