// README: HTTP gateway to the flight supplier. Authentication is an OAuth2
// password grant; the token is refreshed ahead of its nominal expiry so a
// search round never starts with a token about to lapse mid-flight.
package flights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"farelink/internal/config"
)

// tokenSafety caps how long a granted token is trusted, regardless of
// the expiry the supplier reports.
const tokenSafety = 45 * time.Minute

// Gateway implements SearchClient against the supplier's REST API.
type Gateway struct {
	cfg    config.UpstreamConfig
	client *http.Client
	log    *zap.Logger
}

func NewGateway(cfg config.UpstreamConfig, log *zap.Logger) *Gateway {
	base := &http.Client{Timeout: cfg.HTTPTimeout}
	src := oauth2.ReuseTokenSource(nil, &passwordSource{cfg: cfg, client: base})
	return &Gateway{
		cfg: cfg,
		client: &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: &oauth2.Transport{Source: src, Base: http.DefaultTransport},
		},
		log: log,
	}
}

// passwordSource re-runs the password grant whenever the cached token
// expires. The supplier does not issue refresh tokens.
type passwordSource struct {
	cfg    config.UpstreamConfig
	client *http.Client
}

func (s *passwordSource) Token() (*oauth2.Token, error) {
	conf := &oauth2.Config{
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: s.cfg.TokenURL, AuthStyle: oauth2.AuthStyleInParams},
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, s.client)
	tok, err := conf.PasswordCredentialsToken(ctx, s.cfg.Username, s.cfg.Password)
	if err != nil {
		return nil, &TransientError{Op: "token", Err: err}
	}
	if latest := time.Now().Add(tokenSafety); tok.Expiry.IsZero() || tok.Expiry.After(latest) {
		tok.Expiry = latest
	}
	return tok, nil
}

type searchRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate,omitempty"`
	Passengers    int    `json:"passengers"`
	CabinClass    string `json:"cabinClass,omitempty"`
	AccessGroup   string `json:"accessGroup,omitempty"`
}

type searchResponse struct {
	Offers []offer `json:"offers"`
}

type offer struct {
	Segments []offerSegment `json:"segments"`
	Price    struct {
		Base     float64 `json:"base"`
		Taxes    float64 `json:"taxes"`
		Total    float64 `json:"total"`
		Currency string  `json:"currency"`
	} `json:"price"`
	Baggage *struct {
		Pieces      int    `json:"pieces"`
		Weight      string `json:"weight"`
		Description string `json:"description"`
	} `json:"baggage"`
	CabinClass string `json:"cabinClass"`
}

type offerSegment struct {
	Carrier       string    `json:"carrier"`
	CarrierName   string    `json:"carrierName"`
	FlightNumber  string    `json:"flightNumber"`
	From          string    `json:"from"`
	FromCity      string    `json:"fromCity"`
	To            string    `json:"to"`
	ToCity        string    `json:"toCity"`
	Departure     time.Time `json:"departure"`
	Arrival       time.Time `json:"arrival"`
	BookingClass  string    `json:"bookingClass"`
	FlightMinutes int       `json:"flightMinutes"`
}

// Search runs one origin-destination-date probe. Rate-limit and
// server-side responses surface as TransientError so the caller's retry
// policy can distinguish them from bad requests.
func (g *Gateway) Search(ctx context.Context, q Query) ([]Itinerary, error) {
	body, err := json.Marshal(searchRequest{
		Origin:        q.Origin,
		Destination:   q.Destination,
		DepartureDate: q.DepartureDate,
		ReturnDate:    q.ReturnDate,
		Passengers:    q.Passengers,
		CabinClass:    q.CabinClass,
		AccessGroup:   g.cfg.AccessGroup,
	})
	if err != nil {
		return nil, fmt.Errorf("flights: encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.SearchURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("flights: build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &TransientError{Op: "search", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		err := fmt.Errorf("flights: supplier returned %d: %s", resp.StatusCode, payload)
		if RetryableStatus(resp.StatusCode) {
			return nil, &TransientError{Op: "search", StatusCode: resp.StatusCode, Err: err}
		}
		return nil, err
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("flights: decode search response: %w", err)
	}

	out := make([]Itinerary, 0, len(parsed.Offers))
	for _, o := range parsed.Offers {
		it, err := buildItinerary(q, o)
		if err != nil {
			g.log.Warn("skipping malformed offer", zap.Error(err),
				zap.String("origin", q.Origin), zap.String("destination", q.Destination))
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func buildItinerary(q Query, o offer) (Itinerary, error) {
	if len(o.Segments) == 0 {
		return Itinerary{}, fmt.Errorf("offer has no segments")
	}
	segments := make([]Segment, len(o.Segments))
	for i, s := range o.Segments {
		segments[i] = Segment{
			CarrierCode:  s.Carrier,
			CarrierName:  s.CarrierName,
			FlightNumber: s.FlightNumber,
			From:         s.From,
			FromCity:     s.FromCity,
			To:           s.To,
			ToCity:       s.ToCity,
			Departure:    s.Departure,
			Arrival:      s.Arrival,
			FlightTime:   time.Duration(s.FlightMinutes) * time.Minute,
			BookingClass: s.BookingClass,
		}
	}

	outbound, inbound := splitDirections(segments, q.Destination)
	if q.ReturnDate != "" && len(inbound) == 0 {
		return Itinerary{}, fmt.Errorf("round-trip offer has no inbound segments")
	}

	it := Itinerary{
		Origin:        q.Origin,
		Destination:   q.Destination,
		DepartureDate: q.DepartureDate,
		ReturnDate:    q.ReturnDate,
		Outbound:      outbound,
		Inbound:       inbound,
		CabinClass:    o.CabinClass,
		Price: Price{
			Base:     o.Price.Base,
			Taxes:    o.Price.Taxes,
			Total:    o.Price.Total,
			Currency: o.Price.Currency,
		},
	}
	if o.Baggage != nil {
		it.Baggage = Baggage{
			Specified:   true,
			Pieces:      o.Baggage.Pieces,
			Weight:      o.Baggage.Weight,
			Description: o.Baggage.Description,
		}
	}
	return it, nil
}

// splitDirections divides a flat segment list into outbound and inbound
// journeys. Outbound runs up to and including the first arrival at the
// queried destination; everything after that is the way back.
func splitDirections(segments []Segment, destination string) (outbound, inbound []Segment) {
	for i, seg := range segments {
		if seg.To == destination {
			return segments[:i+1], segments[i+1:]
		}
	}
	return segments, nil
}
