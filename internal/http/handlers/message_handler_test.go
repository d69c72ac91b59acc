package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"farelink/internal/config"
	"farelink/internal/dates"
	"farelink/internal/dialog"
	"farelink/internal/memory"
	"farelink/internal/nlu"
	"farelink/internal/search"
	"farelink/internal/trip"
)

type greetingExtractor struct{}

func (greetingExtractor) Extract(context.Context, nlu.Request) (*nlu.Extraction, error) {
	return &nlu.Extraction{Intent: "greeting", Language: "en"}, nil
}

func (greetingExtractor) DetectLanguage(context.Context, string) (string, error) {
	return "en", nil
}

type noopSearcher struct{}

func (noopSearcher) Run(context.Context, *trip.SlotSet) (search.Outcome, error) {
	return search.Outcome{Kind: search.OutcomeNoAvailability}, nil
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.DialogConfig{
		Timezone:       "UTC",
		LockTimeout:    50 * time.Millisecond,
		MessageWindow:  10,
		LanguagesCSV:   "en",
		MaxResultsKept: 3,
	}
	machine := dialog.NewMachine(
		memory.NewInMemoryStore(time.Hour),
		greetingExtractor{},
		dates.NewResolver(time.UTC),
		noopSearcher{},
		cfg,
		zap.NewNop(),
	)
	router := gin.New()
	router.POST("/api/messages", NewMessageHandler(machine).Handle)
	return router
}

func TestHandleMessage(t *testing.T) {
	router := testRouter()

	body := `{"user_id":"u1","text":"hello","language":"en"}`
	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Reply dialog.Reply `json:"reply"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Reply.Text == "" {
		t.Error("expected a greeting reply")
	}
	if resp.Reply.Language != "en" {
		t.Errorf("language = %q, want en", resp.Reply.Language)
	}
}

func TestHandleMessageBadRequests(t *testing.T) {
	router := testRouter()

	cases := []string{
		`not json`,
		`{"text":"hello"}`,
		`{"user_id":"u1"}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}
