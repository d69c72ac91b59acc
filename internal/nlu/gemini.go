package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiExtractor implements Extractor using Google's Gemini models.
type GeminiExtractor struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiExtractor initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiExtractor(ctx context.Context, apiKey string) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Gemini 2.0 Flash keeps per-message latency low enough for chat.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.2)

	return &GeminiExtractor{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (g *GeminiExtractor) Close() {
	g.client.Close()
}

// Extract reads one user message in context and reports slot changes.
func (g *GeminiExtractor) Extract(ctx context.Context, req Request) (*Extraction, error) {
	prompt := buildExtractionPrompt(req)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: no response candidates", ErrUnavailable)
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	cleanJSON := cleanJSONString(responseText.String())

	var result Extraction
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return nil, fmt.Errorf("%w: unparsable model output: %v", ErrUnavailable, err)
	}
	return &result, nil
}

// DetectLanguage identifies the primary language of a message.
func (g *GeminiExtractor) DetectLanguage(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`Identify the language of the following message.
Answer with JSON only: {"language": "<two-letter ISO 639-1 code>"}
Message: %s`, text)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no response candidates", ErrUnavailable)
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	var out struct {
		Language string `json:"language"`
	}
	if err := json.Unmarshal([]byte(cleanJSONString(responseText.String())), &out); err != nil {
		return "", fmt.Errorf("%w: unparsable model output: %v", ErrUnavailable, err)
	}
	return strings.ToLower(strings.TrimSpace(out.Language)), nil
}

// buildExtractionPrompt constructs the instructions for the model.
func buildExtractionPrompt(req Request) string {
	known := "NONE"
	var parts []string
	if req.Known.Origin != "" {
		parts = append(parts, "origin: "+req.Known.Origin)
	}
	if req.Known.Destination != "" {
		parts = append(parts, "destination: "+req.Known.Destination)
	}
	if req.Known.TripType != "" {
		parts = append(parts, "trip type: "+req.Known.TripType)
	}
	if req.Known.DepartureDate != "" {
		parts = append(parts, "departure: "+req.Known.DepartureDate)
	}
	if req.Known.ReturnDate != "" {
		parts = append(parts, "return: "+req.Known.ReturnDate)
	}
	if len(parts) > 0 {
		known = strings.Join(parts, "; ")
	}

	var history strings.Builder
	for _, turn := range req.History {
		history.WriteString(turn.Role)
		history.WriteString(": ")
		history.WriteString(turn.Content)
		history.WriteString("\n")
	}
	if history.Len() == 0 {
		history.WriteString("NONE\n")
	}

	return fmt.Sprintf(`Role: You are the language-understanding core of a flight search assistant.
Context:
- Already collected: %s
- User language (best guess): %s
- Recent conversation:
%s
RULES:

1. REPORT CHANGES ONLY:
   - Fill a field ONLY when THIS message states or changes it.
   - Leave every other field empty/null. The system merges for you.
   - If the user corrects an earlier value ("actually from Manchester"),
     report the NEW value in the right field.

2. PLACES:
   - "from X" / "leaving X" -> origin. "to Y" / "going to Y" -> destination.
   - Report city or airport names verbatim in English where possible,
     translating city names from other languages (e.g. "لندن" -> "London").
   - NEVER swap origin and destination. A bare city with no direction word
     on a first mention is the destination.

3. DATES:
   - Copy the user's date wording into departure_phrase / return_phrase
     VERBATIM in English (e.g. "next friday", "12-16 august", "september").
   - Do NOT resolve dates to calendar values yourself.
   - "coming back", "return on" -> return_phrase, and trip_type "round_trip".

4. TRIP TYPE:
   - "one way", "single" -> "one_way". "return", "round trip" -> "round_trip".
   - A stated return date implies "round_trip".

5. FILTERS:
   - Airline mentions ("only PIA", "prefer Emirates") -> carriers as IATA
     codes when known (PIA -> PK, Emirates -> EK), else the airline name.
   - Cabin mentions -> cabin_class: economy, premium, business, first.
   - "for 2 people", "3 passengers" -> passengers.

6. INTENT:
   - "flight_search" when the message supplies or changes any travel detail.
   - "reset" when the user asks to start over or cancel everything.
   - "greeting" for bare greetings, "chitchat" for anything else.

7. LANGUAGE:
   - "language": two-letter ISO 639-1 code of the language THIS message
     is written in.

8. Output JSON Schema:
{
  "intent": "flight_search" | "greeting" | "chitchat" | "reset",
  "origin": "string or empty",
  "destination": "string or empty",
  "departure_phrase": "string or empty",
  "return_phrase": "string or empty",
  "trip_type": "one_way" | "round_trip" | "",
  "passengers": integer (0 = not mentioned),
  "cabin_class": "string or empty",
  "carriers": ["string"],
  "language": "string"
}

User Message: %s`, known, req.Language, history.String(), req.Text)
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
