package nlu

import (
	"strings"
	"testing"
)

func TestCleanJSONString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"intent\":\"greeting\"}\n```", `{"intent":"greeting"}`},
		{"```\n{}\n```", "{}"},
		{`  {"a":1}  `, `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
	}
	for _, tc := range cases {
		if got := cleanJSONString(tc.in); got != tc.want {
			t.Errorf("cleanJSONString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildExtractionPromptIncludesContext(t *testing.T) {
	prompt := buildExtractionPrompt(Request{
		Text:     "coming back on the 20th",
		Language: "en",
		History: []Turn{
			{Role: "user", Content: "flight from london to karachi"},
			{Role: "assistant", Content: "One way or round trip?"},
		},
		Known: KnownSlots{Origin: "london", Destination: "karachi"},
	})

	for _, want := range []string{
		"origin: london",
		"destination: karachi",
		"flight from london to karachi",
		"coming back on the 20th",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildExtractionPromptEmptyContext(t *testing.T) {
	prompt := buildExtractionPrompt(Request{Text: "hi"})
	if !strings.Contains(prompt, "Already collected: NONE") {
		t.Error("empty slot context should render as NONE")
	}
}
