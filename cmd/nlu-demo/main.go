// README: One-shot NLU demo; sends a sample message through the Gemini
// extractor and prints the structured result.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"farelink/internal/nlu"
)

func main() {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable not set")
	}

	ctx := context.Background()
	extractor, err := nlu.NewGeminiExtractor(ctx, apiKey)
	if err != nil {
		log.Fatalf("Failed to initialize extractor: %v", err)
	}
	defer extractor.Close()

	message := "I need a return flight from London to Karachi, leaving next Friday, back after two weeks, Emirates only"
	if len(os.Args) > 1 {
		message = strings.Join(os.Args[1:], " ")
	}
	fmt.Printf("User: %s\n", message)

	detected, err := extractor.DetectLanguage(ctx, message)
	if err != nil {
		log.Fatalf("Error detecting language: %v", err)
	}
	fmt.Printf("Detected language: %s\n", detected)

	result, err := extractor.Extract(ctx, nlu.Request{Text: message, Language: detected})
	if err != nil {
		log.Fatalf("Error extracting slots: %v", err)
	}

	fmt.Printf("Intent: %s\n", result.Intent)
	fmt.Printf("Origin: %s\n", result.Origin)
	fmt.Printf("Destination: %s\n", result.Destination)
	fmt.Printf("Departure: %s\n", result.DeparturePhrase)
	fmt.Printf("Return: %s\n", result.ReturnPhrase)
	fmt.Printf("Trip type: %s\n", result.TripType)
	if len(result.Carriers) > 0 {
		fmt.Printf("Carriers: %s\n", strings.Join(result.Carriers, ", "))
	}
	fmt.Printf("Language: %s\n", result.Language)
}
