// README: CLI demo; loads a workbook and answers one question from the command line.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"fetii/internal/ai"
	"fetii/internal/service"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatalf("usage: %s <workbook.xlsx> <question>", os.Args[0])
	}
	workbook, question := os.Args[1], os.Args[2]

	ctx := context.Background()

	var provider ai.AnswerProvider
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		gemini, err := ai.NewGeminiProvider(ctx, apiKey)
		if err != nil {
			log.Fatalf("Failed to initialize AI provider: %v", err)
		}
		defer gemini.Close()
		provider = gemini
	}

	assistant := service.NewAssistant(provider)
	summary, err := assistant.LoadWorkbook(workbook)
	if err != nil {
		log.Fatalf("Failed to load workbook: %v", err)
	}
	fmt.Printf("Loaded %d trips across %d destinations\n\n", summary.TotalTrips, summary.UniqueDestinations)

	answer, err := assistant.Ask(ctx, question)
	if err != nil {
		log.Fatalf("Error answering question: %v", err)
	}

	fmt.Printf("Question: %s\n", answer.Question)
	fmt.Printf("Intent: %s\n", answer.Intent)
	if answer.Chart != nil {
		fmt.Printf("Suggested chart: %s (%s)\n", answer.Chart.Title, answer.Chart.Type)
	}
	fmt.Printf("\n%s\n", answer.Answer)
	fmt.Printf("\n--- Evidence ---\n%s\n", answer.Evidence)
}
