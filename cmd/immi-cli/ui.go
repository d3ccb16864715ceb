// Package main provides output utilities for the Immi CLI.
package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/immi-ai/answer-engine/internal/generation"
	"github.com/immi-ai/answer-engine/internal/query"
)

func printBanner() {
	color.New(color.FgCyan, color.Bold).Println("Immi — US immigration assistant")
	fmt.Println("Type a question, or 'exit' to leave.")
	fmt.Println()
}

func printPrompt() {
	color.New(color.FgGreen, color.Bold).Print("you> ")
}

func printError(err error) {
	color.New(color.FgRed).Printf("✗ %v\n", err)
}

func printAnswer(answer generation.Answer) {
	fmt.Println()

	if answer.Response.Greeting != "" {
		color.New(color.FgCyan, color.Bold).Println(answer.Response.Greeting)
	}
	if answer.Response.Overview != "" {
		fmt.Println(answer.Response.Overview)
	}

	if len(answer.Response.KeyPoints) > 0 {
		fmt.Println()
		color.New(color.Bold).Println("Key Points:")
		for _, point := range answer.Response.KeyPoints {
			fmt.Printf("  • %s\n", point)
		}
	}

	if len(answer.Response.FollowUp) > 0 {
		fmt.Println()
		color.New(color.Bold).Println("Follow-up:")
		for _, q := range answer.Response.FollowUp {
			fmt.Printf("  • %s\n", q)
		}
	}

	fmt.Println()
	color.New(color.FgYellow).Printf("confidence: %.2f", answer.Metadata.ConfidenceScore)
	if answer.Metadata.LowConfidence {
		color.New(color.FgYellow).Print("  (low confidence)")
	}
	fmt.Println()

	if len(answer.Metadata.Sources) > 0 {
		color.New(color.Faint).Print("sources: ")
		for i, src := range answer.Metadata.Sources {
			if i > 0 {
				fmt.Print(", ")
			}
			color.New(color.Faint).Printf("%s p.%d", src.Document, src.Page)
		}
		fmt.Println()
	}

	if answer.Response.Disclaimer != "" {
		color.New(color.Faint).Println(answer.Response.Disclaimer)
	}
	fmt.Println()
}

func printClassification(normalized string, analysis query.IntentAnalysis) {
	color.New(color.Bold).Println("Classification")
	fmt.Printf("  normalized:  %s\n", normalized)
	fmt.Printf("  category:    %s\n", analysis.Category)
	fmt.Printf("  confidence:  %.2f\n", analysis.Confidence)
	fmt.Printf("  in domain:   %t\n", analysis.IsInDomain)
	if len(analysis.MatchedTerms) > 0 {
		fmt.Printf("  matched:     %v\n", analysis.MatchedTerms)
	}
	if codes := query.ExtractVisaCodes(normalized); len(codes) > 0 {
		fmt.Printf("  visa codes:  %v\n", codes)
	}
	if analysis.NeedsClarification {
		color.New(color.FgYellow).Printf("  clarify:     %s\n", analysis.ClarificationPrompt)
	}
}
