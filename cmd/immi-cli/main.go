// Package main provides the Immi CLI entrypoint.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/immi-ai/answer-engine/internal/cache"
	"github.com/immi-ai/answer-engine/internal/config"
	"github.com/immi-ai/answer-engine/internal/embedding"
	"github.com/immi-ai/answer-engine/internal/generation"
	"github.com/immi-ai/answer-engine/internal/llm"
	"github.com/immi-ai/answer-engine/internal/observability"
	"github.com/immi-ai/answer-engine/internal/pipeline"
	"github.com/immi-ai/answer-engine/internal/query"
	"github.com/immi-ai/answer-engine/internal/retrieval"
	"github.com/immi-ai/answer-engine/internal/vectorindex"
)

var (
	// Global flags
	cfgFile    string
	outputJSON bool
	verbose    bool

	// Configuration and logger
	cfg    *config.Config
	logger *observability.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "immi-cli",
	Short: "Immi CLI for asking US immigration and visa questions",
	Long: `Immi CLI answers natural-language immigration and visa questions from
the knowledge base.

Use this tool to:
- Ask a single question with 'ask'
- Hold an interactive conversation with 'chat'
- Inspect classification output with 'classify'

All commands support --json for automation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logFormat := "console"
		logLevel := "warn"
		if verbose {
			logLevel = cfg.Observability.LogLevel
		}
		if outputJSON {
			logFormat = "json"
		}

		logger = observability.NewLogger(observability.LogConfig{
			Level:       logLevel,
			Format:      logFormat,
			ServiceName: "immi-cli",
		})

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newAskCmd creates the ask subcommand.
func newAskCmd() *cobra.Command {
	var (
		topic string
		first bool
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single immigration question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			question := strings.Join(args, " ")

			p, err := buildPipeline()
			if err != nil {
				return err
			}

			answer, err := p.Answer(ctx, pipeline.Request{
				Question: question,
				ClientID: "cli",
				Context: query.Context{
					LastTopic:      topic,
					IsFirstMessage: first,
				},
			})
			if err != nil {
				return fmt.Errorf("answer failed: %w", err)
			}

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(answer)
			}

			printAnswer(answer)
			return nil
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "previous conversation topic for follow-up resolution")
	cmd.Flags().BoolVar(&first, "first", false, "treat as the first message of a conversation")

	return cmd
}

// newChatCmd creates the interactive chat subcommand.
func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Hold an interactive conversation",
		Long:  `Chat starts a REPL. Type 'exit' or 'quit' to leave.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPipeline()
			if err != nil {
				return err
			}

			printBanner()

			scanner := bufio.NewScanner(os.Stdin)
			lastTopic := ""
			first := true

			for {
				printPrompt()
				if !scanner.Scan() {
					break
				}
				question := strings.TrimSpace(scanner.Text())
				if question == "" {
					continue
				}
				if question == "exit" || question == "quit" {
					break
				}

				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
				answer, err := p.Answer(ctx, pipeline.Request{
					Question: question,
					ClientID: "cli",
					Context: query.Context{
						LastTopic:      lastTopic,
						IsFirstMessage: first,
					},
				})
				cancel()
				if err != nil {
					printError(err)
					continue
				}

				printAnswer(answer)

				// An affirmative keeps the previous topic so a follow-up
				// "yes" can resolve against it next turn too.
				if query.Normalize(question) != "yes" {
					lastTopic = question
				}
				first = false
			}

			return scanner.Err()
		},
	}
}

// newClassifyCmd creates the classify subcommand for inspecting intent analysis.
func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [question]",
		Short: "Show how a question is classified",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			normalized := query.Normalize(question)
			analysis := query.NewClassifier(logger).Classify(normalized)

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"normalized":           normalized,
					"category":             string(analysis.Category),
					"confidence":           analysis.Confidence,
					"in_domain":            analysis.IsInDomain,
					"matched_terms":        analysis.MatchedTerms,
					"needs_clarification":  analysis.NeedsClarification,
					"clarification_prompt": analysis.ClarificationPrompt,
					"visa_codes":           query.ExtractVisaCodes(normalized),
				})
			}

			printClassification(normalized, analysis)
			return nil
		},
	}
}

// newVersionCmd creates the version subcommand.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.Encode(map[string]string{
					"version": "0.1.0",
					"go":      "1.25",
				})
				return
			}
			fmt.Println("immi-cli v0.1.0")
		},
	}
}

// buildPipeline constructs the answering pipeline from configuration. When no
// embedding key is configured the CLI falls back to a deterministic mock
// embedder and an in-memory index so the command still runs offline.
func buildPipeline() (*pipeline.Pipeline, error) {
	answers := cache.NewAnswerCache(cache.NewMemoryClient(1000), cfg.Cache.TTL)

	var embedder embedding.Embedder
	if cfg.Embedding.APIKey != "" {
		client, err := embedding.NewClient(embedding.Config{
			BaseURL:   cfg.Embedding.BaseURL,
			APIKey:    cfg.Embedding.APIKey,
			Model:     cfg.Embedding.Model,
			Dimension: cfg.Embedding.Dimension,
			Timeout:   cfg.Embedding.Timeout,
		})
		if err == nil {
			embedder = client
		} else {
			logger.Warn().Err(err).Msg("Failed to create embedding client, using mock")
			embedder = embedding.NewMockClient(cfg.Embedding.Dimension)
		}
	} else {
		embedder = embedding.NewMockClient(cfg.Embedding.Dimension)
	}

	var index vectorindex.Index
	if cfg.VectorIndex.APIKey != "" {
		client, err := vectorindex.NewClient(vectorindex.Config{
			BaseURL:   cfg.VectorIndex.BaseURL,
			APIKey:    cfg.VectorIndex.APIKey,
			Namespace: cfg.VectorIndex.Namespace,
			Timeout:   cfg.VectorIndex.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("create vector index client: %w", err)
		}
		index = client
	} else {
		logger.Warn().Msg("No vector index key configured, using empty in-memory index")
		index = vectorindex.NewMemoryIndex()
	}

	completer, err := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Stream:      cfg.LLM.Stream,
		Timeout:     cfg.LLM.Timeout,
		MaxRetries:  cfg.LLM.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("create completion client: %w", err)
	}

	retriever := retrieval.NewRetriever(embedder, index, retrieval.Options{
		TopK:                cfg.Retrieval.TopK,
		SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
		ComparisonThreshold: cfg.Retrieval.ComparisonThreshold,
		SemanticWeight:      cfg.Retrieval.SemanticWeight,
		LexicalWeight:       cfg.Retrieval.LexicalWeight,
	}, logger)

	generator := generation.NewGenerator(completer, logger)
	validator := generation.NewValidator(generation.ValidationRules{
		MinSources:      cfg.Generation.MinSources,
		ConfidenceFloor: cfg.Generation.ConfidenceFloor,
	})

	return pipeline.New(
		query.NewClassifier(logger),
		query.NewClarifier(),
		retriever,
		generator,
		validator,
		answers,
		nil,
		pipeline.Options{
			MaskPII:           cfg.Security.MaskPII,
			LowConfidenceWarn: cfg.Generation.LowConfidenceWarn,
		},
		logger,
	), nil
}
