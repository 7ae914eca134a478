package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/config"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/llm"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/nlp"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/service"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	noLLM := &cli.BoolFlag{
		Name:  "no-llm",
		Usage: "Use the rule-based extractors only",
	}
	return &cli.App{
		Name:  "mira-extract",
		Usage: "Extract property search filters from natural-language queries",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "query",
				Usage:     "Extract filters from a single query",
				ArgsUsage: "TEXT",
				Action:    queryCommand,
				Flags:     []cli.Flag{noLLM},
			},
			{
				Name:   "batch",
				Usage:  "Extract filters from a file with one query per line",
				Action: batchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to the query file, or - for stdin",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Number of concurrent extractions",
						Value:   4,
					},
					noLLM,
				},
			},
		},
	}
}

// extractOutput is one line of CLI output
type extractOutput struct {
	Query          string             `json:"query"`
	Result         model.FilterResult `json:"result"`
	Summary        string             `json:"summary"`
	ShouldEscalate bool               `json:"should_escalate"`
}

type extractFunc func(ctx context.Context, query string) extractOutput

func queryCommand(c *cli.Context) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return fmt.Errorf("query text is required")
	}

	extract, err := buildExtractor(!c.Bool("no-llm"))
	if err != nil {
		return err
	}

	out := extract(c.Context, text)
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func batchCommand(c *cli.Context) error {
	queries, err := readQueries(c.String("input"))
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		slog.Warn("no queries found", "input", c.String("input"))
		return nil
	}

	extract, err := buildExtractor(!c.Bool("no-llm"))
	if err != nil {
		return err
	}

	results, err := runBatch(c.Context, queries, c.Int("workers"), extract)
	if err != nil {
		return err
	}
	return writeLines(c.App.Writer, results)
}

// buildExtractor wires the hybrid pipeline from the same configuration the server uses
func buildExtractor(useLLM bool) (extractFunc, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := slog.Default()

	properties := service.NewPropertyService(cfg.Data.Dir, cfg.NLP.BudgetRanges, cfg.Data.USDToINR, logger)
	catalog := nlp.NewLocationCatalog(properties.Cities, cfg.NLP.FallbackCities, logger)
	rules, err := nlp.NewRuleExtractor(cfg.NLP, catalog)
	if err != nil {
		return nil, err
	}

	if !useLLM {
		cfg.LLM.Enabled = false
	}
	client, err := llm.New(cfg.LLM, logger)
	if err != nil {
		return nil, err
	}
	client.WithBudgetLabels(cfg.NLP.BudgetRanges.Labels())
	if useLLM && !client.IsEnabled() {
		slog.Warn("llm is not configured, falling back to rule-based extraction")
	}

	hybrid := nlp.NewHybridExtractor(rules, client, logger)
	return func(ctx context.Context, query string) extractOutput {
		result, ruleOnly := hybrid.ExtractWithRules(ctx, query, useLLM && hybrid.LLMAvailable())
		return extractOutput{
			Query:          query,
			Result:         result,
			Summary:        nlp.Summary(result),
			ShouldEscalate: nlp.ShouldEscalate(query, ruleOnly),
		}
	}, nil
}

// readQueries returns the non-blank lines of path; "-" reads stdin
func readQueries(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	return scanQueries(r)
}

func scanQueries(r io.Reader) ([]string, error) {
	var queries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return queries, nil
}

func writeLines(w io.Writer, results []extractOutput) error {
	enc := json.NewEncoder(w)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	var level slog.Level
	switch strings.ToLower(c.String("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.String("log-level"))
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}
