package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/nlp"
)

func rulesOnly(t *testing.T) extractFunc {
	t.Helper()
	rules, err := nlp.NewRuleExtractor(nlp.DefaultConfig(), nlp.StaticCatalog("mumbai", "pune"))
	require.NoError(t, err)
	hybrid := nlp.NewHybridExtractor(rules, nil, nil)
	return func(ctx context.Context, q string) extractOutput {
		r := hybrid.Extract(ctx, q, false)
		return extractOutput{Query: q, Result: r, Summary: nlp.Summary(r)}
	}
}

func TestRunBatch_KeepsInputOrder(t *testing.T) {
	queries := []string{"slow", "fast", "medium", "instant"}
	delays := map[string]time.Duration{
		"slow":    30 * time.Millisecond,
		"medium":  15 * time.Millisecond,
		"fast":    5 * time.Millisecond,
		"instant": 0,
	}
	extract := func(_ context.Context, q string) extractOutput {
		time.Sleep(delays[q])
		return extractOutput{Query: q}
	}

	results, err := runBatch(context.Background(), queries, 4, extract)
	require.NoError(t, err)
	require.Len(t, results, len(queries))
	for i, q := range queries {
		assert.Equal(t, q, results[i].Query)
	}
}

func TestRunBatch_RuleExtraction(t *testing.T) {
	queries := []string{"2 bhk in Mumbai", "hi"}

	results, err := runBatch(context.Background(), queries, 0, rulesOnly(t))
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.NotNil(t, results[0].Result.Location)
	assert.Equal(t, "Mumbai", *results[0].Result.Location)
	require.NotNil(t, results[0].Result.Bedrooms)
	assert.Equal(t, "2", *results[0].Result.Bedrooms)
	assert.Equal(t, model.MethodRuleBased, results[0].Result.ExtractionMethod)
	assert.Equal(t, "2 bedroom property in Mumbai", results[0].Summary)

	assert.Zero(t, results[1].Result.FieldsFound())
}

func TestRunBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runBatch(ctx, []string{"a", "b"}, 2, func(context.Context, string) extractOutput {
		return extractOutput{}
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanQueries(t *testing.T) {
	input := "2 bhk in Pune\n\n  # comment\n  villa under 1 crore  \n"
	queries, err := scanQueries(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"2 bhk in Pune", "villa under 1 crore"}, queries)
}

func TestWriteLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeLines(&buf, []extractOutput{{Query: "a"}, {Query: "b"}}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var first extractOutput
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "a", first.Query)
}

func TestQueryCommand_RequiresText(t *testing.T) {
	err := newApp().Run([]string{"mira-extract", "query"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query text is required")
}

func TestBatchCommand_InputRequired(t *testing.T) {
	err := newApp().Run([]string{"mira-extract", "batch"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input")
}
