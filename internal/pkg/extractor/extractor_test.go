package extractor

import (
	"context"
	"testing"

	"github.com/futig/parallel-universe/internal/entity"
	"github.com/goccy/go-json"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParse_ProseAroundPayload(t *testing.T) {
	raw := `Intro text [{"title":"2020A","contents":"x"}] more text "lastMessage": "done"`

	result := Parse(context.Background(), raw)

	assert.Equal(t, &entity.SimulationResult{
		Timeline:    []entity.TimelineItem{{Title: "2020A", Contents: "x"}},
		LastMessage: "done",
	}, result)
}

func TestParse_NoBrackets(t *testing.T) {
	result := Parse(context.Background(), "no brackets here")

	assert.Equal(t, entity.FallbackResult(), result)
	require.Len(t, result.Timeline, 1)
	assert.Equal(t, entity.FallbackTitle, result.Timeline[0].Title)
	assert.Equal(t, entity.FallbackLastMessage, result.LastMessage)
}

func TestParse_NeverFails(t *testing.T) {
	inputs := map[string]string{
		"empty":                  "",
		"whitespace":             " \n\t ",
		"prose":                  "The universe declined to answer today.",
		"unterminated message":   `{"timeline":[{"title":"2001","contents":"a"}],"lastMessage":"never closed`,
		"empty message":          `{"timeline":[],"lastMessage":""}`,
		"missing message":        `{"timeline":[{"title":"2001","contents":"a"}]}`,
		"inverted brackets":      `] "lastMessage": "x" [`,
		"malformed interior":     `[{"title":"2001" "contents":"a"}] "lastMessage":"x"`,
		"wrong element type":     `[1, 2, 3] "lastMessage":"x"`,
		"truncated":              `{"timeline":[{"title":"2001","contents":"a"},{"title":"20`,
		"marker without value":   `[] "lastMessage": null`,
		"nested arrays in value": `[{"title":"2001","contents":"a"}] "lastMessage":"see [1]"`,
	}

	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			var result *entity.SimulationResult
			assert.NotPanics(t, func() {
				result = Parse(context.Background(), raw)
			})
			assert.Equal(t, entity.FallbackResult(), result)
		})
	}
}

func TestExtract_Causes(t *testing.T) {
	tests := []struct {
		raw  string
		want error
	}{
		{raw: "", want: ErrTimelineNotFound},
		{raw: "only [ opening", want: ErrTimelineNotFound},
		{raw: `[{"title":}] "lastMessage":"x"`, want: ErrTimelineMalformed},
		{raw: `[{"title":"a","contents":"b"}]`, want: ErrLastMessageNotFound},
		{raw: `[] "lastMessage": "unterminated`, want: ErrLastMessageMalformed},
	}

	for _, tt := range tests {
		_, err := Extract(tt.raw)
		assert.ErrorIs(t, err, tt.want, "input %q", tt.raw)
	}
}

func TestExtract_MarkdownFence(t *testing.T) {
	raw := "```json\n{\n  \"timeline\": [\n    {\"title\": \"2016D / 10 /\", \"contents\": \"You moved to Busan.\"},\n    {\"title\": \"2019D / 1200 /\", \"contents\": \"The cafe opened.\"}\n  ],\n  \"lastMessage\": \"Be kind to yourself.\"\n}\n```"

	result, err := Extract(raw)
	require.NoError(t, err)
	assert.Len(t, result.Timeline, 2)
	assert.Equal(t, "2019D / 1200 /", result.Timeline[1].Title)
	assert.Equal(t, "Be kind to yourself.", result.LastMessage)
}

func TestExtract_EscapedQuotesInLastMessage(t *testing.T) {
	raw := `{"timeline":[{"title":"2010","contents":"c"}],"lastMessage":"she said \"hello\"\nand left"}`

	result, err := Extract(raw)
	require.NoError(t, err)
	assert.Equal(t, "she said \"hello\"\nand left", result.LastMessage)
}

func TestExtract_EmptyTimeline(t *testing.T) {
	result, err := Extract(`{"timeline":[],"lastMessage":"only this"}`)
	require.NoError(t, err)
	assert.NotNil(t, result.Timeline)
	assert.Empty(t, result.Timeline)
}

func TestExtract_IdempotentOnOwnOutput(t *testing.T) {
	results := []*entity.SimulationResult{
		{
			Timeline: []entity.TimelineItem{
				{Title: "2018D / 0 /", Contents: "첫 번째 장면"},
				{Title: "2020D / 700 /", Contents: "Quotes \"inside\" and <tags> & braces {}"},
			},
			LastMessage: "너는 잘하고 있어 \"정말로\"",
		},
		{
			Timeline:    []entity.TimelineItem{{Title: "1999", Contents: "line one\nline two"}},
			LastMessage: "fin",
		},
	}

	for _, want := range results {
		serialized, err := json.Marshal(want)
		require.NoError(t, err)

		got, err := Extract(string(serialized))
		require.NoError(t, err)
		assert.Equal(t, want, got)

		again, err := json.Marshal(got)
		require.NoError(t, err)
		reparsed, err := Extract(string(again))
		require.NoError(t, err)
		assert.Equal(t, got, reparsed)
	}
}

func TestParse_LogsCauseAndRawInput(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	ctx := ctxzap.ToContext(context.Background(), zap.New(core))

	Parse(ctx, "no brackets here")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "no brackets here", fields["raw_response"])
	assert.Contains(t, fields["error"], ErrTimelineNotFound.Error())
}
