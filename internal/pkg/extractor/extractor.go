// Package extractor recovers a SimulationResult from the simulator's reply.
//
// The reply only loosely resembles JSON: it may carry prose around the
// payload, markdown fences or be truncated. Extraction scans for the outermost
// timeline brackets and the "lastMessage" marker instead of decoding the whole
// text. Nested or multiple arrays are not handled: the slice always runs from
// the first '[' to the last ']'.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/futig/parallel-universe/internal/entity"
	json "github.com/goccy/go-json"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const lastMessageMarker = `"lastMessage"`

var (
	ErrTimelineNotFound     = errors.New("timeline array not found")
	ErrTimelineMalformed    = errors.New("timeline array is malformed")
	ErrLastMessageNotFound  = errors.New("lastMessage marker not found")
	ErrLastMessageMalformed = errors.New("lastMessage value not found")
)

// lastMessagePattern captures a non-empty string value up to the next
// unescaped double quote.
var lastMessagePattern = regexp.MustCompile(`(?s)"lastMessage"\s*:\s*"((?:[^"\\]|\\.)+)"`)

// Extract returns the typed result or the reason extraction failed.
func Extract(raw string) (*entity.SimulationResult, error) {
	text := strings.TrimSpace(raw)

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return nil, ErrTimelineNotFound
	}

	var timeline []entity.TimelineItem
	if err := json.Unmarshal([]byte(text[start:end+1]), &timeline); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimelineMalformed, err)
	}
	if timeline == nil {
		timeline = []entity.TimelineItem{}
	}

	markerIdx := strings.Index(text, lastMessageMarker)
	if markerIdx == -1 {
		return nil, ErrLastMessageNotFound
	}

	match := lastMessagePattern.FindStringSubmatch(text[markerIdx:])
	if match == nil {
		return nil, ErrLastMessageMalformed
	}

	return &entity.SimulationResult{
		Timeline:    timeline,
		LastMessage: unescape(match[1]),
	}, nil
}

// unescape decodes JSON escapes in a captured string value. Values that are
// not valid JSON string bodies (raw newlines, bad escapes) are kept verbatim.
func unescape(captured string) string {
	var decoded string
	if err := json.Unmarshal([]byte(`"`+captured+`"`), &decoded); err != nil {
		return captured
	}
	return decoded
}

// Parse never fails: any extraction problem is logged together with the raw
// reply and replaced by entity.FallbackResult.
func Parse(ctx context.Context, raw string) *entity.SimulationResult {
	result, err := Extract(raw)
	if err != nil {
		ctxzap.Error(ctx, "failed to parse simulation response",
			zap.Error(err),
			zap.String("raw_response", raw),
		)
		return entity.FallbackResult()
	}

	ctxzap.Debug(ctx, "simulation response parsed",
		zap.Int("timeline_length", len(result.Timeline)),
	)

	return result
}
