package entity

import (
	"fmt"
	"regexp"
)

type TimelineItem struct {
	Title    string `json:"title"`
	Contents string `json:"contents"`
}

type SimulationResult struct {
	Timeline    []TimelineItem `json:"timeline"`
	LastMessage string         `json:"lastMessage"`
}

const (
	FallbackTitle       = "파싱 오류"
	FallbackContents    = "응답을 처리하는 중 오류가 발생했습니다. 다시 시도해주세요."
	FallbackLastMessage = "다시 시도해보세요."
)

// FallbackResult is returned whenever the simulator reply cannot be extracted,
// so callers always have a renderable result.
func FallbackResult() *SimulationResult {
	return &SimulationResult{
		Timeline: []TimelineItem{
			{
				Title:    FallbackTitle,
				Contents: FallbackContents,
			},
		},
		LastMessage: FallbackLastMessage,
	}
}

var yearToken = regexp.MustCompile(`(\d{4})`)

// Year returns the first 4-digit token of the title (e.g. "2024D / 348 /" -> "2024").
// Titles without one fall back to their first four characters.
func (t TimelineItem) Year() string {
	if m := yearToken.FindStringSubmatch(t.Title); m != nil {
		return m[1]
	}
	runes := []rune(t.Title)
	if len(runes) > 4 {
		runes = runes[:4]
	}
	return string(runes)
}

// ResultPage is one page of a result. Pages 0..len(timeline)-1 show timeline
// items; page len(timeline) is the closing last-message page.
type ResultPage struct {
	Index       int           `json:"index"`
	Total       int           `json:"total"`
	IsLast      bool          `json:"is_last"`
	Item        *TimelineItem `json:"item,omitempty"`
	Year        string        `json:"year,omitempty"`
	LastMessage string        `json:"last_message,omitempty"`
}

// Page returns the page at index.
func (r *SimulationResult) Page(index int) (*ResultPage, error) {
	total := len(r.Timeline)
	if index < 0 || index > total {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrPageOutOfRange, index, total)
	}

	page := &ResultPage{
		Index: index,
		Total: total,
	}

	if index == total {
		page.IsLast = true
		page.LastMessage = r.LastMessage
		return page, nil
	}

	item := r.Timeline[index]
	page.Item = &item
	page.Year = item.Year()
	return page, nil
}
