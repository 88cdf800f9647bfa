package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// maxRankedSlots bounds how many candidates are ever offered to the
// completion backend, to keep prompt size bounded.
const maxRankedSlots = 5

// Extraction is the request-extraction contract.
type Extraction struct {
	Participants    []string `json:"participants"`
	TimeConstraints string   `json:"time_constraints"`
	MeetingDuration int      `json:"meeting_duration"`
}

// SlotView is the candidate representation offered to the ranking prompt.
type SlotView struct {
	Index     int    `json:"index"`
	Day       string `json:"day"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// SlotChoice is the slot-ranking contract.
type SlotChoice struct {
	SelectedSlot int    `json:"selected_slot"`
	Reasoning    string `json:"reasoning"`
}

const extractPromptTemplate = `You are an assistant that helps schedule meetings.
Extract from the email below:
1. participants: list of participant email addresses.
2. time_constraints: the time hint mentioned (e.g. "next week", "Thursday"), or "" if none.
3. meeting_duration: meeting duration in minutes (default 30).
Return only a JSON object with keys "participants", "time_constraints" and "meeting_duration".

Email: %s`

// ExtractRequest asks the completion service to pull participants, time
// constraints, and duration out of free-text body content.
func ExtractRequest(ctx context.Context, svc CompletionService, body string) (*Extraction, error) {
	raw, err := svc.Complete(ctx, fmt.Sprintf(extractPromptTemplate, body))
	if err != nil {
		return nil, err
	}
	var extraction Extraction
	if err := json.Unmarshal(extractJSON(raw), &extraction); err != nil {
		return nil, fmt.Errorf("malformed extraction payload: %w", err)
	}
	if extraction.MeetingDuration <= 0 {
		extraction.MeetingDuration = 30
	}
	return &extraction, nil
}

const rankPromptTemplate = `You are an assistant that picks the best meeting time.

Meeting subject: %s
Meeting context: %s

Available slots:
%s

Pick the best slot considering any time constraints in the context, working
hours (9 AM - 5 PM), and a preference for morning slots.
Return only a JSON object with keys "selected_slot" (the index) and "reasoning".`

// RankSlots asks the completion service to choose among up to five
// pre-filtered candidates. The returned index is always valid for slots;
// any failure or out-of-range answer falls back to index 0.
func RankSlots(ctx context.Context, svc CompletionService, subject, body string, slots []SlotView) *SlotChoice {
	fallback := &SlotChoice{SelectedSlot: 0, Reasoning: "first available slot"}
	if len(slots) == 0 {
		return fallback
	}
	if len(slots) > maxRankedSlots {
		slots = slots[:maxRankedSlots]
	}

	encoded, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return fallback
	}
	raw, err := svc.Complete(ctx, fmt.Sprintf(rankPromptTemplate, subject, body, string(encoded)))
	if err != nil {
		slog.Warn("slot ranking failed, using first slot", "error", err)
		return fallback
	}

	var choice SlotChoice
	if err := json.Unmarshal(extractJSON(raw), &choice); err != nil {
		slog.Warn("slot ranking returned malformed payload, using first slot", "error", err)
		return fallback
	}
	if choice.SelectedSlot < 0 || choice.SelectedSlot >= len(slots) {
		choice.SelectedSlot = 0
	}
	if choice.Reasoning == "" {
		choice.Reasoning = fallback.Reasoning
	}
	return &choice
}

// NewSlotView formats a candidate for the ranking prompt.
func NewSlotView(index int, start, end time.Time) SlotView {
	return SlotView{
		Index:     index,
		Day:       start.Format("Monday"),
		Date:      start.Format("2006-01-02"),
		StartTime: start.Format("15:04"),
		EndTime:   end.Format("15:04"),
	}
}

// extractJSON pulls the JSON object out of a completion response, tolerating
// code fences, prose around the object, and stray control characters.
func extractJSON(raw string) []byte {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return []byte(cleaned)
	}
	cleaned = cleaned[start : end+1]
	cleaned = strings.ReplaceAll(cleaned, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\t", " ")
	return []byte(strings.TrimSpace(cleaned))
}
