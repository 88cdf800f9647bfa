package v1

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/meetsense/internal/profile"
	"github.com/hrygo/meetsense/server/service/scheduler"
)

// SchedulerService exposes the scheduling engine over the JSON front door.
type SchedulerService struct {
	Profile *profile.Profile
	Engine  *scheduler.Engine
}

func NewSchedulerService(profile *profile.Profile, engine *scheduler.Engine) *SchedulerService {
	return &SchedulerService{Profile: profile, Engine: engine}
}

// Register mounts the service routes on the given group.
func (s *SchedulerService) Register(g *echo.Group) {
	g.POST("/receive", s.Receive)
}

// FlexibleInt decodes a JSON number or a numeric string. The inbound payload
// originates from email relays that are inconsistent about the field type.
type FlexibleInt int

func (f *FlexibleInt) UnmarshalJSON(data []byte) error {
	trimmed := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if trimmed == "" || trimmed == "null" {
		*f = 0
		return nil
	}
	value, err := strconv.Atoi(trimmed)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexibleInt(value)
	return nil
}

// ReceiveRequest is the inbound payload of POST /receive. Field casing
// matches the upstream email relay contract.
type ReceiveRequest struct {
	RequestID    string      `json:"Request_id"`
	From         string      `json:"From"`
	To           string      `json:"To"`
	Subject      string      `json:"Subject"`
	Body         string      `json:"Body"`
	DurationMins FlexibleInt `json:"Duration_mins"`
	Timezone     string      `json:"Timezone"`
	Location     string      `json:"Location"`
}

// ReceiveResponse echoes the request fields and adds the scheduling outcome.
type ReceiveResponse struct {
	RequestID    string                     `json:"Request_id"`
	From         string                     `json:"From"`
	To           string                     `json:"To"`
	Subject      string                     `json:"Subject"`
	Body         string                     `json:"Body"`
	EventStart   string                     `json:"EventStart"`
	EventEnd     string                     `json:"EventEnd"`
	DurationMins string                     `json:"Duration_mins"`
	MetaData     scheduler.SchedulingResult `json:"MetaData"`
}

// Receive handles one scheduling request end to end. It always answers 200
// with a structured body; scheduling failures are reported inside MetaData.
func (s *SchedulerService) Receive(c echo.Context) error {
	var req ReceiveRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request payload").SetInternal(err)
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = s.Profile.Timezone
	}

	result := s.Engine.Schedule(c.Request().Context(), scheduler.MeetingRequest{
		RequestID:       req.RequestID,
		Organizer:       strings.TrimSpace(req.From),
		Participants:    splitRecipients(req.To),
		Subject:         req.Subject,
		Body:            req.Body,
		DurationMinutes: int(req.DurationMins),
		Timezone:        timezone,
		Location:        req.Location,
	})

	return c.JSON(http.StatusOK, ReceiveResponse{
		RequestID:    result.RequestID,
		From:         req.From,
		To:           req.To,
		Subject:      req.Subject,
		Body:         req.Body,
		EventStart:   result.EventStart,
		EventEnd:     result.EventEnd,
		DurationMins: strconv.Itoa(result.DurationMinutes),
		MetaData:     result,
	})
}

// splitRecipients splits a recipient header on commas and semicolons.
func splitRecipients(to string) []string {
	fields := strings.FieldsFunc(to, func(r rune) bool {
		return r == ',' || r == ';'
	})
	recipients := make([]string, 0, len(fields))
	for _, field := range fields {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	return recipients
}
