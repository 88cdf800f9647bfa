package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/meetsense/internal/profile"
	"github.com/hrygo/meetsense/plugin/calendar"
	"github.com/hrygo/meetsense/server/service/scheduler"
)

func newTestService(t *testing.T) *SchedulerService {
	t.Helper()
	static := calendar.NewStaticProvider(nil)
	registry := calendar.NewRegistry(func(string) (calendar.Provider, error) {
		return static, nil
	})
	now := func() time.Time {
		// A Wednesday morning.
		return time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC)
	}
	engine := scheduler.NewEngine(registry, nil, time.UTC, scheduler.WithClock(now))
	return NewSchedulerService(&profile.Profile{Timezone: "UTC"}, engine)
}

func postReceive(t *testing.T, svc *SchedulerService, payload string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/receive", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, svc.Receive(e.NewContext(req, rec))
}

func TestReceiveSchedulesMeeting(t *testing.T) {
	svc := newTestService(t)

	rec, err := postReceive(t, svc, `{
		"Request_id": "req-http-1",
		"From": "carol@corp.test",
		"To": "alice@corp.test, bob@corp.test",
		"Subject": "Planning sync",
		"Body": "Let's meet on Thursday for 30 minutes.",
		"Duration_mins": "30"
	}`)

	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReceiveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "req-http-1", resp.RequestID)
	assert.Equal(t, "carol@corp.test", resp.From)
	assert.Equal(t, "alice@corp.test, bob@corp.test", resp.To)
	assert.Equal(t, "30", resp.DurationMins)
	assert.Equal(t, "2026-09-03T10:00:00Z", resp.EventStart)
	assert.Equal(t, "2026-09-03T10:30:00Z", resp.EventEnd)
	assert.Equal(t, scheduler.StatusScheduled, resp.MetaData.Status)
	assert.Len(t, resp.MetaData.Projections, 3)
}

func TestReceiveNumericDuration(t *testing.T) {
	svc := newTestService(t)

	rec, err := postReceive(t, svc, `{
		"Request_id": "req-http-2",
		"From": "carol@corp.test",
		"To": "alice@corp.test",
		"Subject": "Deep dive",
		"Body": "Next week works.",
		"Duration_mins": 60
	}`)

	require.NoError(t, err)
	var resp ReceiveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "60", resp.DurationMins)
	assert.Equal(t, 60, resp.MetaData.DurationMinutes)
}

func TestReceiveMissingOrganizerReportsInMetaData(t *testing.T) {
	svc := newTestService(t)

	rec, err := postReceive(t, svc, `{
		"Request_id": "req-http-3",
		"To": "alice@corp.test",
		"Body": "meet soon"
	}`)

	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReceiveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "", resp.EventStart)
	assert.Equal(t, "", resp.EventEnd)
	assert.Equal(t, scheduler.StatusError, resp.MetaData.Status)
	assert.NotEmpty(t, resp.MetaData.ErrorDetail)
}

func TestReceiveMalformedPayload(t *testing.T) {
	svc := newTestService(t)

	_, err := postReceive(t, svc, `{"From": `)

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestSplitRecipients(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"alice@corp.test", []string{"alice@corp.test"}},
		{"alice@corp.test, bob@corp.test", []string{"alice@corp.test", "bob@corp.test"}},
		{"alice@corp.test; bob@corp.test ;", []string{"alice@corp.test", "bob@corp.test"}},
		{"", nil},
		{" , ; ", nil},
	}
	for _, tc := range tests {
		got := splitRecipients(tc.in)
		if tc.want == nil {
			assert.Empty(t, got)
			continue
		}
		assert.Equal(t, tc.want, got)
	}
}
