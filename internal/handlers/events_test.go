package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-ticketing-storefront/internal/models"
)

func TestListEvents_ForwardsFilters(t *testing.T) {
	env := newTestEnv(t)
	env.backend.reply(http.MethodGet, "/events", http.StatusOK, map[string]any{
		"success":    true,
		"events":     []map[string]any{{"id": 7, "title": "Summer Concert"}},
		"total":      1,
		"page":       2,
		"totalPages": 1,
	})

	rec := env.do(http.MethodGet, "/events?category="+url.QueryEscape("Âm nhạc")+"&search=jazz&page=2&limit=5", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page models.Page[models.Event]
	decodeResponse(t, rec, &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Summer Concert", page.Items[0].Title)

	calls := env.backend.calls(http.MethodGet, "/events")
	require.Len(t, calls, 1)
	q, err := url.ParseQuery(calls[0].Query)
	require.NoError(t, err)
	assert.Equal(t, "Music", q.Get("category"))
	assert.Equal(t, "jazz", q.Get("search"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "5", q.Get("limit"))
}

func TestGetEvent(t *testing.T) {
	env := newTestEnv(t)
	env.backend.reply(http.MethodGet, "/events/7", http.StatusOK, concertEventJSON())

	rec := env.do(http.MethodGet, "/events/7", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var event models.Event
	decodeResponse(t, rec, &event)
	assert.Equal(t, 7, event.ID)
	assert.Len(t, event.TicketTypes, 2)
}

func TestGetEvent_InvalidID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/events/abc", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec, nil)
	assert.Equal(t, "id", resp.Field)
	assert.Zero(t, env.backend.total())
}

func TestGetEvent_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.backend.reply(http.MethodGet, "/events/9", http.StatusOK, map[string]any{"success": true})

	rec := env.do(http.MethodGet, "/events/9", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
