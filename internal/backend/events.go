package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"event-ticketing-storefront/internal/models"
)

// EventImage is an already-prepared image to upload with a new event
type EventImage struct {
	Filename string
	Content  io.Reader
}

// ListEvents returns one page of the public catalog
func (s *Session) ListEvents(ctx context.Context, filter models.EventFilter) (*models.Page[models.Event], error) {
	key := listCacheKey(filter)
	var cached models.Page[models.Event]
	if s.client.cache.get(ctx, key, &cached) {
		return &cached, nil
	}

	q := pageQuery(filter.Page, filter.Limit, map[string]string{
		"category": filter.Category,
		"search":   filter.Search,
	})
	data, err := s.do(ctx, &request{method: http.MethodGet, path: "/events", query: q})
	if err != nil {
		return nil, err
	}
	page, err := decodePage[models.Event](data, "events")
	if err != nil {
		return nil, err
	}

	s.client.cache.set(ctx, key, page)
	return page, nil
}

// GetEvent returns one event with its ticket types
func (s *Session) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	key := eventCacheKey(id)
	var cached models.Event
	if s.client.cache.get(ctx, key, &cached) {
		return &cached, nil
	}

	data, err := s.do(ctx, &request{method: http.MethodGet, path: "/events/" + strconv.Itoa(id)})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Event *models.Event `json:"event"`
	}
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	if resp.Event == nil {
		return nil, &models.APIError{Kind: models.KindInvalidRequest, Status: http.StatusNotFound, Message: "event not found", Err: models.ErrEventNotFound}
	}

	s.client.cache.set(ctx, key, resp.Event)
	return resp.Event, nil
}

// MyEvents lists the events created by the signed-in organizer
func (s *Session) MyEvents(ctx context.Context) ([]models.Event, error) {
	data, err := s.do(ctx, &request{method: http.MethodGet, path: "/events/my-events", authenticated: true})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Events []models.Event `json:"events"`
	}
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// CreateEvent uploads a new event as a multipart form
func (s *Session) CreateEvent(ctx context.Context, draft models.EventDraft, image *EventImage) (*models.Event, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	body, contentType, err := eventForm(draft, image)
	if err != nil {
		return nil, err
	}

	data, err := s.do(ctx, &request{
		method:        http.MethodPost,
		path:          "/events",
		rawBody:       body,
		contentType:   contentType,
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Event *models.Event `json:"event"`
	}
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	s.client.cache.invalidateLists(ctx)
	return resp.Event, nil
}

func eventForm(draft models.EventDraft, image *EventImage) (*bytes.Buffer, string, error) {
	ticketTypes, err := json.Marshal(draft.TicketTypes)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode ticket types: %w", err)
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	fields := []struct{ name, value string }{
		{"title", draft.Title},
		{"description", draft.Description},
		{"category", draft.Category},
		{"date", draft.Date},
		{"time", draft.Time},
		{"location", draft.Location},
		{"province", draft.Province},
		{"district", draft.District},
		{"ward", draft.Ward},
		{"address", draft.Address},
		{"ticketTypes", string(ticketTypes)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", f.name, err)
		}
	}

	if image != nil && image.Content != nil {
		part, err := w.CreateFormFile("image", image.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := io.Copy(part, image.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write image: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

// UpdateEvent changes an event owned by the signed-in organizer
func (s *Session) UpdateEvent(ctx context.Context, id int, update models.EventUpdate) (*models.Event, error) {
	data, err := s.do(ctx, &request{method: http.MethodPut, path: "/events/" + strconv.Itoa(id), body: update, authenticated: true})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Event *models.Event `json:"event"`
	}
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	s.client.cache.invalidateEvent(ctx, id)
	return resp.Event, nil
}

// DeleteEvent removes an event owned by the signed-in organizer
func (s *Session) DeleteEvent(ctx context.Context, id int) error {
	if _, err := s.do(ctx, &request{method: http.MethodDelete, path: "/events/" + strconv.Itoa(id), authenticated: true}); err != nil {
		return err
	}
	s.client.cache.invalidateEvent(ctx, id)
	return nil
}
