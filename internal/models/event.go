package models

import (
	"errors"
	"regexp"
	"strings"
)

// Event represents an event as published by the catalog. The storefront never
// mutates it locally.
type Event struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Date        string       `json:"date"`
	Time        string       `json:"time"`
	Location    string       `json:"location"`
	Address     string       `json:"address"`
	Image       string       `json:"image"`
	OrganizerID int          `json:"organizerId,omitempty"`
	CreatedAt   string       `json:"createdAt,omitempty"`
	TicketTypes []TicketType `json:"ticket_types,omitempty"`
}

// EventFilter holds the catalog query parameters
type EventFilter struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// EventDraft is the organizer's form for creating an event
type EventDraft struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Date        string            `json:"date"`
	Time        string            `json:"time"`
	Location    string            `json:"location"`
	Province    string            `json:"province"`
	District    string            `json:"district"`
	Ward        string            `json:"ward"`
	Address     string            `json:"address"`
	TicketTypes []TicketTypeDraft `json:"ticketTypes"`
}

// TicketTypeDraft describes a ticket type on a new event
type TicketTypeDraft struct {
	TypeName string `json:"typeName"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

// EventUpdate carries the fields an organizer may change; nil means unchanged
type EventUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Date        *string `json:"date,omitempty"`
	Time        *string `json:"time,omitempty"`
	Location    *string `json:"location,omitempty"`
	Address     *string `json:"address,omitempty"`
	Image       *string `json:"image,omitempty"`
}

var (
	eventDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	eventTimeRegex = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)
)

// TicketType returns the ticket type at index, or nil when out of range
func (e *Event) TicketType(index int) *TicketType {
	if index < 0 || index >= len(e.TicketTypes) {
		return nil
	}
	return &e.TicketTypes[index]
}

// HasTickets reports whether the event offers at least one ticket type
func (e *Event) HasTickets() bool {
	return len(e.TicketTypes) > 0
}

// Validate validates an event draft before it is sent to the backend
func (d *EventDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return NewValidationError("title", "event title is required")
	}
	if len(d.Title) > 200 {
		return NewValidationError("title", "event title must be less than 200 characters")
	}
	if strings.TrimSpace(d.Category) == "" {
		return NewValidationError("category", "event category is required")
	}
	if !eventDateRegex.MatchString(d.Date) {
		return NewValidationError("date", "event date must be YYYY-MM-DD")
	}
	if !eventTimeRegex.MatchString(d.Time) {
		return NewValidationError("time", "event time must be HH:MM")
	}
	if strings.TrimSpace(d.Location) == "" {
		return NewValidationError("location", "event location is required")
	}
	if len(d.TicketTypes) == 0 {
		return NewValidationError("ticketTypes", "at least one ticket type is required")
	}

	for i := range d.TicketTypes {
		if err := d.TicketTypes[i].validate(); err != nil {
			return err
		}
	}

	return nil
}

func (td *TicketTypeDraft) validate() error {
	if strings.TrimSpace(td.TypeName) == "" {
		return NewValidationError("ticketTypes", "ticket type name is required")
	}
	if err := validateTicketTypePrice(td.Price); err != nil {
		return NewValidationError("ticketTypes", err.Error())
	}
	if td.Quantity <= 0 {
		return NewValidationError("ticketTypes", "ticket quantity must be greater than 0")
	}
	return nil
}

func validateTicketTypePrice(price int) error {
	if price < 0 {
		return errors.New("ticket price cannot be negative")
	}
	return nil
}
