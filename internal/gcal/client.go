// Package gcal mirrors appointments into a Google Calendar. The calendar
// is a convenience copy for the practice staff: every operation here is
// best-effort and callers must never fail a booking on a calendar error.
package gcal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const defaultTimeZone = "America/Mexico_City"

// slotDuration is how long a calendar block lasts. Appointments are booked
// on a half-hour grid.
const slotDuration = 30 * time.Minute

// Config carries the OAuth refresh-token credentials for the practice's
// calendar account.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	CalendarID   string
	TimeZone     string
}

// Client wraps the Calendar API for appointment events.
type Client struct {
	svc        *calendar.Service
	calendarID string
	timeZone   string
	location   *time.Location
}

// NewClient builds a calendar client. Extra options are applied after the
// token source, so tests can override endpoint and authentication.
func NewClient(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Client, error) {
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = defaultTimeZone
	}
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		loc = time.UTC
	}

	var all []option.ClientOption
	if cfg.RefreshToken != "" {
		oauthCfg := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{calendar.CalendarEventsScope},
		}
		ts := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
		all = append(all, option.WithTokenSource(ts))
	}
	all = append(all, opts...)

	svc, err := calendar.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("gcal: new service: %w", err)
	}

	return &Client{
		svc:        svc,
		calendarID: cfg.CalendarID,
		timeZone:   cfg.TimeZone,
		location:   loc,
	}, nil
}

// CreateEvent inserts a half-hour event for an appointment and returns the
// event ID.
func (c *Client) CreateEvent(ctx context.Context, paciente, fecha, hora, motivo string) (string, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", fecha+" "+hora, c.location)
	if err != nil {
		return "", fmt.Errorf("gcal: bad slot %s %s: %w", fecha, hora, err)
	}
	end := start.Add(slotDuration)

	event := &calendar.Event{
		Summary:     "Cita: " + paciente,
		Description: motivo,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: c.timeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: c.timeZone,
		},
	}

	created, err := c.svc.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("gcal: insert event: %w", err)
	}
	return created.Id, nil
}

// DeleteEvent removes an event. An event already gone counts as success.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	err := c.svc.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
			return nil
		}
		return fmt.Errorf("gcal: delete event %s: %w", eventID, err)
	}
	return nil
}
