package caldav

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"

	"github.com/dgel92/Notificacion-Temperatura/internal/clients/ics"
	"github.com/dgel92/Notificacion-Temperatura/internal/domain"
)

const (
	// Apple iCloud CalDAV endpoint
	DefaultiCloudURL = "https://caldav.icloud.com"
)

// Client is a read-only CalDAV calendar source.
type Client struct {
	baseURL      string
	username     string
	password     string
	calendarPath string
	client       *caldav.Client
}

// NewClient creates a new CalDAV client. An empty baseURL selects iCloud.
// calendarPath may stay empty; the client then queries every calendar the
// account can see.
func NewClient(baseURL, username, password, calendarPath string) *Client {
	if baseURL == "" {
		baseURL = DefaultiCloudURL
	}
	return &Client{
		baseURL:      baseURL,
		username:     username,
		password:     password,
		calendarPath: calendarPath,
	}
}

// Name identifies the source in logs.
func (c *Client) Name() string {
	u, err := url.Parse(c.baseURL)
	if err != nil || u.Host == "" {
		return "caldav"
	}
	return "caldav:" + u.Host
}

// connect establishes the CalDAV session once and reuses it.
func (c *Client) connect() (*caldav.Client, error) {
	if c.client != nil {
		return c.client, nil
	}

	httpClient := &http.Client{
		Transport: &basicAuthTransport{
			username: c.username,
			password: c.password,
		},
		Timeout: 30 * time.Second,
	}

	client, err := caldav.NewClient(httpClient, c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to CalDAV: %w", err)
	}

	c.client = client
	return client, nil
}

// basicAuthTransport adds Basic Auth to HTTP requests
type basicAuthTransport struct {
	username string
	password string
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.username, t.password)
	return http.DefaultTransport.RoundTrip(req)
}

// Events queries the account's calendars for events between from and to and
// returns the expanded occurrences. The server already filters by time
// range, but masters of recurring series come back with their original
// start, so the shared feed pipeline expands them locally.
func (c *Client) Events(ctx context.Context, from, to time.Time) ([]domain.RawEvent, error) {
	client, err := c.connect()
	if err != nil {
		return nil, err
	}

	paths := []string{c.calendarPath}
	if c.calendarPath == "" {
		paths, err = c.discoverCalendarPaths(ctx, client)
		if err != nil {
			return nil, err
		}
	}

	query := &caldav.CalendarQuery{
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{
				{
					Name:  "VEVENT",
					Start: from,
					End:   to,
				},
			},
		},
	}

	var cals []*ical.Calendar
	for _, path := range paths {
		objects, err := client.QueryCalendar(ctx, path, query)
		if err != nil {
			return nil, fmt.Errorf("query calendar %s: %w", path, err)
		}
		for _, obj := range objects {
			if obj.Data == nil {
				continue
			}
			cals = append(cals, obj.Data)
		}
	}

	return ics.ExpandCalendars(cals, from, to), nil
}

// discoverCalendarPaths walks principal and home set to find all calendars
// of the account.
func (c *Client) discoverCalendarPaths(ctx context.Context, client *caldav.Client) ([]string, error) {
	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return nil, fmt.Errorf("find principal: %w", err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("find home set: %w", err)
	}

	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return nil, fmt.Errorf("find calendars: %w", err)
	}

	paths := make([]string, 0, len(cals))
	for _, cal := range cals {
		paths = append(paths, cal.Path)
	}
	return paths, nil
}
