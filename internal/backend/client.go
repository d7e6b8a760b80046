// Package backend is the HTTP client for the external scheduling service.
// It exposes the contracts the dashboard consumes: the viewer's own
// events, the group availability search, meeting creation, and the group
// listing endpoints that feed member selection.
//
// The client performs no retries and no caching; staleness of competing
// responses is resolved by the schedule aggregator, not here.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meetgrid/meetgrid/internal/tz"
)

// Client talks to the scheduling service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the service at baseURL. Timeout covers the
// whole request including body read; a timeout surfaces as ErrNetwork.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Events fetches the viewer's own events in [start, end).
func (c *Client) Events(ctx context.Context, start, end time.Time) ([]Event, error) {
	startWire, endWire := tz.WireWindow(start, end)
	q := url.Values{}
	q.Set("start", startWire)
	q.Set("end", endWire)

	var events []Event
	if err := c.getJSON(ctx, "/api/calendar/events?"+q.Encode(), &events); err != nil {
		return nil, err
	}
	return events, nil
}

// SearchAvailability runs the free-slot search for the selected members.
func (c *Client) SearchAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityResult, error) {
	form := url.Values{}
	form.Set("group_id", req.GroupID)
	for _, email := range req.SelectedMembers {
		form.Add("selected_members", email)
	}
	form.Set("start_date", req.StartDate)
	form.Set("end_date", req.EndDate)
	form.Set("start_time", req.StartTime)
	form.Set("end_time", req.EndTime)
	form.Set("duration", strconv.Itoa(req.DurationMinutes))

	var result AvailabilityResult
	if err := c.postForm(ctx, "/api/meeting/search", form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateMeeting books a meeting and returns the created-meeting echo.
func (c *Client) CreateMeeting(ctx context.Context, req MeetingRequest) (*Meeting, error) {
	form := url.Values{}
	form.Set("title", req.Title)
	form.Set("description", req.Description)
	form.Set("start_datetime", req.StartDatetime)
	form.Set("end_datetime", req.EndDatetime)
	for _, email := range req.AttendeeEmails {
		form.Add("attendee_emails", email)
	}

	var meeting Meeting
	if err := c.postForm(ctx, "/api/meeting/create", form, &meeting); err != nil {
		return nil, err
	}
	return &meeting, nil
}

// Ping checks that the service is reachable. Any HTTP response counts as
// reachable; only transport failures are reported.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrNetwork, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	return nil
}

// Groups lists the groups the viewer belongs to.
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := c.getJSON(ctx, "/groups/api/groups", &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GroupMembers lists the members of one group.
func (c *Client) GroupMembers(ctx context.Context, groupID string) ([]GroupMember, error) {
	var members []GroupMember
	if err := c.getJSON(ctx, "/groups/api/groups/"+url.PathEscape(groupID)+"/members", &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *Client) getJSON(ctx context.Context, path string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrNetwork, err)
	}
	return c.do(req, into)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, into)
}

func (c *Client) do(req *http.Request, into any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d: %s", ErrServer, resp.StatusCode, serverMessage(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// serverMessage extracts a human-readable message from an error body,
// falling back to the raw (truncated) body.
func serverMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "no response body"
	}

	var parsed errorResponse
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Detail != "" {
			return parsed.Detail
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
