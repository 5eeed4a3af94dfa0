// Package toggl talks to the Toggl Track API v9.
package toggl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"indicator-toggl/internal/datetime"
	"indicator-toggl/internal/domain"
	apperrors "indicator-toggl/internal/errors"
)

// DefaultBaseURL is the public v9 endpoint.
const DefaultBaseURL = "https://api.track.toggl.com/api/v9"

const maxErrorBody = 4096

// Client is a thin, synchronous client for the endpoints this tool needs.
type Client struct {
	baseURL  string
	apiToken string
	http     *http.Client
	log      *slog.Logger
	mapper   *domain.Mapper
}

// NewClient creates a client. An empty baseURL means DefaultBaseURL.
func NewClient(baseURL, apiToken string, timeout time.Duration, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
		http:     &http.Client{Timeout: timeout},
		log:      log,
		mapper:   domain.NewMapper(),
	}
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var raw domain.UserWire
	if err := c.do(ctx, "get user", http.MethodGet, "/me", nil, nil, &raw); err != nil {
		return domain.User{}, err
	}
	return c.mapper.Reference.UserFromWire(raw), nil
}

// ListTimeEntries fetches the user's entries, newest first.
// GET /me/time_entries?start_date=...&end_date=...
func (c *Client) ListTimeEntries(ctx context.Context, opts domain.SearchOptions) ([]domain.TimeEntry, error) {
	q := url.Values{}
	if opts.StartDate != nil {
		q.Set("start_date", datetime.FormatISO(*opts.StartDate))
	}
	if opts.EndDate != nil {
		q.Set("end_date", datetime.FormatISO(*opts.EndDate))
	}

	var raw []domain.TimeEntryWire
	if err := c.do(ctx, "list time entries", http.MethodGet, "/me/time_entries", q, nil, &raw); err != nil {
		return nil, err
	}
	return c.mapper.TimeEntry.FromWireSlice(raw)
}

// CurrentTimeEntry returns the running entry, or nil when nothing runs.
func (c *Client) CurrentTimeEntry(ctx context.Context) (*domain.TimeEntry, error) {
	var raw *domain.TimeEntryWire
	if err := c.do(ctx, "get current time entry", http.MethodGet, "/me/time_entries/current", nil, nil, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	entry, err := c.mapper.TimeEntry.FromWire(*raw)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateTimeEntry submits a new entry and returns it as stored by the service.
func (c *Client) CreateTimeEntry(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, error) {
	path := fmt.Sprintf("/workspaces/%d/time_entries", entry.WorkspaceID)
	return c.sendEntry(ctx, "create time entry", http.MethodPost, path, entry)
}

// UpdateTimeEntry replaces an existing entry.
func (c *Client) UpdateTimeEntry(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, error) {
	path := fmt.Sprintf("/workspaces/%d/time_entries/%d", entry.WorkspaceID, entry.ID)
	return c.sendEntry(ctx, "update time entry", http.MethodPut, path, entry)
}

// DeleteTimeEntry removes an entry. A missing entry is reported as a not-found RemoteError.
func (c *Client) DeleteTimeEntry(ctx context.Context, workspaceID, id int64) error {
	path := fmt.Sprintf("/workspaces/%d/time_entries/%d", workspaceID, id)
	return c.do(ctx, "delete time entry "+strconv.FormatInt(id, 10), http.MethodDelete, path, nil, nil, nil)
}

// ListProjects fetches the projects visible to the user.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var raw []domain.ProjectWire
	if err := c.do(ctx, "list projects", http.MethodGet, "/me/projects", nil, nil, &raw); err != nil {
		return nil, err
	}
	return c.mapper.Reference.ProjectsFromWire(raw), nil
}

// ListClients fetches the clients visible to the user.
func (c *Client) ListClients(ctx context.Context) ([]domain.Client, error) {
	var raw []domain.ClientWire
	if err := c.do(ctx, "list clients", http.MethodGet, "/me/clients", nil, nil, &raw); err != nil {
		return nil, err
	}
	return c.mapper.Reference.ClientsFromWire(raw), nil
}

// ListWorkspaceUsers fetches the members of a workspace.
func (c *Client) ListWorkspaceUsers(ctx context.Context, workspaceID int64) ([]domain.User, error) {
	var raw []domain.UserWire
	path := fmt.Sprintf("/workspaces/%d/users", workspaceID)
	if err := c.do(ctx, "list users", http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, err
	}
	return c.mapper.Reference.UsersFromWire(raw), nil
}

func (c *Client) sendEntry(ctx context.Context, op, method, path string, entry domain.TimeEntry) (domain.TimeEntry, error) {
	var raw domain.TimeEntryWire
	if err := c.do(ctx, op, method, path, nil, c.mapper.TimeEntry.ToWire(entry), &raw); err != nil {
		return domain.TimeEntry{}, err
	}
	return c.mapper.TimeEntry.FromWire(raw)
}

// do performs one request. A nil out skips decoding.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	if c.apiToken == "" {
		return apperrors.NewRemoteError(op, http.StatusUnauthorized, "")
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.WrapError(err, apperrors.ErrorTypeRemote, op+": encoding request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return apperrors.WrapError(err, apperrors.ErrorTypeRemote, op+": building request")
	}
	// Basic auth: token:api_token
	req.SetBasicAuth(c.apiToken, "api_token")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return apperrors.NewTimeoutError(op, c.http.Timeout)
		}
		return apperrors.NewNetworkError(op, err)
	}
	defer resp.Body.Close()

	c.log.Debug("toggl request",
		"op", op,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(started).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return apperrors.NewRemoteError(op, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.WrapError(err, apperrors.ErrorTypeRemote, op+": unexpected response")
	}
	return nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
