package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/calistheniq/internal/catalog"
	"github.com/claude/calistheniq/internal/models"
	"github.com/claude/calistheniq/internal/progress"
)

// HTTPClient implements DataSource by calling the CalisthenIQ REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. The API
// key is only needed for write calls and may be empty for read-only use.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode payload: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

func (c *HTTPClient) GetWeeklyProgress(ctx context.Context, now time.Time, _ int) (progress.WeeklyProgress, error) {
	params := url.Values{}
	params.Set("date", now.Format(time.RFC3339))

	body, err := c.get(ctx, "/api/v1/progress/weekly", params)
	if err != nil {
		return progress.WeeklyProgress{}, err
	}

	var weekly progress.WeeklyProgress
	if err := json.Unmarshal(body, &weekly); err != nil {
		return progress.WeeklyProgress{}, fmt.Errorf("httpclient: decode weekly progress: %w", err)
	}
	return weekly, nil
}

func (c *HTTPClient) GetLevelProgress(ctx context.Context, _ int) (progress.LevelProgress, error) {
	body, err := c.get(ctx, "/api/v1/progress/levels", nil)
	if err != nil {
		return progress.LevelProgress{}, err
	}

	var lp progress.LevelProgress
	if err := json.Unmarshal(body, &lp); err != nil {
		return progress.LevelProgress{}, fmt.Errorf("httpclient: decode level progress: %w", err)
	}
	return lp, nil
}

func (c *HTTPClient) GetCurrentLevels(ctx context.Context, _ int) (models.CurrentLevels, error) {
	body, err := c.get(ctx, "/api/v1/user/levels", nil)
	if err != nil {
		return nil, err
	}

	var levels models.CurrentLevels
	if err := json.Unmarshal(body, &levels); err != nil {
		return nil, fmt.Errorf("httpclient: decode levels: %w", err)
	}
	return levels, nil
}

func (c *HTTPClient) GetExercises(ctx context.Context, level *int, category models.MovementCategory) ([]catalog.Exercise, error) {
	params := url.Values{}
	if level != nil {
		params.Set("level", strconv.Itoa(*level))
	}
	if category != "" {
		params.Set("category", string(category))
	}

	body, err := c.get(ctx, "/api/v1/exercises", params)
	if err != nil {
		return nil, err
	}

	var exercises []catalog.Exercise
	if err := json.Unmarshal(body, &exercises); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercises: %w", err)
	}
	return exercises, nil
}

func (c *HTTPClient) QueryWorkouts(ctx context.Context, start, end time.Time, _ int) ([]models.WorkoutSession, error) {
	params := url.Values{}
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))

	body, err := c.get(ctx, "/api/v1/workouts", params)
	if err != nil {
		return nil, err
	}

	var sessions []models.WorkoutSession
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("httpclient: decode workouts: %w", err)
	}
	return sessions, nil
}

func (c *HTTPClient) LogWorkout(ctx context.Context, _ int, session models.WorkoutSession) (models.WorkoutSession, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/v1/workouts", nil, session)
	if err != nil {
		return models.WorkoutSession{}, err
	}

	var created models.WorkoutSession
	if err := json.Unmarshal(body, &created); err != nil {
		return models.WorkoutSession{}, fmt.Errorf("httpclient: decode logged workout: %w", err)
	}
	return created, nil
}
