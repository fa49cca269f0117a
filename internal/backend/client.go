// internal/backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"prouni-simulator/internal/common/config"
	apperrors "prouni-simulator/internal/common/errors"
	commonhttp "prouni-simulator/internal/common/http"
	"prouni-simulator/internal/common/logger"
	"prouni-simulator/internal/common/observability"
	"prouni-simulator/internal/models"
)

// ErrResultNotReady is returned by FetchResult on 202 Accepted.
var ErrResultNotReady = errors.New("RESULT_NOT_READY")

const connectionFailedMessage = "Não foi possível conectar ao servidor"

// Client talks to the simulation backend. It never retries on its own.
type Client struct {
	baseURL string
	http    *commonhttp.Client
	obs     *observability.Observability
	logger  logger.Logger
}

func NewClient(cfg config.BackendConfig, log logger.Logger, obs *observability.Observability, opts ...commonhttp.Option) *Client {
	if obs == nil {
		obs = observability.NewNoop()
	}
	opts = append([]commonhttp.Option{commonhttp.WithRateLimit(cfg.RequestsPerSecond, cfg.Burst)}, opts...)

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    commonhttp.NewClient(config.GetDuration(cfg.Timeout), opts...),
		obs:     obs,
		logger: log.WithFields(map[string]interface{}{
			"component": "backend",
		}),
	}
}

// Login authenticates a candidate by e-mail and password.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	if _, err := c.do(ctx, http.MethodPost, PathLogin, PathLogin, LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup creates a candidate account.
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (*models.Candidate, error) {
	var out models.Candidate
	if _, err := c.do(ctx, http.MethodPost, PathSignup, PathSignup, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitComplementaryData attaches scores, institution and course to a candidate.
func (c *Client) SubmitComplementaryData(ctx context.Context, candidateID int, data ComplementaryData) error {
	path := fmt.Sprintf(PathFormulario, candidateID)
	_, err := c.do(ctx, http.MethodPost, path, PathFormulario, data, nil)
	return err
}

// FetchResult reads the computed result for a candidate. A 202 means the
// backend is still working and yields ErrResultNotReady.
func (c *Client) FetchResult(ctx context.Context, candidateID int) (*ResultResponse, error) {
	path := fmt.Sprintf(PathResult, candidateID)

	var out ResultResponse
	status, err := c.do(ctx, http.MethodGet, path, PathResult, nil, &out)
	if err != nil {
		return nil, err
	}
	if status == http.StatusAccepted {
		return nil, ErrResultNotReady
	}
	return &out, nil
}

// ClassifyDirect runs the model in a single call.
func (c *Client) ClassifyDirect(ctx context.Context, req DirectRequest) (*DirectResponse, error) {
	var out DirectResponse
	if _, err := c.do(ctx, http.MethodPost, PathSimulaDireto, PathSimulaDireto, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCourses reads one page of the course catalog. A non-positive limit
// falls back to DefaultCourseLimit.
func (c *Client) ListCourses(ctx context.Context, skip, limit int) ([]Course, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultCourseLimit
	}
	if limit > MaxCourseLimit {
		limit = MaxCourseLimit
	}

	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	out := []Course{}
	if _, err := c.do(ctx, http.MethodGet, PathCourses+"?"+q.Encode(), PathCourses, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCourse reads one course. An unknown id surfaces as a 404 NetworkError.
func (c *Client) GetCourse(ctx context.Context, id int) (*Course, error) {
	var out Course
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf(PathCourse, id), PathCourse, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends one request. route is the path template, used as a low
// cardinality label for metrics and spans.
func (c *Client) do(ctx context.Context, method, path, route string, body, out interface{}) (status int, err error) {
	ctx, span := c.obs.StartSpan(ctx, "backend "+method+" "+route,
		attribute.String("http.method", method),
		attribute.String("http.route", route),
	)
	start := time.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		span.SetAttributes(attribute.Int("http.status_code", status))
		observability.EndSpan(span, err)
		c.obs.RecordRequest(ctx, route, outcome)
		c.obs.RecordRequestDuration(ctx, route, time.Since(start))
	}()

	var reader io.Reader
	if body != nil {
		payload, mErr := json.Marshal(body)
		if mErr != nil {
			return 0, fmt.Errorf("encode %s request: %w", route, mErr)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, apperrors.NewNetworkError(path, 0, "", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("backend request", map[string]interface{}{
		"method": method,
		"path":   path,
	})

	resp, err := c.http.DoWithContext(ctx, req)
	if err != nil {
		c.logger.Error("backend unreachable", map[string]interface{}{
			"path":  path,
			"error": err,
		})
		return 0, apperrors.NewNetworkError(path, 0, connectionFailedMessage, err)
	}
	defer resp.Body.Close()

	status = resp.StatusCode
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return status, apperrors.NewNetworkError(path, status, "", err)
	}

	if status < 200 || status > 299 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		detail := eb.message()

		c.logger.Warn("backend returned error", map[string]interface{}{
			"path":   path,
			"status": status,
			"detail": detail,
		})
		return status, apperrors.NewNetworkError(path, status, detail, nil)
	}

	if status == http.StatusNoContent || status == http.StatusAccepted || out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return status, nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return status, apperrors.NewNetworkError(path, status, "Resposta inválida do servidor", err)
	}
	return status, nil
}
