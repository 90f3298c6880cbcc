package gateway

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

	"github.com/dshills/qualitymap/internal/qualitymap"
	"github.com/dshills/qualitymap/internal/redact"
	"github.com/dshills/qualitymap/internal/scorecard"
)

const (
	pathCriteria       = "/api/criteria"
	pathQualityMaps    = "/api/quality-maps/"
	pathChatDeductions = "/api/quality-deductions"
	pathCallDeductions = "/api/quality-call-deductions"

	defaultTimeout = 30 * time.Second
	maxErrorBody   = 512
)

// DeductionPath returns the upsert endpoint for kind.
func DeductionPath(kind scorecard.ColumnKind) string {
	if kind == scorecard.KindCall {
		return pathCallDeductions
	}
	return pathChatDeductions
}

// StatusError is returned for non-2xx backend responses.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Path, e.Status, e.Body)
}

func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return qualitymap.ErrNotFound
	}
	return nil
}

// HTTPGateway implements Gateway against the backend REST API.
type HTTPGateway struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTP creates an HTTP gateway. A zero timeout uses 30s.
func NewHTTP(baseURL, token string, timeout time.Duration) (*HTTPGateway, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("gateway: base URL not set")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("gateway: invalid base URL %q: %w", baseURL, err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (g *HTTPGateway) Name() string { return "http" }

func (g *HTTPGateway) FetchCriteria(ctx context.Context, teamID int64) ([]scorecard.Criterion, error) {
	path := pathCriteria
	if teamID != 0 {
		path += "?team_id=" + strconv.FormatInt(teamID, 10)
	}
	var out []scorecard.Criterion
	if err := g.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("gateway: fetch criteria: %w", err)
	}
	return out, nil
}

func (g *HTTPGateway) FetchQualityMap(ctx context.Context, id int64) (*qualitymap.QualityMap, error) {
	var out qualitymap.QualityMap
	if err := g.do(ctx, http.MethodGet, pathQualityMaps+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, fmt.Errorf("gateway: fetch quality map %d: %w", id, err)
	}
	return &out, nil
}

func (g *HTTPGateway) UpsertDeduction(ctx context.Context, req scorecard.UpsertRequest) (scorecard.Deduction, error) {
	var out qualitymap.DeductionRecord
	if err := g.do(ctx, http.MethodPost, DeductionPath(req.Kind), qualitymap.NewUpsert(req), &out); err != nil {
		return scorecard.Deduction{}, fmt.Errorf("gateway: upsert deduction: %w", err)
	}
	return out.ToDeduction(req.Kind), nil
}

func (g *HTTPGateway) UpdateColumnIDs(ctx context.Context, qualityMapID int64, kind scorecard.ColumnKind, ids []string) error {
	path := pathQualityMaps + strconv.FormatInt(qualityMapID, 10)
	if err := g.do(ctx, http.MethodPatch, path, qualitymap.NewColumnUpdate(kind, ids), nil); err != nil {
		return fmt.Errorf("gateway: update %s: %w", kind.IDsField(), err)
	}
	return nil
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %s", redact.Redact(err.Error()))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: errorBody(respBody)}
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func errorBody(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return redact.Redact(s)
}

// IsNotFound reports whether err means the resource does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, qualitymap.ErrNotFound)
}
