package onesky

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/onesky-sync/internal/domain"
)

const (
	DefaultBaseURL = "https://platform.api.onesky.io/1"
	defaultTimeout = 30 * time.Second
	userAgent      = "onesky-sync/1.0"
	filesPerPage   = 100
)

// Client implements domain.TranslationService for the OneSky Platform API
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// NewClient creates a new OneSky API client. An empty baseURL selects the
// public endpoint; a zero timeout selects the default per-request timeout.
func NewClient(baseURL, apiKey, apiSecret string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		apiSecret: apiSecret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
		now:    time.Now,
	}
}

// response is a completed HTTP exchange with a 2xx status
type response struct {
	status int
	body   []byte
}

// authQuery returns the signature parameters required on every call
func (c *Client) authQuery() url.Values {
	ts := strconv.FormatInt(c.now().Unix(), 10)
	sum := md5.Sum([]byte(ts + c.apiSecret))

	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("timestamp", ts)
	q.Set("dev_hash", hex.EncodeToString(sum[:]))
	return q
}

// doRequest performs an authenticated request. Connection errors and
// non-2xx statuses are returned as domain.ErrRemoteTransport.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*response, error) {
	q := c.authQuery()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	// the query carries the api key and signature, so only the path is logged
	c.logger.Debug("onesky request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("onesky request failed", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrRemoteTransport, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", domain.ErrRemoteTransport, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteTransport, domain.ErrAuthFailed)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := failureMessage(data)
		c.logger.Error("onesky request error", "path", path, "status", resp.StatusCode, "message", msg)
		if msg != "" {
			return nil, fmt.Errorf("%w: unexpected status code %d: %s", domain.ErrRemoteTransport, resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("%w: unexpected status code %d", domain.ErrRemoteTransport, resp.StatusCode)
	}

	return &response{status: resp.StatusCode, body: data}, nil
}

// failureMessage extracts meta.message from an error body, if there is one
func failureMessage(body []byte) string {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Meta.Message
}

// embeddedFailure detects an error envelope inside a 2xx body.
// Catalogue exports can themselves be JSON, so only an object whose meta
// block carries an error status counts.
func embeddedFailure(body []byte) *domain.APIFailure {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var probe struct {
		Meta *Meta `json:"meta"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil || probe.Meta == nil {
		return nil
	}
	if probe.Meta.Status < 400 {
		return nil
	}
	return &domain.APIFailure{Status: probe.Meta.Status, Message: probe.Meta.Message}
}

// parseEnvelope decodes a listing response into dest
func (c *Client) parseEnvelope(body []byte, dest any) (*Meta, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("%w: failed to parse response: %v", domain.ErrRemotePayload, err)
	}
	if env.Meta.Status >= 400 {
		failure := &domain.APIFailure{Status: env.Meta.Status, Message: env.Meta.Message}
		return nil, fmt.Errorf("%w: %w", domain.ErrRemotePayload, failure)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return &env.Meta, nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return nil, fmt.Errorf("%w: failed to parse data: %v", domain.ErrRemotePayload, err)
	}
	return &env.Meta, nil
}

func projectPath(projectID, resource string) string {
	return fmt.Sprintf("/projects/%s/%s", url.PathEscape(projectID), resource)
}

// ListLanguages returns the languages enabled for a project
func (c *Client) ListLanguages(ctx context.Context, projectID string) ([]domain.Language, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, projectPath(projectID, "languages"), nil, nil, "")
	if err != nil {
		return nil, err
	}

	var langs []Language
	if _, err := c.parseEnvelope(resp.body, &langs); err != nil {
		return nil, err
	}
	return MapLanguages(langs), nil
}

// ListFiles returns the project's file manifest, following pagination
func (c *Client) ListFiles(ctx context.Context, projectID string) ([]domain.RemoteFile, error) {
	var all []File
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("per_page", strconv.Itoa(filesPerPage))

		resp, err := c.doRequest(ctx, http.MethodGet, projectPath(projectID, "files"), query, nil, "")
		if err != nil {
			return nil, err
		}

		var files []File
		meta, err := c.parseEnvelope(resp.body, &files)
		if err != nil {
			return nil, err
		}
		all = append(all, files...)

		if meta.NextPage == nil || *meta.NextPage == "" || page >= meta.PageCount || len(files) == 0 {
			break
		}
	}
	return MapFiles(all), nil
}

// UploadFile submits a catalogue as multipart form data
func (c *Client) UploadFile(ctx context.Context, projectID string, req domain.UploadRequest) (*domain.UploadResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", req.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(req.Content); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	fields := map[string]string{
		"file_format": req.Format,
		"locale":      string(req.Locale),
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close form: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, projectPath(projectID, "files"), nil, &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}

	if failure := embeddedFailure(resp.body); failure != nil {
		return &domain.UploadResult{Failure: failure}, nil
	}

	var uploaded UploadedFile
	if _, err := c.parseEnvelope(resp.body, &uploaded); err != nil {
		return nil, err
	}
	c.logger.Info("file uploaded", "file", req.FileName, "locale", req.Locale, "import_id", uploaded.Import.ID)
	return MapUpload(uploaded), nil
}

// ExportTranslation downloads one translated catalogue. A 202 answer means
// the export is still being prepared and is reported as a failure payload.
func (c *Client) ExportTranslation(ctx context.Context, projectID string, req domain.ExportRequest) (*domain.ExportResult, error) {
	query := url.Values{}
	query.Set("locale", string(req.Locale))
	query.Set("source_file_name", req.SourceFileName)
	query.Set("export_file_name", req.ExportFileName)

	resp, err := c.doRequest(ctx, http.MethodGet, projectPath(projectID, "translations"), query, nil, "")
	if err != nil {
		return nil, err
	}

	if resp.status == http.StatusAccepted {
		return &domain.ExportResult{Failure: &domain.APIFailure{
			Status:  resp.status,
			Message: "export is still being prepared",
		}}, nil
	}

	if failure := embeddedFailure(resp.body); failure != nil {
		return &domain.ExportResult{Failure: failure}, nil
	}

	return &domain.ExportResult{Content: resp.body}, nil
}
