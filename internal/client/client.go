package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"schoolhub/internal/domain/school"
)

const defaultTimeout = 15 * time.Second

// Image is a file selected for upload.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Client talks to the school API.
type Client struct {
	baseURL string
	http    *http.Client
	dialer  *websocket.Dialer
}

// New creates a client for baseURL, e.g. http://localhost:5000.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u.String(),
		http:    &http.Client{Timeout: defaultTimeout},
		dialer:  websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// ImageURL returns the public URL of a stored image filename.
func (c *Client) ImageURL(name string) string {
	return c.baseURL + "/schoolImages/" + url.PathEscape(name)
}

func (c *Client) ListSchools(ctx context.Context) ([]school.School, error) {
	var schools []school.School
	if err := c.do(ctx, http.MethodGet, "/api/schools", nil, "", &schools); err != nil {
		return nil, err
	}
	if schools == nil {
		schools = []school.School{}
	}
	return schools, nil
}

func (c *Client) GetSchool(ctx context.Context, id string) (*school.School, error) {
	var s school.School
	if err := c.do(ctx, http.MethodGet, "/api/schools/"+url.PathEscape(id), nil, "", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

type schoolEnvelope struct {
	Message string         `json:"message"`
	School  *school.School `json:"school"`
}

// CreateSchool sends every field of in, plus img when non-nil.
func (c *Client) CreateSchool(ctx context.Context, in school.CreateInput, img *Image) (*school.School, error) {
	body, contentType, err := encodeForm(in.Fields(), img)
	if err != nil {
		return nil, err
	}
	var env schoolEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/schools/add", body, contentType, &env); err != nil {
		return nil, err
	}
	return env.School, nil
}

// UpdateSchool sends only the fields set in in, plus img when non-nil.
func (c *Client) UpdateSchool(ctx context.Context, id string, in school.UpdateInput, img *Image) (*school.School, error) {
	body, contentType, err := encodeForm(in.Fields(), img)
	if err != nil {
		return nil, err
	}
	var env schoolEnvelope
	if err := c.do(ctx, http.MethodPut, "/api/schools/"+url.PathEscape(id), body, contentType, &env); err != nil {
		return nil, err
	}
	return env.School, nil
}

// DeleteSchool returns the id the server reports as deleted.
func (c *Client) DeleteSchool(ctx context.Context, id string) (string, error) {
	var env struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/schools/"+url.PathEscape(id), nil, "", &env); err != nil {
		return "", err
	}
	return env.ID, nil
}

// FetchImage downloads a stored image.
func (c *Client) FetchImage(ctx context.Context, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ImageURL(name), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	var body struct {
		Message string            `json:"message"`
		Error   any               `json:"error"`
		Details map[string]string `json:"details"`
	}
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Message = body.Message
		apiErr.Fields = body.Details
		if body.Error != nil {
			apiErr.Detail = fmt.Sprint(body.Error)
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func encodeForm(fields map[string]string, img *Image) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, k := range school.FieldKeys {
		v, ok := fields[k]
		if !ok {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	if img != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, school.FieldImage, img.Filename))
		if img.ContentType != "" {
			h.Set("Content-Type", img.ContentType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
