package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fieldops/bizerror"
	"fieldops/common"
	"fmt"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client is the single gateway to the upstream work-order REST API. All
// business logic lives behind that API; this client only moves JSON and
// multipart payloads and surfaces errors.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// ActiveClient is wired in main and consumed by the screen handlers.
var ActiveClient *Client

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: &BearerTransport{Transport: &TracingTransport{Transport: http.DefaultTransport}},
		},
	}
}

// ErrRemote carries a non-2xx upstream answer. The raw payload is kept so the
// screens can surface the server's own message.
type ErrRemote struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *ErrRemote) Error() string {
	return fmt.Sprintf("upstream %s %s answered %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

func (e *ErrRemote) Respond() *common.BizErrorDetail {
	status := http.StatusBadGateway
	if e.StatusCode >= 400 && e.StatusCode < 500 {
		status = e.StatusCode
	}
	message := e.Body
	if message == "" {
		message = "error del servidor"
	}
	return &common.BizErrorDetail{Status: status, Code: "remote.call_failed", Message: message}
}

func (c *Client) doJSON(ctx context.Context, method, path string, reqBody interface{}, out interface{}) error {
	var body io.Reader
	if reqBody != nil {
		raw, err := json.Marshal(reqBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	return c.do(ctx, method, path, "application/json", body, out)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, form *Form, out interface{}) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range form.Fields {
		if err := writer.WriteField(name, value); err != nil {
			return err
		}
	}
	for _, file := range form.Files {
		part, err := writer.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return c.do(ctx, method, path, writer.FormDataContentType(), body, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if ctx != nil {
		req = req.WithContext(ctx)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		// the console never checks token expiry itself; an expired token
		// shows up here, on the first failing call
		return bizerror.ErrUnauthenticated
	}
	if !statusIsSuccess(resp.StatusCode) {
		return &ErrRemote{Method: method, URL: c.BaseURL + path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out != nil {
		return json.Unmarshal(respBody, out)
	}
	return nil
}

// stream issues a request and hands the raw body back to the caller, who owns
// closing it. Used for the rendered service-report document.
func (c *Client) stream(ctx context.Context, path string) (io.ReadCloser, string, error) {
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, "", err
	}
	if ctx != nil {
		req = req.WithContext(ctx)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		return nil, "", bizerror.ErrUnauthenticated
	}
	if !statusIsSuccess(resp.StatusCode) {
		respBody, _ := ioutil.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, "", &ErrRemote{Method: http.MethodGet, URL: c.BaseURL + path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func statusIsSuccess(status int) bool {
	return status >= 200 && status < 300
}

// Form is a multipart request body: plain fields plus uploaded files.
type Form struct {
	Fields map[string]string
	Files  []FormFile
}

type FormFile struct {
	Field   string
	Name    string
	Content io.Reader
}
