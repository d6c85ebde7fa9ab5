// Package modrinth publishes versions to Modrinth.
package modrinth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	modrinthApi "codeberg.org/jmansfield/go-modrinth/modrinth"
	"github.com/gohugoio/modreleaser/internal/releases"
)

const (
	// TokenEnvVar holds the Modrinth personal access token.
	TokenEnvVar = "MODRINTH_TOKEN"

	// EnvPrefix is the prefix used for the Modrinth setting fallbacks in the environment.
	EnvPrefix = "MODRINTH"

	DefaultAPIURL = "https://api.modrinth.com"
)

// Client is the subset of the Modrinth API we use.
type Client interface {
	// CreateVersion creates a new version with the given files.
	// The files are uploaded in order as file-0, file-1 etc.
	CreateVersion(ctx context.Context, data VersionData, filenames []string) (*modrinthApi.Version, error)

	// ProjectID looks up the ID of the project with the given slug.
	ProjectID(ctx context.Context, slug string) (string, error)
}

// NewClient creates a new Client for the given token.
func NewClient(token string) (Client, error) {
	if token == "" {
		return nil, fmt.Errorf("modrinth: missing %q env var", TokenEnvVar)
	}

	// Set in tests and when running with the -try flag.
	if token == releases.FakeToken {
		return &FakeClient{}, nil
	}

	return NewHTTPClient(token, DefaultAPIURL)
}

var _ Client = (*HTTPClient)(nil)

// HTTPClient talks to the Modrinth API.
type HTTPClient struct {
	token      string
	apiURL     string
	httpClient *http.Client
	api        *modrinthApi.Client
}

// NewHTTPClient creates a new client for the Modrinth API at apiURL, e.g. https://api.modrinth.com.
func NewHTTPClient(token, apiURL string) (*HTTPClient, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("modrinth: invalid API URL %q: %w", apiURL, err)
	}

	httpClient := &http.Client{}

	// The API wrapper always talks to the default host.
	apiHTTPClient := &http.Client{Transport: hostTransport{scheme: u.Scheme, host: u.Host, base: http.DefaultTransport}}
	if strings.TrimSuffix(apiURL, "/") == DefaultAPIURL {
		apiHTTPClient = httpClient
	}

	api := modrinthApi.NewClient(apiHTTPClient)
	api.UserAgent = releases.UserAgent

	return &HTTPClient{
		token:      token,
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		httpClient: httpClient,
		api:        api,
	}, nil
}

func (c *HTTPClient) CreateVersion(ctx context.Context, data VersionData, filenames []string) (*modrinthApi.Version, error) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	// The data part must come before the files.
	if err := mw.WriteField("data", string(dataJSON)); err != nil {
		return nil, err
	}

	for i, filename := range filenames {
		if err := writeFilePart(mw, FilePartName(i), filename); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/v2/version", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", releases.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, b)
	}

	var v modrinthApi.Version
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("modrinth: failed to decode version: %w", err)
	}
	if v.ID == nil {
		return nil, fmt.Errorf("modrinth: created version has no ID")
	}

	return &v, nil
}

func (c *HTTPClient) ProjectID(ctx context.Context, slug string) (string, error) {
	p, err := c.api.Projects.Get(slug)
	if err != nil {
		return "", fmt.Errorf("modrinth: failed to look up project %q: %w", slug, err)
	}
	if p.ID == nil {
		return "", fmt.Errorf("modrinth: project %q has no ID", slug)
	}
	return *p.ID, nil
}

func writeFilePart(mw *multipart.Writer, name, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	fw, err := mw.CreateFormFile(name, filepath.Base(filename))
	if err != nil {
		return err
	}
	_, err = io.Copy(fw, f)
	return err
}

// FilePartName returns the name of the multipart part holding the i'th file.
func FilePartName(i int) string {
	return fmt.Sprintf("file-%d", i)
}

// hostTransport sends all requests to the given host.
type hostTransport struct {
	scheme string
	host   string
	base   http.RoundTripper
}

func (t hostTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = t.scheme
	req.URL.Host = t.host
	req.Host = t.host
	return t.base.RoundTrip(req)
}

// APIError is returned when Modrinth responds with a non 2xx status code.
type APIError struct {
	StatusCode  int
	ErrorName   string
	Description string

	// The raw response body.
	Body string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("modrinth: %d: %s: %s", e.StatusCode, e.ErrorName, e.Description)
	}
	return fmt.Sprintf("modrinth: %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

func newAPIError(statusCode int, body []byte) *APIError {
	e := &APIError{StatusCode: statusCode, Body: string(body)}
	var v struct {
		Error       string `json:"error"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &v); err == nil {
		e.ErrorName = v.Error
		e.Description = v.Description
	}
	return e
}
