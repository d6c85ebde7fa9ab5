// Copyright 2026 The Modreleaser Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package curseforge publishes files to CurseForge.
package curseforge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gohugoio/modreleaser/internal/releases"
)

const (
	// TokenEnvVar holds the CurseForge API token.
	TokenEnvVar = "CURSEFORGE_TOKEN"

	// EnvPrefix is the prefix used for the CurseForge setting fallbacks in the environment.
	EnvPrefix = "CURSEFORGE"

	DefaultAPIURL    = "https://minecraft.curseforge.com"
	DefaultUploadURL = "https://upload.curseforge.com"
)

// Client is the subset of the CurseForge upload API we use.
type Client interface {
	// UploadFile uploads filename with the given metadata and returns the ID of the new file.
	UploadFile(ctx context.Context, projectID string, metadata Metadata, filename string) (int, error)

	GameVersions(ctx context.Context) ([]GameVersion, error)
	GameVersionTypes(ctx context.Context) ([]GameVersionType, error)
}

// NewClient creates a new Client for the given token.
func NewClient(token string) (Client, error) {
	if token == "" {
		return nil, fmt.Errorf("curseforge: missing %q env var", TokenEnvVar)
	}

	// Set in tests and when running with the -try flag.
	if token == releases.FakeToken {
		return &FakeClient{}, nil
	}

	return &HTTPClient{
		token:      token,
		httpClient: &http.Client{},
		APIURL:     DefaultAPIURL,
		UploadURL:  DefaultUploadURL,
	}, nil
}

var _ Client = (*HTTPClient)(nil)

// HTTPClient talks to the CurseForge upload API.
type HTTPClient struct {
	token      string
	httpClient *http.Client

	// Base URLs without trailing slash.
	APIURL    string
	UploadURL string
}

func (c *HTTPClient) UploadFile(ctx context.Context, projectID string, metadata Metadata, filename string) (int, error) {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return 0, err
	}

	f, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("metadata", string(metadataJSON)); err != nil {
		return 0, err
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return 0, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return 0, err
	}
	if err := mw.Close(); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/api/projects/%s/upload-file", c.UploadURL, projectID), &body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result struct {
		ID int `json:"id"`
	}
	if err := c.do(req, &result); err != nil {
		return 0, err
	}
	if result.ID == 0 {
		return 0, fmt.Errorf("curseforge: upload of %q returned no file ID", filepath.Base(filename))
	}

	return result.ID, nil
}

func (c *HTTPClient) GameVersions(ctx context.Context) ([]GameVersion, error) {
	var versions []GameVersion
	if err := c.get(ctx, "/api/game/versions", &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

func (c *HTTPClient) GameVersionTypes(ctx context.Context) ([]GameVersionType, error) {
	var types []GameVersionType
	if err := c.get(ctx, "/api/game/version-types", &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, v)
}

func (c *HTTPClient) do(req *http.Request, v any) error {
	req.Header.Set("X-Api-Token", c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", releases.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, b)
	}

	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("curseforge: failed to decode response from %s: %w", req.URL.Path, err)
	}

	return nil
}

// APIError is returned when CurseForge responds with a non 2xx status code.
type APIError struct {
	StatusCode   int
	ErrorCode    int
	ErrorMessage string

	// The raw response body.
	Body string
}

func (e *APIError) Error() string {
	if e.ErrorMessage != "" {
		return fmt.Sprintf("curseforge: %d: %s (code %d)", e.StatusCode, e.ErrorMessage, e.ErrorCode)
	}
	return fmt.Sprintf("curseforge: %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

func newAPIError(statusCode int, body []byte) *APIError {
	e := &APIError{StatusCode: statusCode, Body: string(body)}
	var v struct {
		ErrorCode    int    `json:"errorCode"`
		ErrorMessage string `json:"errorMessage"`
	}
	if err := json.Unmarshal(body, &v); err == nil {
		e.ErrorCode = v.ErrorCode
		e.ErrorMessage = v.ErrorMessage
	}
	return e
}
