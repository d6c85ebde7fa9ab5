package modrinth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gohugoio/modreleaser/internal/releases"
)

func TestNewClient(t *testing.T) {
	c := qt.New(t)

	_, err := NewClient("")
	c.Assert(err, qt.ErrorMatches, `modrinth: missing "MODRINTH_TOKEN" env var`)

	client, err := NewClient(releases.FakeToken)
	c.Assert(err, qt.IsNil)
	_, ok := client.(*FakeClient)
	c.Assert(ok, qt.IsTrue)

	client, err = NewClient("secret")
	c.Assert(err, qt.IsNil)
	_, ok = client.(*HTTPClient)
	c.Assert(ok, qt.IsTrue)
}

func TestCreateVersion(t *testing.T) {
	c := qt.New(t)

	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.jar"), filepath.Join(dir, "b.jar")
	c.Assert(os.WriteFile(a, []byte("a content"), 0o644), qt.IsNil)
	c.Assert(os.WriteFile(b, []byte("b content"), 0o644), qt.IsNil)

	var (
		gotAuth  string
		gotParts []string
		gotData  VersionData
		gotFiles = make(map[string]string)
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/version" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		mr, err := r.MultipartReader()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			gotParts = append(gotParts, part.FormName())
			b, _ := io.ReadAll(part)
			if part.FormName() == "data" {
				json.Unmarshal(b, &gotData)
			} else {
				gotFiles[part.FileName()] = string(b)
			}
		}
		w.Write([]byte(`{"id": "IIJJKKLL", "project_id": "AABBCCDD", "files": [{"filename": "a.jar", "primary": true, "hashes": {"sha1": "abc"}}]}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient("secret", srv.URL)
	c.Assert(err, qt.IsNil)

	data := VersionData{
		ProjectID:     "AABBCCDD",
		Name:          "v1.0.0",
		VersionNumber: "1.0.0",
		FileParts:     []string{"file-0", "file-1"},
		PrimaryFile:   "file-0",
		Dependencies:  []Dependency{{ProjectID: "P7dR8mSH", DependencyType: "required", Slug: "fabric-api"}},
		GameVersions:  []string{"1.20.1"},
		Loaders:       []string{"fabric"},
		VersionType:   "release",
		Status:        "listed",
	}

	v, err := client.CreateVersion(context.Background(), data, []string{a, b})
	c.Assert(err, qt.IsNil)
	c.Assert(*v.ID, qt.Equals, "IIJJKKLL")
	c.Assert(v.Files, qt.HasLen, 1)
	c.Assert(v.Files[0].Hashes["sha1"], qt.Equals, "abc")

	c.Assert(gotAuth, qt.Equals, "secret")
	c.Assert(gotParts, qt.DeepEquals, []string{"data", "file-0", "file-1"})
	c.Assert(gotFiles, qt.DeepEquals, map[string]string{"a.jar": "a content", "b.jar": "b content"})

	// The slug is not sent.
	data.Dependencies[0].Slug = ""
	c.Assert(gotData, qt.DeepEquals, data)
}

func TestCreateVersionAPIError(t *testing.T) {
	c := qt.New(t)

	filename := filepath.Join(t.TempDir(), "a.jar")
	c.Assert(os.WriteFile(filename, []byte("a"), 0o644), qt.IsNil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid_input", "description": "Error while validating input: version_number is too long"}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient("secret", srv.URL)
	c.Assert(err, qt.IsNil)

	_, err = client.CreateVersion(context.Background(), VersionData{FileParts: []string{"file-0"}}, []string{filename})
	c.Assert(err, qt.ErrorMatches, `modrinth: 400: invalid_input: Error while validating input: version_number is too long`)

	var apiErr *APIError
	c.Assert(errors.As(err, &apiErr), qt.IsTrue)
	c.Assert(apiErr.StatusCode, qt.Equals, http.StatusBadRequest)
	c.Assert(apiErr.ErrorName, qt.Equals, "invalid_input")
}

func TestAPIErrorPlainBody(t *testing.T) {
	c := qt.New(t)

	err := newAPIError(http.StatusUnauthorized, []byte("Unauthorized\n"))
	c.Assert(err.Error(), qt.Equals, "modrinth: 401: Unauthorized")
}

func TestProjectID(t *testing.T) {
	c := qt.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/project/fabric-api") {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id": "P7dR8mSH", "slug": "fabric-api", "title": "Fabric API"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := NewHTTPClient("secret", srv.URL)
	c.Assert(err, qt.IsNil)

	id, err := client.ProjectID(context.Background(), "fabric-api")
	c.Assert(err, qt.IsNil)
	c.Assert(id, qt.Equals, "P7dR8mSH")

	_, err = client.ProjectID(context.Background(), "does-not-exist")
	c.Assert(err, qt.ErrorMatches, `(?s)modrinth: .*"does-not-exist".*`)
}
