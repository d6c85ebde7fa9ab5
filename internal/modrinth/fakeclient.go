package modrinth

import (
	"context"
	"crypto/sha1"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	modrinthApi "codeberg.org/jmansfield/go-modrinth/modrinth"
)

var _ Client = (*FakeClient)(nil)

// FakeClient is used in tests and when running with the -try flag.
type FakeClient struct {
	mu        sync.Mutex
	versionID int
	Versions  []FakeVersion
}

// FakeVersion records a call to CreateVersion.
type FakeVersion struct {
	Data      VersionData
	Filenames []string
	ID        string
}

func (c *FakeClient) CreateVersion(ctx context.Context, data VersionData, filenames []string) (*modrinthApi.Version, error) {
	if len(data.FileParts) != len(filenames) {
		return nil, fmt.Errorf("fake: %d file parts for %d files", len(data.FileParts), len(filenames))
	}

	var files []*modrinthApi.File
	for i, filename := range filenames {
		b, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		h1, h512 := sha1.Sum(b), sha512.Sum512(b)
		name := filepath.Base(filename)
		primary := data.FileParts[i] == data.PrimaryFile
		files = append(files, &modrinthApi.File{
			Filename: &name,
			Primary:  &primary,
			Hashes: map[string]string{
				"sha1":   hex.EncodeToString(h1[:]),
				"sha512": hex.EncodeToString(h512[:]),
			},
		})
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.versionID++
	id := fmt.Sprintf("fakeversion%d", c.versionID)
	projectID := data.ProjectID
	c.Versions = append(c.Versions, FakeVersion{Data: data, Filenames: filenames, ID: id})

	names := make([]string, len(filenames))
	for i, f := range filenames {
		names[i] = filepath.Base(f)
	}

	// Tests depend on this string.
	fmt.Printf("fake: modrinth: version: project=%s number=%s files=%s loaders=%v\n", projectID, data.VersionNumber, strings.Join(names, ","), data.Loaders)

	return &modrinthApi.Version{
		ID:        &id,
		ProjectID: &projectID,
		Files:     files,
	}, nil
}

func (c *FakeClient) ProjectID(ctx context.Context, slug string) (string, error) {
	if slug == "" {
		return "", fmt.Errorf("fake: empty slug")
	}
	return "id-" + slug, nil
}
