package curseforge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var _ Client = (*FakeClient)(nil)

// FakeClient is used in tests and when running with the -try flag.
type FakeClient struct {
	mu      sync.Mutex
	fileID  int
	Uploads []FakeUpload
}

// FakeUpload records a call to UploadFile.
type FakeUpload struct {
	ProjectID string
	Metadata  Metadata
	Filename  string
	ID        int
}

func (c *FakeClient) UploadFile(ctx context.Context, projectID string, metadata Metadata, filename string) (int, error) {
	if _, err := os.Stat(filename); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fileID++
	id := 1000 + c.fileID
	c.Uploads = append(c.Uploads, FakeUpload{ProjectID: projectID, Metadata: metadata, Filename: filename, ID: id})

	// Tests depend on this string.
	fmt.Printf("fake: curseforge: upload: project=%s file=%s parent=%d gameVersions=%v\n", projectID, filepath.Base(filename), metadata.ParentFileID, metadata.GameVersions)

	return id, nil
}

func (c *FakeClient) GameVersions(ctx context.Context) ([]GameVersion, error) {
	return []GameVersion{
		{ID: 9990, GameVersionTypeID: 75125, Name: "1.20.1", Slug: "1-20-1"},
		{ID: 9991, GameVersionTypeID: 75125, Name: "1.20.2", Slug: "1-20-2"},
		{ID: 7498, GameVersionTypeID: 68441, Name: "Forge", Slug: "forge"},
		{ID: 7499, GameVersionTypeID: 68441, Name: "Fabric", Slug: "fabric"},
		{ID: 8326, GameVersionTypeID: 2, Name: "Java 17", Slug: "java-17"},
		{ID: 9638, GameVersionTypeID: 75208, Name: "Client", Slug: "client"},
		{ID: 9639, GameVersionTypeID: 75208, Name: "Server", Slug: "server"},
	}, nil
}

func (c *FakeClient) GameVersionTypes(ctx context.Context) ([]GameVersionType, error) {
	return []GameVersionType{
		{ID: 2, Name: "Java", Slug: "java"},
		{ID: 68441, Name: "Modloader", Slug: "modloader"},
		{ID: 75125, Name: "Minecraft 1.20", Slug: "minecraft-1-20"},
		{ID: 75208, Name: "Environment", Slug: "environment"},
	}, nil
}
