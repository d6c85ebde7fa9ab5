package curseforge

import (
	"context"
	"fmt"
	"strings"
)

// GameVersion is what CurseForge calls any version tag a file can be marked with,
// e.g. a Minecraft version, a mod loader or a Java version.
type GameVersion struct {
	ID                int    `json:"id"`
	GameVersionTypeID int    `json:"gameVersionTypeID"`
	Name              string `json:"name"`
	Slug              string `json:"slug"`
}

// GameVersionType groups game versions.
type GameVersionType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// BukkitGameVersionType is missing from the version types listed by the API.
var BukkitGameVersionType = GameVersionType{ID: 1, Name: "Bukkit", Slug: "bukkit"}

// GameVersionMap holds the game versions by kind.
type GameVersionMap struct {
	GameVersions           []GameVersion
	GameVersionsForPlugins []GameVersion
	GameVersionsForAddon   []GameVersion
	Loaders                []GameVersion
	JavaVersions           []GameVersion
	Environments           []GameVersion
}

// FetchGameVersionMap fetches the game versions and their types from CurseForge.
func FetchGameVersionMap(ctx context.Context, client Client) (*GameVersionMap, error) {
	versions, err := client.GameVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game versions: %w", err)
	}
	types, err := client.GameVersionTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game version types: %w", err)
	}
	return NewGameVersionMap(versions, types), nil
}

// NewGameVersionMap groups versions by the slug prefix of their type.
func NewGameVersionMap(versions []GameVersion, types []GameVersionType) *GameVersionMap {
	hasBukkit := false
	for _, t := range types {
		if t.ID == BukkitGameVersionType.ID {
			hasBukkit = true
			break
		}
	}
	if !hasBukkit {
		types = append([]GameVersionType{BukkitGameVersionType}, types...)
	}

	byTypePrefix := func(prefix string) []GameVersion {
		ids := make(map[int]bool)
		for _, t := range types {
			if strings.HasPrefix(t.Slug, prefix) {
				ids[t.ID] = true
			}
		}
		var result []GameVersion
		for _, v := range versions {
			if ids[v.GameVersionTypeID] {
				result = append(result, v)
			}
		}
		return result
	}

	return &GameVersionMap{
		GameVersions:           byTypePrefix("minecraft"),
		GameVersionsForPlugins: byTypePrefix("bukkit"),
		GameVersionsForAddon:   byTypePrefix("addon"),
		Loaders:                byTypePrefix("modloader"),
		JavaVersions:           byTypePrefix("java"),
		Environments:           byTypePrefix("environment"),
	}
}

// Selection holds the names to look up in a GameVersionMap.
type Selection struct {
	GameVersions           []string
	ModLoaders             []string
	JavaVersions           []string
	GameVersionsForPlugins []string
	GameVersionsForAddon   []string
	Environments           []string
}

// IDs returns the unique IDs of the selected game versions in selection order,
// and the names that could not be found.
func (m *GameVersionMap) IDs(sel Selection) (ids GameVersionIDs, unknown []string) {
	if m == nil {
		return nil, nil
	}

	seen := make(map[int]bool)
	find := func(versions []GameVersion, names []string, eq func(a, b string) bool) {
		for _, name := range names {
			found := false
			for _, v := range versions {
				if eq(v.Name, name) {
					found = true
					if !seen[v.ID] {
						seen[v.ID] = true
						ids = append(ids, v.ID)
					}
					break
				}
			}
			if !found {
				unknown = append(unknown, name)
			}
		}
	}

	javaNames := make([]string, len(sel.JavaVersions))
	for i, v := range sel.JavaVersions {
		javaNames[i] = javaVersionName(v)
	}

	find(m.GameVersions, sel.GameVersions, snapshotEqualFold)
	find(m.Loaders, sel.ModLoaders, strings.EqualFold)
	find(m.JavaVersions, javaNames, strings.EqualFold)
	find(m.GameVersionsForPlugins, sel.GameVersionsForPlugins, strings.EqualFold)
	find(m.GameVersionsForAddon, sel.GameVersionsForAddon, strings.EqualFold)
	find(m.Environments, sel.Environments, strings.EqualFold)

	return
}

// GameVersionIDs are the IDs sent as gameVersions with the primary file.
type GameVersionIDs []int

const snapshotSuffix = "-snapshot"

// snapshotEqualFold compares two game version names case insensitively, ignoring any -Snapshot suffix.
func snapshotEqualFold(a, b string) bool {
	trim := func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimSuffix(s, snapshotSuffix)
	}
	return trim(a) == trim(b)
}

// javaVersionName returns the CurseForge name of a Java version, e.g. Java 17 for 17.
func javaVersionName(v string) string {
	if strings.HasPrefix(strings.ToLower(v), "java ") {
		return v
	}
	return "Java " + v
}
