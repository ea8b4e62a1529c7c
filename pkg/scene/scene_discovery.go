package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

// Scene types reported by ListScenes
const (
	TypeBuiltin = "builtin"
	TypeFile    = "file"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`                 // Unique identifier, accepted by Find
	Name        string `json:"name"`               // Scene name
	DisplayName string `json:"displayName"`        // UI display name
	Description string `json:"description"`        // Optional description
	Type        string `json:"type"`               // "builtin" or "file"
	FilePath    string `json:"filePath,omitempty"` // Path to the YAML file (file type only)
}

// sceneHeader is the metadata subset of a scene file
type sceneHeader struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ListScenes returns the built-in scenes followed by the YAML scenes found in
// dir, sorted by display name. A missing directory yields only the built-ins.
func ListScenes(dir string) ([]SceneInfo, error) {
	var scenes []SceneInfo
	for _, name := range BuiltinNames() {
		scenes = append(scenes, SceneInfo{
			ID:          name,
			Name:        name,
			DisplayName: titleCase(name),
			Description: builtins[name].description,
			Type:        TypeBuiltin,
		})
	}

	if dir == "" {
		return scenes, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return scenes, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	var fileScenes []SceneInfo
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Log warning but continue processing other files
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		fileScenes = append(fileScenes, info)
	}

	sort.Slice(fileScenes, func(i, j int) bool {
		return fileScenes[i].DisplayName < fileScenes[j].DisplayName
	})

	return append(scenes, fileScenes...), nil
}

// ParseSceneMetadata reads the name and description of a scene file without
// building its objects
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	id := sceneID(filePath)
	info := SceneInfo{
		ID:          TypeFile + ":" + id,
		Name:        id,
		DisplayName: titleCase(id),
		Type:        TypeFile,
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info, fmt.Errorf("failed to read scene file: %w", err)
	}

	var header sceneHeader
	if err := yaml.Unmarshal(data, &header); err != nil {
		return info, fmt.Errorf("error parsing scene: %w", err)
	}
	if header.Name != "" {
		info.Name = header.Name
		info.DisplayName = header.Name
	}
	info.Description = header.Description
	return info, nil
}

// Find resolves a scene id returned by ListScenes
func Find(id, dir string) (*Scene, error) {
	if _, ok := builtins[id]; ok {
		return Builtin(id)
	}

	scenes, err := ListScenes(dir)
	if err != nil {
		return nil, err
	}
	for _, info := range scenes {
		if info.ID == id && info.Type == TypeFile {
			return LoadSceneFile(info.FilePath)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
}

// sceneID is the file name without directory and extension
func sceneID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// titleCase converts a filename-style string to title case
// e.g., "lit-plane" -> "Lit Plane"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
