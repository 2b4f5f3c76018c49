package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
)

// ErrUnknownScene is returned when a scene name is not registered
var ErrUnknownScene = errors.New("scene: unknown scene")

// SceneInfo represents a built-in scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Seeded      bool   `json:"seeded"`      // Whether the seed changes the layout
}

type sceneEntry struct {
	info  SceneInfo
	build func(seed int64, overrides ...geometry.CameraConfig) *Scene
}

var builtInScenes = map[string]sceneEntry{
	"default": {
		info: SceneInfo{ID: "default", Description: "Diffuse, metal and glass spheres on a ground sphere"},
		build: func(_ int64, overrides ...geometry.CameraConfig) *Scene {
			return NewDefaultScene(overrides...)
		},
	},
	"glass": {
		info: SceneInfo{ID: "glass", Description: "Hollow glass bubble with shallow depth of field"},
		build: func(_ int64, overrides ...geometry.CameraConfig) *Scene {
			return NewGlassScene(overrides...)
		},
	},
	"random": {
		info:  SceneInfo{ID: "random", Description: "Random field of small spheres around three large ones", Seeded: true},
		build: NewRandomScene,
	},
	"moving": {
		info:  SceneInfo{ID: "moving", Description: "Random sphere field with motion-blurred bouncing spheres", Seeded: true},
		build: NewMovingScene,
	},
}

// Names returns the registered scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtInScenes))
	for name := range builtInScenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListAllScenes returns metadata for every registered scene, sorted by ID
func ListAllScenes() []SceneInfo {
	var scenes []SceneInfo
	for _, name := range Names() {
		info := builtInScenes[name].info
		info.DisplayName = titleCase(info.ID)
		scenes = append(scenes, info)
	}
	return scenes
}

// Lookup builds the named scene. The seed only affects randomly generated scenes.
func Lookup(name string, seed int64, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	entry, ok := builtInScenes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
	}
	return entry.build(seed, cameraOverrides...), nil
}

// titleCase converts a scene id to title case
// e.g., "hollow-glass" -> "Hollow Glass"
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
