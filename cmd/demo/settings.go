package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chewxy/math32"

	"glscene/scene"
)

type Settings struct {
	Window WindowSettings `json:"window"`
	Scene  SceneSettings  `json:"scene"`
	Orbit  OrbitSettings  `json:"orbit"`
	Remote RemoteSettings `json:"remote"`
}

type WindowSettings struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title"`
	VSync  bool   `json:"vsync"`
	FPS    int    `json:"fps"` // 0 renders every frame
	Cull   bool   `json:"cull"`
}

type SceneSettings struct {
	Manifest   string    `json:"manifest"`
	Background []float32 `json:"background"`
	Workers    int       `json:"workers"`
}

// OrbitSettings overrides the controller defaults. Distances of 0 mean
// unlimited.
type OrbitSettings struct {
	AutoRotate      bool    `json:"autoRotate"`
	AutoRotateSpeed float32 `json:"autoRotateSpeed"`
	EnableDamping   bool    `json:"enableDamping"`
	DampingFactor   float32 `json:"dampingFactor"`
	MinDistance     float32 `json:"minDistance"`
	MaxDistance     float32 `json:"maxDistance"`
}

type RemoteSettings struct {
	Addr string `json:"addr"` // empty disables the websocket input server
	Path string `json:"path"`
}

func defaultSettings() Settings {
	return Settings{
		Window: WindowSettings{
			Width:  1280,
			Height: 720,
			Title:  "glscene",
			VSync:  true,
			FPS:    60,
			Cull:   true,
		},
		Scene: SceneSettings{
			Manifest:   "assets/scene.json",
			Background: []float32{0.1, 0.1, 0.12, 1},
			Workers:    scene.DefaultLoaderWorkers,
		},
		Orbit: OrbitSettings{
			AutoRotateSpeed: 2,
			DampingFactor:   0.25,
		},
		Remote: RemoteSettings{
			Path: "/input",
		},
	}
}

// loadSettings reads path over the defaults. A missing file is not an error.
func loadSettings(path string) (Settings, error) {
	settings := defaultSettings()
	if path == "" {
		return settings, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&settings); err != nil {
		return settings, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return settings, nil
}

func (o OrbitSettings) config() scene.OrbitConfig {
	c := scene.DefaultOrbitConfig()
	c.AutoRotate = o.AutoRotate
	c.AutoRotateSpeed = o.AutoRotateSpeed
	c.EnableDamping = o.EnableDamping
	c.DampingFactor = o.DampingFactor
	c.MinDistance = o.MinDistance
	c.MaxDistance = o.MaxDistance
	if c.MaxDistance == 0 {
		c.MaxDistance = math32.Inf(1)
	}
	return c
}
