package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-photon-vcm/pkg/core"
	"github.com/df07/go-photon-vcm/pkg/tracer"
)

type bufferLogger struct{ strings.Builder }

func (b *bufferLogger) Printf(format string, args ...interface{}) {
	b.WriteString(strings.TrimSpace(format))
	b.WriteString("\n")
}

func TestCreateScene(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "box.json")
	scene := `{"lights": [{"corner": [0,1,0], "edge1": [0,0,1], "edge2": [1,0,0], "emission": [1,1,1]}]}`
	if err := os.WriteFile(valid, []byte(scene), 0644); err != nil {
		t.Fatalf("Writing scene: %v", err)
	}

	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		{"cornell scene", "cornell", false},
		{"json scene", valid, false},
		{"missing json", filepath.Join(dir, "missing.json"), true},
		{"unknown scene", "nonexistent", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := createScene(tt.sceneType)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if s != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s'", tt.sceneType)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if len(s.Lights) == 0 {
				t.Errorf("Expected lights in scene '%s'", tt.sceneType)
			}
		})
	}
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint(" 1.5, -2,3 ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p != core.NewVec3(1.5, -2, 3) {
		t.Errorf("Expected (1.5,-2,3), got %v", p)
	}

	for _, bad := range []string{"1,2", "a,b,c", "1,2,3,4"} {
		if _, err := parsePoint(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestApplyFlags(t *testing.T) {
	base := tracer.DefaultConfig()

	tests := []struct {
		name                    string
		photons, depth, workers int
		expectedPhotons         int
		expectedDepth           int
		expectedWorkers         int
	}{
		{"Unset keeps scene", 0, -1, 0, base.PhotonsPerPass, base.MaxDepth, base.NumWorkers},
		{"Depth zero", 0, 0, 0, base.PhotonsPerPass, 0, base.NumWorkers},
		{"All set", 500, 2, 3, 500, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := applyFlags(base, tt.photons, tt.depth, tt.workers)
			if config.PhotonsPerPass != tt.expectedPhotons || config.MaxDepth != tt.expectedDepth || config.NumWorkers != tt.expectedWorkers {
				t.Errorf("Unexpected config %+v", config)
			}
		})
	}
}

func TestRun_Cornell(t *testing.T) {
	s, err := createScene("cornell")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	s.Tracing.PhotonsPerPass = 2000
	s.Tracing.NumWorkers = 2

	logger := &bufferLogger{}
	if err := run(context.Background(), s, s.Geometry.Bounds().Center(), 100, logger); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(logger.String(), "Photon map built") {
		t.Errorf("Expected build log line, got:\n%s", logger.String())
	}
}
