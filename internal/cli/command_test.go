package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mindgrid/mindgrid/pkg/animation"
	"github.com/mindgrid/mindgrid/pkg/format"
)

// writeOutline writes a small markdown outline usable as command input.
func writeOutline(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "map.md")
	content := "- Project\n  - Planning\n  - Execution\n    - Review\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	c := newTestCLI(t)
	root := c.RootCommand()
	root.SetArgs(args)
	return root.Execute()
}

func TestLayoutCommand(t *testing.T) {
	input := writeOutline(t)
	output := filepath.Join(t.TempDir(), "map.layout.json")

	if err := runCommand(t, "layout", input, "-o", output, "--no-cache"); err != nil {
		t.Fatalf("layout command error: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	var doc format.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not a document: %v", err)
	}
	if len(doc.Nodes) != 4 {
		t.Errorf("got %d nodes, want 4", len(doc.Nodes))
	}

	positioned := 0
	for _, n := range doc.Nodes {
		if n.Position != nil {
			positioned++
		}
	}
	if positioned < 3 {
		t.Errorf("only %d nodes carry positions, want at least 3", positioned)
	}
}

func TestLayoutCommandRejectsUnknownAlgorithm(t *testing.T) {
	input := writeOutline(t)

	err := runCommand(t, "layout", input, "--no-cache", "-a", "spiral")
	if err == nil {
		t.Fatal("layout command should reject an unknown algorithm")
	}
}

func TestConvertCommand(t *testing.T) {
	input := writeOutline(t)
	output := filepath.Join(t.TempDir(), "map.opml")

	if err := runCommand(t, "convert", input, "-o", output); err != nil {
		t.Fatalf("convert command error: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "<opml") {
		t.Error("output should be OPML")
	}
	if !strings.Contains(string(data), "Project") {
		t.Error("output should contain the root node text")
	}
}

func TestAnimateCommand(t *testing.T) {
	input := writeOutline(t)
	output := filepath.Join(t.TempDir(), "frames.json")

	err := runCommand(t, "animate", input,
		"--from", "radial", "--to", "tree",
		"--frames", "5", "--easing", "linear",
		"-o", output, "--no-cache")
	if err != nil {
		t.Fatalf("animate command error: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	var frames []animation.Frame
	if err := json.Unmarshal(data, &frames); err != nil {
		t.Fatalf("output is not a frame sequence: %v", err)
	}
	if len(frames) != 5 {
		t.Fatalf("got %d frames, want 5", len(frames))
	}
	if frames[0].Progress != 0 || frames[4].Progress != 1 {
		t.Errorf("frame progress endpoints = %v, %v, want 0 and 1", frames[0].Progress, frames[4].Progress)
	}
	for _, f := range frames {
		if len(f.Positions) != 4 {
			t.Errorf("frame has %d positions, want 4", len(f.Positions))
		}
	}
}

func TestCachePathCommand(t *testing.T) {
	if err := runCommand(t, "cache", "path"); err != nil {
		t.Fatalf("cache path command error: %v", err)
	}
}
