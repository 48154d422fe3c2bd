package batch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/ironsheep/comic-ocr/internal/ocr"
	"github.com/ironsheep/comic-ocr/internal/region"
)

// buildTree lays out a directory with images at two depths plus noise files.
func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "p1.png"), 320, 100)
	writePNG(t, filepath.Join(root, "P2.PNG"), 320, 100)
	writePNG(t, filepath.Join(root, "ch1", "p3.png"), 320, 100)
	writePNG(t, filepath.Join(root, "ch1", "deep", "p4.png"), 320, 100)
	if err := os.WriteFile(filepath.Join(root, "notes.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "fake.gif"), []byte("not a gif"), 0644); err != nil {
		t.Fatal(err)
	}
	return root
}

func panelRecognizer() *fakeRecognizer {
	rec := newFakeRecognizer()
	rec.byROI[region.Full] = []ocr.Observation{line("Bam!")}
	return rec
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestProcessDirectory_NonRecursive(t *testing.T) {
	root := buildTree(t)

	report, err := NewDriver(panelRecognizer()).ProcessDirectory(context.Background(), root, false)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}

	if report.Processed != 2 {
		t.Errorf("Processed = %d, want 2", report.Processed)
	}
	// fake.gif qualifies by extension but cannot be decoded.
	if report.Failed != 1 || report.Failures[0].Path != filepath.Join(root, "fake.gif") {
		t.Errorf("unexpected failures: %+v", report.Failures)
	}
	if !exists(filepath.Join(root, "p1.txt")) || !exists(filepath.Join(root, "P2.txt")) {
		t.Error("top-level outputs missing")
	}
	if exists(filepath.Join(root, "ch1", "p3.txt")) {
		t.Error("non-recursive run visited a subdirectory")
	}
	if exists(filepath.Join(root, "notes.txt")) {
		t.Error("non-image file was processed")
	}
	if report.RunID == "" {
		t.Error("report should carry a run ID")
	}
}

func TestProcessDirectory_Recursive(t *testing.T) {
	root := buildTree(t)

	report, err := NewDriver(panelRecognizer()).ProcessDirectory(context.Background(), root, true)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}
	if report.Processed != 4 || report.Failed != 1 {
		t.Errorf("Processed=%d Failed=%d, want 4 and 1", report.Processed, report.Failed)
	}
	for _, p := range []string{"p1.txt", "P2.txt", "ch1/p3.txt", "ch1/deep/p4.txt"} {
		path := filepath.Join(root, filepath.FromSlash(p))
		if got := readFile(t, path); got != "Bam!\n\n" {
			t.Errorf("%s = %q", p, got)
		}
	}
}

func TestProcessDirectory_Workers(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.png", "d.png", "e.png", "f.png"} {
		writePNG(t, filepath.Join(root, name), 320, 100)
	}

	rec := panelRecognizer()
	report, err := NewDriver(rec, WithWorkers(3)).ProcessDirectory(context.Background(), root, false)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}
	if report.Processed != 6 {
		t.Errorf("Processed = %d, want 6", report.Processed)
	}
	outputs := append([]string(nil), report.Outputs...)
	sort.Strings(outputs)
	if len(outputs) != 6 || outputs[0] != filepath.Join(root, "a.txt") {
		t.Errorf("unexpected outputs: %v", outputs)
	}
	for _, out := range outputs {
		if got := readFile(t, out); got != "Bam!\n\n" {
			t.Errorf("%s = %q", out, got)
		}
	}
}

func TestProcessDirectory_MissingDir(t *testing.T) {
	report, err := NewDriver(panelRecognizer()).ProcessDirectory(context.Background(), "/nonexistent/comics", false)
	if err == nil {
		t.Fatal("expected an error for a missing directory")
	}
	if report == nil || report.Processed != 0 {
		t.Errorf("expected an empty partial report, got %+v", report)
	}
}

func TestProcessDirectory_Canceled(t *testing.T) {
	root := buildTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDriver(panelRecognizer()).ProcessDirectory(ctx, root, true)
	if err == nil {
		t.Error("expected an error for a canceled context")
	}
}

func TestReport_Summary(t *testing.T) {
	r := newReport()
	r.recordSuccess("/a.txt")
	r.recordFailure("/b.png", os.ErrNotExist)
	if got := r.Summary(); got != "1 image(s) processed, 1 failed in 0s" {
		t.Errorf("Summary = %q", got)
	}
}

func TestProcessDirectory_OutputHookPerFile(t *testing.T) {
	root := buildTree(t)

	var mu sync.Mutex
	var seen []string
	hook := func(res *Result) {
		mu.Lock()
		seen = append(seen, res.Output)
		mu.Unlock()
	}

	report, err := NewDriver(panelRecognizer(), WithWorkers(2), WithOutputHook(hook)).
		ProcessDirectory(context.Background(), root, true)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}

	sort.Strings(seen)
	want := append([]string(nil), report.Outputs...)
	sort.Strings(want)
	if len(seen) != 4 || strings.Join(seen, ",") != strings.Join(want, ",") {
		t.Errorf("hook saw %v, report has %v", seen, want)
	}
}
