package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
)

func readArchive(t *testing.T, path string) map[string]string {
	t.Helper()

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func TestReport_Nil(t *testing.T) {
	var r *Report
	r.Store("a", "b")
	r.StoreData("a", []byte("b"))
	if err := r.StoreJSON("a", 1); err != nil {
		t.Errorf("StoreJSON() on nil report error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() on nil report error = %v", err)
	}
	if r.Name() != "" {
		t.Error("nil report has a name")
	}
}

func TestReport_Archive(t *testing.T) {
	dir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}

	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	stored := filepath.Join(dir, "stored.txt")
	if err := os.WriteFile(stored, []byte("file content"), 0644); err != nil {
		t.Fatal(err)
	}
	r.Store("stored.txt", stored)
	r.Store("missing.txt", filepath.Join(dir, "missing.txt"))
	r.StoreData("data.txt", []byte("data"))
	r.StoreData("data.txt", []byte("more data"))
	if err := r.StoreJSON("stats.json", map[string]int{"nodes": 3}); err != nil {
		t.Fatal(err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readArchive(t, conf.Destination)
	if files["stored.txt"] != "file content" {
		t.Errorf("stored.txt = %q", files["stored.txt"])
	}
	if files["data.txt"] != "data" {
		t.Errorf("data.txt = %q", files["data.txt"])
	}
	if _, ok := files["missing.txt"]; ok {
		t.Error("missing file must be skipped")
	}
	if _, ok := files["MANIFEST"]; !ok {
		t.Error("MANIFEST is missing")
	}
	if files["stats.json"] != "{\n  \"nodes\": 3\n}" {
		t.Errorf("stats.json = %q", files["stats.json"])
	}

	var versioned int
	for name := range files {
		if len(name) > len("data.txt-") && name[:len("data.txt-")] == "data.txt-" {
			versioned++
		}
	}
	if versioned != 1 {
		t.Errorf("expected one versioned data entry, got %d", versioned)
	}
}

func TestReport_StoreOverwritePanics(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("a", "/tmp/one")
	r.Store("a", "/tmp/one")

	defer func() {
		if recover() == nil {
			t.Error("expected panic on overwrite")
		}
	}()
	r.Store("a", "/tmp/two")
}

func TestReport_Concurrent(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Go(func() {
			r.StoreData("same", []byte{byte(i)})
		})
	}
	wg.Wait()

	names, _ := prepareManifest(r.entries)
	if len(names) != 20 {
		t.Errorf("got %d entries, want 20", len(names))
	}
	if !slices.IsSorted(names) {
		t.Error("manifest names are not sorted")
	}
}
