package main

import (
	"archive/zip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"treegrid/client"
	"treegrid/config"
	"treegrid/state"
	"treegrid/tree"
)

// writeConfig puts all files program produces into temporary directory,
// everything else comes from embedded defaults.
func writeConfig(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	data := "version: 1\n" +
		"logging:\n  console:\n    level: none\n  file:\n    destination: \"" + filepath.ToSlash(filepath.Join(dir, "treegrid.log")) + "\"\n" +
		"reporting:\n  destination: \"" + filepath.ToSlash(filepath.Join(dir, "report.zip")) + "\"\n"

	name := filepath.Join(dir, "treegrid.yaml")
	if err := os.WriteFile(name, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return name, dir
}

func runApp(t *testing.T, args ...string) error {
	t.Helper()
	return newApp().Run(state.ContextWithEnv(t.Context()), append([]string{"treegrid"}, args...))
}

func readReportFile(t *testing.T, archive, name string) []byte {
	t.Helper()

	zr, err := zip.OpenReader(archive)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	f, err := zr.Open(name)
	if err != nil {
		t.Fatalf("%s is not in the report: %v", name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestCrawlCommand_DepthLimit(t *testing.T) {
	cfgName, dir := writeConfig(t)

	if err := runApp(t, "--config", cfgName, "--debug", "crawl", "--depth", "1", "--block-size", "5"); err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	var rpt client.Report
	if err := json.Unmarshal(readReportFile(t, filepath.Join(dir, "report.zip"), "crawl-report.json"), &rpt); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadConfiguration(cfgName)
	if err != nil {
		t.Fatal(err)
	}
	idx, err := tree.Generate(cfg.Tree.Generator())
	if err != nil {
		t.Fatal(err)
	}
	top, _ := idx.Children(tree.RootKey)
	routes, rows := 1, len(top)
	for _, n := range top {
		if !n.IsLeaf {
			routes++
			rows += idx.ChildCount(n.ID)
		}
	}

	if rpt.Routes != routes || rpt.Rows != rows {
		t.Errorf("crawled %d routes and %d rows, want %d and %d", rpt.Routes, rpt.Rows, routes, rows)
	}
	if rpt.Prefilled == 0 {
		t.Error("folded blocks were not used")
	}
}

func TestDumpCommand(t *testing.T) {
	cfgName, dir := writeConfig(t)

	if err := runApp(t, "--config", cfgName, "dump", "--format", "json", filepath.Join(dir, "tree")); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "tree.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Error("dump is not valid JSON")
	}
}

func TestExportCommand(t *testing.T) {
	cfgName, dir := writeConfig(t)
	dst := filepath.Join(dir, "tree")

	if err := runApp(t, "--config", cfgName, "export", dst); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if fi, err := os.Stat(dst + ".sqlite"); err != nil || fi.Size() == 0 {
		t.Fatalf("database was not created: %v", err)
	}
	if err := runApp(t, "--config", cfgName, "export", dst); err == nil {
		t.Error("expected error for existing destination")
	}
	if err := runApp(t, "--config", cfgName, "export"); err == nil {
		t.Error("expected error without destination")
	}
}
