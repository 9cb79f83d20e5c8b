package test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ccollicutt/streamfilter/internal/cli"
	"github.com/ccollicutt/streamfilter/internal/cli/plugins"
	"github.com/ccollicutt/streamfilter/pkg/config"
	"github.com/ccollicutt/streamfilter/pkg/filter"
	"github.com/ccollicutt/streamfilter/pkg/loader"
	"github.com/ccollicutt/streamfilter/pkg/output"
	"github.com/ccollicutt/streamfilter/pkg/session"
)

var (
	projectRoot string
	rootOnce    sync.Once
)

// chdir changes to the project root directory for tests.
// Test data paths are relative to project root.
func chdir(t *testing.T) {
	t.Helper()
	rootOnce.Do(func() {
		_, filename, _, _ := runtime.Caller(0)
		projectRoot = filepath.Dir(filepath.Dir(filename))
	})
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("Failed to chdir to project root: %v", err)
	}
}

// requireFile fails the test if the required test file doesn't exist.
// We never skip tests - missing test data is a test failure.
func requireFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Required test file not found: %s", path)
	}
}

type result struct {
	code   int
	stdout string
	stderr string
}

// run executes streamfilter in-process, the same way main does.
func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := cli.Run(context.Background(), args, plugins.Streams{
		In:  strings.NewReader(stdin),
		Out: &stdout,
		Err: &stderr,
	})
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

var (
	fruitFile = filepath.Join("testdata", "files", "fruit.txt")
	crlfFile  = filepath.Join("testdata", "files", "service_crlf.log")
	blankFile = filepath.Join("testdata", "files", "blank_lines.txt")
)

// TestE2E_FilterFruit runs the canonical example end to end.
func TestE2E_FilterFruit(t *testing.T) {
	chdir(t)
	requireFile(t, fruitFile)

	r := run(t, "", "filter", "appl", fruitFile)

	if r.code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", r.code, r.stderr)
	}
	if r.stdout != "apple\napplesauce\n" {
		t.Errorf("stdout = %q", r.stdout)
	}
}

func TestE2E_ExitCodes(t *testing.T) {
	chdir(t)
	requireFile(t, fruitFile)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"matches", []string{"filter", "grape", fruitFile}, 0},
		{"no matches", []string{"filter", "kiwi", fruitFile}, 1},
		{"case-sensitive", []string{"filter", "APPLE", fruitFile}, 1},
		{"empty query", []string{"filter", "", fruitFile}, 2},
		{"missing file", []string{"filter", "x", filepath.Join("testdata", "files", "nope.txt")}, 2},
		{"invalid config", []string{"--config", filepath.Join("testdata", "configs", "invalid_output.yaml"), "filter", "x", fruitFile}, 2},
		{"missing args", []string{"filter"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, "", tt.args...)
			if r.code != tt.want {
				t.Errorf("exit code = %d, want %d (stderr: %s)", r.code, tt.want, r.stderr)
			}
		})
	}
}

func TestE2E_ErrorMessages(t *testing.T) {
	chdir(t)

	r := run(t, "", "filter", "", fruitFile)
	if !strings.Contains(r.stderr, "Error: please enter a search string") {
		t.Errorf("stderr = %q", r.stderr)
	}

	missing := filepath.Join("testdata", "files", "nope.txt")
	r = run(t, "", "filter", "x", missing)
	if !strings.Contains(r.stderr, "Error: ") || !strings.Contains(r.stderr, missing) {
		t.Errorf("stderr = %q, want the failing path", r.stderr)
	}
}

func TestE2E_CRLFNormalised(t *testing.T) {
	chdir(t)
	requireFile(t, crlfFile)

	r := run(t, "", "filter", "-n", "ERROR", crlfFile)

	if r.stdout != "2:ERROR disk full\n4:ERROR disk full again\n" {
		t.Errorf("stdout = %q", r.stdout)
	}
}

func TestE2E_ShowBlankLines(t *testing.T) {
	chdir(t)
	requireFile(t, blankFile)

	r := run(t, "", "show", blankFile)

	if r.code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", r.code, r.stderr)
	}
	// A trailing delimiter doesn't add a line; the blank line before it stays.
	if r.stdout != "first\n\nthird\n\n" {
		t.Errorf("stdout = %q", r.stdout)
	}
}

func TestE2E_StdinPipeline(t *testing.T) {
	chdir(t)

	r := run(t, "alpha\nbeta\ngamma\n", "filter", "a", "-")

	if r.stdout != "alpha\nbeta\ngamma\n" {
		t.Errorf("stdout = %q", r.stdout)
	}

	r = run(t, "alpha\nbeta\ngamma\n", "filter", "mm")
	if r.stdout != "gamma\n" {
		t.Errorf("stdout = %q", r.stdout)
	}
}

func TestE2E_GlobAcrossFiles(t *testing.T) {
	chdir(t)

	r := run(t, "", "filter", "-q", "r", filepath.Join("testdata", "files", "*.txt"))

	if r.code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", r.code, r.stderr)
	}
	// blank_lines: first, third; fruit: grape
	if r.stdout != "streamfilter: 3 matching line(s) in 2 of 2 source(s)\n" {
		t.Errorf("stdout = %q", r.stdout)
	}
}

func TestE2E_JSONConfig(t *testing.T) {
	chdir(t)
	configFile := filepath.Join("testdata", "configs", "json.yaml")
	requireFile(t, configFile)

	r := run(t, "", "--config", configFile, "filter", "an", fruitFile)

	var report output.Report
	if err := json.Unmarshal([]byte(r.stdout), &report); err != nil {
		t.Fatalf("Invalid JSON output: %v\n%s", err, r.stdout)
	}
	if report.Metadata.ConfigFile != configFile {
		t.Errorf("config_file = %q", report.Metadata.ConfigFile)
	}
	if len(report.Results) != 1 || len(report.Results[0].Matches) != 1 {
		t.Fatalf("unexpected results: %+v", report.Results)
	}
	if m := report.Results[0].Matches[0]; m.LineNum != 2 || m.Text != "banana" {
		t.Errorf("match = %+v", m)
	}
}

func TestE2E_EnvironmentOverride(t *testing.T) {
	chdir(t)
	t.Setenv(config.EnvOutput, "json")

	r := run(t, "", "filter", "grape", fruitFile)
	if !json.Valid([]byte(r.stdout)) {
		t.Errorf("expected JSON output from %s, got %q", config.EnvOutput, r.stdout)
	}

	// Flags still win.
	r = run(t, "", "filter", "-o", "text", "grape", fruitFile)
	if r.stdout != "grape\n" {
		t.Errorf("stdout = %q", r.stdout)
	}
}

func TestE2E_MaxLineSize(t *testing.T) {
	chdir(t)
	configFile := filepath.Join("testdata", "configs", "small_lines.yaml")

	r := run(t, "", "--config", configFile, "filter", "apple", fruitFile)

	if r.code != 2 {
		t.Errorf("exit code = %d, want 2", r.code)
	}
	if !strings.Contains(r.stderr, "reading") {
		t.Errorf("stderr = %q", r.stderr)
	}
}

func TestE2E_Webhook(t *testing.T) {
	chdir(t)
	configFile := filepath.Join("testdata", "configs", "webhook.yaml")

	var calls atomic.Int32
	var mu sync.Mutex
	var received output.Report
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		defer mu.Unlock()
		auth = r.Header.Get("Authorization")
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	r := run(t, "", "--config", configFile, "filter",
		"--webhook-url", server.URL,
		"--webhook-token", "secret",
		"--webhook-trigger", "always",
		"kiwi", fruitFile)

	if r.code != 1 {
		t.Errorf("exit code = %d, want 1", r.code)
	}
	// the config hook has trigger never, so only the CLI hook fires
	if calls.Load() != 1 {
		t.Fatalf("webhook received %d calls, want 1", calls.Load())
	}

	mu.Lock()
	defer mu.Unlock()
	if auth != "Bearer secret" {
		t.Errorf("Authorization = %q", auth)
	}
	if received.Query != "kiwi" || received.Summary.LinesScanned != 4 {
		t.Errorf("unexpected report: %+v", received.Summary)
	}
}

func TestE2E_Validate(t *testing.T) {
	chdir(t)

	r := run(t, "", "validate", filepath.Join("testdata", "configs", "webhook.yaml"))
	if r.code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", r.code, r.stderr)
	}
	if !strings.Contains(r.stdout, "config-hook [never, timeout 5s]") {
		t.Errorf("stdout = %q", r.stdout)
	}

	r = run(t, "", "validate", filepath.Join("testdata", "configs", "invalid_output.yaml"))
	if r.code != 2 || !strings.Contains(r.stderr, "xml") {
		t.Errorf("code = %d, stderr = %q", r.code, r.stderr)
	}
}

func TestE2E_UnknownCommand(t *testing.T) {
	chdir(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PATH", t.TempDir())

	r := run(t, "", "tail", fruitFile)

	if r.code != 2 {
		t.Errorf("exit code = %d, want 2", r.code)
	}
	if !strings.Contains(r.stderr, "streamfilter-tail") {
		t.Errorf("stderr = %q", r.stderr)
	}
}

func TestE2E_Plugin(t *testing.T) {
	chdir(t)
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PATH", dir)

	script := "#!/bin/sh\necho \"plugin $1\"\nexit 4\n"
	if err := os.WriteFile(filepath.Join(dir, "streamfilter-hello"), []byte(script), 0755); err != nil {
		t.Fatalf("failed to write plugin: %v", err)
	}

	r := run(t, "", "hello", "world")

	if r.code != 4 {
		t.Errorf("exit code = %d, want 4", r.code)
	}
	if r.stdout != "plugin world\n" {
		t.Errorf("stdout = %q", r.stdout)
	}
}

func TestE2E_Version(t *testing.T) {
	r := run(t, "", "version")
	if r.code != 0 || !strings.HasPrefix(r.stdout, "streamfilter ") {
		t.Errorf("code = %d, stdout = %q", r.code, r.stdout)
	}
}

// TestE2E_SessionWorkflow drives the library the way the view does:
// load, search, fail, and search again against the in-memory copy.
func TestE2E_SessionWorkflow(t *testing.T) {
	chdir(t)
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "live.txt")
	if err := os.WriteFile(path, []byte("apple\nbanana\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	s := session.New(loader.New(), zerolog.Nop())

	if _, err := s.Search("a"); !errors.Is(err, filter.ErrNoDocument) {
		t.Errorf("Search before load = %v, want ErrNoDocument", err)
	}

	if err := s.Load(ctx, path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Changing the file after load must not affect searches.
	if err := os.WriteFile(path, []byte("cherry\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite file: %v", err)
	}

	view, err := s.Search("an")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if got := view.Lines(); len(got) != 1 || got[0] != "banana" {
		t.Errorf("Search(an) = %v, want [banana]", got)
	}

	if err := s.Load(ctx, filepath.Join(dir, "gone.txt")); err == nil {
		t.Fatal("expected load error")
	}
	if s.Document().Source() != path {
		t.Error("failed load replaced the document")
	}
	if s.View() != view {
		t.Error("failed load replaced the view")
	}
}
