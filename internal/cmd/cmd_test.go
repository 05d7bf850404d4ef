package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/featrix/modelcard/internal/card"
	"github.com/featrix/modelcard/internal/cardtest"
	"github.com/featrix/modelcard/internal/output"
)

// writeFixtures writes every fixture card to a temp dir and returns it.
func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range cardtest.Names() {
		if err := os.WriteFile(filepath.Join(dir, name+".json"), cardtest.Load(name), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// testCommand returns a command whose output is captured in the buffer.
func testCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&buf)
	c.SetErr(&buf)
	return c, &buf
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{errors.New("boom"), ExitError},
		{card.ErrMalformedInput, ExitMalformed},
		{fmt.Errorf("render: %w", card.ErrMalformedInput), ExitMalformed},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		source string
		format output.Format
		want   string
	}{
		{"card.json", output.FormatHTML, "card.html"},
		{"runs/a.json", output.FormatText, "runs/a.txt"},
		{"runs/b.json", output.FormatInteractive, "runs/b.html"},
		{"noext", output.FormatYAML, "noext.yaml"},
	}
	for _, tt := range tests {
		if got := defaultOutputPath(tt.source, tt.format); got != tt.want {
			t.Errorf("defaultOutputPath(%q, %s) = %q, want %q", tt.source, tt.format, got, tt.want)
		}
	}
}

func TestRenderTextBrief(t *testing.T) {
	dir := writeFixtures(t)
	c, buf := testCommand()

	if err := renderText(c, filepath.Join(dir, "single_predictor.json"), output.TextBrief); err != nil {
		t.Fatalf("renderText() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "MODEL CARD: alphafreight-mini") {
		t.Errorf("brief output should start with the title, got %q", buf.String())
	}
}

func TestRunRenderToFile(t *testing.T) {
	dir := writeFixtures(t)
	dst := filepath.Join(dir, "out.html")

	renderFormat, renderOutput = "html", dst
	t.Cleanup(func() { renderFormat, renderOutput = "", "" })

	c, buf := testCommand()
	if err := runRender(c, []string{filepath.Join(dir, "minimal.json")}); err != nil {
		t.Fatalf("runRender() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be printed when writing a file, got %q", buf.String())
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<details") {
		t.Error("html output should contain collapsible sections")
	}
}

func TestRunRenderMalformed(t *testing.T) {
	src := filepath.Join(t.TempDir(), "list.json")
	if err := os.WriteFile(src, []byte("[1, 2]"), 0644); err != nil {
		t.Fatal(err)
	}

	c, _ := testCommand()
	err := runRender(c, []string{src})
	if exitCode(err) != ExitMalformed {
		t.Errorf("expected malformed exit code, got %d (%v)", exitCode(err), err)
	}
}

func TestRunRenderOpenNeedsOutput(t *testing.T) {
	renderOpen = true
	t.Cleanup(func() { renderOpen = false })

	c, _ := testCommand()
	if err := runRender(c, []string{"card.json"}); err == nil {
		t.Error("expected error for --open without --output")
	}
}

func TestRunValidate(t *testing.T) {
	dir := writeFixtures(t)
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"training_dataset": {"train_rows": "many"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	c, buf := testCommand()
	if err := runValidate(c, []string{filepath.Join(dir, "minimal.json"), bad}); err != nil {
		t.Fatalf("runValidate() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "minimal.json: ok") {
		t.Errorf("expected minimal.json to pass, got %q", out)
	}
	if !strings.Contains(out, "bad.json: 2 issue(s)") {
		t.Errorf("expected two issues for bad.json, got %q", out)
	}

	validateStrict = true
	t.Cleanup(func() { validateStrict = false })

	c, _ = testCommand()
	if err := runValidate(c, []string{bad}); err == nil {
		t.Error("--strict should fail on schema issues")
	}
}

func TestRunClassify(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"status", "DONE"}, "positive\t"},
		{[]string{"severity", "moderate"}, "caution\t"},
		{[]string{"quality", "unheard-of"}, "unknown\t"},
	}
	for _, tt := range tests {
		c, buf := testCommand()
		if err := runClassify(c, tt.args); err != nil {
			t.Fatalf("runClassify(%v) error = %v", tt.args, err)
		}
		if !strings.HasPrefix(buf.String(), tt.want) {
			t.Errorf("runClassify(%v) = %q, want prefix %q", tt.args, buf.String(), tt.want)
		}
	}

	c, _ := testCommand()
	if err := runClassify(c, []string{"colour", "red"}); err == nil {
		t.Error("expected error for unknown domain")
	}
	if err := runClassify(c, []string{"status"}); err == nil {
		t.Error("expected error without a value")
	}
}

func TestRunClassifyList(t *testing.T) {
	classifyList = true
	t.Cleanup(func() { classifyList = false })

	c, buf := testCommand()
	if err := runClassify(c, []string{"quality"}); err != nil {
		t.Fatal(err)
	}
	for _, v := range []string{"excellent", "good", "fair", "poor"} {
		if !strings.Contains(buf.String(), v) {
			t.Errorf("list should contain %q, got %q", v, buf.String())
		}
	}
}

func TestRunChartsMermaid(t *testing.T) {
	dir := writeFixtures(t)

	chartsMermaid = true
	t.Cleanup(func() { chartsMermaid = false })

	c, buf := testCommand()
	if err := runCharts(c, []string{filepath.Join(dir, "single_predictor.json")}); err != nil {
		t.Fatalf("runCharts() error = %v", err)
	}
	if !strings.Contains(buf.String(), "pie") || !strings.Contains(buf.String(), "xychart-beta") {
		t.Errorf("expected pie and bar charts, got %q", buf.String())
	}
}

func TestParseTools(t *testing.T) {
	got := parseTools("render, modelcard_charts,,validate")
	want := []string{"modelcard_render", "modelcard_charts", "modelcard_validate"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("parseTools() = %v, want %v", got, want)
	}
}

func TestWatchJobs(t *testing.T) {
	jobs, err := watchJobs([]string{"a.json", "runs/b.json"}, output.FormatHTML, "", "out")
	if err != nil {
		t.Fatal(err)
	}
	if jobs[0].Output != filepath.Join("out", "a.html") || jobs[1].Output != filepath.Join("out", "b.html") {
		t.Errorf("unexpected outputs %+v", jobs)
	}

	if _, err := watchJobs([]string{"a.json", "b.json"}, output.FormatHTML, "x.html", ""); err == nil {
		t.Error("--output with several sources should fail")
	}
	if _, err := watchJobs([]string{"a/card.json", "b/card.json"}, output.FormatHTML, "", "out"); err == nil {
		t.Error("colliding outputs should fail")
	}
	if _, err := watchJobs([]string{"card.json"}, output.FormatJSON, "", ""); err == nil {
		t.Error("output overwriting its source should fail")
	}
	if _, err := watchJobs([]string{"-"}, output.FormatHTML, "", ""); err == nil {
		t.Error("stdin cannot be watched")
	}
}

func TestIndexAndList(t *testing.T) {
	dir := writeFixtures(t)

	cfgDir = t.TempDir()
	listFormat = "json"
	t.Cleanup(func() {
		cfgDir = ""
		listFormat = "table"
	})

	c, buf := testCommand()
	var sources []string
	for _, name := range cardtest.Names() {
		sources = append(sources, filepath.Join(dir, name+".json"))
	}
	if err := runIndex(c, sources); err != nil {
		t.Fatalf("runIndex() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Indexed 3 model card(s)") {
		t.Errorf("unexpected index output %q", buf.String())
	}

	c, buf = testCommand()
	if err := runList(c, nil); err != nil {
		t.Fatalf("runList() error = %v", err)
	}
	var entries []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal list: %v (%q)", err, buf.String())
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Name != "alphafreight-mini" {
		t.Errorf("entries should be ordered by name within one run, got %q first", entries[0].Name)
	}

	listTier = "unknown"
	t.Cleanup(func() { listTier = "" })

	c, buf = testCommand()
	if err := runList(c, nil); err != nil {
		t.Fatalf("runList(--tier unknown) error = %v", err)
	}
	entries = nil
	if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal list: %v (%q)", err, buf.String())
	}
	if len(entries) != 1 || entries[0].Name != "bare" {
		t.Errorf("--tier unknown = %+v, want only the PAUSED card", entries)
	}

	c, buf = testCommand()
	if err := runRemove(c, []string{"short-id"}); err != nil {
		t.Fatalf("runRemove() error = %v", err)
	}
	if err := runRemove(c, []string{"short-id"}); err == nil {
		t.Error("removing a missing entry should fail")
	}
}

func TestIndexSkipsMalformed(t *testing.T) {
	dir := writeFixtures(t)
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`"just a string"`), 0644); err != nil {
		t.Fatal(err)
	}

	cfgDir = t.TempDir()
	t.Cleanup(func() { cfgDir = "" })

	c, buf := testCommand()
	err := runIndex(c, []string{filepath.Join(dir, "minimal.json"), bad})
	if !errors.Is(err, card.ErrMalformedInput) {
		t.Errorf("expected malformed error, got %v", err)
	}
	if !strings.Contains(buf.String(), "Indexed 1 model card(s)") {
		t.Errorf("good cards should still be indexed, got %q", buf.String())
	}
}

func TestOutputAgentHelp(t *testing.T) {
	var buf bytes.Buffer
	outputAgentHelp(&buf, rootCmd)

	var help struct {
		Version  string `json:"version"`
		Commands []struct {
			Name string `json:"name"`
		} `json:"commands"`
		ExitCodes map[string]int `json:"exit_codes"`
	}
	if err := json.Unmarshal(buf.Bytes(), &help); err != nil {
		t.Fatalf("agent help is not JSON: %v", err)
	}
	if help.ExitCodes["malformed"] != ExitMalformed {
		t.Errorf("exit_codes.malformed = %d", help.ExitCodes["malformed"])
	}

	names := make(map[string]bool)
	for _, c := range help.Commands {
		names[c.Name] = true
	}
	for _, want := range []string{"render", "brief", "detailed", "charts", "validate", "watch", "index", "list", "serve"} {
		if !names[want] {
			t.Errorf("agent help missing command %q", want)
		}
	}
}
