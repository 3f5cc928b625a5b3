package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/daniacca/qssa/internal/export"
	"github.com/daniacca/qssa/internal/metrics"
	"github.com/daniacca/qssa/internal/qssa"
	"github.com/daniacca/qssa/internal/qssa/notifiers"
)

const smallParams = "../../examples/params/small.yaml"

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	if testing.Verbose() && stderr.Len() > 0 {
		t.Logf("stderr:\n%s", stderr.String())
	}
	return stdout.String(), err
}

func newConfigCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	registerConfigFlags(cmd, runResolvers())
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	return cmd
}

func TestResolveConfig_Defaults(t *testing.T) {
	for _, r := range runResolvers() {
		t.Setenv(r.envVarName, "")
	}
	cfg, err := resolveConfig(newConfigCmd(t), runResolvers())
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected log level 'info', got '%s'", cfg.LogLevel)
	}
	if cfg.Workers != 1 {
		t.Errorf("Expected 1 worker, got %d", cfg.Workers)
	}
	if cfg.Policy != qssa.HoldState {
		t.Errorf("Expected hold policy, got %v", cfg.Policy)
	}
	if cfg.Seeded {
		t.Error("Expected no seed by default")
	}
	if cfg.S3Prefix != "qssa" || cfg.S3Region != "us-east-1" || cfg.S3PathStyle {
		t.Errorf("Unexpected S3 defaults: %+v", cfg)
	}
	if cfg.Trajectories != 0 || cfg.Shape != 0 {
		t.Errorf("Expected no overrides, got Nc=%d shape=%d", cfg.Trajectories, cfg.Shape)
	}
}

func TestResolveConfig_EnvVars(t *testing.T) {
	t.Setenv("QSSA_WORKERS", "4")
	t.Setenv("QSSA_SEED", "12345")
	t.Setenv("QSSA_POLICY", "abort")
	t.Setenv("QSSA_S3_PATH_STYLE", "true")
	t.Setenv("QSSA_LOG_LEVEL", "  debug ")

	cfg, err := resolveConfig(newConfigCmd(t), runResolvers())
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if cfg.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", cfg.Workers)
	}
	if !cfg.Seeded || cfg.Seed != 12345 {
		t.Errorf("Expected seed 12345, got %d (seeded=%v)", cfg.Seed, cfg.Seeded)
	}
	if cfg.Policy != qssa.Abort {
		t.Errorf("Expected abort policy, got %v", cfg.Policy)
	}
	if !cfg.S3PathStyle {
		t.Error("Expected path-style addressing")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected trimmed log level 'debug', got '%s'", cfg.LogLevel)
	}
}

func TestResolveConfig_FlagsOverrideEnvVars(t *testing.T) {
	t.Setenv("QSSA_WORKERS", "4")
	t.Setenv("QSSA_SHAPE", "900")

	cmd := newConfigCmd(t, "--workers", "2", "--seed", "9")
	cfg, err := resolveConfig(cmd, runResolvers())
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if cfg.Workers != 2 {
		t.Errorf("Expected flag to win with 2 workers, got %d", cfg.Workers)
	}
	if cfg.Shape != 900 {
		t.Errorf("Expected shape 900 from env, got %d", cfg.Shape)
	}
	if cfg.Seed != 9 {
		t.Errorf("Expected seed 9, got %d", cfg.Seed)
	}
}

func TestResolveConfig_InvalidValues(t *testing.T) {
	cmd := newConfigCmd(t, "--workers", "-1", "--policy", "retry", "--seed", "abc")
	_, err := resolveConfig(cmd, runResolvers())
	if err == nil {
		t.Fatal("Expected error for invalid values")
	}
	for _, want := range []string{"workers must be >= 0", "unknown degenerate policy", "invalid seed"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to mention %q, got: %v", want, err)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogger_WritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("warn", &buf)
	logger.Infof("hidden %d", 1)
	logger.Warnf("shown %d", 2)
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "shown 2") {
		t.Errorf("Expected a WARN line, got: %s", out)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("Expected version %s in output, got %q", version, out)
	}

	out, err = execute(t, "version", "--json")
	if err != nil {
		t.Fatalf("version --json: %v", err)
	}
	var v map[string]string
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if v["version"] != version {
		t.Errorf("Expected version %s, got %s", version, v["version"])
	}
}

func TestValidateCmd(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("k1: 1\nq: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "validate", smallParams)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "ok (8 trajectories x 200 steps, 1,608 samples)") {
		t.Errorf("Unexpected output: %q", out)
	}

	out, err = execute(t, "validate", smallParams, bad)
	if err == nil {
		t.Fatal("Expected error for invalid file")
	}
	if !strings.Contains(err.Error(), "1 of 2 parameter files invalid") {
		t.Errorf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "bad.yaml: invalid") || !strings.Contains(out, "q must not be 1") {
		t.Errorf("Expected issues listed, got: %q", out)
	}
}

func TestValidateCmd_WarnsBelowOne(t *testing.T) {
	data, err := os.ReadFile(smallParams)
	if err != nil {
		t.Fatal(err)
	}
	lowQ := filepath.Join(t.TempDir(), "low-q.yaml")
	if err := os.WriteFile(lowQ, bytes.Replace(data, []byte("q: 1.5"), []byte("q: 0.5"), 1), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "validate", lowQ)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "low-q.yaml: ok") || !strings.Contains(out, "warning: q=0.5 < 1") {
		t.Errorf("Expected ok with a q warning, got: %q", out)
	}

	out, err = execute(t, "validate", "--json", lowQ, smallParams)
	if err != nil {
		t.Fatalf("validate --json: %v", err)
	}
	var results []validateResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\n%s", err, out)
	}
	if len(results) != 2 || len(results[0].Warnings) != 1 || len(results[1].Warnings) != 0 {
		t.Errorf("Expected a warning only for the q=0.5 file, got %+v", results)
	}
}

func TestValidateCmd_JSON(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	out, err := execute(t, "validate", "--json", smallParams, missing)
	if err == nil {
		t.Fatal("Expected error for missing file")
	}

	var results []validateResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\n%s", err, out)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if !results[0].Valid || len(results[0].Issues) != 0 {
		t.Errorf("Expected first file valid, got %+v", results[0])
	}
	if results[1].Valid || len(results[1].Issues) != 1 {
		t.Errorf("Expected one issue for the missing file, got %+v", results[1])
	}
}

func TestRunCmd_WritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "out.csv")
	jsonPath := filepath.Join(dir, "out.json")
	chartPath := filepath.Join(dir, "means.png")
	dbPath := filepath.Join(dir, "runs.db")

	out, err := execute(t, "run", smallParams, "--json",
		"--trajectories", "3", "--shape", "50", "--seed", "7", "--workers", "2",
		"--out-csv", csvPath, "--out-json", jsonPath, "--out-chart", chartPath,
		"--sqlite", dbPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var report runReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Failed to parse report: %v\n%s", err, out)
	}
	if report.Seed != 7 || report.RunID == "" {
		t.Errorf("Unexpected report header: %+v", report)
	}
	total := 0
	for _, n := range report.Statuses {
		total += n
	}
	if total != 3 {
		t.Errorf("Expected 3 trajectories in report, got %d", total)
	}
	if report.Samples != 3*51 {
		t.Errorf("Expected %d samples, got %d", 3*51, report.Samples)
	}
	for _, name := range []string{"csv", "json", "chart", "sqlite"} {
		if report.Artifacts[name] == "" {
			t.Errorf("Expected artifact %s in report", name)
		}
	}

	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1+3*51 {
		t.Errorf("Expected %d CSV lines, got %d", 1+3*51, len(lines))
	}
	if lines[0] != strings.Join(export.Header(), ",") {
		t.Errorf("Unexpected CSV header: %s", lines[0])
	}

	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	ds, err := qssa.DecodeDatasetJSON(raw)
	if err != nil {
		t.Fatalf("DecodeDatasetJSON: %v", err)
	}
	if ds.RunID != report.RunID || len(ds.Rows) != 3 {
		t.Errorf("Unexpected dataset: run %s rows %d", ds.RunID, len(ds.Rows))
	}

	png, err := os.ReadFile(chartPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("Chart is not a PNG")
	}

	out, err = execute(t, "runs", "--json", "--sqlite", dbPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	var runs []export.RunInfo
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("Failed to parse runs: %v\n%s", err, out)
	}
	if len(runs) != 1 || runs[0].RunID != report.RunID || runs[0].Trajectories != 3 || runs[0].Shape != 50 {
		t.Errorf("Unexpected stored runs: %+v", runs)
	}
}

func TestRunCmd_SameSeedSameOutput(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i, workers := range []string{"1", "3"} {
		path := filepath.Join(dir, "run"+string(rune('a'+i))+".csv")
		if _, err := execute(t, "run", smallParams, "--trajectories", "4", "--shape", "30",
			"--seed", "99", "--workers", workers, "--out-csv", path); err != nil {
			t.Fatalf("run: %v", err)
		}
		files = append(files, path)
	}

	a, _ := os.ReadFile(files[0])
	b, _ := os.ReadFile(files[1])
	if len(a) == 0 || !bytes.Equal(a, b) {
		t.Error("Expected identical CSV for the same seed regardless of workers")
	}
}

func TestRunCmd_TextReport(t *testing.T) {
	out, err := execute(t, "run", smallParams, "--trajectories", "2", "--shape", "10", "--seed", "3")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "(seed 3)") || !strings.Contains(out, "trajectories: 2") {
		t.Errorf("Unexpected report: %q", out)
	}
}

func TestRunCmd_InvalidParameters(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("k1: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "run", bad); err == nil {
		t.Fatal("Expected error for invalid parameter file")
	}
}

func TestRunsCmd_RequiresDatabase(t *testing.T) {
	t.Setenv("QSSA_SQLITE", "")
	t.Setenv("QSSA_POSTGRES_DSN", "")
	if _, err := execute(t, "runs"); err == nil {
		t.Fatal("Expected error without --sqlite or --postgres")
	}
}

func TestObserverMux(t *testing.T) {
	recorder := metrics.NewRecorder()
	progress := notifiers.NewWebSocketNotifier("progress")
	defer progress.Close()

	srv := httptest.NewServer(newObserverMux(recorder, progress))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("healthz: %d %q", resp.StatusCode, body)
	}

	recorder.EnsembleStarted()
	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "qssa_ensembles_in_flight 1") {
		t.Errorf("Expected in-flight gauge in metrics output:\n%s", body)
	}

	resp, err = http.Post(srv.URL+"/healthz", "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for POST /healthz, got %d", resp.StatusCode)
	}
}

func TestStartObserver(t *testing.T) {
	var logs bytes.Buffer
	progress := notifiers.NewWebSocketNotifier("progress")
	defer progress.Close()

	obs, err := startObserver("127.0.0.1:0", metrics.NewRecorder(), progress, newLogger("info", &logs))
	if err != nil {
		t.Fatalf("startObserver: %v", err)
	}
	defer obs.Shutdown(t.Context())

	resp, err := http.Get("http://" + obs.Addr() + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}
