package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"logograb/internal/config"
	"logograb/internal/plugin"
	"logograb/internal/preflight"
	"logograb/internal/report"
	"logograb/internal/services"
	"logograb/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	server     *testsupport.CatalogServer
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	server := testsupport.NewCatalogServer(t,
		"countries/united-states/hbo-latino-us.png",
		"countries/united-states/cnn-us.png",
		"countries/united-kingdom/sky-sports-news-uk.png",
	)
	cfg := testsupport.NewConfig(t, testsupport.WithCatalogServer(server))
	cfg.Logging.Level = "error"
	cfg.Catalog.Token = ""

	configPath := filepath.Join(testsupport.BaseDir(cfg), "logograb.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, server: server, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestChannelsAddAndList(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, []string{"channels", "add", "HBO", "Latino", "HD", "--tvg-id", "hbolatino.us"}, env.configPath)
	if err != nil {
		t.Fatalf("channels add: %v", err)
	}
	if !strings.Contains(out, `"HBO Latino HD"`) || !strings.Contains(out, "missing") {
		t.Fatalf("unexpected add output: %s", out)
	}
	if _, err := runCLI(t, []string{"channels", "add", "CNN", "--logo-url", "https://example.com/cnn.png"}, env.configPath); err != nil {
		t.Fatalf("channels add: %v", err)
	}

	out, err = runCLI(t, []string{"--json", "channels", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("channels list: %v", err)
	}
	var views []channelView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode list output: %v\n%s", err, out)
	}
	if len(views) != 2 || views[0].TVGID != "hbolatino.us" || views[1].Status != "healthy" {
		t.Fatalf("unexpected channels: %+v", views)
	}

	out, err = runCLI(t, []string{"channels", "list", "--missing"}, env.configPath)
	if err != nil {
		t.Fatalf("channels list --missing: %v", err)
	}
	if !strings.Contains(out, "HBO Latino HD") || strings.Contains(out, "CNN") {
		t.Fatalf("unexpected missing list: %s", out)
	}
}

func TestRunCommandAssignsLogos(t *testing.T) {
	env := setupCLITestEnv(t)
	for _, name := range []string{"HBO Latino HD", "Sky Sports News", "Local Access 7"} {
		if _, err := runCLI(t, []string{"channels", "add", name}, env.configPath); err != nil {
			t.Fatalf("channels add %s: %v", name, err)
		}
	}

	out, err := runCLI(t, []string{"--json", "run"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var summary report.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, out)
	}
	if summary.Trigger != "manual" || summary.Matched != 2 || summary.SkippedNoMatch != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	out, err = runCLI(t, []string{"run"}, env.configPath)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !strings.Contains(out, "Matched: 0") || !strings.Contains(out, "no_match") {
		t.Fatalf("unexpected second run output: %s", out)
	}
}

func TestRunCommandDryRun(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, err := runCLI(t, []string{"channels", "add", "HBO Latino"}, env.configPath); err != nil {
		t.Fatalf("channels add: %v", err)
	}

	out, err := runCLI(t, []string{"run", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("run --dry-run: %v", err)
	}
	if !strings.Contains(out, "Dry run") || !strings.Contains(out, "matched") {
		t.Fatalf("unexpected dry-run output: %s", out)
	}
	out, err = runCLI(t, []string{"channels", "list", "--missing"}, env.configPath)
	if err != nil {
		t.Fatalf("channels list: %v", err)
	}
	if !strings.Contains(out, "HBO Latino") {
		t.Fatalf("dry run should leave the channel without a logo: %s", out)
	}
}

func TestRunCommandCatalogUnavailable(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, err := runCLI(t, []string{"channels", "add", "HBO"}, env.configPath); err != nil {
		t.Fatalf("channels add: %v", err)
	}
	env.server.FailWith(500)

	out, err := runCLI(t, []string{"run"}, env.configPath)
	if !errors.Is(err, services.ErrCatalogUnavailable) {
		t.Fatalf("expected catalog unavailable error, got %v", err)
	}
	if !strings.Contains(out, "Catalog unavailable") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestSummaryError(t *testing.T) {
	if err := summaryError(report.Summary{Matched: 1}); err != nil {
		t.Fatalf("expected nil for a completed pass, got %v", err)
	}
	if err := summaryError(report.Summary{Skipped: plugin.SkipLocked}); !errors.Is(err, plugin.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	err := summaryError(report.Summary{CatalogError: "github revision returned 500"})
	if !errors.Is(err, services.ErrCatalogUnavailable) {
		t.Fatalf("expected catalog unavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "github revision returned 500") {
		t.Fatalf("expected cause in message, got %q", err)
	}
}

func TestIndexBuildAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, []string{"index", "build"}, env.configPath)
	if err != nil {
		t.Fatalf("index build: %v", err)
	}
	if !strings.Contains(out, "Index rebuilt: 3 entries") {
		t.Fatalf("unexpected build output: %s", out)
	}

	out, err = runCLI(t, []string{"--json", "index", "build"}, env.configPath)
	if err != nil {
		t.Fatalf("index build again: %v", err)
	}
	var view indexView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode build output: %v", err)
	}
	if view.Outcome != "cache_hit" || view.SourceRevision != "rev-1" {
		t.Fatalf("unexpected build view: %+v", view)
	}
	if env.server.Requests("tree") != 1 {
		t.Fatalf("expected one tree fetch, got %d", env.server.Requests("tree"))
	}

	if _, err := runCLI(t, []string{"index", "build", "--force"}, env.configPath); err != nil {
		t.Fatalf("index build --force: %v", err)
	}
	if env.server.Requests("tree") != 2 {
		t.Fatalf("expected forced rebuild, got %d tree fetches", env.server.Requests("tree"))
	}

	out, err = runCLI(t, []string{"index", "show", "--filter", "sky sports"}, env.configPath)
	if err != nil {
		t.Fatalf("index show: %v", err)
	}
	if !strings.Contains(out, "sky-sports-news-uk.png") || strings.Contains(out, "cnn-us.png") {
		t.Fatalf("unexpected show output: %s", out)
	}
}

func TestIndexShowWithoutCache(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, err := runCLI(t, []string{"index", "show"}, env.configPath); err == nil {
		t.Fatal("expected error without a cached index")
	}
}

func TestMatchCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, []string{"--json", "match", "HBO Latino HD", "--limit", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	var view matchView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode match output: %v", err)
	}
	if view.Key != "hbo latino" || len(view.Candidates) != 1 {
		t.Fatalf("unexpected match view: %+v", view)
	}
	if !view.Candidates[0].Accepted || view.Candidates[0].Entry.Path != "countries/united-states/hbo-latino-us.png" {
		t.Fatalf("unexpected top candidate: %+v", view.Candidates[0])
	}

	out, err = runCLI(t, []string{"match", "Some", "Obscure", "Feed"}, env.configPath)
	if err != nil {
		t.Fatalf("match obscure: %v", err)
	}
	if strings.Contains(out, " yes ") || !strings.Contains(out, " no ") {
		t.Fatalf("expected only rejected candidates: %s", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := runCLI(t, []string{"config", "init", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("unexpected init output: %s", out)
	}
	if _, err := runCLI(t, []string{"config", "init", target}, ""); err == nil {
		t.Fatal("expected error when the config already exists")
	}
	if _, err := runCLI(t, []string{"config", "init", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	env := setupCLITestEnv(t)
	env.cfg.Catalog.Token = "secret-token"
	writeTestConfig(t, env.configPath, env.cfg)
	out, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "secret-token") || !strings.Contains(out, "********") {
		t.Fatalf("token should be masked: %s", out)
	}
	if !strings.Contains(out, "loaded from "+env.configPath) {
		t.Fatalf("expected config path header: %s", out)
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v\n%s", err, out)
	}
	for _, want := range []string{"State directory", "Logo directory", "Host database", "Catalog", "[OK] reachable (revision rev-1)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatal("expected no color codes when not writing to a terminal")
	}

	env.server.FailWith(503)
	out, err = runCLI(t, []string{"--json", "status"}, env.configPath)
	if err == nil {
		t.Fatal("expected status to fail when the catalog is down")
	}
	var view statusView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode status output: %v", err)
	}
	if len(view.Checks) != 4 || view.Checks[3].Passed {
		t.Fatalf("unexpected checks: %+v", view.Checks)
	}
}

func TestRenderStatusLine(t *testing.T) {
	plain := renderStatusLine(statusLine{Label: "Catalog", Kind: statusOK, Detail: "reachable"}, 12, false)
	if plain != "  Catalog:     [OK] reachable" {
		t.Fatalf("unexpected plain line %q", plain)
	}
	failed := checkLine(preflight.Result{Name: "Catalog", Passed: false, Detail: "down"})
	if failed.Kind != statusError {
		t.Fatalf("expected failed check to render as error, got %v", failed.Kind)
	}
	colored := renderStatusLine(failed, 12, true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected red line, got %q", colored)
	}
}
