package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestListShowsItems(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedItems(t)

	out, _, err := runCLI(t, []string{"list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "remembered passage")
	requireContains(t, out, "A Clip")

	// newest first
	videoIdx := strings.Index(out, "A Clip")
	textIdx := strings.Index(out, "remembered passage")
	if videoIdx > textIdx {
		t.Fatalf("expected video before text:\n%s", out)
	}
}

func TestListEmptyStore(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "No saved items")
}

func TestListCategoryFilter(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedItems(t)

	out, _, err := runCLI(t, []string{"list", "--category", "text"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "remembered passage")
	if strings.Contains(out, "A Clip") {
		t.Fatalf("video should be filtered out:\n%s", out)
	}

	if _, _, err := runCLI(t, []string{"list", "--category", "bogus"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected unknown category error")
	}
}

func TestRecentCapsOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	appendConfigSection(t, env.configPath, "[ui]\nrecent_limit = 2\n")
	env.seedItems(t)

	out, _, err := runCLI(t, []string{"recent"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	requireContains(t, out, "Showing 2 of 3 items")
	if strings.Contains(out, "remembered passage") {
		t.Fatalf("oldest item should be capped out:\n%s", out)
	}
}

func appendConfigSection(t *testing.T, path, section string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	data = append(data, []byte("\n"+section)...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestDeleteReportsOutcome(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedItems(t)

	out, _, err := runCLI(t, []string{"delete", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	requireContains(t, out, "Item 1 deleted")

	out, _, err = runCLI(t, []string{"delete", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("delete repeat: %v", err)
	}
	requireContains(t, out, "Item 1 not found")

	if _, _, err := runCLI(t, []string{"delete", "zero"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected invalid id error")
	}
}

func TestClearRequiresConfirmation(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedItems(t)

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("n\n"))
	cmd.SetArgs([]string{"--socket", env.socketPath, "--config", env.configPath, "clear"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	requireContains(t, stdout.String(), "Aborted")

	out, _, err := runCLI(t, []string{"clear", "--force"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("clear --force: %v", err)
	}
	requireContains(t, out, "Removed 3 items")
}

func TestExportToFile(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedItems(t)

	target := filepath.Join(t.TempDir(), "export.csv")
	out, _, err := runCLI(t, []string{"export", "--output", target}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "Exported 3 items")

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	requireContains(t, string(data), "ID,Type,Content,Page Title,URL,Timestamp")
	requireContains(t, string(data), "remembered passage")
}

func TestExportToStdout(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedItems(t)

	out, _, err := runCLI(t, []string{"export"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "ID,Type,Content,Page Title,URL,Timestamp")
}

func TestStats(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedItems(t)

	out, _, err := runCLI(t, []string{"stats"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	requireContains(t, out, "Total")
	requireContains(t, out, "3")
}

func TestDomainsListsHostnames(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedItems(t)

	out, _, err := runCLI(t, []string{"domains"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("domains: %v", err)
	}
	requireContains(t, out, "alpha.example")
	requireContains(t, out, "beta.example")
	requireContains(t, out, "youtube.com")
	if strings.Contains(out, "www.youtube.com") {
		t.Fatalf("expected www prefix stripped, got:\n%s", out)
	}
}

func TestThemeAndLang(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"theme", "get"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("theme get: %v", err)
	}
	requireContains(t, out, "light")

	out, _, err = runCLI(t, []string{"theme", "set", "dark"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("theme set: %v", err)
	}
	requireContains(t, out, "Theme set to dark")

	if _, _, err := runCLI(t, []string{"theme", "set", "sepia"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected unknown appearance error")
	}

	out, _, err = runCLI(t, []string{"lang", "set", "fr"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("lang set: %v", err)
	}
	requireContains(t, out, "Language set to fr")

	// theme change must not clobber the language
	out, _, err = runCLI(t, []string{"lang", "get"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("lang get: %v", err)
	}
	requireContains(t, out, "fr")
}
