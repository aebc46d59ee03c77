package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/mdn/internal/config"
)

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func newTestSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "src/index.md", `---
card:
  layout: card.html
  title: hello world
---
Intro

{#mdn "card"#}

{#mdn "ghost"#}
`)
	writeFile(t, root, "src/assets/style.css", "body{}\n")
	writeFile(t, root, "layouts/card.html", `<div class="{{ .params.title | slug }}">
    {{ .params.title | capitalize }}
</div>
`)
	writeFile(t, root, "mdn-filters.go", `package main

import "strings"

func Slug(s string) string { return strings.ReplaceAll(s, " ", "-") }
`)
	return root
}

func resetViper(t *testing.T, root string) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("directory", root)
}

func runCommand(t *testing.T, run func(*cobra.Command, []string) error) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := run(cmd, nil)
	return out.String(), err
}

func TestRunBuild(t *testing.T) {
	root := newTestSite(t)
	resetViper(t, root)

	out, err := runCommand(t, runBuild)
	require.NoError(t, err)

	built, err := os.ReadFile(filepath.Join(root, "build", "index.md"))
	require.NoError(t, err)
	assert.Equal(t, "Intro\n\n<div class=\"hello-world\">\nHello world\n</div>\n\n{#mdn \"ghost\"#}\n", string(built))

	css, err := os.ReadFile(filepath.Join(root, "build", "assets", "style.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}\n", string(css))

	assert.Contains(t, out, "2 documents, 1 rewritten, 1 of 2 markers replaced")
	assert.Contains(t, out, "1 unresolved marker(s)")
	assert.Contains(t, out, "index.md: ghost")
}

func TestRunBuildFailureWritesNothing(t *testing.T) {
	root := newTestSite(t)
	writeFile(t, root, "src/broken.md", "---\nx:\n  layout: missing.html\n---\n{#mdn \"x\"#}\n")
	resetViper(t, root)

	_, err := runCommand(t, runBuild)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.html")
	assert.NoDirExists(t, filepath.Join(root, "build"))
}

func TestRunBuildClean(t *testing.T) {
	root := newTestSite(t)
	writeFile(t, root, "build/stale.html", "old")
	resetViper(t, root)
	viper.Set("clean", true)

	_, err := runCommand(t, runBuild)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(root, "build", "stale.html"))
	assert.FileExists(t, filepath.Join(root, "build", "index.md"))
}

func TestRunBuildInvalidConfig(t *testing.T) {
	resetViper(t, t.TempDir())
	viper.Set("destination", "src")

	_, err := runCommand(t, runBuild)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestRunBuildRejectsNestedDestination(t *testing.T) {
	root := newTestSite(t)
	resetViper(t, root)
	viper.Set("destination", "src/out")

	for range 3 {
		_, err := runCommand(t, runBuild)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not be inside source")
	}

	assert.NoDirExists(t, filepath.Join(root, "src", "out"))
}

func TestCleanDestinationRefuses(t *testing.T) {
	root := t.TempDir()
	cfg := &config.Config{Directory: root, Source: "site/src", Destination: "site"}

	assert.Error(t, cleanDestination(cfg, root))
	assert.Error(t, cleanDestination(cfg, filepath.Join(root, "site")))

	writeFile(t, root, "out/x", "x")
	require.NoError(t, cleanDestination(cfg, filepath.Join(root, "out")))
	assert.NoDirExists(t, filepath.Join(root, "out"))
}

func TestExecuteBuildWithFlags(t *testing.T) {
	root := newTestSite(t)
	require.NoError(t, os.Rename(filepath.Join(root, "src"), filepath.Join(root, "content")))
	viper.Reset()
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"build", "-C", root, "-s", "content", "-d", "public", "-j", "2"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.FileExists(t, filepath.Join(root, "public", "index.md"))
	assert.Contains(t, out.String(), "markers replaced")
}

func TestFlagValidation(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	AddBuildFlags(cmd)

	assert.NoError(t, cmd.Flags().Set("concurrency", "4"))
	assert.Error(t, cmd.Flags().Set("concurrency", "-1"))
	assert.Error(t, cmd.Flags().Set("concurrency", "lots"))

	v, err := cmd.Flags().GetInt("concurrency")
	require.NoError(t, err)
	assert.Equal(t, 4, v)
}

func TestVersionCommand(t *testing.T) {
	t.Cleanup(func() { versionFormat, versionShort = "text", false })

	versionFormat = "json"
	out, err := runCommand(t, runVersionCommand)
	require.NoError(t, err)

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "mdn", info["name"])
	assert.NotEmpty(t, info["go_version"])

	versionFormat = "text"
	out, err = runCommand(t, runVersionCommand)
	require.NoError(t, err)
	assert.Contains(t, out, "mdn ")

	versionFormat = "yaml"
	_, err = runCommand(t, runVersionCommand)
	assert.Error(t, err)
}
