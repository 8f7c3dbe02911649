package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const goodSVG = `<svg xmlns="http://www.w3.org/2000/svg">
  <defs>
    <linearGradient id="g"><stop offset="0"/></linearGradient>
    <clipPath id="c"><rect/></clipPath>
    <pattern id="unused"/>
  </defs>
  <path fill="url(#g)" clip-path="url(#c)" stroke="url(#gone)"/>
</svg>`

const dupSVG = `<svg><path id="a"/><path id="a"/></svg>`

const iconsJSON = `{
  "prefix": "demo",
  "icons": {
    "home": {"body": "<path d=\"M1 1\"/>"},
    "copy": {"body": "<path d=\"M1 1\"/>"},
    "arrow": {"body": "<path/>", "rotate": 1}
  },
  "aliases": {
    "house": {"parent": "home"},
    "arrow-back": {"parent": "arrow", "hFlip": true},
    "orphan": {"parent": "missing"}
  },
  "chars": {"e000": "home"}
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Chdir(t.TempDir())
	var stdout, stderr bytes.Buffer
	code := runWithArgs(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestAnalyzeText(t *testing.T) {
	path := writeFile(t, "good.svg", goodSVG)
	code, stdout, stderr := runCLI(t, "analyze", "--unused", path)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, path+": elements=8 ids=3 edges=3 paint=4 mask=2 unused=1 dangling=1")
	assert.Contains(t, stdout, "  unused: unused")
	assert.Contains(t, stderr, "reference to unknown id")
	assert.Contains(t, stderr, "id=gone")
}

func TestAnalyzeJSONPreservesOrder(t *testing.T) {
	good := writeFile(t, "good.svg", goodSVG)
	bad := writeFile(t, "dup.svg", dupSVG)
	code, stdout, _ := runCLI(t, "--format", "json", "--log-level", "error", "analyze", "--workers", "2", bad, good, bad)
	assert.Equal(t, exitFail, code)

	var reports []fileReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &reports))
	require.Len(t, reports, 3)
	assert.Equal(t, bad, reports[0].File)
	assert.Equal(t, "svg-duplicate-id", reports[0].Code)
	assert.Nil(t, reports[0].Summary)
	assert.Equal(t, good, reports[1].File)
	require.NotNil(t, reports[1].Summary)
	assert.Equal(t, 8, reports[1].Summary.Elements)
	assert.Nil(t, reports[1].Unused, "unused only with --unused")
	assert.Equal(t, bad, reports[2].File)
}

func TestAnalyzeYAMLGraph(t *testing.T) {
	path := writeFile(t, "good.svg", goodSVG)
	code, stdout, stderr := runCLI(t, "--format", "yaml", "analyze", "--graph", path)
	require.Equal(t, exitOK, code, stderr)

	var reports []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &reports))
	require.Len(t, reports, 1)
	graph, ok := reports[0]["graph"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, graph["elements"], 8)
	assert.Contains(t, stdout, "usedAsMask: true")
}

func TestAnalyzeStructuralErrorExitCode(t *testing.T) {
	path := writeFile(t, "dup.svg", dupSVG)
	code, stdout, stderr := runCLI(t, "analyze", path)
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stdout, "error: ")
	assert.Contains(t, stdout, "[svg-duplicate-id]")
	assert.Contains(t, stderr, "analysis failed")
}

func TestAnalyzeLimitsFromConfig(t *testing.T) {
	svg := writeFile(t, "good.svg", goodSVG)
	cfg := writeFile(t, "svgref.yaml", "analyze:\n  max_depth: 2\n")
	code, stdout, _ := runCLI(t, "--config", cfg, "analyze", svg)
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stdout, "svg-parse")

	code, _, _ = runCLI(t, "--config", cfg, "analyze", "--max-depth", "0", svg)
	assert.Equal(t, exitOK, code)
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no files", []string{"analyze"}},
		{"bad flag", []string{"analyze", "--bogus"}},
		{"bad format", []string{"--format", "xml", "analyze", "x.svg"}},
		{"zero workers", []string{"analyze", "--workers", "0", "x.svg"}},
		{"rename arity", []string{"icons", "rename", "x.json", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, exitUsage, code)
			assert.Contains(t, stderr, "Usage:")
		})
	}
}

func TestMissingConfigFile(t *testing.T) {
	code, _, stderr := runCLI(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "analyze", "x.svg")
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stderr, "open config")
}

func TestIconsList(t *testing.T) {
	path := writeFile(t, "icons.json", iconsJSON)
	code, stdout, stderr := runCLI(t, "icons", "list", path)
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "home\ncopy\narrow\n", stdout)

	code, stdout, _ = runCLI(t, "icons", "list", "--count", path)
	require.Equal(t, exitOK, code)
	assert.Equal(t, "3\n", stdout)
}

func TestIconsResolve(t *testing.T) {
	path := writeFile(t, "icons.json", iconsJSON)
	code, stdout, stderr := runCLI(t, "icons", "resolve", path, "arrow-back")
	require.Equal(t, exitOK, code, stderr)

	var got map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, true, got["arrow-back"]["hFlip"])
	assert.Equal(t, 1.0, got["arrow-back"]["rotate"])
	assert.Equal(t, 16.0, got["arrow-back"]["width"])

	code, _, stderr = runCLI(t, "icons", "resolve", path, "orphan")
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stderr, "cannot resolve")
}

func TestIconsRemoveWritesExport(t *testing.T) {
	path := writeFile(t, "icons.json", iconsJSON)
	out := filepath.Join(t.TempDir(), "out.json")
	code, stdout, stderr := runCLI(t, "icons", "remove", "-o", out, path, "arrow", "unknown")
	require.Equal(t, exitOK, code, stderr)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "entries=2")
	assert.Contains(t, stderr, "nothing to remove")
	assert.Contains(t, stderr, "reason=missing-parent")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)
	assert.NotContains(t, text, `"arrow"`)
	assert.NotContains(t, text, `"arrow-back"`)
	assert.NotContains(t, text, `"orphan"`)
	assert.Contains(t, text, `"house"`)
	assert.Contains(t, text, `<path d=\"M1 1\"/>`)
}

func TestIconsRename(t *testing.T) {
	path := writeFile(t, "icons.json", iconsJSON)
	code, stdout, stderr := runCLI(t, "icons", "rename", "--validate=false", path, "home", "house-solid")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, `"parent": "house-solid"`)
	assert.Contains(t, stdout, `"e000": "house-solid"`)
	assert.Contains(t, stdout, `"orphan"`, "raw export keeps orphans")

	code, _, stderr = runCLI(t, "icons", "rename", path, "home", "copy")
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stderr, "cannot rename")
}

func TestIconsExportDepthFlag(t *testing.T) {
	path := writeFile(t, "icons.json", iconsJSON)
	code, stdout, stderr := runCLI(t, "icons", "export", "--max-depth", "0", path)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, `"house"`)
	assert.NotContains(t, stdout, `"orphan"`)
}

func TestIconsLint(t *testing.T) {
	path := writeFile(t, "icons.json", iconsJSON)
	code, stdout, _ := runCLI(t, "icons", "lint", path)
	assert.Equal(t, exitFail, code)
	assert.Equal(t, path+": alias \"orphan\" -> \"missing\" dropped: missing-parent\n", stdout)

	clean := writeFile(t, "clean.json", `{"prefix": "x", "icons": {"a": {"body": "<g/>"}}}`)
	code, stdout, _ = runCLI(t, "icons", "lint", clean)
	assert.Equal(t, exitOK, code)
	assert.Empty(t, stdout)
}

func TestIconsDupes(t *testing.T) {
	path := writeFile(t, "icons.json", iconsJSON)
	code, stdout, stderr := runCLI(t, "icons", "dupes", path)
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "home copy\n", stdout)
}

func TestIconsBadInput(t *testing.T) {
	path := writeFile(t, "icons.json", `{"icons": [}`)
	code, _, stderr := runCLI(t, "icons", "list", path)
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stderr, path)
}

func TestJSONLogFormat(t *testing.T) {
	path := writeFile(t, "dup.svg", dupSVG)
	_, _, stderr := runCLI(t, "--log-format", "json", "analyze", path)
	line, _, _ := strings.Cut(stderr, "\n")
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, path, entry["file"])
}

func TestProfiles(t *testing.T) {
	path := writeFile(t, "good.svg", goodSVG)
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.out")
	mem := filepath.Join(dir, "mem.out")
	code, _, stderr := runCLI(t, "--cpuprofile", cpu, "--memprofile", mem, "analyze", path)
	require.Equal(t, exitOK, code, stderr)
	for _, p := range []string{cpu, mem} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}
