package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/htmltree/dom"
)

const page = `<!DOCTYPE html>
<title>Test case</title>
<p class="foo">Foo</p><p>Bar</p><p class="foo">Baz</p>`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), &out, append([]string{"htmlq"}, args...))
	return out.String(), err
}

func TestSelectFormats(t *testing.T) {
	doc := writeFile(t, "page.html", page)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"html", []string{"select", doc, "p.foo"}, "<p class=\"foo\">Foo</p>\n<p class=\"foo\">Baz</p>\n"},
		{"text", []string{"select", "--format", "text", doc, "p"}, "Foo\nBar\nBaz\n"},
		{"first", []string{"select", "--first", "--format", "text", doc, "p"}, "Foo\n"},
		{"count", []string{"select", "--format", "count", doc, "p.foo", "div"}, "2\n0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runApp(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestSelectUsesConfiguredFormat(t *testing.T) {
	doc := writeFile(t, "page.html", page)
	cfg := writeFile(t, "htmlq.yaml", "version: 1\nlogging:\n  console:\n    level: none\noutput:\n  format: count\n  separator: \";\"\n")

	out, err := runApp(t, "--config", cfg, "select", doc, "p")
	require.NoError(t, err)
	assert.Equal(t, "3;", out)
}

func TestSelectErrors(t *testing.T) {
	doc := writeFile(t, "page.html", page)

	_, err := runApp(t, "select", doc, "p..foo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, dom.Syntax))

	_, err = runApp(t, "select", filepath.Join(t.TempDir(), "missing.html"), "p")
	assert.Error(t, err)

	_, err = runApp(t, "select", doc)
	assert.Error(t, err)

	_, err = runApp(t, "select", "--format", "json", doc, "p")
	assert.Error(t, err)
}

func TestFragment(t *testing.T) {
	doc := writeFile(t, "row.html", "<td>one</td><td>two</td>")

	out, err := runApp(t, "fragment", "--context", "tr", "--format", "text", doc, "td:last-child")
	require.NoError(t, err)
	assert.Equal(t, "two\n", out)
}

func TestSpecificity(t *testing.T) {
	out, err := runApp(t, "specificity", "#a, p.b, :where(#c) em")
	require.NoError(t, err)
	assert.Equal(t, "(1,0,0)\t#a\n(0,1,1)\tp.b\n(0,0,1)\t:where(#c) em\n", out)
}

func TestDumpConfig(t *testing.T) {
	out, err := runApp(t, "dumpconfig", "--default")
	require.NoError(t, err)
	assert.Contains(t, out, "version: 1")

	dest := filepath.Join(t.TempDir(), "actual.yaml")
	out, err = runApp(t, "dumpconfig", dest)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "format: html")
}

func TestFragmentContextPrefix(t *testing.T) {
	fc := fragmentContext("svg:g")
	assert.Equal(t, "svg", fc.Name.Prefix)
	assert.Equal(t, "g", fc.Name.Local)
	assert.Empty(t, fc.Name.Namespace)

	fc = fragmentContext("tbody")
	assert.Equal(t, dom.HTMLNamespace, fc.Name.Namespace)

	doc := writeFile(t, "shape.svg", `<circle r="1"/><rect/>`)
	out, err := runApp(t, "fragment", "--context", "svg:g", "--format", "count", doc, "circle, rect")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}
