// Package builder renders the documentation tree to static HTML under the
// build directory. Markdown is rendered with blackfriday; reStructuredText
// sources are carried through as preformatted text so a tree mid-migration
// still builds end to end. Non-documentation files are copied through as
// assets.
package builder

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/russross/blackfriday/v2"

	"github.com/neuroforge/doc-forge/internal/config"
	"github.com/neuroforge/doc-forge/internal/discovery"
	"github.com/neuroforge/doc-forge/internal/logger"
	"github.com/neuroforge/doc-forge/internal/workspace"
)

var logBuilder = logger.New("builder")

// Builder renders documentation to HTML.
type Builder struct {
	ws  *workspace.Workspace
	cfg *config.Config

	// LiveReload injects the reload client into every page, used by serve.
	LiveReload bool
}

func New(ws *workspace.Workspace, cfg *config.Config) *Builder {
	return &Builder{ws: ws, cfg: cfg}
}

// Result summarizes a completed build.
type Result struct {
	Pages     int
	Assets    int
	Bytes     int64
	Duration  time.Duration
	OutputDir string
}

// Summary returns a one-line human-readable build summary.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d pages, %d assets, %s written in %s",
		r.Pages, r.Assets, humanize.Bytes(uint64(r.Bytes)), r.Duration.Round(time.Millisecond))
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} - {{.Project}}</title>
<style>
body { max-width: 52rem; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.6; color: #1a1a1a; }
pre { background: #f6f8fa; padding: 1rem; overflow-x: auto; }
code { background: #f6f8fa; padding: 0.1rem 0.3rem; }
a { color: #0969da; }
</style>
</head>
<body>
{{.Content}}
{{if .LiveReload}}<script>
(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var sock = new WebSocket(proto + location.host + "/livereload");
  sock.onmessage = function () { location.reload(); };
})();
</script>
{{end}}</body>
</html>
`

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

type pageData struct {
	Title      string
	Project    string
	Content    template.HTML
	LiveReload bool
}

// OutputDir returns the directory pages are written to.
func (b *Builder) OutputDir() string {
	return filepath.Join(b.ws.BuildDir(), "html")
}

// Build renders every documentation source and copies every asset into the
// output directory. Files that fail to render are skipped with a log entry
// rather than failing the whole build.
func (b *Builder) Build() (*Result, error) {
	start := time.Now()
	out := b.OutputDir()
	if err := workspace.EnsureDir(out); err != nil {
		return nil, err
	}

	result := &Result{OutputDir: out}
	err := filepath.WalkDir(b.ws.DocsDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if strings.HasPrefix(entry.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(b.ws.DocsDir, path)
		if err != nil {
			return err
		}

		switch filepath.Ext(path) {
		case ".md", ".rst":
			n, err := b.renderPage(path, rel, out)
			if err != nil {
				logBuilder.Printf("Skipping %s: %v", rel, err)
				return nil
			}
			result.Pages++
			result.Bytes += n
		case ".json":
			// Manifest and machine files are not published.
		default:
			n, err := copyFile(path, filepath.Join(out, rel))
			if err != nil {
				return err
			}
			result.Assets++
			result.Bytes += n
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("build failed: %w", err)
	}

	result.Duration = time.Since(start)
	logBuilder.Printf("Build complete: %s", result.Summary())
	return result, nil
}

// renderPage renders one source file to its .html counterpart, returning the
// number of bytes written.
func (b *Builder) renderPage(path, rel, out string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var content template.HTML
	switch filepath.Ext(path) {
	case ".md":
		content = template.HTML(blackfriday.Run(data))
	case ".rst":
		// No native renderer; preformatted passthrough keeps the page
		// readable and the links auditable.
		var sb strings.Builder
		sb.WriteString("<pre>")
		template.HTMLEscape(&sb, data)
		sb.WriteString("</pre>")
		content = template.HTML(sb.String())
	}

	title := pageTitle(path, rel)
	target := filepath.Join(out, strings.TrimSuffix(rel, filepath.Ext(rel))+".html")
	if err := workspace.EnsureDir(filepath.Dir(target)); err != nil {
		return 0, err
	}

	f, err := os.Create(target)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	err = pageTmpl.Execute(f, pageData{
		Title:      title,
		Project:    b.cfg.Project.Name,
		Content:    content,
		LiveReload: b.LiveReload,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to render %s: %w", rel, err)
	}

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func pageTitle(path, rel string) string {
	doc, err := discovery.ReadDocument(filepath.Dir(path), path, "", "", 0)
	if err != nil || doc.Title == "" {
		stem := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
		return discovery.TitleFromStem(stem)
	}
	return doc.Title
}

func copyFile(src, dst string) (int64, error) {
	if err := workspace.EnsureDir(filepath.Dir(dst)); err != nil {
		return 0, err
	}
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	n, err := io.Copy(out, in)
	if err != nil {
		return 0, fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return n, nil
}

// Clean removes the build directory.
func (b *Builder) Clean() error {
	dir := b.ws.BuildDir()
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	logBuilder.Printf("Removed %s", dir)
	return nil
}
