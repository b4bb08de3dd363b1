package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// importEdge is one import statement of a non-vendored file under internal/.
type importEdge struct {
	file string // module-relative, slash separated
	imp  string
}

func TestLayerImports(t *testing.T) {
	modulePath, edges := collectImports(t)

	var bad []string
	for _, e := range edges {
		layer := layerFor(e.file)
		for _, prefix := range forbiddenFor(modulePath, layer) {
			if strings.HasPrefix(e.imp, prefix) {
				bad = append(bad, fmt.Sprintf("- %s (%s) imports %q", e.file, layer, e.imp))
				break
			}
		}
	}
	if len(bad) > 0 {
		t.Fatalf("layer violations:\n%s", strings.Join(bad, "\n"))
	}
}

func TestClientsOnlyImportedByWiring(t *testing.T) {
	modulePath, edges := collectImports(t)
	clients := modulePath + "/internal/clients/"

	var bad []string
	for _, e := range edges {
		if !strings.HasPrefix(e.imp, clients) {
			continue
		}
		switch {
		case strings.HasPrefix(e.file, "internal/app/"),
			strings.HasPrefix(e.file, "internal/clients/"),
			strings.HasPrefix(e.file, "internal/services/"):
			continue
		}
		bad = append(bad, fmt.Sprintf("- %s imports %q", e.file, e.imp))
	}
	if len(bad) > 0 {
		t.Fatalf("internal/clients used outside app/services:\n%s", strings.Join(bad, "\n"))
	}
}

func TestLayerFor(t *testing.T) {
	cases := map[string]string{
		"internal/domain/meal/meal.go":          "domain",
		"internal/platform/apierr/apierr.go":    "platform",
		"internal/data/repos/meal/meal.go":      "data",
		"internal/services/meal.go":             "services",
		"internal/http/handlers/meal.go":        "http",
		"internal/http/router_test.go":          "http_test",
		"internal/app/app.go":                   "",
		"internal/observability/metrics.go":     "",
		"internal/architecture/imports_test.go": "",
	}
	for file, want := range cases {
		if got := layerFor(file); got != want {
			t.Errorf("layerFor(%q) = %q, want %q", file, got, want)
		}
	}
}

func layerFor(rel string) string {
	switch {
	case strings.HasPrefix(rel, "internal/domain/"):
		return "domain"
	case strings.HasPrefix(rel, "internal/platform/"):
		return "platform"
	case strings.HasPrefix(rel, "internal/data/"):
		return "data"
	case strings.HasPrefix(rel, "internal/services/"):
		return "services"
	case strings.HasPrefix(rel, "internal/http/"):
		if strings.HasSuffix(rel, "_test.go") {
			return "http_test"
		}
		return "http"
	default:
		return ""
	}
}

// forbiddenFor lists import prefixes a layer may not use. Lower layers never
// reach up; handlers go through services, though their tests may build repos.
func forbiddenFor(modulePath, layer string) []string {
	p := func(pkg string) string { return modulePath + "/internal/" + pkg }
	switch layer {
	case "domain":
		return []string{p("data/"), p("services"), p("http"), p("app"), p("observability")}
	case "platform":
		return []string{p("domain"), p("data/"), p("services"), p("http"), p("app")}
	case "data":
		return []string{p("services"), p("http"), p("app")}
	case "services":
		return []string{p("http"), p("app")}
	case "http":
		return []string{p("data/"), p("app")}
	case "http_test":
		return []string{p("app")}
	default:
		return nil
	}
}

func collectImports(t *testing.T) (string, []importEdge) {
	t.Helper()

	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(start)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	modulePath, err := readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}

	fset := token.NewFileSet()
	var edges []importEdge
	walkErr := filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case ".git", "vendor", "node_modules", ".gocache":
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, is := range f.Imports {
			if is == nil || is.Path == nil {
				continue
			}
			imp, err := strconv.Unquote(is.Path.Value)
			if err != nil {
				continue
			}
			edges = append(edges, importEdge{file: filepath.ToSlash(rel), imp: imp})
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}
	return modulePath, edges
}

func findModuleRoot(start string) (string, error) {
	for dir := start; ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found from %s", start)
		}
		dir = parent
	}
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if mp, ok := strings.CutPrefix(line, "module "); ok {
			mp = strings.TrimSpace(mp)
			if mp == "" {
				return "", fmt.Errorf("empty module path in %s", goModPath)
			}
			return mp, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
