// Package ingest discovers source files under a run's configured
// roots, parses them in bounded parallel, and groups the resulting
// modules into the fixpoint.Program a Driver runs over. File discovery
// and the one-module-from-many-files grouping it feeds are grounded on
// internal/modules/loader.go's directory walk and
// config.SourceFileExtensions use; the bounded-parallel parse pool is
// grounded on the pack's errgroup.WithContext + worker-channel pattern
// (a generated-linter Enforcer fanning file-level work across
// runtime.NumCPU() workers) — the teacher itself parses one file at a
// time, so this is new, not a generalization of an existing teacher
// loop.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/efx-project/efx/internal/ast"
	"github.com/efx-project/efx/internal/astwalk"
	"github.com/efx-project/efx/internal/config"
	"github.com/efx-project/efx/internal/diagnostics"
	"github.com/efx-project/efx/internal/fixpoint"
	"github.com/efx-project/efx/internal/lexer"
	"github.com/efx-project/efx/internal/parser"
	"github.com/efx-project/efx/internal/registry"
)

// Discover walks each root looking for files whose name ends with one
// of extensions, returning paths in deterministic sorted order.
func Discover(roots []string, extensions []string) ([]string, error) {
	var paths []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			for _, ext := range extensions {
				if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
					paths = append(paths, path)
					return nil
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

type parsedFile struct {
	path string
	mod  *ast.Module
}

// ParseFiles parses every path concurrently, bounded to runtime.NumCPU()
// in-flight parses at a time. A single file's parse errors are recorded
// into diags and that file is dropped rather than failing the whole
// run (spec.md §7: a parse error degrades to "skip this file", never a
// fatal abort). The returned slice is ordered by input path regardless
// of completion order, keeping downstream grouping deterministic.
func ParseFiles(paths []string, diags *diagnostics.Bag) []parsedFile {
	results := make([]parsedFile, len(paths))

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.NumCPU())

	var mu sync.Mutex
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			mod, fileDiags := parseFile(path)
			mu.Lock()
			defer mu.Unlock()
			for _, d := range fileDiags {
				diags.Add(d)
			}
			if mod != nil {
				results[i] = parsedFile{path: path, mod: mod}
			}
			return nil
		})
	}
	_ = g.Wait() // parseFile never returns an error; only diagnostics are fatal-free

	out := make([]parsedFile, 0, len(results))
	for _, r := range results {
		if r.mod != nil {
			out = append(out, r)
		}
	}
	return out
}

func parseFile(path string) (*ast.Module, []diagnostics.Diagnostic) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []diagnostics.Diagnostic{diagnostics.ParseError(diagnostics.Span{File: path}, err.Error())}
	}
	l := lexer.New(string(data))
	p := parser.New(l, path)
	mod := p.ParseModule()
	if errs := p.Errors().Items(); len(errs) > 0 {
		return nil, errs
	}
	return mod, nil
}

// Load discovers, parses, and groups source files into a
// fixpoint.Program ready to run, using config.SourceFileExtensions for
// discovery and reg as the program's merged effect registry.
func Load(roots []string, reg *registry.Registry, diags *diagnostics.Bag) (fixpoint.Program, error) {
	paths, err := Discover(roots, config.SourceFileExtensions)
	if err != nil {
		return fixpoint.Program{}, err
	}

	parsed := ParseFiles(paths, diags)

	modules := make(map[string]astwalk.ModuleAnalysis)
	files := make(map[string]string)

	for _, pf := range parsed {
		ma := astwalk.Walk(pf.mod)
		files[ma.Module] = pf.path
		existing, ok := modules[ma.Module]
		if !ok {
			modules[ma.Module] = ma
			continue
		}
		modules[ma.Module] = mergeModuleAnalysis(existing, ma)
	}

	return fixpoint.Program{Modules: modules, Files: files, Reg: reg}, nil
}

// mergeModuleAnalysis combines two ModuleAnalysis values for the same
// module name — the "one or more source files sharing a module
// declaration" case ast.Module's doc comment names.
func mergeModuleAnalysis(a, b astwalk.ModuleAnalysis) astwalk.ModuleAnalysis {
	for mfa, shell := range b.Functions {
		a.Functions[mfa] = shell
	}
	for mfa, callees := range b.Calls {
		if existing, ok := a.Calls[mfa]; ok {
			for callee := range callees {
				existing[callee] = true
			}
		} else {
			a.Calls[mfa] = callees
		}
	}
	seen := make(map[string]bool, len(a.References))
	for _, r := range a.References {
		seen[r] = true
	}
	for _, r := range b.References {
		if !seen[r] {
			a.References = append(a.References, r)
			seen[r] = true
		}
	}
	return a
}
