// Package stdlib loads and caches the compiled standard library.
//
// The library is ordinary source code compiled through the normal pipeline;
// its functions are handed to the user program's generator as pre-compiled
// entries. Compiled entries are cached on disk in a file keyed by an MD5
// prefix of the library source, so editing std.lib invalidates the cache.
package stdlib

import (
	"crypto/md5"
	_ "embed"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"tapec/internal/codegen"
	"tapec/internal/lexer"
	"tapec/internal/parser"
)

//go:embed std.lib
var embedded string

// FileName is the library file the loader looks for next to the executable.
const FileName = "std.lib"

// Entry is one compiled standard-library function as it is cached on disk.
type Entry struct {
	Name  string
	Void  bool
	Arity int
	Code  string
}

// Load returns the compiled standard library.
//
// The source is read from path if non-empty, else from std.lib next to the
// executable, else from the embedded copy. Unless recompile is set, a cache
// file in cacheDir (or next to the library) is tried first; cache failures
// of any kind fall back to compiling. Cache writes are best-effort.
func Load(path, cacheDir string, recompile bool) ([]Entry, error) {
	source, dir := readSource(path)

	sum := md5.Sum([]byte(source))
	cacheFile := fmt.Sprintf("std-%s.cache", hex.EncodeToString(sum[:])[:8])
	if cacheDir == "" {
		cacheDir = dir
	}
	if cacheDir == "" {
		if userCache, err := os.UserCacheDir(); err == nil {
			cacheDir = filepath.Join(userCache, "tapec")
		}
	}
	cachePath := filepath.Join(cacheDir, cacheFile)

	if !recompile && cacheDir != "" {
		if entries, err := readCache(cachePath); err == nil {
			return entries, nil
		}
	}

	entries, err := compile(source)
	if err != nil {
		return nil, fmt.Errorf("standard library: %w", err)
	}
	if cacheDir != "" {
		writeCache(cachePath, entries)
	}
	return entries, nil
}

// readSource finds the library source and the directory it came from.
func readSource(path string) (source, dir string) {
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return string(data), filepath.Dir(path)
		}
		return embedded, ""
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), FileName)
		if data, err := os.ReadFile(candidate); err == nil {
			return string(data), filepath.Dir(exe)
		}
	}
	return embedded, ""
}

// compile runs the library through the pipeline with an eager warm-up pass,
// so every entry carries its compiled code.
func compile(source string) ([]Entry, error) {
	program, err := parser.New(lexer.New(source)).ParseProgram("std")
	if err != nil {
		return nil, err
	}
	gen := codegen.New()
	if _, err := gen.Generate(program); err != nil {
		return nil, err
	}
	if err := gen.Warmup(); err != nil {
		return nil, err
	}

	funcs := gen.Functions()
	entries := make([]Entry, 0, len(funcs))
	for _, fn := range funcs {
		entries = append(entries, Entry{Name: fn.Name, Void: fn.Void, Arity: fn.Arity, Code: fn.Code})
	}
	return entries, nil
}

func readCache(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	if err := gob.NewDecoder(f).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// writeCache stores the compiled entries; failures are ignored because the
// cache is purely an optimization.
func writeCache(path string, entries []Entry) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	_ = gob.NewEncoder(f).Encode(entries)
}
