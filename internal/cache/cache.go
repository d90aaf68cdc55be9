// Package cache implements the incremental parse cache.
//
// Parsed module references are keyed by normalized file path and guarded by a
// BLAKE3 content digest, so repeated runs re-parse only files whose bytes
// changed. The persisted form lives at <root>/.deadmod/cache.json and is
// written atomically (temp file + rename). A missing, corrupt, oversized, or
// version-incompatible cache degrades to an empty one: correctness never
// depends on the cache, only speed.
package cache

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/zeebo/blake3"

	"github.com/deadmod/deadmod/internal/extract"
	"github.com/deadmod/deadmod/internal/fileproc"
	"github.com/deadmod/deadmod/internal/parser"
)

// Version is the cache format version; bump when the record shape changes.
const Version = 2

// maxCacheSize caps the serialized cache (50 MB); oversized caches are
// cleared instead of written.
const maxCacheSize = 50_000_000

const cacheDir = ".deadmod"
const cacheFile = "cache.json"

// Record is the persisted per-file entry: content digest plus the outbound
// references extracted from the file.
type Record struct {
	Hash string   `json:"hash"`
	Refs []string `json:"refs"`
}

// Cache is the persisted cache model.
type Cache struct {
	// Format version; incompatible versions are discarded on load.
	Version int `json:"version"`
	// Modules maps normalized file path to its cached record.
	Modules map[string]Record `json:"modules"`
	// Checksum of the serialized module table, for corruption detection.
	Checksum string `json:"checksum,omitempty"`
}

// New returns an empty cache at the current version.
func New() *Cache {
	return &Cache{Version: Version, Modules: make(map[string]Record)}
}

// HashBytes computes a BLAKE3-256 digest of bytes as a hex string.
func HashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFile computes the BLAKE3-256 digest of a file's contents.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}

// cacheSchema validates the decoded cache document before any entry is
// trusted. Invalid documents are treated as absent.
const cacheSchema = `{
	"type": "object",
	"required": ["version", "modules"],
	"properties": {
		"version": {"type": "integer"},
		"checksum": {"type": "string"},
		"modules": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"required": ["hash", "refs"],
				"properties": {
					"hash": {"type": "string", "pattern": "^[0-9a-f]{64}$"},
					"refs": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`

var schema = func() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(cacheSchema)))
	if err != nil {
		panic(err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("cache.schema.json", doc); err != nil {
		panic(err)
	}
	return c.MustCompile("cache.schema.json")
}()

// Load reads the cache from <root>/.deadmod/cache.json. Any failure —
// missing file, unreadable file, bad JSON, schema violation, checksum or
// version mismatch — yields an empty cache and, at most, a log line.
func Load(root string) *Cache {
	path := filepath.Join(root, cacheDir, cacheFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return New()
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Warn("cache is not valid JSON, rebuilding", "file", path, "error", err)
		return New()
	}
	if err := schema.Validate(doc); err != nil {
		slog.Warn("cache failed schema validation, rebuilding", "file", path)
		return New()
	}

	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return New()
	}
	if c.Version != Version {
		slog.Info("cache version mismatch, rebuilding", "have", c.Version, "want", Version)
		_ = os.Remove(path)
		return New()
	}
	if c.Checksum != "" && c.Checksum != moduleChecksum(c.Modules) {
		slog.Warn("cache checksum mismatch, rebuilding", "file", path)
		return New()
	}
	if c.Modules == nil {
		c.Modules = make(map[string]Record)
	}
	return &c
}

// Save writes the cache atomically. The temp name carries the pid and a
// random suffix so concurrent writers cannot clobber each other's staging
// file; the final rename is last-writer-wins.
func Save(root string, c *Cache) error {
	dir := filepath.Join(root, cacheDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	c.Version = Version
	c.Checksum = moduleChecksum(c.Modules)

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cache: %w", err)
	}

	path := filepath.Join(dir, cacheFile)
	if len(data) > maxCacheSize {
		slog.Warn("cache exceeds size limit, clearing", "bytes", len(data))
		_ = os.Remove(path)
		return nil
	}

	tmp := filepath.Join(dir, fmt.Sprintf("%s.%d.%08x.tmp", cacheFile, os.Getpid(), rand.Uint32()))
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}
	return nil
}

// moduleChecksum computes an xxhash over the module table in key order.
func moduleChecksum(modules map[string]Record) string {
	keys := make([]string, 0, len(modules))
	for k := range modules {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := xxhash.New()
	for _, k := range keys {
		rec := modules[k]
		_, _ = h.WriteString(k)
		_, _ = h.WriteString(rec.Hash)
		refs := append([]string(nil), rec.Refs...)
		sort.Strings(refs)
		for _, r := range refs {
			_, _ = h.WriteString(r)
		}
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// parsedFile is the per-file result handed back by the parallel workers.
type parsedFile struct {
	name  string
	info  *extract.ModuleInfo
	entry Record
}

// IncrementalParse builds the module map for the given files, reusing cached
// references for any file whose content digest matches the prior cache and
// parsing only the rest. Returns the module map keyed by module name plus the
// new cache. Every output entry was either parsed this run or passed the
// digest test; stale data never enters the graph.
func IncrementalParse(files []string, prior *Cache, onProgress fileproc.ProgressFunc) (map[string]*extract.ModuleInfo, *Cache) {
	if prior == nil {
		prior = New()
	}

	results := fileproc.MapFilesN(files, 0, func(psr *parser.Parser, path string) (parsedFile, error) {
		norm := extract.NormalizePath(path)

		content, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("read error, skipping file", "file", norm, "error", err)
			return parsedFile{}, err
		}
		if len(content) > parser.MaxFileSize {
			slog.Warn("file too large, skipping", "file", norm, "bytes", len(content))
			return parsedFile{}, fmt.Errorf("file too large")
		}

		hash := HashBytes(content)

		if cached, ok := prior.Modules[norm]; ok && cached.Hash == hash {
			// Cache hit: rebuild the module record from cached refs without
			// re-parsing the content.
			info := extract.NewModuleInfo(norm, fileStem(norm))
			for _, ref := range cached.Refs {
				info.Refs[ref] = true
			}
			return parsedFile{name: info.Name, info: info, entry: cached}, nil
		}

		ex, err := extract.Source(psr, content, path)
		if err != nil {
			// A hard parse failure still leaves the module in the graph with
			// an empty reference set.
			slog.Warn("AST parse failed, using empty reference set", "file", norm, "error", err)
			info := extract.NewModuleInfo(norm, fileStem(norm))
			return parsedFile{name: info.Name, info: info, entry: Record{Hash: hash}}, nil
		}

		refs := make([]string, 0, len(ex.Module.Refs))
		for r := range ex.Module.Refs {
			refs = append(refs, r)
		}
		sort.Strings(refs)

		return parsedFile{name: ex.Module.Name, info: ex.Module, entry: Record{Hash: hash, Refs: refs}}, nil
	}, onProgress, nil)

	modules := make(map[string]*extract.ModuleInfo, len(results))
	next := New()

	// Deterministic reduction: later (lexicographically greater) paths win on
	// duplicate module names, with a warning.
	sort.Slice(results, func(i, j int) bool { return results[i].info.Path < results[j].info.Path })

	for _, r := range results {
		if r.info == nil {
			continue
		}
		if prev, ok := modules[r.name]; ok {
			slog.Warn("duplicate module name, later file wins", "module", r.name, "kept", r.info.Path, "dropped", prev.Path)
		}
		modules[r.name] = r.info
		next.Modules[r.info.Path] = r.entry
	}

	return modules, next
}

// CacheHits counts how many of the given files would be served from cache.
func CacheHits(files []string, prior *Cache) int {
	if prior == nil {
		return 0
	}
	hits := 0
	for _, f := range files {
		norm := extract.NormalizePath(f)
		cached, ok := prior.Modules[norm]
		if !ok {
			continue
		}
		if h, err := HashFile(f); err == nil && h == cached.Hash {
			hits++
		}
	}
	return hits
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
