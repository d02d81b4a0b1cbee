// Package retriever builds and queries a vector index over the card-meaning
// corpus. The index is built lazily on first query and kept in the store, so
// later process starts reuse it instead of re-embedding the corpus.
package retriever

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tarotara/tarotara/internal/store"
)

var (
	// ErrIndexBuild marks a failure to construct the index (unreadable
	// corpus, embedding service down). The index stays unbuilt and the
	// build is retried on the next query.
	ErrIndexBuild = errors.New("index build failed")

	// ErrRetrieval marks a failure to query an already-built index.
	ErrRetrieval = errors.New("retrieval failed")
)

// DefaultGlobs selects the corpus files considered during a build.
var DefaultGlobs = []string{"**/*.md", "**/*.txt"}

// Embedder produces a vector for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Retriever is the semantic nearest-neighbor lookup over the corpus.
// The zero relevance floor drops orthogonal chunks: a query that matches
// nothing returns an empty, non-error result.
type Retriever struct {
	mu        sync.Mutex
	store     store.Storage
	embedder  Embedder
	corpusDir string
	globs     []string
	built     bool
}

func New(s store.Storage, e Embedder, corpusDir string) *Retriever {
	return &Retriever{
		store:     s,
		embedder:  e,
		corpusDir: corpusDir,
		globs:     DefaultGlobs,
	}
}

// SetGlobs replaces the file patterns considered during a build. It has no
// effect once the index is built.
func (r *Retriever) SetGlobs(globs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(globs) > 0 {
		r.globs = globs
	}
}

// Built reports whether the index is ready for queries.
func (r *Retriever) Built() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.built
}

// Retrieve returns up to topK corpus chunks nearest to the query text,
// nearest first. If the index is unbuilt it is built first; a build failure
// surfaces as ErrIndexBuild and leaves the index unbuilt for retry.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]string, error) {
	if topK <= 0 {
		return nil, nil
	}

	if err := r.ensureBuilt(ctx); err != nil {
		return nil, err
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", ErrRetrieval, err)
	}

	chunks, err := r.store.SearchChunks(vec, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: searching index: %v", ErrRetrieval, err)
	}

	results := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if c.Similarity <= 0 {
			continue
		}
		results = append(results, c.Content)
	}
	return results, nil
}

// ensureBuilt transitions the index from unbuilt to built at most once per
// process. A store that already holds chunks (from a previous run) counts as
// built.
func (r *Retriever) ensureBuilt(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.built {
		return nil
	}

	n, err := r.store.CountChunks()
	if err != nil {
		return fmt.Errorf("%w: inspecting index: %v", ErrIndexBuild, err)
	}
	if n > 0 {
		r.built = true
		return nil
	}

	if err := r.build(ctx); err != nil {
		return err
	}
	r.built = true
	return nil
}

// Build constructs the index eagerly. Safe to call repeatedly; a store that
// already holds chunks is left as is.
func (r *Retriever) Build(ctx context.Context) error {
	return r.ensureBuilt(ctx)
}

// build reads the corpus, chunks it, embeds every chunk, then materializes
// the index. Embeddings are computed before anything is written so a failed
// build leaves the store empty and the next attempt starts clean.
func (r *Retriever) build(ctx context.Context) error {
	files, err := r.corpusFiles()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexBuild, err)
	}

	type embedded struct {
		content string
		source  string
		vector  []float32
	}
	var pending []embedded

	for _, path := range files {
		data, err := os.ReadFile(path) // #nosec G304
		if err != nil {
			return fmt.Errorf("%w: reading %s: %v", ErrIndexBuild, path, err)
		}

		source, _ := filepath.Rel(r.corpusDir, path)
		for _, chunk := range splitChunks(string(data)) {
			vec, err := r.embedder.Embed(ctx, chunk)
			if err != nil {
				return fmt.Errorf("%w: embedding %s: %v", ErrIndexBuild, source, err)
			}
			pending = append(pending, embedded{content: chunk, source: source, vector: vec})
		}
	}

	for _, e := range pending {
		if err := r.store.AddChunk(e.content, e.source, e.vector); err != nil {
			return fmt.Errorf("%w: storing chunk: %v", ErrIndexBuild, err)
		}
	}
	return nil
}

func (r *Retriever) corpusFiles() ([]string, error) {
	if _, err := os.Stat(r.corpusDir); err != nil {
		return nil, fmt.Errorf("corpus dir unreadable: %v", err)
	}

	var files []string
	for _, glob := range r.globs {
		matches, err := doublestar.FilepathGlob(filepath.Join(r.corpusDir, glob))
		if err != nil {
			return nil, fmt.Errorf("bad corpus glob %q: %v", glob, err)
		}
		files = append(files, matches...)
	}
	return files, nil
}

// splitChunks breaks a document on blank lines. Card-meaning corpora are
// written one meaning per paragraph, so paragraphs are the retrieval unit.
func splitChunks(text string) []string {
	var chunks []string
	for _, part := range strings.Split(text, "\n\n") {
		part = strings.TrimSpace(part)
		if part != "" {
			chunks = append(chunks, part)
		}
	}
	return chunks
}
