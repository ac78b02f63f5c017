// Package document persists the ingested corpus as one hash per document.
package document

import (
	"context"
	"fmt"
	"sort"
	"strings"

	domdoc "github.com/finsight-cloud/finsight/internal/domain/document"
)

// store is the consumer interface for documents (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// Repo implements usecase ingest/search storage contracts.
type Repo struct {
	store  store
	prefix string
}

// New creates a document repository. prefix namespaces every key.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Upsert creates or replaces a document. Returns true if created. A replaced
// document keeps its original insertion position so corpus order is stable
// across re-uploads.
func (r *Repo) Upsert(ctx context.Context, doc *domdoc.Document) (bool, error) {
	key := r.docKey(doc.ID())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	var seq int64
	if exists {
		old, err := r.store.HGetAll(ctx, key)
		if err != nil {
			return false, fmt.Errorf("read existing %s: %w", key, err)
		}
		_, seq, _ = parseHashFields(doc.ID(), old)
	}
	if seq == 0 {
		seq, err = r.store.Incr(ctx, r.prefix+"seq")
		if err != nil {
			return false, fmt.Errorf("next seq: %w", err)
		}
	}

	fields, err := buildHashFields(doc, seq)
	if err != nil {
		return false, err
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}

	return !exists, nil
}

// All returns every stored document in insertion order.
func (r *Repo) All(ctx context.Context) ([]domdoc.Document, error) {
	keys, err := r.store.Scan(ctx, r.docKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}

	type ordered struct {
		doc domdoc.Document
		seq int64
	}
	docs := make([]ordered, 0, len(keys))

	for _, key := range keys {
		m, err := r.store.HGetAll(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("hgetall %s: %w", key, err)
		}
		if len(m) == 0 {
			continue // deleted between scan and read
		}
		doc, seq, err := parseHashFields(r.docID(key), m)
		if err != nil {
			return nil, err
		}
		docs = append(docs, ordered{doc: doc, seq: seq})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].seq < docs[j].seq })

	out := make([]domdoc.Document, len(docs))
	for i, d := range docs {
		out[i] = d.doc
	}
	return out, nil
}

// Clear removes every document and resets insertion ordering.
func (r *Repo) Clear(ctx context.Context) error {
	keys, err := r.store.Scan(ctx, r.docKey("*"))
	if err != nil {
		return fmt.Errorf("scan documents: %w", err)
	}
	for _, key := range keys {
		if err := r.store.Del(ctx, key); err != nil {
			return fmt.Errorf("del %s: %w", key, err)
		}
	}
	if err := r.store.Del(ctx, r.prefix+"seq"); err != nil {
		return fmt.Errorf("del seq: %w", err)
	}
	return nil
}

func (r *Repo) docKey(id string) string {
	return r.prefix + "doc:" + id
}

func (r *Repo) docID(key string) string {
	return strings.TrimPrefix(key, r.prefix+"doc:")
}
