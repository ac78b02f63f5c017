package document

import (
	"crypto/md5" //nolint:gosec // identity hash, not a security boundary
	"encoding/hex"
	"fmt"

	"github.com/finsight-cloud/finsight/internal/domain"
)

// SourceType tags the original file format of an ingested document.
type SourceType string

// Known source types. Anything else maps to SourceOther.
const (
	SourceCSV   SourceType = "csv"
	SourceExcel SourceType = "excel"
	SourcePDF   SourceType = "pdf"
	SourceOther SourceType = "other"
)

// ParseSourceType maps a raw tag to a SourceType.
func ParseSourceType(s string) SourceType {
	switch SourceType(s) {
	case SourceCSV, SourceExcel, SourcePDF:
		return SourceType(s)
	default:
		return SourceOther
	}
}

// DefaultChunkSize is the target chunk length in characters.
const DefaultChunkSize = 1000

// Document is one ingested file: its extracted text split into an ordered
// chunk sequence (immutable value object). Identity is derived from the
// filename alone, so re-uploading the same name replaces the previous version
// while identically-named content under two names is stored twice.
type Document struct {
	id         string
	filename   string
	sourceType SourceType
	chunks     []string
	fullText   string
}

// New validates the extracted text and builds a Document by chunking it.
func New(filename string, sourceType SourceType, text string, chunkSize int) (Document, error) {
	if filename == "" {
		return Document{}, fmt.Errorf("filename is required")
	}
	if text == "" {
		return Document{}, domain.ErrEmptyDocument
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return Document{
		id:         ID(filename),
		filename:   filename,
		sourceType: sourceType,
		chunks:     SplitText(text, chunkSize),
		fullText:   text,
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id, filename string, sourceType SourceType, chunks []string, fullText string) Document {
	return Document{id: id, filename: filename, sourceType: sourceType, chunks: chunks, fullText: fullText}
}

// ID derives the stable document identifier from a filename.
func ID(filename string) string {
	sum := md5.Sum([]byte(filename)) //nolint:gosec // see above
	return hex.EncodeToString(sum[:])
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Filename returns the uploaded file name.
func (d *Document) Filename() string { return d.filename }

// SourceType returns the original file format tag.
func (d *Document) SourceType() SourceType { return d.sourceType }

// Chunks returns the ordered chunk sequence. Chunk index is positional.
func (d *Document) Chunks() []string { return d.chunks }

// FullText returns the complete extracted text.
func (d *Document) FullText() string { return d.fullText }

// SourceLabel returns the display label for the chunk at index i (1-based in
// the label, matching how results cite their sources).
func (d *Document) SourceLabel(i int) string {
	return fmt.Sprintf("%s (chunk %d)", d.filename, i+1)
}
