package document

import (
	"encoding/json"
	"fmt"
	"strconv"

	domdoc "github.com/finsight-cloud/finsight/internal/domain/document"
)

// Hash field names. Double underscore keeps them clear of future metadata.
const (
	fieldFilename   = "__filename"
	fieldSourceType = "__source_type"
	fieldChunks     = "__chunks"
	fieldFullText   = "__full_text"
	fieldSeq        = "__seq"
)

// buildHashFields converts a domain Document into a flat map for HSET. seq is
// the insertion order number the corpus is listed by.
func buildHashFields(doc *domdoc.Document, seq int64) (map[string]string, error) {
	chunks, err := json.Marshal(doc.Chunks())
	if err != nil {
		return nil, fmt.Errorf("marshal chunks: %w", err)
	}
	return map[string]string{
		fieldFilename:   doc.Filename(),
		fieldSourceType: string(doc.SourceType()),
		fieldChunks:     string(chunks),
		fieldFullText:   doc.FullText(),
		fieldSeq:        strconv.FormatInt(seq, 10),
	}, nil
}

// parseHashFields converts a flat hash map back into a domain Document plus
// its insertion sequence number.
func parseHashFields(id string, m map[string]string) (domdoc.Document, int64, error) {
	var chunks []string
	if raw := m[fieldChunks]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &chunks); err != nil {
			return domdoc.Document{}, 0, fmt.Errorf("unmarshal chunks of %s: %w", id, err)
		}
	}

	seq, err := strconv.ParseInt(m[fieldSeq], 10, 64)
	if err != nil {
		seq = 0
	}

	doc := domdoc.Reconstruct(
		id,
		m[fieldFilename],
		domdoc.ParseSourceType(m[fieldSourceType]),
		chunks,
		m[fieldFullText],
	)
	return doc, seq, nil
}
