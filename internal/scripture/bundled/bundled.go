// Package bundled embeds the sample Book of Mormon corpus that ships with the
// binary and is served when no CORPUS_PATH is configured.
package bundled

import (
	"bytes"
	_ "embed"

	"github.com/tbourn/scripture-study/internal/scripture"
)

//go:embed bom.json
var bomJSON []byte

// Corpus decodes a fresh copy of the bundled corpus. Each call returns an
// independent value, so callers may hold it for the lifetime of a session.
func Corpus() (*scripture.Corpus, error) {
	return scripture.Load(bytes.NewReader(bomJSON))
}
