package truth

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/dhana112/PDF-Invoice-Extractor/internal/common"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/fields"
)

// Set maps a source-file identifier to its expected field record. It is
// read-only after Load and used only for scoring, never for extraction.
type Set map[string]fields.FieldRecord

// Load reads a ground-truth file: a JSON array of field records, each
// carrying source_file. A missing file degrades to an empty set (no accuracy
// scoring); a malformed file is a configuration error.
func Load(path string, logger *slog.Logger) (Set, error) {
	if logger == nil {
		logger = slog.Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("truth.missing", "path", path, "hint", "accuracy scoring disabled")
			return Set{}, nil
		}
		return nil, common.WrapError(err, "read ground truth")
	}

	var records []fields.FieldRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, common.WrapError(err, "parse ground truth "+path)
	}

	set := make(Set, len(records))
	for _, r := range records {
		if r.SourceFile == "" {
			logger.Warn("truth.record_without_source_file", "path", path)
			continue
		}
		set[r.SourceFile] = r
	}
	logger.Info("truth.loaded", "path", path, "records", len(set))
	return set, nil
}

// Lookup returns the expected record for a source file, if one exists.
func (s Set) Lookup(sourceFile string) (fields.FieldRecord, bool) {
	r, ok := s[sourceFile]
	return r, ok
}
