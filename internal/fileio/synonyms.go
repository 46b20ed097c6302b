package fileio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadSynonyms reads surface,canonical pairs from a CSV file, any encoding
// decodeReader can sniff. Lines with fewer than two fields and lines
// starting with # are skipped.
func LoadSynonyms(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open synonyms: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(decodeReader(f))
	cr.FieldsPerRecord = -1
	cr.Comment = '#'

	out := make(map[string]string)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse synonyms %s: %w", path, err)
		}
		if len(rec) < 2 {
			continue
		}
		surface := strings.TrimSpace(rec[0])
		canonical := strings.TrimSpace(rec[1])
		if surface == "" || canonical == "" {
			continue
		}
		out[surface] = canonical
	}
	return out, nil
}
