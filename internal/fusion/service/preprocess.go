package service

import (
	"strings"

	"fusion-service/internal/fusion/model"
)

// Preprocess turns one vendor cell into a StructuredValue: relevant-segment
// extraction for bundled cells, normalization, numeric parse, Text fallback
// with synonym tokens precomputed. Pure per-cell transformation, no
// cross-cell state.
func (e *Engine) Preprocess(cell model.VendorCell, paramName string) model.StructuredValue {
	// Raw keeps the extracted segment, not the whole bundle: fused output
	// must surface only the part that answers this parameter.
	raw := strings.TrimSpace(extractRelevant(cell.Raw, paramName))
	norm := Normalize(raw)
	if norm == "" {
		return model.StructuredValue{Kind: model.KindEmpty, Vendor: cell.Vendor, Raw: raw}
	}

	if sv, ok := ParseNumeric(norm); ok {
		sv.Vendor = cell.Vendor
		sv.Raw = raw
		sv.Key = CompareKey(raw)
		return sv
	}

	return model.StructuredValue{
		Kind:   model.KindText,
		Vendor: cell.Vendor,
		Raw:    raw,
		Norm:   norm,
		Key:    CompareKey(raw),
		Tokens: e.synonyms.Resolve(norm),
	}
}

// preprocessRow maps Preprocess over a row's cells, column order preserved.
func (e *Engine) preprocessRow(row model.ParameterRow) []model.StructuredValue {
	out := make([]model.StructuredValue, len(row.Cells))
	for i, cell := range row.Cells {
		out[i] = e.Preprocess(cell, row.Name)
	}
	return out
}
