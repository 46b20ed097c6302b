package handler

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"fusion-service/internal/config"
	"fusion-service/internal/fileio"
	fusSvc "fusion-service/internal/fusion/service"
)

// Fuse returns an http.HandlerFunc so the router can wire it as
// r.Post("/fuse", fusHnd.Fuse(cfg, logger)).
func Fuse(cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		reqID := r.Header.Get("X-Request-ID")
		log := logger
		if reqID != "" {
			log = logger.With().Str("req_id", reqID).Logger()
		}

		defer r.Body.Close()
		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		// per-request threshold overrides, clamped to the config defaults
		policy := cfg.Policy
		policy.HighSimilarity = toFraction(r.FormValue("high_similarity"), policy.HighSimilarity)
		policy.MediumSimilarity = toFraction(r.FormValue("medium_similarity"), policy.MediumSimilarity)
		policy.NumericTolerance = toFraction(r.FormValue("numeric_tolerance"), policy.NumericTolerance)
		policy.RangeWidthReview = toFraction(r.FormValue("range_width_review"), policy.RangeWidthReview)

		hdr, rows, err := fileio.ReadParameterRows(file, header.Filename)
		if err != nil {
			http.Error(w, "failed to read input: "+err.Error(), http.StatusBadRequest)
			return
		}

		eng := fusSvc.NewEngine(policy, fusSvc.NewSynonymTable(cfg.Synonyms))
		res := eng.Run(rows)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			log.Error().Err(err).Msg("write json")
			return
		}

		log.Info().
			Str("file", header.Filename).
			Int("vendors", len(hdr)-1).
			Int("rows", len(rows)).
			Int("review", res.Stats.Review).
			Dur("elapsed", time.Since(start)).
			Msg("fuse done")
	}
}

// toFraction parses a (0,1] fraction, falling back to def on anything else.
func toFraction(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f <= 0 || f > 1 {
		return def
	}
	return f
}
