package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"fusion-service/internal/fusion/model"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	MaxUploadMB  int
	LogFile      string
	RulesFile    string // optional YAML with per-parameter rules
	SynonymsFile string // optional CSV with surface,canonical pairs
	Policy       model.Policy
	Synonyms     map[string]string
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "256"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")

	policy := model.DefaultPolicy()
	policy.HighSimilarity = getenvFraction("FUSION_HIGH_SIMILARITY", policy.HighSimilarity)
	policy.MediumSimilarity = getenvFraction("FUSION_MEDIUM_SIMILARITY", policy.MediumSimilarity)
	policy.NumericTolerance = getenvFraction("FUSION_NUMERIC_TOLERANCE", policy.NumericTolerance)
	policy.RangeWidthReview = getenvFraction("FUSION_RANGE_WIDTH_REVIEW", policy.RangeWidthReview)

	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         port,
		AllowOrigins: origins,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		MaxUploadMB:  mb,
		LogFile:      getenv("LOG_FILE", "logs/fusion-service.log"),
		RulesFile:    getenv("RULES_FILE", ""),
		SynonymsFile: getenv("SYNONYMS_FILE", ""),
		Policy:       policy,
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// LoadRules merges per-parameter rules from the YAML file into the policy.
// No file configured means defaults apply.
func (c *Config) LoadRules() error {
	if c.RulesFile == "" {
		return nil
	}
	b, err := os.ReadFile(c.RulesFile)
	if err != nil {
		return fmt.Errorf("read rules file: %w", err)
	}
	rules := map[string]model.Rule{}
	if err := yaml.Unmarshal(b, &rules); err != nil {
		return fmt.Errorf("parse rules file %s: %w", c.RulesFile, err)
	}
	c.Policy.Rules = rules
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getenvFraction reads a (0,1] threshold, falling back on anything invalid.
func getenvFraction(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 || f > 1 {
		return def
	}
	return f
}
