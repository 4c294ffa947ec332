package db

import (
	"os"
	"strings"
)

// IsPostgresDSN reports whether the DSN targets postgres, either in URL form
// or as a lib/pq key=value list. Anything else is treated as a sqlite file
// path, which is the historical default deployment.
func IsPostgresDSN(raw string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	if strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://") {
		return true
	}
	for _, kv := range []string{"host=", "dbname=", "user="} {
		if strings.Contains(s, kv) {
			return true
		}
	}
	return false
}

// NormalizeDSN trims quotes and whitespace and strips the sqlite:/// prefix
// some configurations carry over from the previous deployment.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if strings.HasPrefix(strings.ToLower(s), "sqlite:///") {
		s = strings.TrimPrefix(s, "sqlite:///")
		s = strings.TrimPrefix(s, "./")
	}
	if IsPostgresDSN(s) && !strings.HasPrefix(strings.ToLower(s), "postgres") {
		// key=value list: ensure sslmode present (default disable)
		if !strings.Contains(strings.ToLower(s), "sslmode=") {
			s = strings.Join(strings.Fields(s), " ") + " sslmode=disable"
		}
	}
	return s
}

// GetNormalizedDSN fetches DATABASE_DSN and normalizes it.
func GetNormalizedDSN() string { return NormalizeDSN(os.Getenv("DATABASE_DSN")) }
