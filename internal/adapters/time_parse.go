package adapters

import (
	"strings"
	"time"
)

var manifestTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02 15:04:05",
}

// normalizeGeneratedAt rewrites a hand-edited generated_at value into
// RFC3339 UTC. Values no layout accepts are returned trimmed.
func normalizeGeneratedAt(value string) string {
	trimmed := strings.TrimSpace(value)
	if ts := parseManifestTime(trimmed); !ts.IsZero() {
		return ts.Format(time.RFC3339)
	}
	return trimmed
}

func parseManifestTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range manifestTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}
