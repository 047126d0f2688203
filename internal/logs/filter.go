package logs

import (
	"encoding/json"
	"strconv"
	"strings"

	"scribe/internal/logging"
)

// Filter selects log lines by structured field. Zero fields match everything.
type Filter struct {
	CorrelationID string
	VersionID     string
	// MinLevel is one of debug, info, warn, error.
	MinLevel string
}

// Empty reports whether f matches every line.
func (f Filter) Empty() bool {
	return f.CorrelationID == "" && f.VersionID == "" && levelRank(f.MinLevel) == 0
}

// Match reports whether line satisfies f.
func (f Filter) Match(line string) bool {
	if f.Empty() {
		return true
	}
	fields := parseLine(line)
	if fields == nil {
		return false
	}
	if f.CorrelationID != "" && fields[logging.FieldCorrelationID] != f.CorrelationID {
		return false
	}
	if f.VersionID != "" && fields[logging.FieldVersionID] != f.VersionID {
		return false
	}
	return levelRank(fields["level"]) >= levelRank(f.MinLevel)
}

// parseLine extracts string fields from a JSON or console log line.
func parseLine(line string) map[string]string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if strings.HasPrefix(line, "{") {
		var raw map[string]any
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return nil
		}
		fields := make(map[string]string, len(raw))
		for key, value := range raw {
			if s, ok := value.(string); ok {
				fields[key] = s
			}
		}
		return fields
	}

	// Console lines: "<time> <LEVEL> <component>: <message> key=value ..."
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return nil
	}
	fields := map[string]string{"level": parts[1]}
	for _, part := range parts[2:] {
		key, value, ok := strings.Cut(part, "=")
		if !ok || key == "" {
			continue
		}
		if unquoted, err := strconv.Unquote(value); err == nil {
			value = unquoted
		}
		fields[key] = value
	}
	return fields
}

func levelRank(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return 1
	case "info":
		return 2
	case "warn", "warning":
		return 3
	case "error":
		return 4
	default:
		return 0
	}
}
