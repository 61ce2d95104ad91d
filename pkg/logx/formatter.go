package logx

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Fields is a map of structured log fields
type Fields map[string]interface{}

// Event is a single log record handed to a Formatter
type Event struct {
	Time    time.Time
	Level   Level
	Message string
	Fields  Fields
}

// Formatter renders an Event into a line of output
type Formatter interface {
	Format(e *Event) []byte
}

// ConsoleFormatter writes human-readable single-line entries
type ConsoleFormatter struct {
	timeFormat string
}

// NewConsoleFormatter creates a console formatter
func NewConsoleFormatter(config *Config) *ConsoleFormatter {
	return &ConsoleFormatter{timeFormat: config.TimeFormat}
}

// Format implements Formatter
func (f *ConsoleFormatter) Format(e *Event) []byte {
	var b strings.Builder

	b.WriteString(e.Time.Format(f.timeFormat))
	b.WriteString(" | ")
	b.WriteString(fmt.Sprintf("%-5s", e.Level.String()))
	b.WriteString(" | ")
	b.WriteString(e.Message)

	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(" |")
		for _, k := range keys {
			b.WriteString(fmt.Sprintf(" %s=%v", k, e.Fields[k]))
		}
	}

	b.WriteByte('\n')
	return []byte(b.String())
}

// JSONFormatter writes one JSON object per line
type JSONFormatter struct {
	timeFormat string
}

// NewJSONFormatter creates a JSON formatter
func NewJSONFormatter(config *Config) *JSONFormatter {
	return &JSONFormatter{timeFormat: time.RFC3339}
}

// Format implements Formatter
func (f *JSONFormatter) Format(e *Event) []byte {
	record := make(map[string]interface{}, len(e.Fields)+3)
	for k, v := range e.Fields {
		record[k] = v
	}
	record["time"] = e.Time.Format(f.timeFormat)
	record["level"] = e.Level.String()
	record["message"] = e.Message

	data, err := json.Marshal(record)
	if err != nil {
		// Fall back to a minimal record rather than dropping the entry
		data = []byte(fmt.Sprintf(`{"level":%q,"message":%q,"marshal_error":%q}`,
			e.Level.String(), e.Message, err.Error()))
	}

	return append(data, '\n')
}
