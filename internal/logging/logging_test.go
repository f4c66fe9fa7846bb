package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Format: JSONFormat, Level: InfoLevel, Output: &buf})

	log.Info("analysis complete", map[string]interface{}{"files": 3})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
	if entry["message"] != "analysis complete" {
		t.Errorf("message = %v", entry["message"])
	}
	fields, ok := entry["fields"].(map[string]interface{})
	if !ok {
		t.Fatalf("fields missing: %v", entry)
	}
	if fields["files"] != float64(3) {
		t.Errorf("files = %v", fields["files"])
	}
	if entry["timestamp"] == nil {
		t.Error("entries need a timestamp")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Format: JSONFormat, Level: WarnLevel, Output: &buf})

	log.Debug("hidden", nil)
	log.Info("hidden", nil)
	if buf.Len() != 0 {
		t.Errorf("below-threshold messages leaked: %s", buf.String())
	}

	log.Warn("visible", nil)
	if buf.Len() == 0 {
		t.Error("warn should pass a warn threshold")
	}
}

func TestHumanFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Format: HumanFormat, Level: InfoLevel, Output: &buf})

	log.Error("lookup failed", map[string]interface{}{"type": "field"})

	out := buf.String()
	if !strings.Contains(out, "lookup failed") || !strings.Contains(out, "type=field") {
		t.Errorf("unexpected human output: %q", out)
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Format: JSONFormat, Level: InfoLevel, Output: &buf})

	child := log.With(map[string]interface{}{"component": "estimator"})
	child.Info("starting", nil)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	fields, _ := entry["fields"].(map[string]interface{})
	if fields["component"] != "estimator" {
		t.Errorf("bound field missing: %v", entry)
	}

	// The parent is unaffected.
	buf.Reset()
	log.Info("plain", nil)
	if strings.Contains(buf.String(), "estimator") {
		t.Error("With must not mutate the parent logger")
	}
}
