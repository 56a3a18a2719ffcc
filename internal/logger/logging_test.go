package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestDetailsIgnoresGlobalLevel(t *testing.T) {
	prev := log.GetLevel()
	log.SetLevel(log.WarnLevel)
	defer log.SetLevel(prev)

	var buf bytes.Buffer
	Details(&buf).Info("picked", "word", "banana")
	out := buf.String()
	if !strings.Contains(out, "details") || !strings.Contains(out, "word=banana") {
		t.Errorf("details output = %q", out)
	}
}

func TestTiming(t *testing.T) {
	var buf bytes.Buffer
	l := Timing(&buf)
	l.Debug("hidden")
	l.Info("queries", "count", 3)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line logged: %q", out)
	}
	if !strings.Contains(out, "time") || !strings.Contains(out, "count=3") {
		t.Errorf("timing output = %q", out)
	}
}

func TestDiscard(t *testing.T) {
	l := Discard("test")
	if l.GetLevel() != log.FatalLevel {
		t.Errorf("level = %v, want fatal", l.GetLevel())
	}
	l.Error("dropped")
}
