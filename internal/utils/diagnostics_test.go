package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestDiagnosticSystem_Levels(t *testing.T) {
	tests := []struct {
		name    string
		diag    *DiagnosticSystem
		visible []string
		hidden  []string
	}{
		{"quiet", NewQuietDiagnostics(), []string{"[ERROR]"}, []string{"[WARN]", "[INFO]", "[DEBUG]"}},
		{"warn", NewDiagnosticSystem(DiagnosticWarn), []string{"[ERROR]", "[WARN]"}, []string{"[INFO]", "[DEBUG]"}},
		{"verbose", NewVerboseDiagnostics(), []string{"[ERROR]", "[WARN]", "[INFO]", "[VERBOSE]", "[DEBUG]"}, nil},
		{"silent", NewDiagnosticSystem(DiagnosticSilent), nil, []string{"[ERROR]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.diag.SetOutput(&buf)

			tt.diag.Error("e")
			tt.diag.Warn("w")
			tt.diag.Info("i")
			tt.diag.Verbose("v")
			tt.diag.Debug("d")

			out := buf.String()
			for _, tag := range tt.visible {
				if !strings.Contains(out, tag) {
					t.Errorf("expected %s in output %q", tag, out)
				}
			}
			for _, tag := range tt.hidden {
				if strings.Contains(out, tag) {
					t.Errorf("expected no %s in output %q", tag, out)
				}
			}
		})
	}
}

func TestDiagnosticSystem_LoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	d := NewVerboseDiagnostics()
	d.SetOutput(&buf)

	d.Debugf("cycle on %s", "node")
	d.Warnf("setter %s failed", "SetName")

	out := buf.String()
	if !strings.Contains(out, "[DEBUG] cycle on node\n") {
		t.Errorf("unexpected debug output %q", out)
	}
	if !strings.Contains(out, "[WARN] setter SetName failed\n") {
		t.Errorf("unexpected warn output %q", out)
	}
}

func TestDiagnosticSystem_Formatting(t *testing.T) {
	var buf bytes.Buffer
	d := NewDiagnosticSystem(DiagnosticInfo)
	d.SetOutput(&buf)

	d.Indent()
	d.List("item %d", 1)
	d.Unindent()
	d.Unindent()
	d.Summary("Done", map[string]interface{}{"b": 2, "a": 1})

	want := "  - item 1\n\nDone\n   a: 1\n   b: 2\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
	if d.Level() != DiagnosticInfo {
		t.Errorf("expected info level, got %v", d.Level())
	}
}
