package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("laid out", "elements", 4)

	out := buf.String()
	for _, want := range []string{"laid out", "elements=4", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatal("debug should be hidden at info level")
	}
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("debug should show after SetLogLevel")
	}
}

func TestVerbosityFlags(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	tests := []struct {
		args []string
		want log.Level
	}{
		{[]string{"cache", "path"}, LogInfo},
		{[]string{"-v", "cache", "path"}, LogDebug},
		{[]string{"cache", "path", "--quiet"}, LogWarn},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			captureStdout(t)
			c := New(&bytes.Buffer{}, LogInfo)
			root := c.RootCommand()
			root.SetArgs(tt.args)
			if err := root.Execute(); err != nil {
				t.Fatal(err)
			}
			if got := c.Logger.GetLevel(); got != tt.want {
				t.Errorf("level = %s, want %s", got, tt.want)
			}
		})
	}

	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"-v", "-q", "cache", "path"})
	root.SetErr(&bytes.Buffer{})
	if root.Execute() == nil {
		t.Error("-v and -q together should be rejected")
	}
}
