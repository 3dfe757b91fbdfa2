package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedact(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want string
	}{
		{name: "plain message passes", msg: "role app_role verified", want: "role app_role verified"},
		{name: "password keyword", msg: "generated password for role", want: RedactionMarker},
		{name: "uppercase keyword", msg: "PASSWORD accepted", want: RedactionMarker},
		{name: "secret keyword", msg: "sealing secret under key", want: RedactionMarker},
		{name: "passphrase keyword", msg: "bad passphrase", want: RedactionMarker},
		{name: "credential keyword", msg: "credential file written", want: RedactionMarker},
		{name: "api key variants", msg: "rotating api_key now", want: RedactionMarker},
		{name: "embedded value never survives", msg: "password is hunter2!", want: RedactionMarker},
		{name: "empty", msg: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Redact(tt.msg))
		})
	}
}

func TestLoggerRedactsOnEveryLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug")

	log.Debug("password p1")
	log.Info("password p2")
	log.Success("password p3")
	log.Warn("password p4")
	log.Error("password p5")
	log.Infof("new password is %s", "p6")

	out := buf.String()
	assert.NotContains(t, out, "p1")
	assert.NotContains(t, out, "p2")
	assert.NotContains(t, out, "p3")
	assert.NotContains(t, out, "p4")
	assert.NotContains(t, out, "p5")
	assert.NotContains(t, out, "p6")
	assert.Equal(t, 6, strings.Count(out, RedactionMarker))
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")

	log.Info("tablespace checked")
	log.Warn("tablespace missing")

	out := buf.String()
	assert.NotContains(t, out, "tablespace checked")
	assert.Contains(t, out, "tablespace missing")
}

func TestLoggerUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "chatty")

	log.Debug("hidden at info")
	log.Info("visible at info")

	out := buf.String()
	assert.NotContains(t, out, "hidden at info")
	assert.Contains(t, out, "visible at info")
}

func TestWithRunAttachesRunID(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info").WithRun("3f6c0a1e")

	log.Info("plan started")

	assert.Contains(t, buf.String(), "3f6c0a1e")
}
