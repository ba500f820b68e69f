package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chabad360/improtron-osc/config"
	"github.com/chabad360/improtron-osc/osc"
	"github.com/chabad360/improtron-osc/remote"
)

func TestParseArg(t *testing.T) {
	tests := []struct {
		in       string
		asString bool
		want     interface{}
	}{
		{"12", false, int32(12)},
		{"-3", false, int32(-3)},
		{"3.5", false, float32(3.5)},
		{"99999999999", false, float32(99999999999)},
		{"theme", false, "theme"},
		{"infinity", false, "infinity"},
		{"NaN", false, "NaN"},
		{"", false, ""},
		{"2.5", true, "2.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseArg(tt.in, tt.asString), "parseArg(%q, %v)", tt.in, tt.asString)
	}
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("/sound/seek", []string{"3.5", "theme"}, false)
	assert.Equal(t, osc.NewMessage("/sound/seek", float32(3.5), "theme"), msg)

	assert.Equal(t, osc.NewMessage("/sound/stop"), buildMessage("/sound/stop", nil, false))
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"error":   slog.LevelError,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
	} {
		got, err := parseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseLogLevel("verbose")
	assert.Error(t, err)
}

func TestSendCommand(t *testing.T) {
	c, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer c.Close()

	out := new(bytes.Buffer)
	RootCmd.SetOut(out)
	RootCmd.SetArgs([]string{"send", "--addr", c.LocalAddr().String(), "/media/show", "main", "logo"})
	require.NoError(t, RootCmd.Execute())
	assert.Contains(t, out.String(), "sent /media/show")

	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, osc.MaxPacketSize)
	n, _, err := c.ReadFrom(buf)
	require.NoError(t, err)

	msg, err := osc.Decode(buf[:n])
	require.NoError(t, err)
	assert.Equal(t, osc.NewMessage("/media/show", "main", "logo"), msg)
}

func TestRunServe_BindFailureKeepsRunning(t *testing.T) {
	busy, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	cfg := config.DefaultConfig()
	cfg.OSC.Listen = busy.LocalAddr().String()
	cfg.Events.Enabled = false

	logs := new(bytes.Buffer)
	logger := slog.New(slog.NewTextHandler(logs, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, cfg, logger) }()

	select {
	case err := <-done:
		t.Fatalf("runServe returned early: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runServe did not stop after cancel")
	}
	assert.Contains(t, logs.String(), "osc remote control unavailable")
}

func TestCueLog(t *testing.T) {
	logs := new(bytes.Buffer)
	hooks := cueLog(slog.New(slog.NewTextHandler(logs, nil)))

	hooks.Emit(remote.MediaShow{Monitor: "main", TagQuery: "logo static"})
	hooks.Emit(remote.SpinboxChange{ControlID: "team1", Delta: -1})
	hooks.Emit(remote.SfxStopAll{})

	out := logs.String()
	assert.Contains(t, out, `action=media_show monitor=main tag_query="logo static"`)
	assert.Contains(t, out, "action=spinbox_change control=team1 delta=-1")
	assert.Contains(t, out, "action=sfx_stop_all")
}
