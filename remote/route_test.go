package remote

import (
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chabad360/improtron-osc/osc"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name string
		msg  *osc.Message
		want Action
	}{
		{"sound_play", osc.NewMessage(AddrSoundPlay, "intro music"), SoundPlay{TagQuery: "intro music"}},
		{"sound_stop", osc.NewMessage(AddrSoundStop), SoundStop{}},
		{"sound_stop_extra_args", osc.NewMessage(AddrSoundStop, "ignored"), SoundStop{}},
		{"sound_seek", osc.NewMessage(AddrSoundSeek, float32(3.5), "theme"), SoundSeek{SeekSeconds: 3.5, TagQuery: "theme"}},
		{"sound_seek_joined", osc.NewMessage(AddrSoundSeek, int32(10), "theme", "song"), SoundSeek{SeekSeconds: 10, TagQuery: "theme song"}},
		{"sound_seek_string_number", osc.NewMessage(AddrSoundSeek, " 1.25 ", "x"), SoundSeek{SeekSeconds: 1.25, TagQuery: "x"}},
		{"sound_fade", osc.NewMessage(AddrSoundFade, float32(2)), SoundFade{FadeSeconds: 2}},
		{"sound_fade_string", osc.NewMessage(AddrSoundFade, "2.5"), SoundFade{FadeSeconds: 2.5}},
		{"sound_playlist", osc.NewMessage(AddrSoundPlaylist, "act one"), SoundPlaylist{PlaylistName: "act one"}},
		{"sound_stinger", osc.NewMessage(AddrSoundStinger, "rimshot"), SoundStinger{TagQuery: "rimshot"}},
		{"media_show", osc.NewMessage(AddrMediaShow, "main", "logo", "static"), MediaShow{Monitor: "main", TagQuery: "logo static"}},
		{"media_show_lowercase", osc.NewMessage(AddrMediaShow, "AUX"), MediaShow{Monitor: "aux", TagQuery: ""}},
		{"spinbox_change", osc.NewMessage(AddrSpinboxChange, "team1", float32(-1)), SpinboxChange{ControlID: "team1", Delta: -1}},
		{"spinbox_change_int", osc.NewMessage(AddrSpinboxChange, "team2", int32(5)), SpinboxChange{ControlID: "team2", Delta: 5}},
		{"spinbox_change_string", osc.NewMessage(AddrSpinboxChange, "team2", "0.5"), SpinboxChange{ControlID: "team2", Delta: 0.5}},
		{"button_press", osc.NewMessage(AddrButtonPress, "blackout"), ButtonPress{ControlID: "blackout"}},
		{"button_press_no_id", osc.NewMessage(AddrButtonPress), ButtonPress{ControlID: ""}},
		{"button_press_int_id", osc.NewMessage(AddrButtonPress, int32(3)), ButtonPress{ControlID: "3"}},
		{"sfx_play", osc.NewMessage(AddrSfxPlay, "airhorn"), SfxPlay{TagQuery: "airhorn"}},
		{"sfx_play_empty_stops", osc.NewMessage(AddrSfxPlay, ""), SfxStopAll{}},
		{"sfx_stop", osc.NewMessage(AddrSfxStop), SfxStopAll{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Route(tt.msg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoute_Errors(t *testing.T) {
	tests := []struct {
		name  string
		msg   *osc.Message
		want  error
		level slog.Level
	}{
		{"sound_play_missing", osc.NewMessage(AddrSoundPlay), ErrMissingArgument, slog.LevelWarn},
		{"sound_seek_one_arg", osc.NewMessage(AddrSoundSeek, float32(1)), ErrMissingArgument, slog.LevelWarn},
		{"sound_seek_bad_number", osc.NewMessage(AddrSoundSeek, "soon", "theme"), ErrNotNumeric, slog.LevelError},
		{"sound_fade_missing", osc.NewMessage(AddrSoundFade), ErrMissingArgument, slog.LevelWarn},
		{"sound_fade_abc", osc.NewMessage(AddrSoundFade, "abc"), ErrNotNumeric, slog.LevelError},
		{"sound_fade_nan", osc.NewMessage(AddrSoundFade, "NaN"), ErrNotNumeric, slog.LevelError},
		{"sound_fade_inf", osc.NewMessage(AddrSoundFade, "+Inf"), ErrNotNumeric, slog.LevelError},
		{"sound_playlist_missing", osc.NewMessage(AddrSoundPlaylist), ErrMissingArgument, slog.LevelWarn},
		{"sound_stinger_missing", osc.NewMessage(AddrSoundStinger), ErrMissingArgument, slog.LevelWarn},
		{"media_show_missing", osc.NewMessage(AddrMediaShow), ErrMissingArgument, slog.LevelWarn},
		{"spinbox_one_arg", osc.NewMessage(AddrSpinboxChange, "team1"), ErrMissingArgument, slog.LevelWarn},
		{"spinbox_bad_delta", osc.NewMessage(AddrSpinboxChange, "team1", "up"), ErrNotNumeric, slog.LevelError},
		{"sfx_play_missing", osc.NewMessage(AddrSfxPlay), ErrMissingArgument, slog.LevelWarn},
		{"unknown", osc.NewMessage("/unknown/address", int32(1), "x"), ErrUnhandledAddress, slog.LevelInfo},
		{"case_sensitive", osc.NewMessage("/Sound/Play", "x"), ErrUnhandledAddress, slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Route(tt.msg)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, tt.want), "Route() error = %v, want %v", err, tt.want)
			assert.Equal(t, tt.level, Level(err))
		})
	}
}

func TestArgString(t *testing.T) {
	assert.Equal(t, "abc", argString("abc"))
	assert.Equal(t, "-7", argString(int32(-7)))
	assert.Equal(t, "2.5", argString(float32(2.5)))
	assert.Equal(t, "0.1", argString(float32(0.1)))
	assert.Equal(t, "", argString(nil))
}
