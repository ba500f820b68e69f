// Package remote turns decoded OSC messages into show-control actions.
package remote

// Kind names an Action variant. It is also the "type" field of the JSON envelope.
type Kind string

const (
	KindSoundPlay     Kind = "sound_play"
	KindSoundStop     Kind = "sound_stop"
	KindSoundSeek     Kind = "sound_seek"
	KindSoundFade     Kind = "sound_fade"
	KindSoundPlaylist Kind = "sound_playlist"
	KindSoundStinger  Kind = "sound_stinger"
	KindMediaShow     Kind = "media_show"
	KindSpinboxChange Kind = "spinbox_change"
	KindButtonPress   Kind = "button_press"
	KindSfxPlay       Kind = "sfx_play"
	KindSfxStopAll    Kind = "sfx_stop_all"
)

// Action is one of the show-control commands below. The set is closed.
type Action interface {
	Kind() Kind
	action()
}

// SoundPlay plays the sound matching TagQuery.
type SoundPlay struct {
	TagQuery string `json:"tag_query"`
}

// SoundStop stops the current sound.
type SoundStop struct{}

// SoundSeek plays the sound matching TagQuery from SeekSeconds.
type SoundSeek struct {
	SeekSeconds float64 `json:"seek_seconds"`
	TagQuery    string  `json:"tag_query"`
}

// SoundFade fades the current sound out over FadeSeconds.
type SoundFade struct {
	FadeSeconds float64 `json:"fade_seconds"`
}

// SoundPlaylist starts the named playlist.
type SoundPlaylist struct {
	PlaylistName string `json:"playlist_name"`
}

// SoundStinger plays a short stinger over the current sound.
type SoundStinger struct {
	TagQuery string `json:"tag_query"`
}

// MediaShow shows the media matching TagQuery on Monitor.
type MediaShow struct {
	Monitor  string `json:"monitor"`
	TagQuery string `json:"tag_query"`
}

// SpinboxChange adjusts a counter, such as a team score, by Delta.
type SpinboxChange struct {
	ControlID string  `json:"control_id"`
	Delta     float64 `json:"delta"`
}

// ButtonPress presses a control. ControlID may be empty.
type ButtonPress struct {
	ControlID string `json:"control_id"`
}

// SfxPlay plays a sound effect.
type SfxPlay struct {
	TagQuery string `json:"tag_query"`
}

// SfxStopAll stops every playing sound effect.
type SfxStopAll struct{}

func (SoundPlay) Kind() Kind     { return KindSoundPlay }
func (SoundStop) Kind() Kind     { return KindSoundStop }
func (SoundSeek) Kind() Kind     { return KindSoundSeek }
func (SoundFade) Kind() Kind     { return KindSoundFade }
func (SoundPlaylist) Kind() Kind { return KindSoundPlaylist }
func (SoundStinger) Kind() Kind  { return KindSoundStinger }
func (MediaShow) Kind() Kind     { return KindMediaShow }
func (SpinboxChange) Kind() Kind { return KindSpinboxChange }
func (ButtonPress) Kind() Kind   { return KindButtonPress }
func (SfxPlay) Kind() Kind       { return KindSfxPlay }
func (SfxStopAll) Kind() Kind    { return KindSfxStopAll }

func (SoundPlay) action()     {}
func (SoundStop) action()     {}
func (SoundSeek) action()     {}
func (SoundFade) action()     {}
func (SoundPlaylist) action() {}
func (SoundStinger) action()  {}
func (MediaShow) action()     {}
func (SpinboxChange) action() {}
func (ButtonPress) action()   {}
func (SfxPlay) action()       {}
func (SfxStopAll) action()    {}
