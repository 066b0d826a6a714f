package audio

import (
	"errors"
)

// SoundType represents different sound effects
type SoundType int

const (
	SoundShoot     SoundType = iota // Projectile launch sweep
	SoundExplosion                  // Noise burst scaled by blast intensity
	SoundBuild                      // Two-tone placement chime
	SoundWin                        // Level complete arpeggio
	SoundFunds                      // Insufficient funds buzz
	soundTypeCount
)

var soundNames = [soundTypeCount]string{
	SoundShoot:     "shoot",
	SoundExplosion: "explosion",
	SoundBuild:     "build",
	SoundWin:       "win",
	SoundFunds:     "funds",
}

func (s SoundType) String() string {
	if s >= 0 && s < soundTypeCount {
		return soundNames[s]
	}
	return "unknown"
}

// ErrDisabled is returned by Initialize when the config turns audio off
var ErrDisabled = errors.New("audio disabled")
