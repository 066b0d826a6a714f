package audio

import (
	"github.com/lixenwraith/wrecker/config"
)

// AudioConfig holds the mixer settings
type AudioConfig struct {
	Enabled       bool
	MasterVolume  float64
	SampleRate    int
	EffectVolumes map[SoundType]float64
}

// DefaultAudioConfig returns the compiled-in mix
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:      true,
		MasterVolume: 0.5,
		SampleRate:   int(sampleRate),
		EffectVolumes: map[SoundType]float64{
			SoundShoot:     0.6,
			SoundExplosion: 1.0,
			SoundBuild:     0.5,
			SoundWin:       0.7,
			SoundFunds:     0.8,
		},
	}
}

// FromConfig applies the [audio] section over the defaults
func FromConfig(c config.AudioConfig) *AudioConfig {
	cfg := DefaultAudioConfig()
	cfg.Enabled = c.Enabled
	cfg.MasterVolume = min(max(c.Volume, 0), 1)
	return cfg
}

// volume is the effective gain of one effect
func (c *AudioConfig) volume(s SoundType) float64 {
	v, ok := c.EffectVolumes[s]
	if !ok {
		v = 1
	}
	return v * c.MasterVolume
}
