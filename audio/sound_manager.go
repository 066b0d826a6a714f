// Package audio synthesizes the engine's notification sounds with beep
// Playback is best effort: without an output device every call is a no-op
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/wrecker/event"
)

const (
	sampleRate              = beep.SampleRate(48000)
	speakerBufferDurationMs = 100

	// maxVoices bounds concurrently mixed effects; a chain reaction can fire
	// dozens of explosions within a few frames
	maxVoices = 16
)

// SoundManager owns the speaker and mixes one-shot effects
type SoundManager struct {
	mu          sync.Mutex
	cfg         *AudioConfig
	mixer       *beep.Mixer
	log         *zap.Logger
	initialized bool
	played      [soundTypeCount]uint64
	dropped     uint64
}

// NewSoundManager creates a new sound manager
func NewSoundManager(cfg *AudioConfig, logger *zap.Logger) *SoundManager {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SoundManager{
		cfg:   cfg,
		mixer: &beep.Mixer{},
		log:   logger,
	}
}

// Initialize sets up the audio system
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if !sm.cfg.Enabled {
		return ErrDisabled
	}

	// Initialize speaker with sample rate and buffer size
	rate := beep.SampleRate(sm.cfg.SampleRate)
	err := speaker.Init(rate, rate.N(time.Millisecond*speakerBufferDurationMs))
	if err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	sm.log.Debug("audio initialized", zap.Int("sample_rate", sm.cfg.SampleRate))
	return nil
}

// Cleanup stops all sounds and closes the audio system
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()

	speaker.Close()
	sm.initialized = false
}

// Play mixes one effect; intensity only shapes explosions
func (sm *SoundManager) Play(s SoundType, intensity float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	streamer := GetSoundEffect(s, sm.cfg, intensity)
	if streamer == nil {
		return
	}

	speaker.Lock()
	if sm.mixer.Len() >= maxVoices {
		speaker.Unlock()
		sm.dropped++
		return
	}
	sm.mixer.Add(streamer)
	speaker.Unlock()
	sm.played[s]++
}

// Played returns how many times s reached the mixer
func (sm *SoundManager) Played(s SoundType) uint64 {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if s < 0 || s >= soundTypeCount {
		return 0
	}
	return sm.played[s]
}

// Notify plays the voice for an engine notification
func (sm *SoundManager) Notify(ev event.GameEvent) {
	if s, intensity, ok := soundFor(ev); ok {
		sm.Play(s, intensity)
	}
}

// EventTypes lists the notifications that have a voice
func (sm *SoundManager) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventShoot,
		event.EventExplosion,
		event.EventBuild,
		event.EventLevelWon,
		event.EventInsufficientFunds,
	}
}

// Handler adapts sm to a router of any context type
func Handler[T any](sm *SoundManager) event.Handler[T] {
	return event.HandlerFunc[T]{
		Types: sm.EventTypes(),
		Fn:    func(_ T, ev event.GameEvent) { sm.Notify(ev) },
	}
}

// soundFor maps a notification to a voice
func soundFor(ev event.GameEvent) (SoundType, float64, bool) {
	switch ev.Type {
	case event.EventShoot:
		return SoundShoot, 0, true
	case event.EventExplosion:
		intensity := 1.0
		if p, ok := ev.Payload.(*event.ExplosionPayload); ok {
			intensity = float64(p.Intensity)
		}
		return SoundExplosion, intensity, true
	case event.EventBuild:
		return SoundBuild, 0, true
	case event.EventLevelWon:
		return SoundWin, 0, true
	case event.EventInsufficientFunds:
		return SoundFunds, 0, true
	}
	return 0, 0, false
}

// Dropped returns how many effects were skipped because the mixer was full
func (sm *SoundManager) Dropped() uint64 {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.dropped
}
