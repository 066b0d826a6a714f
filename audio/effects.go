package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveTriangle
	WaveNoise
)

// Voice timings
const (
	shootDuration  = 250 * time.Millisecond
	shootAttack    = 5 * time.Millisecond
	shootRelease   = 120 * time.Millisecond
	shootFreqStart = 880.0
	shootFreqEnd   = 220.0
	blastMinLength = 300 * time.Millisecond
	blastMaxLength = 1200 * time.Millisecond
	blastAttack    = 2 * time.Millisecond
	blastRumbleHz  = 55.0
	buildNote      = 120 * time.Millisecond
	buildAttack    = 5 * time.Millisecond
	buildRelease   = 60 * time.Millisecond
	winNote        = 140 * time.Millisecond
	winRelease     = 90 * time.Millisecond
	fundsDuration  = 200 * time.Millisecond
	fundsFrequency = 110.0
	fundsAttack    = 5 * time.Millisecond
	fundsRelease   = 50 * time.Millisecond
)

// winArpeggio is C5 E5 G5 C6
var winArpeggio = []float64{523.25, 659.25, 783.99, 1046.50}

// oscillator generates raw audio waves, optionally sweeping frequency
// linearly from freq to freqEnd over its duration
type oscillator struct {
	freq     float64
	freqEnd  float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a new oscillator for wave generation
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, freq, duration, wave, rate)
}

// NewSweep creates an oscillator gliding from freqStart to freqEnd
func NewSweep(freqStart, freqEnd float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freqStart,
		freqEnd:  freqEnd,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveTriangle:
			val = 1 - 4*math.Abs(o.phase-0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		freq := o.freq
		if o.freqEnd != o.freq && o.duration > 0 {
			freq += (o.freqEnd - o.freq) * float64(o.position) / float64(o.duration)
		}
		o.phase += freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope creates an ADSR envelope (simplified to just attack/release)
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0

		// Attack phase
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		// Release phase
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			remaining := e.totalSamples - e.position
			vol = max(float64(remaining)/float64(e.releaseSamples), 0)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// Helper to create a volume effect safely
// math.Log2(0) is -Inf, so we handle 0 volume by making it silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// Sound effect generators

// CreateShootSound generates a falling triangle sweep for a launch
func CreateShootSound(cfg *AudioConfig) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	sweep := NewSweep(shootFreqStart, shootFreqEnd, shootDuration, WaveTriangle, rate)
	shaped := NewEnvelope(sweep, shootDuration, shootAttack, shootRelease, rate)

	return newVolume(shaped, cfg.volume(SoundShoot))
}

// CreateExplosionSound generates a noise burst over a low rumble
// Intensity in [0, 1] stretches the tail and raises the level
func CreateExplosionSound(cfg *AudioConfig, intensity float64) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	intensity = min(max(intensity, 0), 1)

	length := blastMinLength + time.Duration(float64(blastMaxLength-blastMinLength)*intensity)
	release := length * 3 / 4

	noise := NewEnvelope(NewOscillator(0, length, WaveNoise, rate), length, blastAttack, release, rate)
	rumble := NewEnvelope(NewOscillator(blastRumbleHz, length, WaveSine, rate), length, blastAttack, release, rate)

	mixed := beep.Mix(
		newVolume(noise, 0.6),
		newVolume(rumble, 0.4),
	)

	return newVolume(mixed, cfg.volume(SoundExplosion)*(0.4+0.6*intensity))
}

// CreateBuildSound generates a rising two-tone chime
func CreateBuildSound(cfg *AudioConfig) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	n1 := NewEnvelope(NewOscillator(440, buildNote, WaveSquare, rate), buildNote, buildAttack, buildRelease, rate)
	n2 := NewEnvelope(NewOscillator(660, buildNote, WaveSquare, rate), buildNote, buildAttack, buildRelease, rate)

	return newVolume(beep.Seq(n1, n2), cfg.volume(SoundBuild))
}

// CreateWinSound generates a major arpeggio
func CreateWinSound(cfg *AudioConfig) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	notes := make([]beep.Streamer, 0, len(winArpeggio))
	for _, f := range winArpeggio {
		osc := NewOscillator(f, winNote, WaveSine, rate)
		notes = append(notes, NewEnvelope(osc, winNote, buildAttack, winRelease, rate))
	}

	return newVolume(beep.Seq(notes...), cfg.volume(SoundWin))
}

// CreateFundsSound generates a short harsh buzz
func CreateFundsSound(cfg *AudioConfig) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	osc := NewOscillator(fundsFrequency, fundsDuration, WaveSaw, rate)
	shaped := NewEnvelope(osc, fundsDuration, fundsAttack, fundsRelease, rate)

	return newVolume(shaped, cfg.volume(SoundFunds))
}

// GetSoundEffect returns the streamer for soundType; intensity only affects explosions
func GetSoundEffect(soundType SoundType, cfg *AudioConfig, intensity float64) beep.Streamer {
	switch soundType {
	case SoundShoot:
		return CreateShootSound(cfg)
	case SoundExplosion:
		return CreateExplosionSound(cfg, intensity)
	case SoundBuild:
		return CreateBuildSound(cfg)
	case SoundWin:
		return CreateWinSound(cfg)
	case SoundFunds:
		return CreateFundsSound(cfg)
	default:
		return nil
	}
}
