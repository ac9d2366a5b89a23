package walk

import (
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	BitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)
)

// SoundKind identifies different sound effects.
type SoundKind int

const (
	SoundFootstep SoundKind = iota
	SoundArrival
	SoundSelect
)

// AudioSystem manages procedural sound effects.
type AudioSystem struct {
	ctx   *oto.Context
	ready chan struct{}
}

var globalAudio *AudioSystem

var sfxVolume = 0.8

// footstepVariantCounter alternates the step timbre so consecutive
// footfalls don't sound machine-stamped.
var footstepVariantCounter uint64

// InitAudio initializes the audio system.
func InitAudio() error {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
	if err != nil {
		return err
	}
	globalAudio = &AudioSystem{ctx: ctx, ready: ready}
	return nil
}

// PlaySound plays a procedurally generated sound effect.
func PlaySound(kind SoundKind) {
	if globalAudio == nil {
		return
	}
	select {
	case <-globalAudio.ready:
	default:
		return
	}
	samples := generateSound(kind)
	if len(samples) == 0 {
		return
	}
	go func() {
		reader := &soundReader{data: samples}
		player := globalAudio.ctx.NewPlayer(reader)
		player.SetVolume(sfxVolume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
}

type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// putStereoF32 writes one stereo sample pair (float32 LE) at sample index i.
func putStereoF32(buf []byte, i int, sample float64) {
	bits := math.Float32bits(float32(sample))
	o := i * 8
	buf[o+0] = byte(bits)
	buf[o+1] = byte(bits >> 8)
	buf[o+2] = byte(bits >> 16)
	buf[o+3] = byte(bits >> 24)
	buf[o+4] = byte(bits)
	buf[o+5] = byte(bits >> 8)
	buf[o+6] = byte(bits >> 16)
	buf[o+7] = byte(bits >> 24)
}

// adsr computes a simple attack/decay/sustain/release envelope for
// progress in 0..1.
func adsr(progress, attack, decay, sustain, release float64) float64 {
	switch {
	case progress < attack:
		return progress / attack
	case progress < attack+decay:
		d := (progress - attack) / decay
		return 1.0 - d*(1.0-sustain)
	case progress < 1.0-release:
		return sustain
	default:
		r := (1.0 - progress) / release
		return sustain * r
	}
}

// lcg is a tiny noise source for percussive sounds.
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>11))/float64(1<<52) - 1.0
}

func makeBuf(n int) []byte { return make([]byte, n*8) }

func generateSound(kind SoundKind) []byte {
	switch kind {
	case SoundFootstep:
		return genFootstep(atomic.AddUint64(&footstepVariantCounter, 1))
	case SoundArrival:
		return genArrival()
	case SoundSelect:
		return genSelect()
	}
	return nil
}

// genFootstep synthesizes a short, dull floor tap: a low thump plus a
// noise burst, pitched slightly differently on alternating steps.
func genFootstep(variant uint64) []byte {
	dur := 0.09
	n := int(dur * SampleRate)
	buf := makeBuf(n)
	seed := variant*0x9E3779B97F4A7C15 + 7
	base := 95.0
	if variant&1 == 0 {
		base = 82.0
	}
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		progress := float64(i) / float64(n)
		env := adsr(progress, 0.04, 0.3, 0.25, 0.5)
		thump := math.Sin(2*math.Pi*base*t) * math.Exp(-t*40)
		noise := lcg(&seed) * math.Exp(-t*70) * 0.35
		putStereoF32(buf, i, (thump*0.6+noise)*env*0.5)
	}
	return buf
}

// genArrival synthesizes the destination chime: two rising notes.
func genArrival() []byte {
	dur := 0.55
	n := int(dur * SampleRate)
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		progress := float64(i) / float64(n)
		env := adsr(progress, 0.02, 0.2, 0.5, 0.35)
		freq := 523.25 // C5
		if progress > 0.45 {
			freq = 783.99 // G5
		}
		s := math.Sin(2*math.Pi*freq*t) + 0.3*math.Sin(2*math.Pi*freq*2*t)
		putStereoF32(buf, i, s*env*0.22)
	}
	return buf
}

// genSelect synthesizes a short UI blip for destination changes.
func genSelect() []byte {
	dur := 0.08
	n := int(dur * SampleRate)
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		progress := float64(i) / float64(n)
		env := adsr(progress, 0.1, 0.2, 0.6, 0.4)
		s := math.Sin(2 * math.Pi * 880 * t)
		putStereoF32(buf, i, s*env*0.18)
	}
	return buf
}
