// Package sfx plays short synthesized sounds. There are no audio assets:
// every effect is PCM generated at init and handed to the shared audio
// context, so a broken audio device degrades to silence instead of an error.
package sfx

import (
	"encoding/binary"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/marbles/common"
)

const sampleRate = 44100

var audioContext = audio.NewContext(sampleRate)

var (
	clackPCM []byte
	winPCM   []byte
	losePCM  []byte
	coinPCM  []byte
)

func init() {
	clackPCM = tone(1700, 0.05, 60)
	coinPCM = mix(tone(988, 0.09, 18), tone(1319, 0.18, 12))
	winPCM = mix(tone(523, 0.4, 6), tone(659, 0.4, 6), tone(784, 0.4, 6))
	losePCM = mix(tone(220, 0.5, 5), tone(233, 0.5, 5))
}

// tone renders a sine burst with an exponential decay envelope as 16-bit
// stereo PCM.
func tone(freq, seconds, decay float64) []byte {
	n := int(seconds * sampleRate)
	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		v := math.Sin(2*math.Pi*freq*t) * math.Exp(-decay*t)
		s := int16(v * 0.6 * math.MaxInt16)
		binary.LittleEndian.PutUint16(out[i*4:], uint16(s))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(s))
	}
	return out
}

// mix sums PCM buffers sample-wise, clipping at full scale. The result is as
// long as the longest input.
func mix(buffers ...[]byte) []byte {
	maxLen := 0
	for _, b := range buffers {
		if len(b) > maxLen {
			maxLen = len(b)
		}
	}
	out := make([]byte, maxLen)
	for i := 0; i+1 < maxLen; i += 2 {
		sum := 0
		for _, b := range buffers {
			if i+1 < len(b) {
				sum += int(int16(binary.LittleEndian.Uint16(b[i:])))
			}
		}
		if sum > math.MaxInt16 {
			sum = math.MaxInt16
		}
		if sum < math.MinInt16 {
			sum = math.MinInt16
		}
		binary.LittleEndian.PutUint16(out[i:], uint16(int16(sum)))
	}
	return out
}

func play(pcm []byte, volume float64) {
	if len(pcm) == 0 {
		return
	}
	p := audioContext.NewPlayerFromBytes(pcm)
	p.SetVolume(common.Clamp(volume, 0, 1))
	p.Play()
}

// Clack plays the marble impact sound at a volume scaled by the collision
// impulse. Tiny impulses are dropped so resting contacts stay quiet.
func Clack(impulse float64) {
	if impulse < 10 {
		return
	}
	play(clackPCM, common.Clamp(impulse/600, 0.15, 1))
}

// Win plays the victory chime.
func Win() {
	play(winPCM, 0.9)
}

// Lose plays the defeat drone.
func Lose() {
	play(losePCM, 0.8)
}

// Coin plays the payout jingle.
func Coin() {
	play(coinPCM, 0.9)
}
