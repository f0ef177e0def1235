package game

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const sampleRate = 44100

// cue plays a short tone when a move lands, a lower and longer one for
// captures.
type cue struct {
	ctx     *audio.Context
	move    []byte
	capture []byte
}

func newCue() *cue {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	}
	return &cue{
		ctx:     ctx,
		move:    tone(660, 60*time.Millisecond),
		capture: tone(330, 120*time.Millisecond),
	}
}

func (c *cue) play(capture bool) {
	pcm := c.move
	if capture {
		pcm = c.capture
	}
	c.ctx.NewPlayerFromBytes(pcm).Play()
}

// tone renders a sine wave as 16-bit little-endian stereo PCM with a linear
// fade out so it does not click.
func tone(freq float64, d time.Duration) []byte {
	n := int(float64(sampleRate) * d.Seconds())
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		fade := 1 - float64(i)/float64(n)
		v := int16(math.Sin(2*math.Pi*freq*float64(i)/sampleRate) * fade * 0.3 * math.MaxInt16)
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(v))
	}
	return buf
}
