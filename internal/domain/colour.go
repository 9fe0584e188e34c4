package domain

import (
	"math/rand"
	"sync"
)

// colourSteps is how many Next calls it takes to reach a target colour.
const colourSteps = 10

// RGB holds channel intensities in [0, 1].
type RGB [3]float64

// ColourStepper drifts the embed accent colour smoothly: it walks linearly
// from the current colour to a random target in colourSteps steps, then picks
// a new target. Safe for concurrent use.
type ColourStepper struct {
	mu      sync.Mutex
	rnd     *rand.Rand
	current RGB
	target  RGB
	step    int
}

// NewColourStepper starts at a random colour with a random target.
func NewColourStepper(rnd *rand.Rand) *ColourStepper {
	c := &ColourStepper{rnd: rnd}
	c.current = c.random()
	c.target = c.random()
	return c
}

// newColourStepperFrom fixes the first leg; later targets come from rnd.
func newColourStepperFrom(current, target RGB, rnd *rand.Rand) *ColourStepper {
	return &ColourStepper{rnd: rnd, current: current, target: target}
}

// Next advances one step and returns the colour as 0xRRGGBB.
func (c *ColourStepper) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.step++
	t := float64(c.step) / colourSteps
	var out RGB
	for i := range out {
		out[i] = c.current[i] + (c.target[i]-c.current[i])*t
	}

	if c.step == colourSteps {
		c.current = c.target
		c.target = c.random()
		c.step = 0
	}
	return packRGB(out)
}

func (c *ColourStepper) random() RGB {
	return RGB{c.rnd.Float64(), c.rnd.Float64(), c.rnd.Float64()}
}

func packRGB(c RGB) int {
	v := 0
	for _, ch := range c {
		b := int(ch * 255)
		if b < 0 {
			b = 0
		}
		if b > 255 {
			b = 255
		}
		v = v<<8 | b
	}
	return v
}
