package ui

import "github.com/charmbracelet/harmonica"

// springTrace smooths a row of column heights with a damped spring so the
// history view settles organically instead of snapping per tick.
type springTrace struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func newSpringTrace(fps int, frequency, damping float64) springTrace {
	return springTrace{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

func (s *springTrace) resize(n int) {
	if len(s.pos) == n {
		return
	}
	s.pos = make([]float64, n)
	s.vel = make([]float64, n)
}

func (s *springTrace) step(i int, target float64) float64 {
	p, v := s.spring.Update(s.pos[i], s.vel[i], target)
	if p < 0 {
		p = 0
	}
	s.pos[i] = p
	s.vel[i] = v
	return p
}
