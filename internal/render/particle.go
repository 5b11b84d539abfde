package render

import (
	"image/color"
	"math"

	"github.com/tdewolff/canvas"
)

const (
	maxParticles  = 500
	particleDecay = 0.95
	particleSpeed = 3.0
	gravity       = 0.2
	minLife       = 0.01
	spawnRate     = 10 // particles per unit of average band energy
)

// particle is one short-lived point in the particle field. Owned
// exclusively by its Renderer.
type particle struct {
	x, y   float64
	vx, vy float64
	life   float64
	color  color.RGBA
}

// drawParticles advances the particle pool by one frame, spawns new
// particles in proportion to the frame's average energy, and draws the
// survivors.
func (r *Renderer) drawParticles(ctx *canvas.Context) {
	r.updateParticles()
	r.spawnParticles()

	for _, p := range r.particles {
		if p.life <= 0 {
			continue
		}
		fillOnly(ctx, p.color)
		ctx.DrawPath(p.x, r.cy(p.y), canvas.Circle(p.life*3))
	}
}

// updateParticles integrates position, applies gravity, decays life,
// wraps horizontally and respawns at the top past the bottom edge.
// Particles whose life decays to the threshold are dropped.
func (r *Renderer) updateParticles() {
	w := float64(r.width)
	h := float64(r.height)

	alive := r.particles[:0]
	for _, p := range r.particles {
		p.x += p.vx
		p.y += p.vy
		p.vy += gravity
		p.life *= particleDecay

		if p.x < 0 {
			p.x = w
		}
		if p.x > w {
			p.x = 0
		}
		if p.y > h {
			p.y = 0
			p.vy = -particleSpeed
		}

		if p.life > minLife {
			alive = append(alive, p)
		}
	}
	r.particles = alive
}

// spawnParticles adds new particles proportional to average band
// energy, up to the pool cap. Each gets a random position, velocity
// and a color sampled from the band under its spawn x position.
func (r *Renderer) spawnParticles() {
	n := len(r.smoothed)
	if n == 0 {
		return
	}

	var avg float64
	for _, v := range r.smoothed {
		avg += v
	}
	avg /= float64(n)

	toSpawn := int(avg * spawnRate)
	if room := maxParticles - len(r.particles); toSpawn > room {
		toSpawn = room
	}

	for i := 0; i < toSpawn; i++ {
		angle := r.rng.Float64() * 2 * math.Pi
		speed := 0.5 + r.rng.Float64()*(particleSpeed-0.5)

		p := particle{
			x:    r.rng.Float64() * float64(r.width),
			y:    r.rng.Float64() * float64(r.height),
			vx:   math.Cos(angle) * speed,
			vy:   math.Sin(angle) * speed,
			life: 1,
		}

		band := int(p.x / float64(r.width) * float64(n))
		if band >= n {
			band = n - 1
		}
		p.color = r.mapper.Color(band, n, r.smoothed[band])

		r.particles = append(r.particles, p)
	}
}
