package game

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	maxPitch      = 1.4
	nearPlane     = 0.1
	farPlane      = 1000
	springFreq    = 6.0
	springDamping = 0.9
)

// orbitCamera looks at the origin from a sphere of fixed radius. Drag input
// moves the target angles; the visible angles follow through a spring.
type orbitCamera struct {
	distance float64
	fov      float64

	spring      harmonica.Spring
	yaw, yawVel float64
	pitch       float64
	pitchVel    float64

	targetYaw   float64
	targetPitch float64
}

func newOrbitCamera(distance, fovDeg float64, tps int) *orbitCamera {
	return &orbitCamera{
		distance: distance,
		fov:      fovDeg,
		spring:   harmonica.NewSpring(harmonica.FPS(tps), springFreq, springDamping),
	}
}

// Orbit adds a drag of dx, dy radians to the target.
func (c *orbitCamera) Orbit(dx, dy float64) {
	c.targetYaw -= dx
	c.targetPitch += dy
	if c.targetPitch > maxPitch {
		c.targetPitch = maxPitch
	}
	if c.targetPitch < -maxPitch {
		c.targetPitch = -maxPitch
	}
}

// Update advances the spring by one tick.
func (c *orbitCamera) Update() {
	c.yaw, c.yawVel = c.spring.Update(c.yaw, c.yawVel, c.targetYaw)
	c.pitch, c.pitchVel = c.spring.Update(c.pitch, c.pitchVel, c.targetPitch)
}

// Eye is the camera position. Zero yaw and pitch puts it on +z.
func (c *orbitCamera) Eye() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(c.distance * math.Sin(c.yaw) * math.Cos(c.pitch)),
		float32(c.distance * math.Sin(c.pitch)),
		float32(c.distance * math.Cos(c.yaw) * math.Cos(c.pitch)),
	}
}

// View returns the look-at matrix.
func (c *orbitCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for the given aspect ratio.
func (c *orbitCamera) Projection(aspect float64) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(float32(c.fov)), float32(aspect), nearPlane, farPlane)
}
