// Package cloud generates the "data cloud": points scattered around a torus,
// coloured by their angle around the ring.
package cloud

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/akmonengine/oasis/actor"
	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidParams = errors.New("cloud: invalid parameters")

type Params struct {
	Count       int
	MajorRadius float64 // ring center to tube center
	MinorRadius float64 // tube radius
	Jitter      float64 // 0-1, relative spread of the tube radius
	Seed        uint64
}

func DefaultParams() Params {
	return Params{
		Count:       2000,
		MajorRadius: 3,
		MinorRadius: 1,
		Jitter:      0.25,
		Seed:        1,
	}
}

type Point struct {
	Position mgl64.Vec3 // local to the cloud transform
	Color    mgl64.Vec3
}

// Cloud is a rotating point set; it is decoration and never pickable
type Cloud struct {
	Params    Params
	Points    []Point
	Transform actor.Transform
	// SpinRate in radians per second around world Y
	SpinRate float64
}

// Generate samples Count points on the torus. The same seed always gives the same cloud.
func Generate(params Params, center mgl64.Vec3) (*Cloud, error) {
	if params.Count < 0 || params.MajorRadius <= 0 || params.MinorRadius <= 0 ||
		params.MinorRadius > params.MajorRadius || params.Jitter < 0 || params.Jitter > 1 {
		return nil, ErrInvalidParams
	}

	rng := rand.New(rand.NewPCG(params.Seed, params.Seed^0x9e3779b97f4a7c15))
	points := make([]Point, params.Count)

	for i := range points {
		u := rng.Float64() * 2 * math.Pi // around the ring
		v := rng.Float64() * 2 * math.Pi // around the tube
		r := params.MinorRadius * (1 + params.Jitter*(2*rng.Float64()-1))

		ring := params.MajorRadius + r*math.Cos(v)
		points[i] = Point{
			Position: mgl64.Vec3{ring * math.Cos(u), r * math.Sin(v), ring * math.Sin(u)},
			Color:    hueToRGB(u / (2 * math.Pi)),
		}
	}

	return &Cloud{
		Params:    params,
		Points:    points,
		Transform: actor.NewTransformAt(center),
	}, nil
}

// Step advances the cloud's spin by dt seconds
func (c *Cloud) Step(dt float64) {
	if c.SpinRate == 0 {
		return
	}
	c.Transform.Rotate(c.SpinRate*dt, mgl64.Vec3{0, 1, 0})
}

// WorldPosition returns point i after the cloud transform
func (c *Cloud) WorldPosition(i int) mgl64.Vec3 {
	return c.Transform.Rotation.Rotate(c.Points[i].Position).Add(c.Transform.Position)
}

// hueToRGB converts a hue in [0,1) at full saturation and value
func hueToRGB(h float64) mgl64.Vec3 {
	h = math.Mod(h, 1) * 6
	x := 1 - math.Abs(math.Mod(h, 2)-1)

	switch int(h) {
	case 0:
		return mgl64.Vec3{1, x, 0}
	case 1:
		return mgl64.Vec3{x, 1, 0}
	case 2:
		return mgl64.Vec3{0, 1, x}
	case 3:
		return mgl64.Vec3{0, x, 1}
	case 4:
		return mgl64.Vec3{x, 0, 1}
	default:
		return mgl64.Vec3{1, 0, x}
	}
}
