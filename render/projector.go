package render

import (
	"github.com/lixenwraith/stagefx/vmath"
)

// cellAspect is the height/width ratio of a terminal cell
const cellAspect = 2.0

// nearPlane is the minimum camera-space depth drawn
const nearPlane = 0.5

// Projector maps field space onto the cell grid with a perspective camera on +Z
type Projector struct {
	Distance float64 // camera distance from origin
	Extent   float64 // field half-width fitted to half the screen width
	Width    int
	Height   int
}

// Project returns the cell for v and a nearness in [0,1] where 1 is closest
func (p Projector) Project(v vmath.Vec3F) (x, y int, near float64, ok bool) {
	if p.Width <= 0 || p.Height <= 0 || p.Extent <= 0 {
		return 0, 0, 0, false
	}
	depth := p.Distance - v.Z
	if depth < nearPlane {
		return 0, 0, 0, false
	}
	persp := p.Distance / depth

	halfW := float64(p.Width) / 2
	halfH := float64(p.Height) / 2
	unit := halfW / p.Extent

	fx := halfW + v.X*persp*unit
	fy := halfH - v.Y*persp*unit/cellAspect
	if fx < 0 || fy < 0 {
		return 0, 0, 0, false
	}
	x, y = int(fx), int(fy)
	if x >= p.Width || y >= p.Height {
		return 0, 0, 0, false
	}

	near = vmath.Clamp01(0.5 + v.Z/(2*p.Extent))
	return x, y, near, true
}
