package viz

import (
	"math"
	"sort"

	"github.com/san-kum/vservo/internal/geom"
)

// Orbit is a perspective view turning around Center.
type Orbit struct {
	Center     geom.Vec3
	Yaw, Pitch float64
	Distance   float64
	Zoom       float64
	// Span is the world extent fitting the smaller canvas side at zoom 1.
	Span float64
}

func NewOrbit() *Orbit {
	return &Orbit{Yaw: 0.6, Pitch: -0.4, Distance: 8, Zoom: 1, Span: 3}
}

func (o *Orbit) Rotate(dyaw, dpitch float64) {
	o.Yaw += dyaw
	o.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, o.Pitch+dpitch))
}

func (o *Orbit) ZoomIn()  { o.Zoom = math.Min(10, o.Zoom*1.2) }
func (o *Orbit) ZoomOut() { o.Zoom = math.Max(0.1, o.Zoom/1.2) }

func (o *Orbit) view(p geom.Vec3) geom.Vec3 {
	p = p.Sub(o.Center)
	cy, sy := math.Cos(o.Yaw), math.Sin(o.Yaw)
	p = geom.Vec3{p[0]*cy + p[2]*sy, p[1], -p[0]*sy + p[2]*cy}
	cp, sp := math.Cos(o.Pitch), math.Sin(o.Pitch)
	return geom.Vec3{p[0], p[1]*cp - p[2]*sp, p[1]*sp + p[2]*cp}
}

// Project maps a world point to canvas sub-pixels with its depth along
// the view axis. Points behind the eye are not visible.
func (o *Orbit) Project(p geom.Vec3, c *Canvas) (int, int, float64, bool) {
	v := o.view(p)
	d := o.Distance + v[2]
	if d <= 0.1 {
		return 0, 0, 0, false
	}
	w, h := c.PixelWidth(), c.PixelHeight()
	scale := o.Distance / d * o.Zoom * float64(min(w, h)) / o.Span
	sx := int(math.Round(v[0]*scale)) + w/2
	sy := int(math.Round(v[1]*scale)) + h/2
	return sx, sy, d, sx >= 0 && sx < w && sy >= 0 && sy < h
}

type Edge struct {
	Start, End geom.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{Edges: make([]Edge, 0, 64)} }

func (w *Wireframe) AddEdge(s, e geom.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p geom.Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }

// AddPolyline joins consecutive points.
func (w *Wireframe) AddPolyline(pts []geom.Vec3) {
	for i := 1; i < len(pts); i++ {
		w.AddEdge(pts[i-1], pts[i])
	}
}

// AddCamera draws a frustum for the camera at pose oMc, in the frame of
// the wireframe.
func (w *Wireframe) AddCamera(oMc geom.Homogeneous, size float64) {
	apex := oMc.Apply(geom.Vec3{})
	corners := []geom.Vec3{
		{-size, -0.75 * size, 2 * size},
		{size, -0.75 * size, 2 * size},
		{size, 0.75 * size, 2 * size},
		{-size, 0.75 * size, 2 * size},
	}
	for i := range corners {
		corners[i] = oMc.Apply(corners[i])
		w.AddEdge(apex, corners[i])
	}
	w.AddPolyline(append(corners, corners[0]))
}

// AddAxes draws the three unit axes of frame oMf scaled to l.
func (w *Wireframe) AddAxes(oMf geom.Homogeneous, l float64) {
	o := oMf.Apply(geom.Vec3{})
	w.AddEdge(o, oMf.Apply(geom.Vec3{l, 0, 0}))
	w.AddEdge(o, oMf.Apply(geom.Vec3{0, l, 0}))
	w.AddEdge(o, oMf.Apply(geom.Vec3{0, 0, l}))
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe back to front.
func Render3D(c *Canvas, w *Wireframe, o *Orbit) {
	if c == nil || w == nil || o == nil {
		return
	}
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := o.Project(e.Start, c)
		x2, y2, d2, v2 := o.Project(e.End, c)
		if (v1 || v2) && d1 > 0 && d2 > 0 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth > proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}

// Scene is what the 3D view shows, everything in the object frame.
type Scene struct {
	Object []geom.Vec3
	// Trail is the past camera positions.
	Trail   []geom.Vec3
	Camera  geom.Homogeneous
	Desired *geom.Homogeneous
}

func (s Scene) Wireframe() *Wireframe {
	w := NewWireframe()
	if len(s.Object) > 1 {
		w.AddPolyline(append(append([]geom.Vec3{}, s.Object...), s.Object[0]))
	} else if len(s.Object) == 1 {
		w.AddPoint(s.Object[0])
	}
	w.AddAxes(geom.IdentityPose(), 0.2)
	w.AddPolyline(s.Trail)
	w.AddCamera(s.Camera, 0.08)
	if s.Desired != nil {
		w.AddAxes(*s.Desired, 0.15)
	}
	return w
}
