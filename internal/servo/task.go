package servo

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/vservo/internal/feature"
	"github.com/san-kum/vservo/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

// Handle identifies one feature pair registration within a Task.
type Handle int

// State is the lifecycle state of a Task.
type State int

const (
	Unconfigured State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "unconfigured"
}

type registration struct {
	handle  Handle
	current feature.Feature
	desired feature.Feature
	sel     feature.Selector
}

// Task stacks feature pairs and computes the control law.
type Task struct {
	scheme    Scheme
	mode      InteractionMode
	inversion Inversion
	gain      Gain
	tolerance float64
	logger    *slog.Logger

	pairs []registration
	next  Handle

	cVe, eJe, cVf, fVe, fJe *mat.Dense

	computed bool
	e        *mat.VecDense
	l        *mat.Dense
	j1       *mat.Dense
	j1p      *mat.Dense
	rank     int
	lambda   float64
}

// NewTask returns an unconfigured task using the current interaction
// matrix, the pseudo-inverse and a constant gain of 0.5.
func NewTask() *Task {
	return &Task{
		mode:      Current,
		inversion: PseudoInverse,
		gain:      ConstantGain(0.5),
		tolerance: linalg.DefaultTolerance,
		logger:    slog.Default(),
	}
}

func (t *Task) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	t.logger = l
}

func (t *Task) SetServo(s Scheme) { t.scheme = s }

func (t *Task) SetInteractionMatrixType(mode InteractionMode, inversion Inversion) {
	t.mode = mode
	t.inversion = inversion
}

func (t *Task) SetLambda(g Gain) {
	if g == nil {
		g = ConstantGain(0)
	}
	t.gain = g
}

// SetPseudoInverseTolerance sets the relative singular value threshold
// below which directions are dropped from the inverse. A non-positive
// value restores linalg.DefaultTolerance.
func (t *Task) SetPseudoInverseTolerance(tol float64) {
	if tol <= 0 {
		tol = linalg.DefaultTolerance
	}
	t.tolerance = tol
}

// SetCameraTwist sets cVe, the 6x6 twist from effector to camera frame.
func (t *Task) SetCameraTwist(cVe mat.Matrix) error {
	return setSquare6(&t.cVe, cVe, "cVe")
}

// SetFixedTwist sets cVf, the 6x6 twist from fixed to camera frame.
func (t *Task) SetFixedTwist(cVf mat.Matrix) error {
	return setSquare6(&t.cVf, cVf, "cVf")
}

// SetFixedToEffectorTwist sets fVe, the 6x6 twist from effector to fixed
// frame.
func (t *Task) SetFixedToEffectorTwist(fVe mat.Matrix) error {
	return setSquare6(&t.fVe, fVe, "fVe")
}

// SetEffectorJacobian sets eJe, the 6xn robot Jacobian in the effector
// frame.
func (t *Task) SetEffectorJacobian(eJe mat.Matrix) error {
	return setJacobian(&t.eJe, eJe, "eJe")
}

// SetFixedJacobian sets fJe, the 6xn robot Jacobian in the fixed frame.
func (t *Task) SetFixedJacobian(fJe mat.Matrix) error {
	return setJacobian(&t.fJe, fJe, "fJe")
}

func setSquare6(dst **mat.Dense, m mat.Matrix, name string) error {
	r, c := m.Dims()
	if r != 6 || c != 6 {
		return fmt.Errorf("%w: %s is %dx%d, want 6x6", ErrDimension, name, r, c)
	}
	*dst = mat.DenseCopyOf(m)
	return nil
}

func setJacobian(dst **mat.Dense, m mat.Matrix, name string) error {
	r, c := m.Dims()
	if r != 6 || c < 1 {
		return fmt.Errorf("%w: %s is %dx%d, want 6xn", ErrDimension, name, r, c)
	}
	*dst = mat.DenseCopyOf(m)
	return nil
}

// AddFeature registers a (current, desired) pair restricted to sel; a nil
// sel selects every component. The pair is validated immediately: kinds,
// dimensions, frames and the selector must agree.
func (t *Task) AddFeature(current, desired feature.Feature, sel feature.Selector) (Handle, error) {
	if current == nil || desired == nil {
		return 0, feature.ErrNilFeature
	}
	if sel == nil {
		sel = feature.All
	}
	if _, err := current.Error(desired, sel); err != nil {
		return 0, err
	}

	h := t.next
	t.next++
	t.pairs = append(t.pairs, registration{handle: h, current: current, desired: desired, sel: sel})
	t.computed = false

	t.logger.Debug("feature registered",
		"handle", int(h),
		"kind", current.Kind().String(),
		"rows", feature.Count(sel, current.Dimension()))
	return h, nil
}

// RemoveFeature drops one registration, keeping the order of the others.
func (t *Task) RemoveFeature(h Handle) error {
	for i, p := range t.pairs {
		if p.handle == h {
			t.pairs = append(t.pairs[:i], t.pairs[i+1:]...)
			t.computed = false
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
}

// Kill releases every registered pair and the stored results. The
// features themselves are untouched. Scheme, mode and gain stay set.
func (t *Task) Kill() {
	if len(t.pairs) > 0 {
		t.logger.Debug("task killed", "pairs", len(t.pairs))
	}
	t.pairs = nil
	t.reset()
}

func (t *Task) reset() {
	t.computed = false
	t.e, t.l, t.j1, t.j1p = nil, nil, nil, nil
	t.rank = 0
	t.lambda = 0
}

func (t *Task) State() State {
	if t.scheme != SchemeNone && len(t.pairs) > 0 {
		return Ready
	}
	return Unconfigured
}

// ComputeControlLaw evaluates v = -λ J1⁺ e with J1 = L W.
func (t *Task) ComputeControlLaw() (*mat.VecDense, error) {
	if t.scheme == SchemeNone {
		return nil, ErrNoScheme
	}
	if len(t.pairs) == 0 {
		return nil, ErrNoFeatures
	}
	w, err := t.frameJacobian()
	if err != nil {
		return nil, err
	}

	ls := make([]mat.Matrix, 0, len(t.pairs))
	es := make([]mat.Vector, 0, len(t.pairs))
	for _, p := range t.pairs {
		l, err := t.interaction(p)
		if err != nil {
			return nil, &PairError{Handle: p.handle, Wrapped: err}
		}
		e, err := p.current.Error(p.desired, p.sel)
		if err != nil {
			return nil, &PairError{Handle: p.handle, Wrapped: err}
		}
		ls = append(ls, l)
		es = append(es, e)
	}

	l := linalg.StackRows(ls...)
	e := linalg.StackVec(es...)

	j1 := l
	if w != nil {
		j1 = &mat.Dense{}
		j1.Mul(l, w)
	}

	var j1p *mat.Dense
	var rank int
	switch t.inversion {
	case Transpose:
		j1p = mat.DenseCopyOf(j1.T())
		rank = linalg.Rank(j1, t.tolerance)
	default:
		j1p, rank = linalg.PseudoInverse(j1, t.tolerance)
	}

	rows, cols := j1.Dims()
	if full := min(rows, cols); rank < full {
		t.logger.Debug("task jacobian rank deficient", "rank", rank, "full", full)
	}

	lambda := t.gain.Value(linalg.InfNorm(e))
	v := mat.NewVecDense(cols, nil)
	v.MulVec(j1p, e)
	v.ScaleVec(-lambda, v)

	t.computed = true
	t.e, t.l, t.j1, t.j1p = e, l, j1, j1p
	t.rank = rank
	t.lambda = lambda

	return v, nil
}

func (t *Task) interaction(p registration) (*mat.Dense, error) {
	switch t.mode {
	case Desired:
		return p.desired.Interaction(p.sel)
	case Mean:
		lc, err := p.current.Interaction(p.sel)
		if err != nil {
			return nil, err
		}
		ld, err := p.desired.Interaction(p.sel)
		if err != nil {
			return nil, err
		}
		lc.Add(lc, ld)
		lc.Scale(0.5, lc)
		return lc, nil
	default:
		return p.current.Interaction(p.sel)
	}
}

// frameJacobian returns W, or nil for the identity.
func (t *Task) frameJacobian() (*mat.Dense, error) {
	var w mat.Dense
	switch t.scheme {
	case EyeInHandCamera:
		return nil, nil
	case EyeInHandLcVeeJe, EyeToHandLcVeeJe:
		if t.cVe == nil || t.eJe == nil {
			return nil, fmt.Errorf("%w: %s needs cVe and eJe", ErrMissingJacobian, t.scheme)
		}
		w.Mul(t.cVe, t.eJe)
	case EyeToHandLcVffVeeJe:
		if t.cVf == nil || t.fVe == nil || t.eJe == nil {
			return nil, fmt.Errorf("%w: %s needs cVf, fVe and eJe", ErrMissingJacobian, t.scheme)
		}
		var cVe mat.Dense
		cVe.Mul(t.cVf, t.fVe)
		w.Mul(&cVe, t.eJe)
	case EyeToHandLcVffJe:
		if t.cVf == nil || t.fJe == nil {
			return nil, fmt.Errorf("%w: %s needs cVf and fJe", ErrMissingJacobian, t.scheme)
		}
		w.Mul(t.cVf, t.fJe)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoScheme, t.scheme)
	}
	if !t.scheme.EyeInHand() {
		w.Scale(-1, &w)
	}
	return &w, nil
}

// SecondaryTask projects de2dt onto the null space of the task Jacobian,
// (I - J1⁺ J1) de2dt, so that adding it to the control law does not
// disturb the main task.
func (t *Task) SecondaryTask(de2dt mat.Vector) (*mat.VecDense, error) {
	if !t.computed {
		return nil, ErrNotComputed
	}
	_, n := t.j1.Dims()
	if de2dt.Len() != n {
		return nil, fmt.Errorf("%w: secondary task has %d components, want %d", ErrDimension, de2dt.Len(), n)
	}

	var proj mat.Dense
	proj.Mul(t.j1p, t.j1)
	proj.Sub(linalg.Identity(n), &proj)

	out := mat.NewVecDense(n, nil)
	out.MulVec(&proj, de2dt)
	return out, nil
}

func (t *Task) Scheme() Scheme { return t.scheme }
func (t *Task) InteractionMode() InteractionMode { return t.mode }
func (t *Task) Inversion() Inversion { return t.inversion }
func (t *Task) Gain() Gain { return t.gain }
func (t *Task) Len() int { return len(t.pairs) }

// Dimension is the number of stacked error rows.
func (t *Task) Dimension() int {
	n := 0
	for _, p := range t.pairs {
		n += feature.Count(p.sel, p.current.Dimension())
	}
	return n
}

// Error returns a copy of the stacked error of the last control law, or
// nil before the first one.
func (t *Task) Error() *mat.VecDense {
	if !t.computed {
		return nil
	}
	return mat.VecDenseCopyOf(t.e)
}

// Interaction returns a copy of the last stacked interaction matrix.
func (t *Task) Interaction() *mat.Dense {
	if !t.computed {
		return nil
	}
	return mat.DenseCopyOf(t.l)
}

// TaskJacobian returns a copy of the last J1 = L W.
func (t *Task) TaskJacobian() *mat.Dense {
	if !t.computed {
		return nil
	}
	return mat.DenseCopyOf(t.j1)
}

// Rank is the numerical rank of the last J1.
func (t *Task) Rank() int { return t.rank }

// Lambda is the gain used by the last control law.
func (t *Task) Lambda() float64 { return t.lambda }
