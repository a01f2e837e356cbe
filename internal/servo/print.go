package servo

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/vservo/internal/linalg"
)

// Print writes a human-readable summary of the task: configuration, every
// registered pair restricted to its selector and, once a control law has
// been computed, the stacked error.
func (t *Task) Print(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "task: %s, %s\n", t.scheme, t.State())
	fmt.Fprintf(&b, "  interaction: %s (%s)\n", t.mode, t.inversion)
	fmt.Fprintf(&b, "  gain: %v\n", t.gain)
	fmt.Fprintf(&b, "  pairs: %d, rows: %d\n", len(t.pairs), t.Dimension())

	for _, p := range t.pairs {
		fmt.Fprintf(&b, "  [%d] current  ", p.handle)
		if err := p.current.Print(&b, p.sel); err != nil {
			return &PairError{Handle: p.handle, Wrapped: err}
		}
		fmt.Fprintf(&b, "  [%d] desired  ", p.handle)
		if err := p.desired.Print(&b, p.sel); err != nil {
			return &PairError{Handle: p.handle, Wrapped: err}
		}
	}

	if t.computed {
		fmt.Fprintf(&b, "  error: %s\n", formatVec(linalg.Values(t.e)))
		fmt.Fprintf(&b, "  |e|inf: %.6g, rank: %d, lambda: %.6g\n", linalg.InfNorm(t.e), t.rank, t.lambda)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatVec(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.6g", x)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
