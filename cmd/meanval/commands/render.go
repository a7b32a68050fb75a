package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/holder"
	"github.com/katalvlaran/meanval/table"
)

// renderTable prints the rows of t with from ≤ stage ≤ to.
func renderTable(w io.Writer, t *table.Table, from, to int) error {
	data := pterm.TableData{{"stage", t.Key().String()}}
	for _, r := range t.Slice(from, to).Rows() {
		data = append(data, []string{strconv.Itoa(r.Stage), fmt.Sprintf("%.6f", r.Value)})
	}

	return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render()
}

// renderCoefficients prints an optimized assignment and its φ.
func renderCoefficients(w io.Writer, res holder.Result, phi float64) error {
	data := pterm.TableData{{"k", "weight", "1/weight"}}
	for _, c := range res.Coefficients {
		data = append(data, []string{
			strconv.Itoa(c.K),
			fmt.Sprintf("%.6f", c.Weight),
			fmt.Sprintf("%.6f", 1/c.Weight),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "phi = %.8f (iterations %d, converged %v)\n", phi, res.Iterations, res.Converged)

	return err
}

// parseInts reads a comma separated list such as "5,7,8".
func parseInts(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, errs.Wrapf(errs.ErrInvalidParameter, "bad integer %q", f)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, errs.Wrap(errs.ErrInvalidParameter, "empty list")
	}

	return out, nil
}

// span returns the integers lo..hi.
func span(lo, hi int) ([]int, error) {
	if hi < lo {
		return nil, errs.Wrapf(errs.ErrInvalidParameter, "empty range [%d, %d]", lo, hi)
	}
	out := make([]int, 0, hi-lo+1)
	for k := lo; k <= hi; k++ {
		out = append(out, k)
	}

	return out, nil
}
