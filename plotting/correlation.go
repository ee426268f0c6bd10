// Package plotting writes the optional diagnostic charts: a correlation
// heatmap over every numeric column and one scatter plot per feature
// against the log burned area.
package plotting

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/forestfires/dataset"
	"github.com/YuminosukeSato/forestfires/pkg/errors"
)

// Size of every saved chart.
var (
	HeatmapSize = 8 * vg.Inch
	ScatterSize = 4 * vg.Inch
)

// CorrelationMatrix returns the Pearson correlation between every pair of
// columns of ft. Columns with zero variance produce NaN entries.
func CorrelationMatrix(ft *dataset.FeatureTable) *mat.SymDense {
	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, ft.Matrix(), nil)
	return &corr
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ. Row 0 is drawn
// at the top, as in a printed matrix.
type corrGrid struct {
	corr *mat.SymDense
}

func (g corrGrid) Dims() (c, r int) {
	n := g.corr.SymmetricDim()
	return n, n
}

func (g corrGrid) Z(c, r int) float64 {
	n := g.corr.SymmetricDim()
	return g.corr.At(n-1-r, c)
}

func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// CorrelationHeatmap draws the correlation matrix of ft as an annotated heat
// map on a blue-red diverging palette fixed to [-1, 1] and saves it to path.
// The image format follows the file extension.
func CorrelationHeatmap(ft *dataset.FeatureTable, path string) error {
	const op = "plotting.CorrelationHeatmap"

	r, c := ft.Dims()
	if r < 2 || c == 0 {
		return errors.NewValueError(op, fmt.Sprintf("need at least 2 rows and 1 column, got %dx%d", r, c))
	}

	return errors.SafeExecute(op, func() error {
		corr := CorrelationMatrix(ft)
		names := ft.Names()
		n := len(names)

		cm := moreland.SmoothBlueRed()
		cm.SetMin(-1)
		cm.SetMax(1)

		hm := plotter.NewHeatMap(corrGrid{corr: corr}, cm.Palette(255))
		hm.Min, hm.Max = -1, 1

		p := plot.New()
		p.Title.Text = "Correlation matrix"
		p.Add(hm)

		labels, err := annotations(corr)
		if err != nil {
			return errors.Wrap(err, "failed to build cell labels")
		}
		p.Add(labels)

		xTicks := make([]plot.Tick, n)
		yTicks := make([]plot.Tick, n)
		for i, name := range names {
			xTicks[i] = plot.Tick{Value: float64(i), Label: name}
			yTicks[i] = plot.Tick{Value: float64(n - 1 - i), Label: name}
		}
		p.X.Tick.Marker = plot.ConstantTicks(xTicks)
		p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Min, p.X.Max = -0.5, float64(n)-0.5
		p.Y.Min, p.Y.Max = -0.5, float64(n)-0.5

		if err := p.Save(HeatmapSize, HeatmapSize, path); err != nil {
			return errors.NewFileError("write", path, err)
		}
		return nil
	})
}

// annotations writes each correlation coefficient in the middle of its cell.
func annotations(corr *mat.SymDense) (*plotter.Labels, error) {
	n := corr.SymmetricDim()
	xyl := plotter.XYLabels{
		XYs:    make(plotter.XYs, 0, n*n),
		Labels: make([]string, 0, n*n),
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			xyl.XYs = append(xyl.XYs, plotter.XY{X: float64(j), Y: float64(n - 1 - i)})
			xyl.Labels = append(xyl.Labels, fmt.Sprintf("%.2f", corr.At(i, j)))
		}
	}
	labels, err := plotter.NewLabels(xyl)
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = -0.5
		labels.TextStyle[i].YAlign = -0.5
	}
	return labels, nil
}
