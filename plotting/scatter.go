package plotting

import (
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/forestfires/dataset"
	"github.com/YuminosukeSato/forestfires/pkg/errors"
)

// FeatureScatters saves one scatter plot per column of ft against labels
// into dir, named "<feature>_vs_<labelName>.png", and returns the written
// paths in column order. dir is created when missing.
func FeatureScatters(ft *dataset.FeatureTable, labels *mat.VecDense, labelName, dir string) ([]string, error) {
	const op = "plotting.FeatureScatters"

	r, _ := ft.Dims()
	if labels.Len() != r {
		return nil, errors.NewDimensionError(op, r, labels.Len(), 0)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewFileError("mkdir", dir, err)
	}

	var paths []string
	err := errors.SafeExecute(op, func() error {
		for j, name := range ft.Names() {
			path := filepath.Join(dir, name+"_vs_"+labelName+".png")
			if err := saveScatter(ft.Col(j), labels, name, labelName, path); err != nil {
				return err
			}
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func saveScatter(x []float64, y *mat.VecDense, xName, yName, path string) error {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y.AtVec(i)
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrapf(err, "failed to build scatter for %s", xName)
	}
	s.GlyphStyle.Radius = vg.Points(2)

	p := plot.New()
	p.Title.Text = xName + " vs " + yName
	p.X.Label.Text = xName
	p.Y.Label.Text = yName
	p.Add(s)

	if err := p.Save(ScatterSize, ScatterSize, path); err != nil {
		return errors.NewFileError("write", path, err)
	}
	return nil
}
