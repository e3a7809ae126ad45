package mesh

import (
	"github.com/phil-mansfield/table"
	"github.com/pkg/errors"

	"github.com/phil-mansfield/spinfpe/geom"
)

// ReadCenters reads sample points from the first three columns of a
// whitespace-separated text table.
func ReadCenters(fname string) ([]geom.Vec, error) {
	cols, err := table.ReadTable(fname, []int{0, 1, 2}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "reading centers from '%s'", fname)
	}

	xs, ys, zs := cols[0], cols[1], cols[2]
	vs := make([]geom.Vec, len(xs))
	for i := range vs {
		vs[i] = geom.Vec{xs[i], ys[i], zs[i]}
	}
	return vs, nil
}
