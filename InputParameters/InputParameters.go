package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/pqtorus/lattice"
	"github.com/notargets/pqtorus/mesh"
	"github.com/notargets/pqtorus/weierstrass"
)

// Parameters obtained from the YAML input file
type TorusParameters struct {
	Title       string      `json:"Title"`
	P           float64     `json:"P"`
	Q           float64     `json:"Q"`
	Degree      int         `json:"Degree"`
	Convention  string      `json:"Convention"` // "zero" or "minusone"
	GridSize    int         `json:"GridSize"`
	Basepoint   *[2]float64 `json:"Basepoint,omitempty"` // [re, im]
	Domain      string      `json:"Domain"`              // "half" or "full"
	Wrap        bool        `json:"Wrap"`
	Offset      float64     `json:"Offset"`
	Workers     int         `json:"Workers"`
	PoleEpsilon float64     `json:"PoleEpsilon"`
	PoleRadius  float64     `json:"PoleRadius"`
	Modular     bool        `json:"Modular"`
}

func NewTorusParameters() *TorusParameters {
	return &TorusParameters{
		Title:      "pq torus",
		P:          2,
		Q:          3,
		Convention: "zero",
		GridSize:   32,
		Domain:     "half",
		Offset:     0.5,
	}
}

func (tp *TorusParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, tp)
}

func (tp *TorusParameters) Validate() (err error) {
	if _, err = lattice.New(tp.P, tp.Q); err != nil {
		return
	}
	if tp.GridSize < 2 {
		return fmt.Errorf("%w: %d", mesh.ErrGridSize, tp.GridSize)
	}
	if _, err = mesh.NewDomain(tp.Domain); err != nil {
		return
	}
	if _, err = lattice.NewConvention(tp.Convention); err != nil {
		return
	}
	if tp.PoleEpsilon < 0 || tp.PoleRadius < 0 {
		return fmt.Errorf("pole tolerances must be non-negative: %g, %g", tp.PoleEpsilon, tp.PoleRadius)
	}
	return
}

func (tp *TorusParameters) Lattice() lattice.Lattice {
	return lattice.Lattice{P: tp.P, Q: tp.Q}
}

// MeshOptions converts validated parameters to mesh.Options
func (tp *TorusParameters) MeshOptions() (opts mesh.Options, err error) {
	if err = tp.Validate(); err != nil {
		return
	}
	opts = mesh.Options{
		GridSize: tp.GridSize,
		Degree:   tp.Degree,
		Wrap:     tp.Wrap,
		Offset:   tp.Offset,
		Workers:  tp.Workers,
		Function: weierstrass.Options{
			PoleEpsilon:       tp.PoleEpsilon,
			PoleWarningRadius: tp.PoleRadius,
		},
	}
	if tp.PoleRadius == 0 {
		opts.Function.PoleWarningRadius = weierstrass.DefaultPoleWarningRadius
	}
	opts.Domain, _ = mesh.NewDomain(tp.Domain)
	opts.Convention, _ = lattice.NewConvention(tp.Convention)
	if tp.Basepoint != nil {
		z0 := complex(tp.Basepoint[0], tp.Basepoint[1])
		opts.Basepoint = &z0
	}
	if tp.Modular {
		opts.Invariants = append(opts.Invariants, lattice.WithModularTransform())
	}
	return
}

func (tp *TorusParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", tp.Title)
	fmt.Printf("%8.5f\t\t= P\n", tp.P)
	fmt.Printf("%8.5f\t\t= Q\n", tp.Q)
	fmt.Printf("[%d]\t\t\t\t= Degree (%s convention)\n", tp.Degree, tp.Convention)
	fmt.Printf("[%d]\t\t\t\t= Grid Size\n", tp.GridSize)
	fmt.Printf("[%s]\t\t\t= Domain, Wrap = %v, Offset = %g\n", tp.Domain, tp.Wrap, tp.Offset)
	if tp.Basepoint != nil {
		fmt.Printf("(%g, %g)\t\t= Basepoint\n", tp.Basepoint[0], tp.Basepoint[1])
	}
	if tp.PoleEpsilon != 0 {
		fmt.Printf("%g\t\t= Pole Epsilon\n", tp.PoleEpsilon)
	}
}
