/*lsmesh_main builds a level set hierarchy described by a gcfg configuration
file, runs one interface maintenance cycle, and reports probe diagnostics.

	lsmesh_main [flags] config.txt

The configuration file looks like this:

	[LevelSet]
	Shape = sphere
	Radius = 1.0
	Spacing = 0.0625
	Levels = 2

	[Probe]
	PointFile = points.txt
	HRatio = 1.0
	ProfileFile = profile.png
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	plt "github.com/phil-mansfield/pyplot"
	"github.com/phil-mansfield/table"
	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/lsmesh"
	"github.com/phil-mansfield/lsmesh/adapt"
	"github.com/phil-mansfield/lsmesh/geom"
	"github.com/phil-mansfield/lsmesh/kernel"
	"github.com/phil-mansfield/lsmesh/levelset"
	"github.com/phil-mansfield/lsmesh/parallel"
	"github.com/phil-mansfield/lsmesh/shape"
)

type Config struct {
	LevelSet struct {
		Shape                     string
		CenterX, CenterY, CenterZ float64
		Radius                    float64
		ExtentX, ExtentY, ExtentZ float64
		Spacing                   float64
		SmoothingRatio            float64
		Levels                    int
		Pad                       float64
	}
	Probe struct {
		PointFile   string
		HRatio      float64
		ProfileFile string
	}
}

func main() {
	flag.IntVar(
		&parallel.NumCores, "Threads", runtime.NumCPU(),
		"Number of threads used. Default is the number of logical cores.",
	)
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("Usage: %s [flags] config_file", os.Args[0])
	}

	cfg := &Config{}
	cfg.Probe.HRatio = 1.0
	if err := gcfg.ReadFileInto(cfg, flag.Arg(0)); err != nil {
		log.Fatalf("Error reading config file: %s", err.Error())
	}

	s, err := configShape(cfg)
	if err != nil {
		log.Fatalf("Error in [LevelSet]: %s", err.Error())
	}

	if cfg.LevelSet.Spacing <= 0 {
		log.Fatalf("Error in [LevelSet]: non-positive Spacing.")
	}
	levels := cfg.LevelSet.Levels
	if levels == 0 {
		levels = 1
	}
	pad := cfg.LevelSet.Pad
	if pad == 0 {
		pad = s.Bounds().Width().MaxAbs() / 2
	}

	ad := adapt.New(cfg.LevelSet.Spacing, levels)
	if cfg.LevelSet.SmoothingRatio > 0 {
		ad.SmoothingLengthRatio = cfg.LevelSet.SmoothingRatio
		ad.Kernel = kernel.NewWendlandC2(ad.SmoothingLength())
	}
	bounds := s.Bounds().Extend(pad)

	log.Printf(
		"Building %d level(s) over [%g, %g]^3 at spacing %g with %d threads.",
		levels, bounds.Lower[0], bounds.Upper[0],
		cfg.LevelSet.Spacing, parallel.NumCores,
	)

	mesh, err := lsmesh.New(bounds, s, ad)
	if err != nil {
		log.Fatalf("Error building level set hierarchy: %s", err.Error())
	}
	mesh.CleanInterface()

	for l := 0; l < mesh.TotalLevels(); l++ {
		log.Printf("Level %d: %s", l, mesh.Level(l).Summarize())
	}

	if cfg.Probe.PointFile != "" {
		if err := probePoints(mesh, cfg); err != nil {
			log.Fatalf("Error probing points: %s", err.Error())
		}
	}
	if cfg.Probe.ProfileFile != "" {
		plotProfile(mesh, s, bounds, cfg.Probe.ProfileFile)
	}
}

func configShape(cfg *Config) (shape.Shape, error) {
	center := geom.Vec{
		cfg.LevelSet.CenterX, cfg.LevelSet.CenterY, cfg.LevelSet.CenterZ,
	}
	switch cfg.LevelSet.Shape {
	case "sphere":
		if cfg.LevelSet.Radius <= 0 {
			return nil, fmt.Errorf("sphere needs a positive Radius")
		}
		return &shape.Sphere{Center: center, Radius: cfg.LevelSet.Radius}, nil
	case "box":
		half := geom.Vec{
			cfg.LevelSet.ExtentX / 2,
			cfg.LevelSet.ExtentY / 2,
			cfg.LevelSet.ExtentZ / 2,
		}
		if half[0] <= 0 || half[1] <= 0 || half[2] <= 0 {
			return nil, fmt.Errorf("box needs positive Extent values")
		}
		return &shape.Box{Center: center, HalfExtent: half}, nil
	}
	return nil, fmt.Errorf("unknown Shape %q", cfg.LevelSet.Shape)
}

// probePoints reads x y z columns from the configured point table and
// prints the level set's answers at each point.
func probePoints(mesh *levelset.MultilevelMesh, cfg *Config) error {
	cols, err := table.ReadTable(cfg.Probe.PointFile, []int{0, 1, 2}, nil)
	if err != nil {
		return err
	}
	xs, ys, zs := cols[0], cols[1], cols[2]

	fmt.Printf("# x y z phi nx ny nz kernel_integral\n")
	for i := range xs {
		p := geom.Vec{xs[i], ys[i], zs[i]}
		if !mesh.ProbeIsWithinMeshBound(p) {
			fmt.Printf("# point (%g, %g, %g) is out of mesh bounds\n",
				p[0], p[1], p[2])
			continue
		}
		phi := mesh.ProbeSignedDistance(p)
		n := mesh.ProbeNormalDirection(p)
		w, err := mesh.ProbeKernelIntegral(p, cfg.Probe.HRatio)
		if err != nil {
			return err
		}
		fmt.Printf("%g %g %g %g %g %g %g %g\n",
			p[0], p[1], p[2], phi, n[0], n[1], n[2], w)
	}
	return nil
}

// plotProfile plots the signed distance along the +x axis through the shape
// center.
func plotProfile(
	mesh *levelset.MultilevelMesh, s shape.Shape,
	bounds geom.BoundingBox, fname string,
) {
	center := s.Bounds().Lower.Add(s.Bounds().Upper).Scale(0.5)
	rMax := (bounds.Upper[0] - center[0]) * 0.9

	n := 200
	rs, phis := make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		r := rMax * float64(i) / float64(n-1)
		p := geom.Vec{center[0] + r, center[1], center[2]}
		rs[i] = r
		phis[i] = mesh.ProbeSignedDistance(p)
	}

	plt.Figure()
	plt.Plot(rs, phis, "k", plt.LW(2))
	plt.XLabel(`$r$`)
	plt.YLabel(`$\phi(r)$`)
	plt.Title("Signed distance profile")
	plt.SaveFig(fname)
	plt.Execute()
}
