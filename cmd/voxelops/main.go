// Package main runs a voxelization job: it reads points from a MAT voxel file
// or a PCD file, optionally poses them, rasterizes them into a cubic grid,
// downsamples it and writes the requested outputs.
package main

import (
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	goutils "go.viam.com/utils"

	"go.viam.com/voxelops/config"
	"go.viam.com/voxelops/logging"
	"go.viam.com/voxelops/matfile"
	"go.viam.com/voxelops/mesh"
	"go.viam.com/voxelops/pointcloud"
	"go.viam.com/voxelops/spatialmath"
	"go.viam.com/voxelops/visualize"
	"go.viam.com/voxelops/voxel"
)

var logger = logging.NewLogger("voxelops")

func main() {
	goutils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	Input      string      `flag:"0,usage=voxel MAT-file or PCD file to read"`
	Config     string      `flag:"config,usage=JSON job file; replaces the other flags"`
	Size       int         `flag:"size,default=32,usage=edge length of the output grid"`
	Downsample int         `flag:"downsample,default=1,usage=block size to downsample the grid by"`
	Mean       bool        `flag:"mean,usage=downsample by block mean instead of block max"`
	RotateAxis string      `flag:"rotate-axis,usage=axis (x y or z) to rotate the points about"`
	RotateDeg  degreesFlag `flag:"rotate-deg,usage=degrees to rotate the points by"`
	Translate  string      `flag:"translate,usage=offset added after rotating as x/y/z separated by commas or spaces"`
	OutMAT     string      `flag:"out-mat,usage=write the grid to this MAT-file"`
	OutPCD     string      `flag:"out-pcd,usage=write the posed points to this PCD file"`
	OutHTML    string      `flag:"out-html,usage=write an interactive 3D scatter to this HTML file"`
	OutPNG     string      `flag:"out-png,usage=write a max projection heat map to this PNG file"`
	PNGAxis    int         `flag:"png-axis,default=2,usage=grid axis the PNG projection collapses"`
	Mesh       string      `flag:"mesh,usage=OBJ mesh whose vertex and face counts are reported"`
	Debug      bool        `flag:"debug"`
}

type degreesFlag float64

func (df *degreesFlag) String() string {
	return strconv.FormatFloat(float64(*df), 'g', -1, 64)
}

func (df *degreesFlag) Set(val string) error {
	deg, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid degrees %q", val)
	}
	*df = degreesFlag(deg)
	return nil
}

func (df *degreesFlag) Get() interface{} {
	return float64(*df)
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	var argsParsed Arguments
	if err := goutils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	if argsParsed.Debug {
		logger.SetLevel(zapcore.DebugLevel)
	}

	job, err := jobFromArgs(argsParsed, logger)
	if err != nil {
		return err
	}
	return run(ctx, job, logger)
}

func jobFromArgs(argsParsed Arguments, logger logging.Logger) (*config.Config, error) {
	if argsParsed.Config != "" {
		return config.Read(argsParsed.Config, logger)
	}

	job := &config.Config{
		Input:      argsParsed.Input,
		Size:       argsParsed.Size,
		Downsample: argsParsed.Downsample,
		UseMean:    argsParsed.Mean,
		Mesh:       argsParsed.Mesh,
		Outputs: config.Outputs{
			MAT:  argsParsed.OutMAT,
			PCD:  argsParsed.OutPCD,
			HTML: argsParsed.OutHTML,
			PNG:  argsParsed.OutPNG,
		},
	}
	if argsParsed.PNGAxis != config.DefaultPNGAxis {
		axis := argsParsed.PNGAxis
		job.Outputs.PNGAxis = &axis
	}
	if argsParsed.RotateAxis != "" {
		job.Rotation = &config.Rotation{Axis: argsParsed.RotateAxis, Degrees: float64(argsParsed.RotateDeg)}
	}
	if argsParsed.Translate != "" {
		trans, err := spatialmath.ParseFloats(argsParsed.Translate)
		if err != nil {
			return nil, errors.Wrap(err, "bad -translate")
		}
		job.Translation = trans
	}
	if err := job.Validate(""); err != nil {
		return nil, err
	}
	return job, nil
}

func run(ctx context.Context, job *config.Config, logger logging.Logger) error {
	verts, err := loadVerts(job.Input, logger)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	verts, err = poseVerts(verts, job)
	if err != nil {
		return err
	}

	grid, stats, err := voxel.VertsToVoxelWithStats(verts, voxel.Cube(job.Size))
	if err != nil {
		return err
	}
	logger.Infow("rasterized", "grid", grid.Dims().String(), "kept", stats.Kept, "occupied", grid.Occupied())
	if stats.Dropped > 0 {
		logger.Warnw("points fell outside the grid", "dropped", stats.Dropped)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if job.Downsample > 1 {
		grid, err = voxel.Downsample(grid, job.Downsample, !job.UseMean)
		if err != nil {
			return err
		}
		logger.Infow("downsampled", "factor", job.Downsample, "grid", grid.Dims().String(), "occupied", grid.Occupied())
	}

	if err := writeOutputs(ctx, job, verts, grid, logger); err != nil {
		return err
	}

	if job.Mesh != "" {
		nv, err := mesh.NumVertices(job.Mesh)
		if err != nil {
			return err
		}
		nf, err := mesh.NumFaces(job.Mesh)
		if err != nil {
			return err
		}
		logger.Infow("mesh", "path", job.Mesh, "vertices", nv, "faces", nf)
	}
	return nil
}

func loadVerts(path string, logger logging.Logger) ([]r3.Vector, error) {
	if info, err := os.Stat(path); err == nil {
		logger.Debugw("reading input", "path", path, "size", humanize.Bytes(uint64(info.Size())))
	}
	if strings.EqualFold(filepath.Ext(path), ".pcd") {
		//nolint:gosec
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		verts, err := pointcloud.ReadVertsPCD(file)
		err = multierr.Combine(err, file.Close())
		if err != nil {
			return nil, errors.Wrapf(err, "reading %q", path)
		}
		return verts, nil
	}
	return voxel.ReadVoxelFile(path, logger)
}

func poseVerts(verts []r3.Vector, job *config.Config) ([]r3.Vector, error) {
	if job.Rotation == nil && job.Translation == nil {
		return verts, nil
	}
	rot := spatialmath.NewIdentityRotationMatrix()
	if job.Rotation != nil {
		axis, err := spatialmath.ParseAxis(job.Rotation.Axis)
		if err != nil {
			return nil, err
		}
		rot, err = spatialmath.NewRotationMatrixFromAxisAngle(axis, job.Rotation.Degrees*math.Pi/180)
		if err != nil {
			return nil, err
		}
	}
	trans := job.Translation
	if trans == nil {
		trans = []float64{0, 0, 0}
	}
	return spatialmath.TransformVerts(verts, rot.Dense(), trans)
}

func writeOutputs(ctx context.Context, job *config.Config, verts []r3.Vector, grid *voxel.Grid, logger logging.Logger) error {
	out := job.Outputs
	if out.MAT != "" {
		if err := matfile.WriteFile(out.MAT, true, grid.ToArray(voxel.VoxelVariable)); err != nil {
			return errors.Wrapf(err, "writing %q", out.MAT)
		}
		logWritten(out.MAT, logger)
	}
	if out.PCD != "" {
		if err := writeFile(out.PCD, func(w io.Writer) error {
			return pointcloud.WriteVertsPCD(verts, w, pointcloud.PCDBinary)
		}); err != nil {
			return err
		}
		logWritten(out.PCD, logger)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if out.HTML != "" {
		title := filepath.Base(job.Input)
		if err := writeFile(out.HTML, func(w io.Writer) error {
			return visualize.RenderHTML(w, grid, title)
		}); err != nil {
			return err
		}
		logWritten(out.HTML, logger)
	}
	if out.PNG != "" {
		if err := visualize.SaveProjection(grid, out.ProjectionAxis(), out.PNG); err != nil {
			return errors.Wrapf(err, "writing %q", out.PNG)
		}
		logWritten(out.PNG, logger)
	}
	return nil
}

func writeFile(path string, write func(w io.Writer) error) (err error) {
	//nolint:gosec
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, file.Close())
	}()
	if err := write(file); err != nil {
		return errors.Wrapf(err, "writing %q", path)
	}
	return nil
}

func logWritten(path string, logger logging.Logger) {
	info, err := os.Stat(path)
	if err != nil {
		logger.Warnw("cannot stat output", "path", path, "error", err)
		return
	}
	logger.Infow("wrote", "path", path, "size", humanize.Bytes(uint64(info.Size())))
}
