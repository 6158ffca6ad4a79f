package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/voxelops/logging"
)

// Read reads and validates the job file at path. Relative paths inside the
// job are resolved against the job file's directory.
func Read(path string, logger logging.Logger) (conf *Config, err error) {
	//nolint:gosec
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, file.Close())
	}()

	conf, err = FromReader(path, file, logger)
	if err != nil {
		return nil, err
	}
	conf.resolvePaths(filepath.Dir(path))
	return conf, nil
}

// FromReader reads and validates a job from r. originalPath is only used in
// errors and logs.
func FromReader(originalPath string, r io.Reader, logger logging.Logger) (*Config, error) {
	var conf Config
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&conf); err != nil {
		return nil, errors.Wrapf(err, "cannot parse job config %q", originalPath)
	}
	if err := conf.Validate(""); err != nil {
		return nil, err
	}
	logger.Debugw("read job config", "path", originalPath, "input", conf.Input, "size", conf.Size)
	return &conf, nil
}

func (conf *Config) resolvePaths(dir string) {
	for _, p := range []*string{
		&conf.Input,
		&conf.Mesh,
		&conf.Outputs.MAT,
		&conf.Outputs.PCD,
		&conf.Outputs.HTML,
		&conf.Outputs.PNG,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}
