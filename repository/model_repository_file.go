package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FileModelRepository reads a LogisticModel from a JSON or YAML file; the
// format follows the file extension.
type FileModelRepository struct {
	path string
}

func NewFileModelRepository(path string) *FileModelRepository {
	return &FileModelRepository{path: path}
}

func (r *FileModelRepository) Load() (*LogisticModel, error) {
	if r.path == "" {
		return nil, eris.New("model: no artifact path configured")
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, eris.Wrapf(err, "model: read %s", r.path)
	}

	var m LogisticModel
	switch strings.ToLower(filepath.Ext(r.path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	case ".json":
		err = json.Unmarshal(data, &m)
	default:
		return nil, eris.Errorf("model: unsupported artifact format %q", filepath.Ext(r.path))
	}
	if err != nil {
		return nil, eris.Wrapf(err, "model: decode %s", r.path)
	}

	if err := m.Validate(); err != nil {
		return nil, eris.Wrapf(err, "model: validate %s", r.path)
	}

	zap.L().Info("scoring artifact loaded",
		zap.String("path", r.path),
		zap.String("version", m.Version),
		zap.Int("features", len(m.Features)),
	)
	return &m, nil
}
