package predictor

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"health-risk-predictor/internal/apperr"
	"health-risk-predictor/internal/platform/metrics"
)

//go:embed artifact.schema.json
var artifactSchema string

const artifactExt = ".json"

// Loader resolves a named artifact into a model.
type Loader interface {
	Load(ctx context.Context, name string) (Model, error)
}

// Store reads artifacts from a directory. Nothing is cached: every Load
// re-reads the file so a replaced artifact is picked up on the next request.
type Store struct {
	dir    string
	schema *jsonschema.Schema
	logger *zap.Logger
}

func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("model store requires a directory")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	schema, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("compile artifact schema: %w", err)
	}
	return &Store{dir: dir, schema: schema, logger: logger}, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("artifact.schema.json", strings.NewReader(artifactSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile("artifact.schema.json")
}

func (s *Store) Load(ctx context.Context, name string) (Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file := artifactFile(name)
	if file != filepath.Base(file) || file == artifactExt {
		metrics.RecordArtifactLoad(name, "invalid")
		return nil, apperr.ArtifactInvalid(file, fmt.Errorf("artifact name must be a plain file name"))
	}

	raw, err := os.ReadFile(filepath.Join(s.dir, file))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			metrics.RecordArtifactLoad(name, "not_found")
			s.logger.Warn("model artifact not found", zap.String("artifact", file), zap.String("dir", s.dir))
			return nil, apperr.ArtifactNotFound(file, err)
		}
		metrics.RecordArtifactLoad(name, "error")
		return nil, fmt.Errorf("read artifact %s: %w", file, err)
	}

	model, err := s.decode(raw)
	if err != nil {
		metrics.RecordArtifactLoad(name, "invalid")
		s.logger.Warn("model artifact rejected", zap.String("artifact", file), zap.Error(err))
		return nil, apperr.ArtifactInvalid(file, err)
	}
	metrics.RecordArtifactLoad(name, "ok")
	s.logger.Debug("model artifact loaded",
		zap.String("artifact", file),
		zap.String("model", model.Name()),
		zap.Int("features", len(model.Features())),
	)
	return model, nil
}

func (s *Store) decode(raw []byte) (Model, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("artifact is not valid JSON")
	}
	if kind := gjson.GetBytes(raw, "kind"); !kind.Exists() {
		return nil, fmt.Errorf("artifact does not declare a kind")
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if err := s.schema.Validate(doc); err != nil {
		return nil, err
	}

	var art Artifact
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&art); err != nil {
		return nil, err
	}
	return art.Build()
}

func artifactFile(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasSuffix(name, artifactExt) {
		return name
	}
	return name + artifactExt
}
