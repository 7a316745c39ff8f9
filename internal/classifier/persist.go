package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/diamond-tactics/internal/models"
)

// modelArtifact is the single on-disk unit: the fitted forest plus the
// feature schema it was trained against. Persisting them together means a
// loaded model can never be applied to misaligned columns.
type modelArtifact struct {
	Forest       *Forest  `json:"forest"`
	FeatureNames []string `json:"feature_names"`
}

// SaveModel writes the fitted forest and feature schema to path as one JSON
// artifact. The write goes through a temp file and rename so a crash never
// leaves a half-written model behind.
func (c *Classifier) SaveModel(path string) error {
	if c.forest == nil {
		return models.ErrModelNotLoaded
	}

	artifact := modelArtifact{
		Forest:       c.forest,
		FeatureNames: c.featureNames,
	}
	data, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("failed to encode model artifact: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp model file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write model artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp model file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace model file: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"path":     path,
		"trees":    len(c.forest.Trees),
		"features": len(c.featureNames),
	}).Info("Model saved")

	return nil
}

// LoadModel reads a previously saved artifact. Both the forest and the
// feature schema must be present; anything else is rejected as invalid.
func (c *Classifier) LoadModel(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read model file: %w", err)
	}

	var artifact modelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidModelArtifact, err)
	}
	if artifact.Forest == nil || len(artifact.Forest.Classes) == 0 {
		return fmt.Errorf("%w: missing forest", models.ErrInvalidModelArtifact)
	}
	if len(artifact.FeatureNames) == 0 {
		return fmt.Errorf("%w: missing feature names", models.ErrInvalidModelArtifact)
	}

	c.forest = artifact.Forest
	c.featureNames = artifact.FeatureNames

	c.logger.WithFields(logrus.Fields{
		"path":     path,
		"trees":    len(c.forest.Trees),
		"classes":  len(c.forest.Classes),
		"features": len(c.featureNames),
	}).Info("Model loaded")

	return nil
}
