package artifacts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Source fetches the raw scaler and classifier documents.
type Source interface {
	Fetch(ctx context.Context) (RawPair, error)
	Name() string
}

// FileSource reads both documents from a directory.
type FileSource struct {
	Dir            string
	ScalerFile     string
	ClassifierFile string
}

func NewFileSource(dir, scalerFile, classifierFile string) *FileSource {
	if scalerFile == "" {
		scalerFile = "scaler.json"
	}
	if classifierFile == "" {
		classifierFile = "classifier.json"
	}
	return &FileSource{Dir: dir, ScalerFile: scalerFile, ClassifierFile: classifierFile}
}

func (s *FileSource) Name() string {
	return "file:" + s.Dir
}

func (s *FileSource) Fetch(ctx context.Context) (RawPair, error) {
	if err := ctx.Err(); err != nil {
		return RawPair{}, err
	}

	scalerRaw, err := os.ReadFile(filepath.Join(s.Dir, s.ScalerFile))
	if err != nil {
		return RawPair{}, fmt.Errorf("read scaler: %w", err)
	}
	classifierRaw, err := os.ReadFile(filepath.Join(s.Dir, s.ClassifierFile))
	if err != nil {
		return RawPair{}, fmt.Errorf("read classifier: %w", err)
	}

	return RawPair{Scaler: scalerRaw, Classifier: classifierRaw}, nil
}

// WriteDir stores raw in dir under the source's file names.
func (s *FileSource) WriteDir(raw RawPair) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.Dir, s.ScalerFile), raw.Scaler, 0o644); err != nil {
		return fmt.Errorf("write scaler: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, s.ClassifierFile), raw.Classifier, 0o644); err != nil {
		return fmt.Errorf("write classifier: %w", err)
	}
	return nil
}
