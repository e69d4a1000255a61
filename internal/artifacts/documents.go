package artifacts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ScalerDocument is the serialized form of a fitted standard scaler.
type ScalerDocument struct {
	Version      string    `json:"version"`
	FeatureNames []string  `json:"feature_names,omitempty"`
	Center       []float64 `json:"center"`
	Scale        []float64 `json:"scale"`
}

// ClassifierDocument is the serialized form of a fitted KNN classifier.
// FitX holds the training rows already in scaled space.
type ClassifierDocument struct {
	Version      string      `json:"version"`
	FeatureNames []string    `json:"feature_names,omitempty"`
	NNeighbors   int         `json:"n_neighbors"`
	Metric       string      `json:"metric,omitempty"`
	P            float64     `json:"p,omitempty"`
	Weights      string      `json:"weights,omitempty"`
	Classes      []int       `json:"classes,omitempty"`
	FitX         [][]float64 `json:"fit_x"`
	FitY         []int       `json:"fit_y"`
}

// RawPair is the two documents exactly as fetched from a source.
type RawPair struct {
	Scaler     []byte
	Classifier []byte
}

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	schemaOnce   sync.Once
	schemaErr    error
	scalerSchema *jsonschema.Schema
	knnSchema    *jsonschema.Schema
)

func compileSchemas() {
	c := jsonschema.NewCompiler()
	for _, name := range []string{"scaler.schema.json", "classifier.schema.json"} {
		raw, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			schemaErr = err
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			schemaErr = fmt.Errorf("parse %s: %w", name, err)
			return
		}
		if err := c.AddResource("schema://"+name, doc); err != nil {
			schemaErr = fmt.Errorf("add %s: %w", name, err)
			return
		}
	}

	scalerSchema, schemaErr = c.Compile("schema://scaler.schema.json")
	if schemaErr != nil {
		return
	}
	knnSchema, schemaErr = c.Compile("schema://classifier.schema.json")
}

// Decode validates both documents against their schemas and unmarshals them.
// Any failure is an ErrArtifactLoadFailure.
func Decode(raw RawPair) (*ScalerDocument, *ClassifierDocument, error) {
	schemaOnce.Do(compileSchemas)
	if schemaErr != nil {
		return nil, nil, fmt.Errorf("%w: compile schemas: %w", ErrArtifactLoadFailure, schemaErr)
	}

	var sd ScalerDocument
	if err := decodeDocument("scaler", raw.Scaler, scalerSchema, &sd); err != nil {
		return nil, nil, err
	}

	var cd ClassifierDocument
	if err := decodeDocument("classifier", raw.Classifier, knnSchema, &cd); err != nil {
		return nil, nil, err
	}

	return &sd, &cd, nil
}

func decodeDocument(kind string, raw []byte, schema *jsonschema.Schema, out interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: %s document is empty", ErrArtifactLoadFailure, kind)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %s document is not valid JSON: %w", ErrArtifactLoadFailure, kind, err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("%w: %s document: %w", ErrArtifactLoadFailure, kind, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s document: %w", ErrArtifactLoadFailure, kind, err)
	}
	return nil
}

// Encode renders both documents as indented JSON.
func Encode(sd *ScalerDocument, cd *ClassifierDocument) (RawPair, error) {
	s, err := json.MarshalIndent(sd, "", "  ")
	if err != nil {
		return RawPair{}, fmt.Errorf("encode scaler: %w", err)
	}
	c, err := json.MarshalIndent(cd, "", "  ")
	if err != nil {
		return RawPair{}, fmt.Errorf("encode classifier: %w", err)
	}
	return RawPair{Scaler: s, Classifier: c}, nil
}
