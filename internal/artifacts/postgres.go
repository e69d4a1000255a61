package artifacts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/OldStager01/cardio-risk/pkg/database"
	"github.com/OldStager01/cardio-risk/pkg/database/queries"
)

// PairGetter is the read side of queries.ArtifactRepository.
type PairGetter interface {
	GetPair(ctx context.Context, version string) (scaler, classifier *queries.ArtifactRecord, err error)
}

// PostgresSource reads a version from the model_artifacts table. An empty
// version selects the newest complete pair.
type PostgresSource struct {
	repo    PairGetter
	version string
}

func NewPostgresSource(repo PairGetter, version string) *PostgresSource {
	return &PostgresSource{repo: repo, version: version}
}

func (s *PostgresSource) Name() string {
	if s.version == "" {
		return "postgres:latest"
	}
	return "postgres:" + s.version
}

func (s *PostgresSource) Fetch(ctx context.Context) (RawPair, error) {
	sr, cr, err := s.repo.GetPair(ctx, s.version)
	if err != nil {
		return RawPair{}, err
	}

	for _, rec := range []*queries.ArtifactRecord{sr, cr} {
		if got := Digest(rec.Document); got != rec.Digest {
			return RawPair{}, fmt.Errorf("%w: %s %s digest %s does not match stored %s",
				ErrArtifactLoadFailure, rec.Kind, rec.Version, got, rec.Digest)
		}
	}

	return RawPair{Scaler: sr.Document, Classifier: cr.Document}, nil
}

// SaveToPostgres validates raw and stores it as one version. The pair is
// written in a single transaction.
func SaveToPostgres(ctx context.Context, db *database.DB, raw RawPair) (*Bundle, error) {
	bundle, err := FromRaw(raw)
	if err != nil {
		return nil, err
	}

	version := bundle.Info().Version
	repo := queries.NewArtifactRepository(db.DB)
	scalerRec := &queries.ArtifactRecord{
		Version:  version,
		Kind:     queries.KindScaler,
		Document: raw.Scaler,
		Digest:   Digest(raw.Scaler),
	}
	classifierRec := &queries.ArtifactRecord{
		Version:  version,
		Kind:     queries.KindClassifier,
		Document: raw.Classifier,
		Digest:   Digest(raw.Classifier),
	}

	err = db.WithTransaction(ctx, func(tx *sql.Tx) error {
		return repo.SavePairTx(ctx, tx, scalerRec, classifierRec)
	})
	if err != nil {
		return nil, fmt.Errorf("save artifacts %s: %w", version, err)
	}

	return bundle, nil
}
