package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrArtifactNotFound = errors.New("model artifact not found")

type ArtifactKind string

const (
	KindScaler     ArtifactKind = "scaler"
	KindClassifier ArtifactKind = "classifier"
)

// ArtifactRecord is one row of model_artifacts. Document is the raw JSON
// exactly as it was imported.
type ArtifactRecord struct {
	ID        int64
	Version   string
	Kind      ArtifactKind
	Document  []byte
	Digest    string
	CreatedAt time.Time
}

type ArtifactRepository struct {
	db *sql.DB
}

func NewArtifactRepository(db *sql.DB) *ArtifactRepository {
	return &ArtifactRepository{db: db}
}

// GetPair returns the scaler and classifier rows for version. An empty
// version selects the newest version that has both kinds.
func (r *ArtifactRepository) GetPair(ctx context.Context, version string) (scaler, classifier *ArtifactRecord, err error) {
	if version == "" {
		version, err = r.LatestCompleteVersion(ctx)
		if err != nil {
			return nil, nil, err
		}
	}

	scaler, err = r.Get(ctx, version, KindScaler)
	if err != nil {
		return nil, nil, err
	}
	classifier, err = r.Get(ctx, version, KindClassifier)
	if err != nil {
		return nil, nil, err
	}
	return scaler, classifier, nil
}

func (r *ArtifactRepository) Get(ctx context.Context, version string, kind ArtifactKind) (*ArtifactRecord, error) {
	query := `
		SELECT id, version, kind, document, digest, created_at
		FROM model_artifacts
		WHERE version = $1 AND kind = $2`

	rec := &ArtifactRecord{}
	err := r.db.QueryRowContext(ctx, query, version, string(kind)).Scan(
		&rec.ID,
		&rec.Version,
		&rec.Kind,
		&rec.Document,
		&rec.Digest,
		&rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s %s", ErrArtifactNotFound, kind, version)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *ArtifactRepository) LatestCompleteVersion(ctx context.Context) (string, error) {
	query := `
		SELECT version
		FROM model_artifacts
		GROUP BY version
		HAVING COUNT(DISTINCT kind) = 2
		ORDER BY MAX(created_at) DESC
		LIMIT 1`

	var version string
	err := r.db.QueryRowContext(ctx, query).Scan(&version)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: no complete version", ErrArtifactNotFound)
	}
	return version, err
}

func (r *ArtifactRepository) ListVersions(ctx context.Context) ([]string, error) {
	query := `
		SELECT version
		FROM model_artifacts
		GROUP BY version
		ORDER BY MAX(created_at) DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// SavePairTx upserts both documents inside tx so a version never exists
// with only one half.
func (r *ArtifactRepository) SavePairTx(ctx context.Context, tx *sql.Tx, scaler, classifier *ArtifactRecord) error {
	for _, rec := range []*ArtifactRecord{scaler, classifier} {
		if err := r.upsertTx(ctx, tx, rec); err != nil {
			return fmt.Errorf("failed to save %s artifact: %w", rec.Kind, err)
		}
	}
	return nil
}

func (r *ArtifactRepository) upsertTx(ctx context.Context, tx *sql.Tx, rec *ArtifactRecord) error {
	query := `
		INSERT INTO model_artifacts (version, kind, document, digest)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (version, kind)
		DO UPDATE SET document = EXCLUDED.document, digest = EXCLUDED.digest, created_at = NOW()
		RETURNING id, created_at`

	return tx.QueryRowContext(ctx, query,
		rec.Version,
		string(rec.Kind),
		rec.Document,
		rec.Digest,
	).Scan(&rec.ID, &rec.CreatedAt)
}
