package simulator

import (
	"math/rand"
	"sync"

	"github.com/OldStager01/cardio-risk/pkg/models"
)

type GeneratorConfig struct {
	Seed    int64
	Profile string
}

// Generator yields a reproducible stream of patients for one seed.
type Generator struct {
	rng     *rand.Rand
	profile Profile
	mu      sync.Mutex
}

func NewGenerator(cfg GeneratorConfig) *Generator {
	return &Generator{
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		profile: ParseProfile(cfg.Profile),
	}
}

func (g *Generator) Next() models.PatientFeatures {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.profile.Sample(g.rng)
}

func (g *Generator) Batch(n int) []models.PatientFeatures {
	out := make([]models.PatientFeatures, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}

func (g *Generator) Profile() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.profile.Name()
}
