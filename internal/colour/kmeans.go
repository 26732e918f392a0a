package colour

import (
	"image"
	"math/rand"
	"slices"

	"github.com/hashicorp/go-hclog"
	"github.com/muesli/clusters"
)

// KMeansExtractor implements reproducible colour extraction using k-means
// clustering. Initial centers are chosen with k-means++ from a random source
// seeded on every call, so it holds no state between calls.
type KMeansExtractor struct {
	seed          int64
	maxIterations int
	tolerance     float64
	maxSamples    int
	logger        hclog.Logger
}

// NewKMeansExtractor creates a new KMeansExtractor from cfg.
func NewKMeansExtractor(cfg ExtractorConfig, logger hclog.Logger) *KMeansExtractor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	maxIterations := cfg.MaxIterations
	if maxIterations < 1 {
		maxIterations = DefaultExtractorConfig().MaxIterations
	}
	return &KMeansExtractor{
		seed:          cfg.Seed,
		maxIterations: maxIterations,
		tolerance:     cfg.Tolerance,
		maxSamples:    cfg.MaxSamples,
		logger:        logger.Named("kmeans"),
	}
}

// Extract extracts colors from an image using k-means clustering.
// Returns the cluster centers with their relative weights (cluster sizes).
func (e *KMeansExtractor) Extract(img image.Image, count int) (*Palette, error) {
	obs, err := prepare(img, count, e.maxSamples)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(e.seed)) // #nosec G404 - reproducibility, not security
	cc := e.partition(obs, count, rng)

	centroids := make([]Centroid, len(cc))
	for i, c := range cc {
		centroids[i] = Centroid{c.Center[0], c.Center[1], c.Center[2]}
	}

	return NewPaletteWithWeights(centroids, clusterWeights(cc, len(obs))), nil
}

// partition runs Lloyd iterations from k-means++ seeds until no assignment
// changes, the centers stop moving, or maxIterations is reached.
func (e *KMeansExtractor) partition(obs clusters.Observations, k int, rng *rand.Rand) clusters.Clusters {
	cc := seedClusters(obs, k, rng)

	assignments := make([]int, len(obs))
	for i := range assignments {
		assignments[i] = -1
	}

	for iter := 1; iter <= e.maxIterations; iter++ {
		changed := 0
		for i, o := range obs {
			nearest := cc.Nearest(o)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed++
			}
		}
		relocated := relocateEmpty(cc, obs, assignments)

		cc.Reset()
		for i, o := range obs {
			cc[assignments[i]].Append(o)
		}

		previous := make([]clusters.Coordinates, len(cc))
		for i := range cc {
			previous[i] = slices.Clone(cc[i].Center)
		}
		cc.Recenter()

		shift := 0.0
		for i := range cc {
			shift += cc[i].Center.Distance(previous[i])
		}

		e.logger.Trace("iteration", "n", iter, "changed", changed, "relocated", relocated, "shift", shift)

		if (changed == 0 && relocated == 0) || shift <= e.tolerance {
			e.logger.Debug("converged", "iterations", iter, "samples", len(obs), "k", k)
			return cc
		}
	}

	e.logger.Debug("iteration cap reached", "iterations", e.maxIterations, "samples", len(obs), "k", k)
	return cc
}

// seedClusters picks k initial centers with k-means++: the first uniformly,
// each next one with probability proportional to its distance from the
// nearest center already chosen. Observations equal to a chosen center are
// never picked again, so with at least k distinct colours the centers are
// distinct.
func seedClusters(obs clusters.Observations, k int, rng *rand.Rand) clusters.Clusters {
	cc := make(clusters.Clusters, 0, k)
	first := obs[rng.Intn(len(obs))]
	cc = append(cc, clusters.Cluster{Center: slices.Clone(first.Coordinates())})

	distances := make([]float64, len(obs))
	for len(cc) < k {
		total := 0.0
		for i, o := range obs {
			distances[i] = o.Distance(cc[cc.Nearest(o)].Center)
			total += distances[i]
		}

		target := rng.Float64() * total
		cumulative := 0.0
		pick := -1
		for i, d := range distances {
			if d == 0 {
				continue
			}
			pick = i
			cumulative += d
			if cumulative >= target {
				break
			}
		}
		if pick < 0 {
			// Fewer distinct colours than k; prepare rejects this earlier.
			pick = rng.Intn(len(obs))
		}
		cc = append(cc, clusters.Cluster{Center: slices.Clone(obs[pick].Coordinates())})
	}
	return cc
}

// relocateEmpty gives every cluster without observations the observation
// farthest from its own center, taken from a cluster that can spare one.
// It returns the number of observations moved.
func relocateEmpty(cc clusters.Clusters, obs clusters.Observations, assignments []int) int {
	counts := make([]int, len(cc))
	for _, a := range assignments {
		counts[a]++
	}

	moved := 0
	for ci := range cc {
		if counts[ci] > 0 {
			continue
		}

		farthest, farthestDist := -1, -1.0
		for i, o := range obs {
			if counts[assignments[i]] < 2 {
				continue
			}
			if d := o.Distance(cc[assignments[i]].Center); d > farthestDist {
				farthest, farthestDist = i, d
			}
		}
		if farthest < 0 {
			continue
		}

		counts[assignments[farthest]]--
		assignments[farthest] = ci
		counts[ci]++
		cc[ci].Center = slices.Clone(obs[farthest].Coordinates())
		moved++
	}
	return moved
}
