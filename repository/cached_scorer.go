package repository

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

type scorer interface {
	FeatureNames() []string
	Predict(values []float64) (int, error)
	PredictProbability(values []float64) (float64, error)
}

// CachedScorer memoizes a deterministic scorer. Entries are keyed by a
// digest of the feature values and the model version; no applicant
// attributes are stored.
type CachedScorer struct {
	inner    scorer
	cache    CacheRepository
	version  string
	observer func(hit bool)
}

// NewCachedScorer wraps inner. observer, when not nil, is told whether each
// lookup was served from the cache.
func NewCachedScorer(inner scorer, cache CacheRepository, version string, observer func(hit bool)) *CachedScorer {
	return &CachedScorer{
		inner:    inner,
		cache:    cache,
		version:  version,
		observer: observer,
	}
}

func (s *CachedScorer) FeatureNames() []string {
	return s.inner.FeatureNames()
}

func (s *CachedScorer) Predict(values []float64) (int, error) {
	label, _, err := s.score(values)
	return label, err
}

func (s *CachedScorer) PredictProbability(values []float64) (float64, error) {
	_, p, err := s.score(values)
	return p, err
}

func (s *CachedScorer) score(values []float64) (int, float64, error) {
	key := s.key(values)

	if raw, ok := s.cache.Get(key); ok {
		if label, p, err := decodeScore(raw); err == nil {
			s.observe(true)
			return label, p, nil
		}
		zap.L().Warn("score cache: discarding malformed entry", zap.String("key", key))
	}
	s.observe(false)

	label, err := s.inner.Predict(values)
	if err != nil {
		return 0, 0, err
	}
	p, err := s.inner.PredictProbability(values)
	if err != nil {
		return 0, 0, err
	}

	if err := s.cache.Set(key, encodeScore(label, p)); err != nil {
		zap.L().Warn("score cache: set failed", zap.String("key", key), zap.Error(err))
	}
	return label, p, nil
}

func (s *CachedScorer) observe(hit bool) {
	if s.observer != nil {
		s.observer(hit)
	}
}

func (s *CachedScorer) key(values []float64) string {
	d := xxhash.New()
	var buf [8]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}
	return fmt.Sprintf("score:%s:%016x", s.version, d.Sum64())
}

func encodeScore(label int, p float64) string {
	return strconv.Itoa(label) + "|" + strconv.FormatFloat(p, 'g', -1, 64)
}

func decodeScore(raw string) (int, float64, error) {
	l, p, ok := strings.Cut(raw, "|")
	if !ok {
		return 0, 0, fmt.Errorf("score cache: malformed entry %q", raw)
	}
	label, err := strconv.Atoi(l)
	if err != nil {
		return 0, 0, err
	}
	prob, err := strconv.ParseFloat(p, 64)
	if err != nil {
		return 0, 0, err
	}
	return label, prob, nil
}
