// Package pairing provides the application layer for ingredient similarity
// queries. It implements inbound.PairingService on top of the live graph.
package pairing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alchemorsel/flavorgraph/internal/domain/ingredient"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/security"
	"github.com/alchemorsel/flavorgraph/internal/ports/inbound"
	"github.com/alchemorsel/flavorgraph/internal/ports/outbound"
	"github.com/alchemorsel/flavorgraph/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// StatsMessage accompanies every stats answer
	StatsMessage = "Graph-based ingredient similarity model is active"

	msgInvalidAction = "Invalid action. Must be 'complementary', 'substitutes', or 'pairing'"

	// cacheIndexKey is a set holding every cached query key
	cacheIndexKey = "pairing:keys"
)

// Metrics receives service measurements
type Metrics interface {
	Query(action, status string, duration time.Duration)
	UnknownIngredients(n int)
	Extension(status string)
	CacheOperation(operation, result string)
	GraphSize(nodes, edges, components int)
	SeedReload(status string)
}

// Config holds query defaults
type Config struct {
	DefaultLimit int
	MaxLimit     int
	CacheTTL     time.Duration
}

// Service implements inbound.PairingService
type Service struct {
	graphs    *ingredient.Holder
	repo      outbound.IngredientRepository
	cache     outbound.CacheRepository
	validator *security.Validator
	metrics   Metrics
	tracer    trace.Tracer
	config    Config
	logger    *zap.Logger

	// writeMu serializes graph mutations with rebuilds so an extension is
	// never applied to a graph that is about to be replaced
	writeMu sync.Mutex

	// generation is part of every cache key; bumping it orphans old entries
	generation atomic.Uint64
}

var _ inbound.PairingService = (*Service)(nil)

// NewService creates a new pairing service. repo and cache may be nil.
func NewService(
	graphs *ingredient.Holder,
	repo outbound.IngredientRepository,
	cache outbound.CacheRepository,
	validator *security.Validator,
	metrics Metrics,
	config Config,
	logger *zap.Logger,
) *Service {
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = 5
	}
	if config.MaxLimit < config.DefaultLimit {
		config.MaxLimit = config.DefaultLimit
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}

	s := &Service{
		graphs:    graphs,
		repo:      repo,
		cache:     cache,
		validator: validator,
		metrics:   metrics,
		tracer:    otel.Tracer("github.com/alchemorsel/flavorgraph/internal/application/pairing"),
		config:    config,
		logger:    logger.Named("pairing-service"),
	}
	s.publishSize(graphs.Graph())
	return s
}

// Query answers a complementary, substitutes or pairing request
func (s *Service) Query(ctx context.Context, req inbound.SimilarityRequest) (resp *inbound.SimilarityResponse, err error) {
	start := time.Now()
	if req.Action == "" {
		req.Action = inbound.ActionPairing
	}

	ctx, span := s.tracer.Start(ctx, "pairing.Query",
		trace.WithAttributes(
			attribute.String("pairing.action", actionLabel(req.Action)),
			attribute.Int("pairing.ingredients", len(req.Ingredients)),
		))
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		s.metrics.Query(actionLabel(req.Action), status, time.Since(start))
		span.End()
	}()

	if len(req.Ingredients) == 0 {
		return nil, errors.NewBadRequestError(inbound.MsgIngredientsRequired)
	}
	switch req.Action {
	case inbound.ActionComplementary, inbound.ActionSubstitutes, inbound.ActionPairing:
	default:
		return nil, errors.NewBadRequestError(msgInvalidAction).WithMetadata("action", req.Action)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	names := make([]string, len(req.Ingredients))
	for i, name := range req.Ingredients {
		names[i] = ingredient.Normalize(name)
	}
	limit := s.limit(req.Limit)

	key := s.cacheKey(names, req.Action, limit, req.Sort)
	if cached, ok := s.fromCache(ctx, key); ok {
		span.SetAttributes(attribute.Bool("pairing.cache_hit", true))
		return cached, nil
	}

	g := s.graphs.Graph()
	resp = &inbound.SimilarityResponse{
		Success:            true,
		Action:             req.Action,
		BaseIngredients:    names,
		UnknownIngredients: unknown(g, names),
	}
	sorted := req.Sort == "score"

	switch req.Action {
	case inbound.ActionComplementary, inbound.ActionSubstitutes:
		var aggregate ingredient.Aggregate
		if req.Action == inbound.ActionComplementary {
			aggregate = g.ComplementaryFor(names, limit)
		} else {
			aggregate = g.SubstitutesFor(names, limit)
		}
		if sorted {
			aggregate = aggregate.Sorted()
		}
		resp.SuggestionList = &inbound.SuggestionList{Suggestions: aggregate.Suggestions}
		resp.Reasoning = aggregate.Reasoning
	case inbound.ActionPairing:
		result := g.Pairing(names, limit)
		if sorted {
			result = result.Sorted()
		}
		resp.PairingLists = &inbound.PairingLists{
			Complementary: result.Complementary,
			Substitutes:   result.Substitutes,
		}
		resp.Reasoning = result.Reasoning
	}

	if n := len(resp.UnknownIngredients); n > 0 {
		s.metrics.UnknownIngredients(n)
		s.logger.Debug("Query references unknown ingredients",
			zap.Strings("unknown", resp.UnknownIngredients))
	}

	s.toCache(ctx, key, resp)
	return resp, nil
}

// Stats describes the live graph
func (s *Service) Stats(ctx context.Context) (*inbound.StatsResponse, error) {
	_, span := s.tracer.Start(ctx, "pairing.Stats")
	defer span.End()

	stats := s.graphs.Graph().Stats()
	s.metrics.GraphSize(stats.NodeCount, stats.EdgeCount, stats.Components)

	return &inbound.StatsResponse{
		Success: true,
		Stats:   stats,
		Message: StatsMessage,
	}, nil
}

// Pair scores two ingredients using hop-count or weighted paths
func (s *Service) Pair(ctx context.Context, req inbound.PairRequest) (*inbound.PairResponse, error) {
	_, span := s.tracer.Start(ctx, "pairing.Pair")
	defer span.End()

	if req.Strategy == "" {
		req.Strategy = inbound.StrategyBFS
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	a, b := ingredient.Normalize(req.A), ingredient.Normalize(req.B)
	g := s.graphs.Graph()

	resp := &inbound.PairResponse{Success: true, A: a, B: b, Strategy: req.Strategy}
	switch req.Strategy {
	case inbound.StrategyWeighted:
		resp.Similarity, resp.Path = g.WeightedSimilarity(a, b)
	default:
		resp.Similarity = g.Similarity(a, b)
		resp.Path = g.ShortestPath(a, b)
	}
	if resp.Path == nil {
		resp.Path = []string{}
	}

	span.SetAttributes(
		attribute.String("pairing.strategy", req.Strategy),
		attribute.Float64("pairing.similarity", resp.Similarity),
	)
	return resp, nil
}

// AddIngredient extends the live graph, stores the extension and drops
// cached answers
func (s *Service) AddIngredient(ctx context.Context, req inbound.AddIngredientRequest) (resp *inbound.AddIngredientResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "pairing.AddIngredient")
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		s.metrics.Extension(status)
		span.End()
	}()

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	policy, err := ingredient.ParsePolicy(req.Policy)
	if err != nil {
		return nil, errors.NewBadRequestError(err.Error())
	}

	ext := ingredient.Extension{
		Name:    ingredient.Normalize(req.Name),
		Similar: req.Similar,
		Policy:  policy,
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	// The extension is applied to a copy and published only once stored,
	// so a rejected or unsaved extension never reaches readers.
	g := s.graphs.Graph().Clone()
	if err := ext.Apply(g); err != nil {
		return nil, domainError(ext.Name, err)
	}

	if s.repo != nil {
		if err := s.repo.Save(ctx, ext); err != nil {
			s.logger.Error("Failed to store ingredient",
				zap.String("ingredient", ext.Name), zap.Error(err))
			return nil, errors.NewDatabaseError("store ingredient", err)
		}
	}

	s.graphs.Swap(g)
	s.Invalidate(ctx)
	s.publishSize(g)

	s.logger.Info("Ingredient added",
		zap.String("ingredient", ext.Name),
		zap.Int("edges", len(ext.Similar)),
		zap.String("policy", policy.String()))

	return &inbound.AddIngredientResponse{
		Success:    true,
		Ingredient: ext.Name,
		Neighbors:  g.Neighbors(ext.Name),
	}, nil
}

// Reload builds a graph from seed, replays stored extensions onto it and
// makes it live
func (s *Service) Reload(ctx context.Context, seed ingredient.Seed) (err error) {
	ctx, span := s.tracer.Start(ctx, "pairing.Reload")
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		s.metrics.SeedReload(status)
		span.End()
	}()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	g, err := s.build(ctx, seed)
	if err != nil {
		return err
	}

	s.graphs.Swap(g)
	s.Invalidate(ctx)
	s.publishSize(g)

	s.logger.Info("Ingredient graph reloaded", zap.Int("nodes", len(g.Ingredients())))
	return nil
}

// Restore replays stored extensions onto the live graph. It is run once at
// startup, before the service takes traffic.
func (s *Service) Restore(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	extensions, err := s.repo.List(ctx)
	if err != nil {
		return errors.NewDatabaseError("list stored ingredients", err)
	}
	g := s.graphs.Graph()
	if err := ingredient.Replay(g, extensions); err != nil {
		return err
	}
	s.publishSize(g)

	if len(extensions) > 0 {
		s.logger.Info("Stored ingredients restored", zap.Int("count", len(extensions)))
	}
	return nil
}

func (s *Service) build(ctx context.Context, seed ingredient.Seed) (*ingredient.Graph, error) {
	g, err := ingredient.Build(seed)
	if err != nil {
		return nil, errors.NewInvalidSeedError("reload", err)
	}
	if s.repo == nil {
		return g, nil
	}

	extensions, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list stored ingredients", err)
	}
	if err := ingredient.Replay(g, extensions); err != nil {
		return nil, errors.NewInvalidSeedError("stored ingredients", err)
	}
	return g, nil
}

// Invalidate drops every cached query answer
func (s *Service) Invalidate(ctx context.Context) {
	s.generation.Add(1)
	if s.cache == nil {
		return
	}

	keys, err := s.cache.SMembers(ctx, cacheIndexKey)
	if err != nil {
		s.logger.Warn("Failed to read cache index", zap.Error(err))
		return
	}
	if err := s.cache.Delete(ctx, append(keys, cacheIndexKey)...); err != nil {
		s.logger.Warn("Failed to invalidate cache", zap.Error(err))
	}
}

func (s *Service) limit(requested *int) int {
	if requested == nil {
		return s.config.DefaultLimit
	}
	if *requested > s.config.MaxLimit {
		return s.config.MaxLimit
	}
	return *requested
}

func (s *Service) publishSize(g *ingredient.Graph) {
	stats := g.Stats()
	s.metrics.GraphSize(stats.NodeCount, stats.EdgeCount, stats.Components)
}

func (s *Service) cacheKey(names []string, action string, limit int, sort string) string {
	payload, _ := json.Marshal(struct {
		Names  []string `json:"n"`
		Action string   `json:"a"`
		Limit  int      `json:"l"`
		Sort   string   `json:"s"`
	}{names, action, limit, sort})

	sum := sha256.Sum256(payload)
	return fmt.Sprintf("pairing:%d:%s", s.generation.Load(), hex.EncodeToString(sum[:16]))
}

func (s *Service) fromCache(ctx context.Context, key string) (*inbound.SimilarityResponse, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !stderrors.Is(err, outbound.ErrCacheMiss) {
			s.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
			s.metrics.CacheOperation("get", "error")
			return nil, false
		}
		s.metrics.CacheOperation("get", "miss")
		return nil, false
	}

	var resp inbound.SimilarityResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		s.logger.Warn("Discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		s.metrics.CacheOperation("get", "error")
		return nil, false
	}

	s.metrics.CacheOperation("get", "hit")
	return &resp, true
}

func (s *Service) toCache(ctx context.Context, key string, resp *inbound.SimilarityResponse) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.config.CacheTTL); err != nil {
		s.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		s.metrics.CacheOperation("set", "error")
		return
	}
	if err := s.cache.SAdd(ctx, cacheIndexKey, key); err != nil {
		s.logger.Warn("Cache index update failed", zap.Error(err))
	}
	s.metrics.CacheOperation("set", "ok")
}

// unknown lists names that are not in the graph, once each, in input order
// actionLabel keeps client-supplied actions out of metric labels
func actionLabel(action string) string {
	switch action {
	case inbound.ActionComplementary, inbound.ActionSubstitutes, inbound.ActionPairing:
		return action
	default:
		return "invalid"
	}
}

func unknown(g *ingredient.Graph, names []string) []string {
	var missing []string
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] || g.Contains(name) {
			continue
		}
		seen[name] = true
		missing = append(missing, name)
	}
	return missing
}

// domainError maps graph errors onto client-facing AppErrors
func domainError(name string, err error) error {
	switch {
	case stderrors.Is(err, ingredient.ErrEdgeConflict):
		return errors.NewEdgeConflictError(name, err)
	case stderrors.Is(err, ingredient.ErrEmptyIngredient),
		stderrors.Is(err, ingredient.ErrInvalidWeight),
		stderrors.Is(err, ingredient.ErrSelfEdge):
		return errors.NewInvalidIngredientError(name, err)
	default:
		return errors.Wrap(err, "Failed to add ingredient")
	}
}

type nopMetrics struct{}

func (nopMetrics) Query(string, string, time.Duration) {}
func (nopMetrics) UnknownIngredients(int)              {}
func (nopMetrics) Extension(string)                    {}
func (nopMetrics) CacheOperation(string, string)       {}
func (nopMetrics) GraphSize(int, int, int)             {}
func (nopMetrics) SeedReload(string)                   {}
