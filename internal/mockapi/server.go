// Package mockapi serves synthetic /stats, /basic and /optimized responses so
// the dashboard can run without the real feature store backends.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net"
	"net/http"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jontk/fsdash/internal/logging"
)

// MaxUserID is the highest user the mock knows about; ids run from 0
const MaxUserID = 999

// Server is the mock backend
type Server struct {
	mu           sync.Mutex
	basicDelay   time.Duration
	cache        map[int]Features
	counts       map[string]int
	totals       map[string]float64
	failNext     map[string]int
	logger       *logging.Logger
	sleep        func(ctx context.Context, d time.Duration)
	memoryReader func() float64
}

// Features is the synthetic feature vector returned for a user
type Features struct {
	AvgPurchaseValue  float64 `json:"avg_purchase_value"`
	PurchaseFrequency float64 `json:"purchase_frequency"`
	UserLifetimeValue float64 `json:"user_lifetime_value"`
	EngagementScore   float64 `json:"engagement_score"`
	ChurnRisk         float64 `json:"churn_risk"`
}

// NewServer creates a mock backend whose basic endpoint waits basicDelay
func NewServer(basicDelay time.Duration, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Server{
		basicDelay:   basicDelay,
		cache:        make(map[int]Features),
		counts:       map[string]int{"basic": 0, "optimized": 0},
		totals:       map[string]float64{"basic": 0, "optimized": 0},
		failNext:     make(map[string]int),
		logger:       logger.WithComponent("mockapi"),
		sleep:        sleepCtx,
		memoryReader: heapMB,
	}
}

// FailNext makes the next n requests to route ("stats", "basic" or
// "optimized") answer 503. Used to exercise failure paths.
func (s *Server) FailNext(route string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[route] = n
}

// RegisterRoutes sets up all mock routes
func (s *Server) RegisterRoutes(r *mux.Router) {
	r.Use(requestID)
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/stats", s.handleStats).Methods("GET")
	r.HandleFunc("/basic/{userID:[0-9]+}", s.handleBasic).Methods("GET")
	r.HandleFunc("/optimized/{userID:[0-9]+}", s.handleOptimized).Methods("GET")
}

// Handler returns a router with all routes registered
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	s.RegisterRoutes(r)
	return r
}

// ListenAndServe serves on addr until ctx is canceled. ready, when non-nil,
// receives the bound address once the listener is open.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready chan<- string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("Mock backend listening")
	if ready != nil {
		ready <- ln.Addr().String()
	}

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", uuid.NewString())
		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"detail": message})
}

// shouldFail consumes one injected failure for route
func (s *Server) shouldFail(route string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext[route] > 0 {
		s.failNext[route]--
		return true
	}
	return false
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	if s.shouldFail("stats") {
		respondError(w, http.StatusServiceUnavailable, "stats unavailable")
		return
	}

	s.mu.Lock()
	basicAvg := s.totals["basic"] / math.Max(float64(s.counts["basic"]), 1)
	optimizedAvg := s.totals["optimized"] / math.Max(float64(s.counts["optimized"]), 1)
	body := map[string]interface{}{
		"basic": map[string]interface{}{
			"total_requests":         s.counts["basic"],
			"avg_computation_time":   basicAvg,
			"total_computation_time": s.totals["basic"],
		},
		"optimized": map[string]interface{}{
			"total_requests":         s.counts["optimized"],
			"avg_computation_time":   optimizedAvg,
			"total_computation_time": s.totals["optimized"],
			"cache_size":             len(s.cache),
		},
		"memory_usage_mb": s.memoryReader(),
	}
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, body)
}

func (s *Server) handleBasic(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userFromPath(w, r, "basic")
	if !ok {
		return
	}

	start := time.Now()
	s.sleep(r.Context(), s.basicDelay)
	features := computeFeatures(userID)
	elapsed := sinceMs(start)

	s.record("basic", elapsed)
	respondJSON(w, http.StatusOK, s.featureBody(features, elapsed, false))
}

func (s *Server) handleOptimized(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userFromPath(w, r, "optimized")
	if !ok {
		return
	}

	start := time.Now()
	s.mu.Lock()
	features, hit := s.cache[userID]
	if !hit {
		features = computeFeatures(userID)
		s.cache[userID] = features
	}
	s.mu.Unlock()
	elapsed := sinceMs(start)

	s.record("optimized", elapsed)
	respondJSON(w, http.StatusOK, s.featureBody(features, elapsed, hit))
}

func (s *Server) userFromPath(w http.ResponseWriter, r *http.Request, route string) (int, bool) {
	if s.shouldFail(route) {
		respondError(w, http.StatusServiceUnavailable, route+" unavailable")
		return 0, false
	}

	userID, err := strconv.Atoi(mux.Vars(r)["userID"])
	if err != nil || userID > MaxUserID {
		s.logger.Debug().Str("route", route).Str("user", mux.Vars(r)["userID"]).Msg("Unknown user")
		respondError(w, http.StatusNotFound, "User not found")
		return 0, false
	}
	return userID, true
}

func (s *Server) record(route string, elapsedMs float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[route]++
	s.totals[route] += elapsedMs
}

func (s *Server) featureBody(f Features, elapsedMs float64, cacheHit bool) map[string]interface{} {
	return map[string]interface{}{
		"features":         f,
		"computation_time": elapsedMs,
		"metrics": map[string]interface{}{
			"cache_hit":       cacheHit,
			"memory_usage_mb": s.memoryReader(),
			"feature_count":   5,
		},
	}
}

// computeFeatures derives a stable synthetic profile from the user id
func computeFeatures(userID int) Features {
	seed := float64(userID%MaxUserID + 1)
	age := 18 + math.Mod(seed*7, 62)
	purchases := math.Mod(seed*13, 100)
	spend := math.Mod(seed*37.5, 1000)
	loyalty := math.Mod(seed*11.3, 100)
	idleDays := math.Mod(seed*17, 365)

	p := math.Max(purchases, 1)
	return Features{
		AvgPurchaseValue:  spend / p,
		PurchaseFrequency: purchases / 30,
		UserLifetimeValue: spend * (age / 50),
		EngagementScore:   loyalty*0.4 + purchases*0.6,
		ChurnRisk:         math.Max(0, math.Min(100, idleDays/30*100/p)),
	}
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func heapMB() float64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return float64(ms.HeapAlloc) / 1024 / 1024
}
