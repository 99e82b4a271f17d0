// Package server exposes the estimate pipeline over a JSON API.
package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gonum.org/v1/gonum/floats"

	"github.com/paydar/paydar/internal/config"
	"github.com/paydar/paydar/internal/dist"
	"github.com/paydar/paydar/internal/model"
	"github.com/paydar/paydar/internal/sampler"
)

// Server wires the sampler and the run store into HTTP handlers.
type Server struct {
	sampler  *sampler.Sampler
	store    model.RunStore
	defaults config.DefaultsConfig
	logger   *slog.Logger
}

// New creates the API server. Requests that leave tier or samples unset fall
// back to defaults.
func New(s *sampler.Sampler, store model.RunStore, defaults config.DefaultsConfig, logger *slog.Logger) *Server {
	return &Server{
		sampler:  s,
		store:    store,
		defaults: defaults,
		logger:   logger,
	}
}

// Handler builds the router with all API routes.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsCfg))

	api := r.Group("/api/v1")
	{
		api.GET("/health", s.health)
		api.POST("/estimate", s.estimate)
		api.POST("/spot", s.spot)
		api.GET("/history", s.history)
	}
	return r
}

// estimateRequest leaves the role strings unvalidated; empty values reach the
// prompt verbatim. Samples outside 1-100 are rejected after defaulting.
type estimateRequest struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Tier     string `json:"tier"`
	Samples  int    `json:"samples" binding:"omitempty,min=1,max=100"`
}

type curveResponse struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

type estimateResponse struct {
	Median      *float64        `json:"median,omitempty"`
	Percentiles map[int]float64 `json:"percentiles"`
	Curve       *curveResponse  `json:"curve,omitempty"`
	Requested   int             `json:"requested"`
	Valid       int             `json:"valid"`
	Warnings    []string        `json:"warnings,omitempty"`
}

type spotResponse struct {
	Median    float64  `json:"median"`
	Values    []int    `json:"values"`
	Requested int      `json:"requested"`
	Valid     int      `json:"valid"`
	Warnings  []string `json:"warnings,omitempty"`
}

type runResponse struct {
	ID          int64           `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	Kind        string          `json:"kind"`
	Title       string          `json:"title"`
	Company     string          `json:"company"`
	Location    string          `json:"location"`
	Tier        string          `json:"tier"`
	Requested   int             `json:"requested"`
	Valid       int             `json:"valid"`
	Median      float64         `json:"median"`
	Percentiles map[int]float64 `json:"percentiles,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) estimate(c *gin.Context) {
	var in estimateRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	req, err := s.toRequest(in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, warnings, err := s.sampler.Distribution(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := estimateResponse{
		Percentiles: d.Percentiles,
		Requested:   d.Requested,
		Valid:       d.Valid,
		Warnings:    warnings,
	}
	var median float64
	if med, ok := d.Median(); ok {
		median = med
		resp.Median = &med
	}
	// The curve is best effort: a failed fit still leaves the numbers standing.
	values := d.Values()
	if fit, err := dist.FitLogNormal(values); err == nil {
		lo, hi := floats.Min(values), floats.Max(values)
		pts := dist.Curve(fit, lo, hi, dist.CurvePoints)
		curve := &curveResponse{
			X: make([]float64, len(pts)),
			Y: make([]float64, len(pts)),
		}
		for i, p := range pts {
			curve.X[i] = p.X
			curve.Y[i] = p.Y
		}
		resp.Curve = curve
	}

	s.saveRun(model.KindDistribution, req, d.Valid, median, d.Percentiles)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) spot(c *gin.Context) {
	var in estimateRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	req, err := s.toRequest(in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	est, warnings, err := s.sampler.Spot(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.saveRun(model.KindSpot, req, est.Valid(), est.Median, nil)
	c.JSON(http.StatusOK, spotResponse{
		Median:    est.Median,
		Values:    est.Values,
		Requested: est.Requested,
		Valid:     est.Valid(),
		Warnings:  warnings,
	})
}

func (s *Server) history(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive number"})
		return
	}

	recs, err := s.store.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]runResponse, len(recs))
	for i, rec := range recs {
		out[i] = runResponse{
			ID:          rec.ID,
			CreatedAt:   rec.CreatedAt,
			Kind:        rec.Kind,
			Title:       rec.Title,
			Company:     rec.Company,
			Location:    rec.Location,
			Tier:        string(rec.Tier),
			Requested:   rec.Requested,
			Valid:       rec.Valid,
			Median:      rec.Median,
			Percentiles: rec.Percentiles,
		}
	}
	c.JSON(http.StatusOK, out)
}

// toRequest seeds unset fields from defaults and validates the result.
func (s *Server) toRequest(in estimateRequest) (model.Request, error) {
	tier := s.defaults.Tier
	if in.Tier != "" {
		t, err := model.ParseTier(in.Tier)
		if err != nil {
			return model.Request{}, err
		}
		tier = t
	}
	samples := in.Samples
	if samples == 0 {
		samples = s.defaults.Samples
	}

	req := model.Request{
		Title:    in.Title,
		Company:  in.Company,
		Location: in.Location,
		Tier:     tier,
		Samples:  samples,
	}
	return req, req.Validate()
}

func (s *Server) saveRun(kind string, req model.Request, valid int, median float64, percentiles map[int]float64) {
	rec := model.RunRecord{
		CreatedAt:   time.Now(),
		Kind:        kind,
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Tier:        req.Tier,
		Requested:   req.Samples,
		Valid:       valid,
		Median:      median,
		Percentiles: percentiles,
	}
	if err := s.store.Save(rec); err != nil {
		s.logger.Warn("save run", "error", err)
	}
}
