package api

import (
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/david/riskwatch/internal/models"
	"github.com/david/riskwatch/internal/risk"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	Risk *risk.Service
	Cfg  *risk.Config
	Echo *echo.Echo
}

func NewServer(svc *risk.Service, cfg *risk.Config) *Server {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from env or default to localhost
	allowedOrigins := []string{"http://localhost:5173"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s := &Server{
		Risk: svc,
		Cfg:  cfg,
		Echo: e,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api/v1")
	api.POST("/analyze", s.handleAnalyze)
	api.GET("/updates", s.handleUpdates)
	api.POST("/analytics", s.handleAnalytics)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

type analyzeRequest struct {
	EntityName string `json:"entity_name"`
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	req.EntityName = strings.TrimSpace(req.EntityName)
	if req.EntityName == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "entity_name is required"})
	}

	result, err := s.Risk.AnalyzeEntity(c.Request().Context(), req.EntityName)
	if err != nil {
		// Only backend/transport failures reach here; parse problems were
		// already absorbed into a degraded report.
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "Risk analysis is temporarily unavailable. Please try again.",
		})
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleUpdates(c echo.Context) error {
	// Always 200: feed failures degrade to an empty array upstream.
	return c.JSON(http.StatusOK, s.Risk.GlobalUpdates(c.Request().Context()))
}

type analyticsRequest struct {
	Report    models.EntityRiskReport `json:"report"`
	TrendDays int                     `json:"trend_days"`
}

func (s *Server) handleAnalytics(c echo.Context) error {
	var req analyticsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.TrendDays == 0 {
		req.TrendDays = s.Cfg.Trend.DefaultDays
	}
	if !s.Cfg.AllowsTrendWindow(req.TrendDays) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "trend_days must be one of 30, 60, 90"})
	}

	// Fresh entropy per request; the trend is a chart simulation and is not
	// meant to be reproducible.
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return c.JSON(http.StatusOK, risk.ComputeAnalytics(req.Report, req.TrendDays, rng))
}
