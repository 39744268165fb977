package handler

import (
	"context"
	"fmt"
	"net/http"

	"stockboard/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// SnapshotGate serves the cached analysis snapshot.
type SnapshotGate interface {
	Get(ctx context.Context) (*domain.Snapshot, error)
	ForceRefresh(ctx context.Context) (*domain.Snapshot, error)
}

// ChartData serves period-scoped bar series for the history endpoint.
type ChartData interface {
	Intraday(ctx context.Context, symbol string, period domain.HistoryPeriod) ([]domain.PriceBar, error)
}

// LiveAnalyzer runs the uncached on-demand pipeline for one symbol.
type LiveAnalyzer interface {
	AnalyzeLive(ctx context.Context, symbol string) *domain.StockAnalysis
}

// Handler wires the HTTP surface. All API responses are JSON; the root
// serves the dashboard page.
type Handler struct {
	gate   SnapshotGate
	charts ChartData
	live   LiveAnalyzer
	webDir string
	tracer trace.Tracer
}

func New(gate SnapshotGate, charts ChartData, live LiveAnalyzer, webDir string, tracer trace.Tracer) *Handler {
	return &Handler{
		gate:   gate,
		charts: charts,
		live:   live,
		webDir: webDir,
		tracer: tracer,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	if h.webDir != "" {
		r.StaticFile("/", h.webDir+"/index.html")
	}
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.GET("/stocks", h.GetStocks)
		api.POST("/refresh", h.Refresh)
		api.GET("/stock_history/:symbol/:period", h.GetStockHistory)
		api.GET("/live_prediction/:symbol", h.GetLivePrediction)
	}
}

// Health godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetStocks godoc
// @Summary Get the full stock analysis snapshot
// @Description Returns per-symbol analysis records, the recommendation summary, and the snapshot timestamp. Recomputes first when the cached snapshot is stale.
// @Tags stocks
// @Produce json
// @Success 200 {object} domain.Snapshot
// @Failure 500 {object} map[string]string
// @Router /api/stocks [get]
func (h *Handler) GetStocks(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-stocks")
	defer span.End()

	snap, err := h.gate.Get(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build stock analysis: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Refresh godoc
// @Summary Force a snapshot recomputation
// @Description Discards the cached snapshot and runs a full analysis pass regardless of freshness.
// @Tags stocks
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.refresh-stocks")
	defer span.End()

	snap, err := h.gate.ForceRefresh(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to refresh stock analysis: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Analyzed %d stocks", len(snap.Stocks)),
	})
}

// GetStockHistory godoc
// @Summary Get price history for charting
// @Description Returns date/close points for a tracked symbol at the resolution implied by the period (1D, 1W, or 1M).
// @Tags stocks
// @Produce json
// @Param symbol path string true "Stock symbol"
// @Param period path string true "History period" Enums(1D, 1W, 1M)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/stock_history/{symbol}/{period} [get]
func (h *Handler) GetStockHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-stock-history")
	defer span.End()

	symbol := c.Param("symbol")
	if !domain.InUniverse(symbol) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown symbol: " + symbol})
		return
	}
	period := domain.HistoryPeriod(c.Param("period"))
	if !period.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "invalid period: " + string(period),
			"supported_periods": domain.SupportedPeriods,
		})
		return
	}

	bars, err := h.charts.Intraday(ctx, symbol, period)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch history for " + symbol + ": " + err.Error()})
		return
	}

	layout := "2006-01-02"
	if period == domain.Period1D {
		layout = "15:04"
	}
	points := make([]domain.HistoryPoint, 0, len(bars))
	for _, bar := range bars {
		points = append(points, domain.HistoryPoint{
			Date:  bar.Time.Format(layout),
			Close: bar.Close,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"symbol": symbol,
		"period": period,
		"points": points,
	})
}

// GetLivePrediction godoc
// @Summary Get an on-demand live prediction for one symbol
// @Description Runs the analysis pipeline for a single symbol with the freshest quote folded in, bypassing the snapshot cache.
// @Tags stocks
// @Produce json
// @Param symbol path string true "Stock symbol"
// @Success 200 {object} domain.StockAnalysis
// @Failure 400 {object} map[string]string
// @Router /api/live_prediction/{symbol} [get]
func (h *Handler) GetLivePrediction(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-live-prediction")
	defer span.End()

	symbol := c.Param("symbol")
	if !domain.InUniverse(symbol) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown symbol: " + symbol})
		return
	}

	c.JSON(http.StatusOK, h.live.AnalyzeLive(ctx, symbol))
}
