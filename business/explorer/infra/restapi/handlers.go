// Package restapi exposes the explorer over HTTP with gin.
package restapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fd1az/swap-explorer/business/explorer/app"
	"github.com/fd1az/swap-explorer/business/explorer/domain"
	quoting "github.com/fd1az/swap-explorer/business/quoting/domain"
	tokens "github.com/fd1az/swap-explorer/business/tokens/domain"
	"github.com/fd1az/swap-explorer/internal/apm"
	"github.com/fd1az/swap-explorer/internal/apperror"
	"github.com/fd1az/swap-explorer/internal/logger"
)

// Querier runs route queries.
type Querier interface {
	Run(ctx context.Context, in app.QueryInput) (*app.Outcome, error)
}

// TokenCatalog is the subset of the token directory the API uses.
type TokenCatalog interface {
	Resolve(ctx context.Context, address string) (tokens.TokenInfo, error)
	FindBySymbol(ctx context.Context, symbol string) ([]tokens.TokenInfo, error)
	Refresh(ctx context.Context) (int, error)
}

// RoutesResponse is the body of GET /api/v1/routes.
type RoutesResponse struct {
	Mode           string               `json:"mode"`
	Request        RequestView          `json:"request"`
	Input          tokens.TokenInfo     `json:"input"`
	Output         tokens.TokenInfo     `json:"output"`
	AlarmTriggered bool                 `json:"alarmTriggered"`
	BestRate       string               `json:"bestRate"`
	Routes         []quoting.DisplayRow `json:"routes"`
}

// RequestView is the quote request as sent to the aggregator.
type RequestView struct {
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	Amount     string `json:"amount"`
	Slippage   int    `json:"slippage"`
}

// Handler serves the explorer endpoints.
type Handler struct {
	explorer         Querier
	catalog          TokenCatalog
	defaultThreshold decimal.Decimal
	logger           logger.LoggerInterface
}

// NewHandler creates a new Handler.
func NewHandler(explorer Querier, catalog TokenCatalog, defaultThreshold decimal.Decimal, log logger.LoggerInterface) *Handler {
	return &Handler{
		explorer:         explorer,
		catalog:          catalog,
		defaultThreshold: defaultThreshold,
		logger:           log,
	}
}

// GetRoutes handles GET /api/v1/routes.
func (h *Handler) GetRoutes(c *gin.Context) {
	ctx := c.Request.Context()

	mode, err := domain.ParseSwapMode(c.Query("mode"))
	if err != nil {
		h.fail(c, err)
		return
	}

	mint := c.Query("mint")
	if mint == "" {
		h.fail(c, apperror.Validation(apperror.CodeInvalidInput, "mint is required"))
		return
	}

	amount := c.DefaultQuery("amount", mode.DefaultAmount())

	threshold := h.defaultThreshold
	if raw, ok := c.GetQuery("threshold"); ok {
		if threshold, err = domain.ParseThreshold(raw); err != nil {
			h.fail(c, err)
			return
		}
	}

	out, err := h.explorer.Run(ctx, app.QueryInput{
		Mode:      mode,
		TokenMint: mint,
		Amount:    amount,
		Threshold: threshold,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, RoutesResponse{
		Mode: mode.String(),
		Request: RequestView{
			InputMint:  out.Request.InputMint.String(),
			OutputMint: out.Request.OutputMint.String(),
			Amount:     out.Request.Amount.String(),
			Slippage:   out.Request.Slippage,
		},
		Input:          out.InputToken,
		Output:         out.OutputToken,
		AlarmTriggered: out.Evaluation.AlarmTriggered,
		BestRate:       out.BestRate.String(),
		Routes:         out.Rows,
	})
}

// GetToken handles GET /api/v1/tokens/:mint.
func (h *Handler) GetToken(c *gin.Context) {
	info, err := h.catalog.Resolve(c.Request.Context(), c.Param("mint"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// FindTokens handles GET /api/v1/tokens?symbol=.
func (h *Handler) FindTokens(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		h.fail(c, apperror.Validation(apperror.CodeInvalidInput, "symbol is required"))
		return
	}

	found, err := h.catalog.FindBySymbol(c.Request.Context(), symbol)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": found})
}

// RefreshTokens handles POST /api/v1/tokens/refresh.
func (h *Handler) RefreshTokens(c *gin.Context) {
	n, err := h.catalog.Refresh(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": n})
}

func (h *Handler) fail(c *gin.Context, err error) {
	ctx := c.Request.Context()
	appErr := apperror.Wrap(err, apperror.CodeInternalError, "").WithTraceID(apm.TraceID(ctx))
	if appErr.StatusCode >= http.StatusInternalServerError {
		h.logger.Error(ctx, "request failed", "path", c.FullPath(), "error", appErr.ToLog())
	}
	c.AbortWithStatusJSON(appErr.StatusCode, appErr.ToResponse())
}
