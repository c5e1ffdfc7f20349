package recommend

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"compass/internal/logger"
	"compass/internal/profile"
	"compass/pkg/errors"
)

type Handler struct {
	service *Service
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/customers/:id/recommendations", h.GetRecommendations)
		v1.POST("/recommendations/preview", h.PreviewRecommendations)
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	h.logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)

	status := errors.ToHTTPStatus(err)
	response := errors.ToErrorResponse(err)

	c.JSON(status, response)
}

// PreviewProfile is an ad-hoc profile supplied in a preview request.
type PreviewProfile struct {
	CustomerID string                 `json:"customer_id"`
	StaticData map[string]interface{} `json:"static_data"`
	Behavioral map[string]interface{} `json:"behavioral"`
	Scores     map[string]float64     `json:"scores"`
	Tags       []string               `json:"tags"`
}

// RecommendationsResponse is the API shape for a decision list.
type RecommendationsResponse struct {
	CustomerID      string           `json:"customer_id"`
	Recommendations []Recommendation `json:"recommendations"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// GetRecommendations godoc
// @Summary      Get recommendations for a customer
// @Description  Evaluate the active product catalog against the customer's stored profile
// @Tags         recommendations
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}   RecommendationsResponse
// @Failure      400  {object}  errors.ErrorResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /customers/{id}/recommendations [get]
func (h *Handler) GetRecommendations(c *gin.Context) {
	customerID := c.Param("id")

	recs, err := h.service.ForCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, RecommendationsResponse{
		CustomerID:      customerID,
		Recommendations: recs,
		GeneratedAt:     time.Now(),
	})
}

// PreviewRecommendations godoc
// @Summary      Preview recommendations for an ad-hoc profile
// @Description  Evaluate the active product catalog against a profile supplied in the request body, without touching stored profiles
// @Tags         recommendations
// @Accept       json
// @Produce      json
// @Param        profile  body       PreviewProfile  true  "Profile to evaluate"
// @Success      200      {object}   RecommendationsResponse
// @Failure      400      {object}  errors.ErrorResponse
// @Failure      500      {object}  errors.ErrorResponse
// @Router       /recommendations/preview [post]
func (h *Handler) PreviewRecommendations(c *gin.Context) {
	var req PreviewProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	p := profile.New(req.CustomerID)
	if req.StaticData != nil {
		p.StaticData = req.StaticData
	}
	if req.Behavioral != nil {
		p.Behavioral = req.Behavioral
	}
	if req.Scores != nil {
		p.Scores = req.Scores
	}
	if req.Tags != nil {
		p.Tags = req.Tags
	}

	recs, err := h.service.ForProfile(c.Request.Context(), p)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, RecommendationsResponse{
		CustomerID:      req.CustomerID,
		Recommendations: recs,
		GeneratedAt:     time.Now(),
	})
}
