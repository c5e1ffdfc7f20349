package management

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"compass/internal/constants"
	"compass/internal/logger"
	"compass/pkg/errors"
)

type BaseHandler struct {
	Service Service
	Logger  logger.Logger
}

func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	h.Logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)

	status := errors.ToHTTPStatus(err)
	response := errors.ToErrorResponse(err)

	c.JSON(status, response)
}

type Handler struct {
	BaseHandler
}

func NewHandler(service Service, log logger.Logger) *Handler {
	return &Handler{
		BaseHandler: BaseHandler{
			Service: service,
			Logger:  log,
		},
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		rules := v1.Group("/rules")
		{
			rules.GET("", h.ListRules)
			rules.POST("", h.CreateRule)
			rules.GET("/:id", h.GetRule)
			rules.PUT("/:id", h.UpdateRule)
			rules.DELETE("/:id", h.DeleteRule)
			rules.GET("/:id/versions", h.GetRuleVersions)
			rules.GET("/:id/audit", h.GetRuleAuditLogs)
		}

		audit := v1.Group("/audit")
		{
			audit.GET("/logs", h.GetAuditLogs)
		}
	}
}

// ListRules godoc
// @Summary      List all profile rules
// @Description  Get a list of all profile rules
// @Tags         profile-rules
// @Accept       json
// @Produce      json
// @Success      200  {array}    ProfileRule
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /rules [get]
func (h *Handler) ListRules(c *gin.Context) {
	rules, err := h.Service.ListProfileRules(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

// CreateRule godoc
// @Summary      Create a new profile rule
// @Description  Create a new profile rule with the provided data
// @Tags         profile-rules
// @Accept       json
// @Produce      json
// @Param        rule  body       CreateProfileRuleRequest  true  "Profile rule data"
// @Success      201   {object}   ProfileRule
// @Failure      400   {object}  errors.ErrorResponse
// @Failure      409   {object}  errors.ErrorResponse
// @Failure      500   {object}  errors.ErrorResponse
// @Router       /rules [post]
func (h *Handler) CreateRule(c *gin.Context) {
	var req CreateProfileRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	rule, err := h.Service.CreateProfileRule(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rule)
}

// GetRule godoc
// @Summary      Get a profile rule by ID
// @Description  Get a specific profile rule by its ID
// @Tags         profile-rules
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Rule ID"
// @Success      200  {object}   ProfileRule
// @Failure      404  {object}  errors.ErrorResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /rules/{id} [get]
func (h *Handler) GetRule(c *gin.Context) {
	id := c.Param("id")
	rule, err := h.Service.GetProfileRule(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

// UpdateRule godoc
// @Summary      Update a profile rule
// @Description  Update an existing profile rule by ID
// @Tags         profile-rules
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "Rule ID"
// @Param        rule  body       UpdateProfileRuleRequest  true  "Updated rule data"
// @Success      200   {object}   ProfileRule
// @Failure      400   {object}  errors.ErrorResponse
// @Failure      404   {object}  errors.ErrorResponse
// @Failure      500   {object}  errors.ErrorResponse
// @Router       /rules/{id} [put]
func (h *Handler) UpdateRule(c *gin.Context) {
	id := c.Param("id")
	var req UpdateProfileRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	rule, err := h.Service.UpdateProfileRule(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

// DeleteRule godoc
// @Summary      Delete a profile rule
// @Description  Delete a profile rule by ID
// @Tags         profile-rules
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Rule ID"
// @Success      204  "No Content"
// @Failure      404  {object}  errors.ErrorResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /rules/{id} [delete]
func (h *Handler) DeleteRule(c *gin.Context) {
	id := c.Param("id")
	err := h.Service.DeleteProfileRule(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetRuleVersions godoc
// @Summary      Get rule version history
// @Description  Get version history for a specific profile rule
// @Tags         profile-rules
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Rule ID"
// @Success      200  {array}   RuleVersion
// @Failure      404  {object}  errors.ErrorResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /rules/{id}/versions [get]
func (h *Handler) GetRuleVersions(c *gin.Context) {
	id := c.Param("id")
	versions, err := h.Service.GetRuleVersions(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

// GetRuleAuditLogs godoc
// @Summary      Get audit logs for a rule
// @Description  Get audit logs for a specific profile rule
// @Tags         profile-rules
// @Accept       json
// @Produce      json
// @Param        id     path      string  true   "Rule ID"
// @Param        limit  query     int     false  "Maximum number of logs to return (1-1000)" default(100)
// @Success      200    {array}   AuditLog
// @Failure      404    {object}  errors.ErrorResponse
// @Failure      500    {object}  errors.ErrorResponse
// @Router       /rules/{id}/audit [get]
func (h *Handler) GetRuleAuditLogs(c *gin.Context) {
	id := c.Param("id")
	limit := parseLimit(c.Query("limit"))

	logs, err := h.Service.GetAuditLogs(c.Request.Context(), &id, "profile", limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GetAuditLogs godoc
// @Summary      Get audit logs
// @Description  Get audit logs with optional filtering by rule ID and rule type
// @Tags         audit
// @Accept       json
// @Produce      json
// @Param        rule_id    query     string  false  "Filter by rule ID"
// @Param        rule_type  query     string  false  "Filter by rule type"
// @Param        limit      query     int     false  "Maximum number of logs to return (1-1000)" default(100)
// @Success      200        {array}   AuditLog
// @Failure      500        {object}  errors.ErrorResponse
// @Router       /audit/logs [get]
func (h *Handler) GetAuditLogs(c *gin.Context) {
	ruleID := c.Query("rule_id")
	ruleType := c.Query("rule_type")
	limit := parseLimit(c.Query("limit"))

	var ruleIDPtr *string
	if ruleID != "" {
		ruleIDPtr = &ruleID
	}

	logs, err := h.Service.GetAuditLogs(c.Request.Context(), ruleIDPtr, ruleType, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func parseLimit(limitStr string) int {
	if limitStr == "" {
		return constants.DefaultLimit
	}
	parsed, err := strconv.Atoi(limitStr)
	if err != nil || parsed <= 0 || parsed > constants.MaxLimit {
		return constants.DefaultLimit
	}
	return parsed
}

type ProductHandler struct {
	BaseHandler
}

func NewProductHandler(service Service, log logger.Logger) *ProductHandler {
	return &ProductHandler{
		BaseHandler: BaseHandler{
			Service: service,
			Logger:  log,
		},
	}
}

func (h *ProductHandler) RegisterProductRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", h.ListProducts)
			products.POST("", h.CreateProduct)
			products.GET("/:id", h.GetProduct)
			products.PUT("/:id", h.UpdateProduct)
			products.DELETE("/:id", h.DeleteProduct)
		}
	}
}

// ListProducts godoc
// @Summary      List all products
// @Description  Get a list of all catalog products
// @Tags         products
// @Accept       json
// @Produce      json
// @Success      200  {array}    catalog.Product
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.Service.ListProducts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateProduct godoc
// @Summary      Create a new product
// @Description  Create a new catalog product with the provided data
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        product  body       CreateProductRequest  true  "Product data"
// @Success      201      {object}   catalog.Product
// @Failure      400      {object}  errors.ErrorResponse
// @Failure      500      {object}  errors.ErrorResponse
// @Router       /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	product, err := h.Service.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProduct godoc
// @Summary      Get a product by ID
// @Description  Get a specific catalog product by its ID
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}   catalog.Product
// @Failure      404  {object}  errors.ErrorResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	product, err := h.Service.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProduct godoc
// @Summary      Update a product
// @Description  Update an existing catalog product by ID
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Product ID"
// @Param        product  body       UpdateProductRequest  true  "Updated product data"
// @Success      200      {object}   catalog.Product
// @Failure      400      {object}  errors.ErrorResponse
// @Failure      404      {object}  errors.ErrorResponse
// @Failure      500      {object}  errors.ErrorResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	product, err := h.Service.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary      Delete a product
// @Description  Delete a catalog product by ID
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      204  "No Content"
// @Failure      404  {object}  errors.ErrorResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	err := h.Service.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type SimulationHandler struct {
	BaseHandler
}

func NewSimulationHandler(service Service, log logger.Logger) *SimulationHandler {
	return &SimulationHandler{
		BaseHandler: BaseHandler{
			Service: service,
			Logger:  log,
		},
	}
}

func (h *SimulationHandler) RegisterSimulationRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		v1.POST("/simulate", h.Simulate)
	}
}

// Simulate godoc
// @Summary      Simulate rule evaluation and recommendations
// @Description  Run the stored rules and products against a caller-supplied profile and event list without persisting anything
// @Tags         simulation
// @Accept       json
// @Produce      json
// @Param        simulation  body       SimulationRequest  true  "Profile and events to simulate"
// @Success      200         {object}   SimulationResponse
// @Failure      400         {object}  errors.ErrorResponse
// @Failure      500         {object}  errors.ErrorResponse
// @Router       /simulate [post]
func (h *SimulationHandler) Simulate(c *gin.Context) {
	var req SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	result, err := h.Service.Simulate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
