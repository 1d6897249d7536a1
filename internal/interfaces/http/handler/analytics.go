package handler

import (
	customerapp "github.com/crmlite/backend/internal/application/customer"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandler handles the aggregate reporting endpoints
type AnalyticsHandler struct {
	BaseHandler
	service *customerapp.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(service *customerapp.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// RegisterRoutes registers analytics routes on the API group
func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	analytics := rg.Group("/analytics")
	{
		analytics.GET("/top-customers", h.TopCustomers)
		analytics.GET("/revenue", h.Revenue)
	}
}

type topCustomersRequest struct {
	Count int `form:"count" binding:"omitempty,min=1,max=100"`
}

type revenueRequest struct {
	Months int `form:"months" binding:"omitempty,min=1,max=60"`
}

// TopCustomers handles GET /analytics/top-customers
func (h *AnalyticsHandler) TopCustomers(c *gin.Context) {
	var req topCustomersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	top, err := h.service.TopCustomers(c.Request.Context(), req.Count)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, top)
}

// Revenue handles GET /analytics/revenue
func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	var req revenueRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	rev, err := h.service.RevenueByMonth(c.Request.Context(), req.Months)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rev)
}
