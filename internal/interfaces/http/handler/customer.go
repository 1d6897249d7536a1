package handler

import (
	"strconv"

	customerapp "github.com/crmlite/backend/internal/application/customer"
	"github.com/crmlite/backend/internal/domain/customer"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer CRUD and search endpoints
type CustomerHandler struct {
	BaseHandler
	service       *customerapp.Service
	searchService *customerapp.SearchService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(service *customerapp.Service, searchService *customerapp.SearchService) *CustomerHandler {
	return &CustomerHandler{
		service:       service,
		searchService: searchService,
	}
}

// RegisterRoutes registers customer routes on the API group
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.Create)
		customers.GET("", h.List)
		customers.GET("/search", h.Search)
		customers.GET("/:id", h.GetByID)
		customers.GET("/:id/details", h.GetDetails)
		customers.PUT("/:id", h.Update)
		customers.DELETE("/:id", h.Delete)
	}
}

// SearchRequest carries the search query parameters. Pagination outside
// the allowed range is rejected here; sort and status are left to the
// query's Normalize, which falls back to name order on unknown fields.
type SearchRequest struct {
	Term          string `form:"q"`
	Status        string `form:"status"`
	SortBy        string `form:"sort_by"`
	SortDirection string `form:"sort_dir"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Create handles POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID handles GET /customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := h.customerID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetDetails handles GET /customers/:id/details, returning the customer
// with its full address and order graph.
func (h *CustomerHandler) GetDetails(c *gin.Context) {
	id, ok := h.customerID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetDetails(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update handles PUT /customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.customerID(c)
	if !ok {
		return
	}

	var req customerapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete handles DELETE /customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.customerID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /customers
func (h *CustomerHandler) List(c *gin.Context) {
	var filter customerapp.CustomerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize, result.TotalPages)
}

// Search handles GET /customers/search over the summary projection
func (h *CustomerHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.searchService.Search(c.Request.Context(), customer.SearchQuery{
		Term:          req.Term,
		Status:        req.Status,
		SortBy:        customer.SortField(req.SortBy),
		SortDirection: customer.SortDirection(req.SortDirection),
		Page:          req.Page,
		PageSize:      req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, int64(page.Total), page.Page, page.PageSize, page.TotalPages)
}

// customerID parses the :id path parameter, responding 400 on failure
func (h *CustomerHandler) customerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.BadRequest(c, "Invalid customer ID")
		return 0, false
	}
	return id, true
}
