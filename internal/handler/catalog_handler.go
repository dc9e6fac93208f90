package handler

import (
	"net/http"

	"sacra/internal/middleware"
	"sacra/internal/service"
	"sacra/pkg/pagination"
	"sacra/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CatalogHandler struct {
	catalogService service.CatalogService
	saleService    service.SaleService
	auth           *middleware.Auth
	log            logrus.FieldLogger
}

func NewCatalogHandler(catalogService service.CatalogService, saleService service.SaleService, auth *middleware.Auth, log logrus.FieldLogger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		saleService:    saleService,
		auth:           auth,
		log:            log.WithField("module", "catalog_handler"),
	}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	figurines := router.Group("/api/figurines")
	{
		figurines.GET("", h.auth.RequirePermission(service.PermCatalogRead), h.ListFigurines)
		figurines.POST("", h.auth.RequirePermission(service.PermCatalogWrite), h.CreateFigurine)
		figurines.DELETE("/:id", h.auth.RequirePermission(service.PermCatalogDelete), h.DeleteFigurine)
		figurines.POST("/:id/sales", h.auth.RequirePermission(service.PermSalesWrite), h.CreateSale)
	}
}

// ListFigurines handles retrieving the paginated catalog
// @Summary      List figurines
// @Description  Retrieves a paginated list of figurines with current stock
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Search by figurine name"
// @Success      200     {object}  response.Response{data=pagination.Page[service.FigurineResponse]}
// @Failure      401     {object}  response.Response
// @Failure      500     {object}  response.Response
// @Router       /api/figurines [get]
func (h *CatalogHandler) ListFigurines(c *gin.Context) {
	p := pagination.Parse(c)

	items, total, err := h.catalogService.ListFigurines(c.Request.Context(), p.Page, p.Limit, c.Query("search"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewPage(items, total, p)))
}

// CreateFigurine adds a figurine to the catalog
// @Summary      Create figurine
// @Description  Adds a figurine. Size, material and description take defaults when empty.
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        payload  body      service.CreateFigurineRequest  true  "Figurine"
// @Success      201      {object}  response.Response{data=service.FigurineResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/figurines [post]
func (h *CatalogHandler) CreateFigurine(c *gin.Context) {
	var req service.CreateFigurineRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	figurine, err := h.catalogService.CreateFigurine(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, figurine))
}

// DeleteFigurine removes a figurine together with its sales and payments
// @Summary      Delete figurine
// @Description  Deletes the figurine and, in the same transaction, every sale of it and their payments
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Figurine ID"
// @Success      200  {object}  response.Response{data=service.DeleteFigurineResult}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/figurines/{id} [delete]
func (h *CatalogHandler) DeleteFigurine(c *gin.Context) {
	result, err := h.catalogService.DeleteFigurine(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// CreateSale sells one unit of the figurine on installments
// @Summary      Create sale
// @Description  Registers an installment sale. The debt is the figurine price and stock drops by one.
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        id       path      string                     true  "Figurine ID"
// @Param        payload  body      service.CreateSaleRequest  true  "Sale"
// @Success      201      {object}  response.Response{data=service.SaleResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response  "Out of stock or duplicate contract number"
// @Router       /api/figurines/{id}/sales [post]
func (h *CatalogHandler) CreateSale(c *gin.Context) {
	var req service.CreateSaleRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sale))
}
