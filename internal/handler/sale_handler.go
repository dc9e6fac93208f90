package handler

import (
	"bytes"
	"net/http"
	"time"

	"sacra/internal/middleware"
	"sacra/internal/service"
	"sacra/pkg/pagination"
	"sacra/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SaleHandler struct {
	saleService    service.SaleService
	paymentService service.PaymentService
	exportService  service.ExportService
	auth           *middleware.Auth
	log            logrus.FieldLogger
}

func NewSaleHandler(
	saleService service.SaleService,
	paymentService service.PaymentService,
	exportService service.ExportService,
	auth *middleware.Auth,
	log logrus.FieldLogger,
) *SaleHandler {
	return &SaleHandler{
		saleService:    saleService,
		paymentService: paymentService,
		exportService:  exportService,
		auth:           auth,
		log:            log.WithField("module", "sale_handler"),
	}
}

func (h *SaleHandler) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/api/sales")
	{
		sales.GET("", h.auth.RequirePermission(service.PermSalesRead), h.ListSales)
		sales.GET("/export", h.auth.RequirePermission(service.PermSalesRead), h.ExportSales)
		sales.GET("/:id", h.auth.RequirePermission(service.PermSalesRead), h.GetSale)
		sales.POST("/:id/payments", h.auth.RequirePermission(service.PermPaymentsWrite), h.RecordPayment)
	}
}

// ListSales returns the sales ledger, newest first
// @Summary      List sales
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        status  query     string  false  "PAID, PENDING or CANCELLED_THIS_MONTH"
// @Success      200     {object}  response.Response{data=pagination.Page[service.SaleResponse]}
// @Failure      400     {object}  response.Response
// @Router       /api/sales [get]
func (h *SaleHandler) ListSales(c *gin.Context) {
	p := pagination.Parse(c)

	items, total, err := h.saleService.ListSales(c.Request.Context(), p.Page, p.Limit, c.Query("status"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewPage(items, total, p)))
}

// GetSale returns one sale with its payment history
// @Summary      Get sale
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Sale ID"
// @Success      200  {object}  response.Response{data=service.SaleResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetSale(c *gin.Context) {
	sale, err := h.saleService.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, sale))
}

// RecordPayment registers an abono against a sale
// @Summary      Record payment
// @Description  Stores a payment and recomputes the amount paid and status of the sale
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        id       path      string                        true  "Sale ID"
// @Param        payload  body      service.RecordPaymentRequest  true  "Payment"
// @Success      201      {object}  response.Response{data=service.PaymentResult}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/sales/{id}/payments [post]
func (h *SaleHandler) RecordPayment(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.paymentService.RecordPayment(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ExportSales downloads the ledger as a spreadsheet
// @Summary      Export sales
// @Tags         sales
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    file
// @Failure      500  {object}  response.Response
// @Router       /api/sales/export [get]
func (h *SaleHandler) ExportSales(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.exportService.ExportSales(c.Request.Context(), &buf); err != nil {
		writeError(c, h.log, err)
		return
	}

	filename := "sales-" + time.Now().UTC().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
