package handler

import (
	"net/http"

	"sacra/internal/middleware"
	"sacra/internal/service"
	"sacra/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
	auth             *middleware.Auth
	log              logrus.FieldLogger
}

func NewDashboardHandler(dashboardService service.DashboardService, auth *middleware.Auth, log logrus.FieldLogger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, auth: auth, log: log.WithField("module", "dashboard_handler")}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/dashboard", h.auth.RequirePermission(service.PermDashboardRead), h.GetDashboard)
}

// @Summary      Get dashboard
// @Description  Totals collected and outstanding, pending sales, the latest sales and a 7-day collection series
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  response.Response{data=model.DashboardSnapshot}
// @Failure      401  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Security     BearerAuth
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	snap, err := h.dashboardService.GetDashboard(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, snap))
}
