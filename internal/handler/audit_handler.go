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

type AuditHandler struct {
	auditService service.AuditService
	auth         *middleware.Auth
	log          logrus.FieldLogger
}

func NewAuditHandler(auditService service.AuditService, auth *middleware.Auth, log logrus.FieldLogger) *AuditHandler {
	return &AuditHandler{auditService: auditService, auth: auth, log: log.WithField("module", "audit_handler")}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(h.auth.RequirePermission(service.PermAuditRead))
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs retrieves paginated audit records with the acting user
// @Summary      Get audit logs
// @Description  Retrieves the audit trail newest first
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        action  query     string  false  "Filter by action, e.g. CREATE_SALE"
// @Success      200     {object}  response.Response{data=pagination.Page[service.AuditLogResponse]}
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)

	logs, total, err := h.auditService.ListAuditLogs(c.Request.Context(), p.Page, p.Limit, c.Query("action"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewPage(logs, total, p)))
}
