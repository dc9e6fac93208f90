package handler

import (
	"net/http"

	"sacra/internal/middleware"
	"sacra/internal/service"
	"sacra/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RoleHandler struct {
	roleService service.RoleService
	auth        *middleware.Auth
	log         logrus.FieldLogger
}

func NewRoleHandler(roleService service.RoleService, auth *middleware.Auth, log logrus.FieldLogger) *RoleHandler {
	return &RoleHandler{roleService: roleService, auth: auth, log: log.WithField("module", "role_handler")}
}

func (h *RoleHandler) RegisterRoutes(router *gin.RouterGroup) {
	roles := router.Group("/api/roles")
	{
		roles.GET("", h.auth.RequirePermission(service.PermRolesRead), h.ListRoles)
	}
}

// ListRoles returns every role with its permissions
// @Summary      List roles
// @Tags         roles
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.RoleResponse}
// @Failure      403  {object}  response.Response
// @Router       /api/roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleService.ListRoles(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, roles))
}
