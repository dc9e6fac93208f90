package handler

import (
	"net/http"

	"sacra/internal/middleware"
	"sacra/internal/service"
	"sacra/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PortalHandler struct {
	portalService service.PortalService
	userService   service.UserService
	auth          *middleware.Auth
	log           logrus.FieldLogger
}

func NewPortalHandler(portalService service.PortalService, userService service.UserService, auth *middleware.Auth, log logrus.FieldLogger) *PortalHandler {
	return &PortalHandler{
		portalService: portalService,
		userService:   userService,
		auth:          auth,
		log:           log.WithField("module", "portal_handler"),
	}
}

func (h *PortalHandler) RegisterRoutes(router *gin.RouterGroup) {
	portal := router.Group("/portal")
	{
		portal.POST("/login", h.Login)
		portal.GET("/contract", h.auth.RequirePermission(service.PermPortalRead), h.GetContract)
	}
	router.POST("/api/portal-accounts", h.auth.RequirePermission(service.PermPortalAccountsWrite), h.CreateAccount)
}

// Login signs a customer in with their id-number
// @Summary      Portal login
// @Tags         portal
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "username is the customer's id-number"
// @Success      200      {object}  response.Response{data=service.AuthResult}
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response  "Staff accounts sign in at /login"
// @Router       /portal/login [post]
func (h *PortalHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.userService.PortalLogin(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.auth.SetTokenCookie(c, result.Token)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// GetContract shows the signed-in customer their contracts
// @Summary      Portal contract
// @Description  Returns the customer's contracts, oldest first. found=false when there is none.
// @Tags         portal
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.PortalView}
// @Failure      401  {object}  response.Response
// @Router       /portal/contract [get]
func (h *PortalHandler) GetContract(c *gin.Context) {
	view, err := h.portalService.GetContract(c.Request.Context(), c.GetString(middleware.ContextUsername))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, view))
}

// CreateAccount lets staff open a portal login for a customer
// @Summary      Create portal account
// @Description  Creates a customer login whose username is the id-number of an existing sale
// @Tags         portal
// @Security     BearerAuth
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        payload  body      service.PortalAccountRequest  true  "Portal account"
// @Success      201      {object}  response.Response{data=service.UserResponse}
// @Failure      404      {object}  response.Response  "No sale for the id-number"
// @Failure      409      {object}  response.Response
// @Router       /api/portal-accounts [post]
func (h *PortalHandler) CreateAccount(c *gin.Context) {
	var req service.PortalAccountRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.CreatePortalAccount(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}
