package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"userhub-client/internal/domain/order"
	"userhub-client/internal/domain/user"
	"userhub-client/internal/logger"
	"userhub-client/internal/middleware"
	"userhub-client/internal/usecase/client"
	appErrors "userhub-client/pkg/errors"
	"userhub-client/pkg/utils"
)

// ClientHandler exposes the client service to a frontend. Every successful
// response carries the rendered screen; the outcome of a submit is reported
// through the screen's notification.
type ClientHandler struct {
	service *client.Service
}

func NewClientHandler(service *client.Service) *ClientHandler {
	return &ClientHandler{service: service}
}

func (h *ClientHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/screen", h.Screen)
	router.POST("/views/:view", h.ShowView)
	router.POST("/editor/cancel", h.CancelEditor)

	actions := router.Group("/actions")
	{
		actions.POST("/login", h.Login)
		actions.POST("/signup", h.Signup)
		actions.POST("/forgot-password", h.ForgotPassword)
		actions.POST("/reset-password", h.ResetPassword)
		actions.POST("/change-password", h.ChangePassword)
		actions.POST("/logout", h.Logout)
	}

	orders := router.Group("/orders")
	{
		orders.POST("", h.SubmitOrder)
		orders.POST("/:id/edit", h.EditOrder)
		orders.DELETE("/:id", h.DeleteOrder)
	}
}

func (h *ClientHandler) Screen(c *gin.Context) {
	h.render(c)
}

func (h *ClientHandler) ShowView(c *gin.Context) {
	view, ok := client.ParseView(c.Param("view"))
	if !ok {
		utils.ErrorResponse(c, http.StatusNotFound, "Unknown view")
		return
	}

	h.respond(c, h.service.Show(c.Request.Context(), view))
}

func (h *ClientHandler) CancelEditor(c *gin.Context) {
	h.service.CancelOrderEditor(c.Request.Context())
	h.render(c)
}

func (h *ClientHandler) Login(c *gin.Context) {
	var form client.LoginForm
	if !bindForm(c, &form) {
		return
	}
	h.respond(c, h.service.Login(c.Request.Context(), form))
}

func (h *ClientHandler) Signup(c *gin.Context) {
	var form client.SignupForm
	if !bindForm(c, &form) {
		return
	}
	h.respond(c, h.service.Signup(c.Request.Context(), form))
}

func (h *ClientHandler) ForgotPassword(c *gin.Context) {
	var form client.ForgotPasswordForm
	if !bindForm(c, &form) {
		return
	}
	h.respond(c, h.service.ForgotPassword(c.Request.Context(), form))
}

func (h *ClientHandler) ResetPassword(c *gin.Context) {
	var form client.ResetPasswordForm
	if !bindForm(c, &form) {
		return
	}
	h.respond(c, h.service.ResetPassword(c.Request.Context(), form))
}

func (h *ClientHandler) ChangePassword(c *gin.Context) {
	var form client.ChangePasswordForm
	if !bindForm(c, &form) {
		return
	}
	h.respond(c, h.service.ChangePassword(c.Request.Context(), form))
}

func (h *ClientHandler) Logout(c *gin.Context) {
	h.respond(c, h.service.Logout(c.Request.Context()))
}

func (h *ClientHandler) SubmitOrder(c *gin.Context) {
	var form client.OrderForm
	if !bindForm(c, &form) {
		return
	}
	h.respond(c, h.service.SubmitOrder(c.Request.Context(), form))
}

func (h *ClientHandler) EditOrder(c *gin.Context) {
	h.respond(c, h.service.EditOrder(c.Param("id")))
}

func (h *ClientHandler) DeleteOrder(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	h.respond(c, h.service.DeleteOrder(c.Request.Context(), c.Param("id"), confirmed))
}

func bindForm(c *gin.Context, form any) bool {
	if err := c.ShouldBindJSON(form); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (h *ClientHandler) render(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", h.service.Render())
}

// respond maps errors the caller can act on to a status. Everything else was
// already reported as a notification, so the screen is returned as usual.
func (h *ClientHandler) respond(c *gin.Context, err error) {
	switch {
	case err == nil:
	case errors.Is(err, appErrors.ErrFormBusy):
		utils.ErrorResponse(c, http.StatusConflict, err.Error())
		return
	case errors.Is(err, user.ErrNoSession):
		utils.ErrorResponse(c, http.StatusConflict, err.Error())
		return
	case errors.Is(err, order.ErrOrderNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	default:
		logger.Debug("Action reported to user",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	h.render(c)
}
