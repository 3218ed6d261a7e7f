package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kodbank/kodbank-api/internal/api/middleware"
	"github.com/kodbank/kodbank-api/internal/core/ports"
)

// AccountHandler serves authenticated account reads.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Balance returns the balance of the authenticated user. The username comes
// from the verified identity, never from the request.
//
// @Summary      Get account balance
// @Tags         user
// @Produce      json
// @Success      200  {object}  balanceResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Security     CookieAuth
// @Router       /api/user/balance [get]
func (h *AccountHandler) Balance(c echo.Context) error {
	identity, err := middleware.IdentityFrom(c)
	if err != nil {
		return err
	}

	balance, err := h.service.Balance(c.Request().Context(), identity.Username)
	if err != nil {
		return err
	}

	header := c.Response().Header()
	header.Set("Cache-Control", "no-store, no-cache, must-revalidate")
	header.Set("Pragma", "no-cache")
	header.Set("Expires", "0")
	return c.JSON(http.StatusOK, balanceResponse{Balance: balance})
}
