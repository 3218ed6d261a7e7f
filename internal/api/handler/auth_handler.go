package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kodbank/kodbank-api/internal/core/ports"
)

// AuthHandler serves the register, login and logout endpoints.
type AuthHandler struct {
	authService ports.AuthService
	cookies     CookiePolicy
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, cookies CookiePolicy, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies, log: log}
}

// Register creates a new customer account. It does not log the user in.
//
// @Summary      Register a new customer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		UID:      req.UID,
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
		ClientIP: clientIP(c),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: "Registered successfully, please login."})
}

// Login checks credentials, opens a session and sets the auth_token cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  messageResponse
// @Header       200   {string}  Set-Cookie  "auth_token=<jwt>; Path=/; HttpOnly"
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password required")
	}

	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Username: req.Username,
		Password: req.Password,
		ClientIP: clientIP(c),
	})
	if err != nil {
		return err
	}

	c.SetCookie(h.cookies.Session(res.Token, res.ExpiresAt))
	return c.JSON(http.StatusOK, messageResponse{Message: "Login successful"})
}

// Logout revokes the session named by the cookie, if any, and always clears
// the cookie. It never fails: a store error is logged and the client is still
// logged out.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := sessionToken(c, h.cookies.Name); token != "" {
		if _, err := h.authService.Logout(c.Request().Context(), token); err != nil {
			h.log.Error().Err(err).Msg("logout: session delete failed, clearing cookie anyway")
		}
	}

	c.SetCookie(h.cookies.Cleared())
	return c.JSON(http.StatusOK, messageResponse{Message: "Logout successful"})
}
