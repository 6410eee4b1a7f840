package controller

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	httpdto "github.com/space2study/ms-go-api/app/dto/http"
	"github.com/space2study/ms-go-api/app/entity"
	"github.com/space2study/ms-go-api/app/middleware"
	"github.com/space2study/ms-go-api/app/service"
	"github.com/space2study/ms-go-api/config"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
	cookieMaxAge       = 24 * time.Hour
)

type AuthController struct {
	authService *service.AuthService
	cfg         *config.Config
}

func NewAuthController(authService *service.AuthService, cfg *config.Config) *AuthController {
	return &AuthController{authService: authService, cfg: cfg}
}

func (c *AuthController) Signup(ctx echo.Context) error {
	var req httpdto.SignupRequest
	if err := ctx.Bind(&req); err != nil {
		logrus.WithError(err).Debug("Failed to bind signup request")
		return badRequest(ctx, "invalid request body")
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return badRequest(ctx, "role, firstName, lastName, email and password are required")
	}
	if req.Role != entity.RoleStudent && req.Role != entity.RoleTutor {
		return badRequest(ctx, "role must be one of: student, tutor")
	}

	logrus.WithField("email", req.Email).Info("Signup request received")
	result, err := c.authService.Signup(ctx.Request().Context(), req.Role, req.FirstName, req.LastName, req.Email, req.Password, middleware.LanguageFromContext(ctx))
	if err != nil {
		if errors.Is(err, service.ErrAlreadyRegistered) {
			logrus.WithField("email", req.Email).Warn("Signup failed: user already registered")
			return ctx.JSON(http.StatusConflict, httpdto.NewError(http.StatusConflict, httpdto.CodeAlreadyRegistered, "user with the provided email already exists"))
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Signup failed")
		return internalError(ctx)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": result.UserID,
		"email":   result.UserEmail,
	}).Info("User signed up")

	return ctx.JSON(http.StatusCreated, httpdto.SignupResponse{
		UserID:    result.UserID,
		UserEmail: result.UserEmail,
	})
}

func (c *AuthController) Login(ctx echo.Context) error {
	var req httpdto.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		logrus.WithError(err).Debug("Failed to bind login request")
		return badRequest(ctx, "invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return badRequest(ctx, "email and password are required")
	}

	logrus.WithField("email", req.Email).Info("Login request received")
	pair, err := c.authService.Login(ctx.Request().Context(), req.Email, req.Password, false)
	if err != nil {
		return c.mapLoginError(ctx, req.Email, err)
	}

	c.setAuthCookies(ctx, pair)
	logrus.WithField("email", req.Email).Info("Login successful")
	return ctx.JSON(http.StatusOK, httpdto.LoginResponse{AccessToken: pair.AccessToken})
}

func (c *AuthController) Logout(ctx echo.Context) error {
	if cookie, err := ctx.Cookie(refreshTokenCookie); err == nil && cookie.Value != "" {
		if err = c.authService.Logout(ctx.Request().Context(), cookie.Value); err != nil {
			logrus.WithError(err).Error("Logout failed")
			return internalError(ctx)
		}
	}

	c.clearAuthCookies(ctx)
	logrus.Info("Logout successful")
	return ctx.NoContent(http.StatusNoContent)
}

func (c *AuthController) RefreshAccessToken(ctx echo.Context) error {
	cookie, err := ctx.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		logrus.Debug("Refresh failed: missing refresh token cookie")
		c.clearAuthCookies(ctx)
		return ctx.JSON(http.StatusUnauthorized, httpdto.NewError(http.StatusUnauthorized, httpdto.CodeRefreshTokenNotRetrieved, "refresh token was not retrieved"))
	}

	pair, err := c.authService.RefreshAccessToken(ctx.Request().Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, service.ErrRefreshTokenInvalid) {
			logrus.Warn("Refresh failed: invalid or expired refresh token")
			return ctx.JSON(http.StatusUnauthorized, httpdto.NewError(http.StatusUnauthorized, httpdto.CodeBadRefreshToken, "refresh token is invalid or expired"))
		}
		logrus.WithError(err).Error("Refresh failed")
		return internalError(ctx)
	}

	c.setAuthCookies(ctx, pair)
	logrus.Info("Access token refreshed")
	return ctx.JSON(http.StatusOK, httpdto.LoginResponse{AccessToken: pair.AccessToken})
}

func (c *AuthController) ForgotPassword(ctx echo.Context) error {
	var req httpdto.ForgotPasswordRequest
	if err := ctx.Bind(&req); err != nil {
		logrus.WithError(err).Debug("Failed to bind forgot password request")
		return badRequest(ctx, "invalid request body")
	}

	if req.Email == "" {
		return badRequest(ctx, "email is required")
	}

	logrus.WithField("email", req.Email).Info("Password reset requested")
	err := c.authService.SendResetPasswordEmail(ctx.Request().Context(), req.Email, middleware.LanguageFromContext(ctx))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithField("email", req.Email).Warn("Password reset failed: user not found")
			return ctx.JSON(http.StatusNotFound, httpdto.NewError(http.StatusNotFound, httpdto.CodeUserNotFound, "user with the provided email was not found"))
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Password reset request failed")
		return internalError(ctx)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (c *AuthController) ResetPassword(ctx echo.Context) error {
	var req httpdto.ResetPasswordRequest
	if err := ctx.Bind(&req); err != nil {
		logrus.WithError(err).Debug("Failed to bind reset password request")
		return badRequest(ctx, "invalid request body")
	}

	if req.Password == "" {
		return badRequest(ctx, "password is required")
	}

	resetToken := ctx.Param("token")
	err := c.authService.UpdatePassword(ctx.Request().Context(), resetToken, req.Password, middleware.LanguageFromContext(ctx))
	if err != nil {
		if errors.Is(err, service.ErrBadResetToken) {
			logrus.Warn("Reset password failed: bad reset token")
			return ctx.JSON(http.StatusBadRequest, httpdto.NewError(http.StatusBadRequest, httpdto.CodeBadResetToken, "reset token is invalid or expired"))
		}
		logrus.WithError(err).Error("Reset password failed")
		return internalError(ctx)
	}

	logrus.Info("Password reset successful")
	return ctx.NoContent(http.StatusNoContent)
}

// ConfirmEmail is the target of the link sent in the confirmation email, so
// it redirects to the client app instead of returning JSON.
func (c *AuthController) ConfirmEmail(ctx echo.Context) error {
	token := ctx.Param("token")

	if err := c.authService.ConfirmEmail(ctx.Request().Context(), token); err != nil {
		code := httpdto.CodeBadConfirmToken
		if errors.Is(err, service.ErrEmailAlreadyConfirmed) {
			code = httpdto.CodeEmailAlreadyConfirmed
		} else if !errors.Is(err, service.ErrBadConfirmToken) {
			logrus.WithError(err).Error("Confirm email failed")
			code = httpdto.CodeInternalServerError
		}
		logrus.WithField("code", code).Warn("Email confirmation failed")
		return ctx.Redirect(http.StatusFound, c.cfg.ClientURL+"/error?status="+url.QueryEscape(code))
	}

	logrus.Info("Email confirmed")
	return ctx.Redirect(http.StatusFound, c.cfg.ClientURL+"/success")
}

func (c *AuthController) GoogleAuth(ctx echo.Context) error {
	var req httpdto.GoogleAuthRequest
	if err := ctx.Bind(&req); err != nil {
		logrus.WithError(err).Debug("Failed to bind google auth request")
		return badRequest(ctx, "invalid request body")
	}

	if req.Token.Credential == "" {
		logrus.Debug("Google auth failed: missing credential")
		return ctx.JSON(http.StatusUnauthorized, httpdto.NewError(http.StatusUnauthorized, httpdto.CodeIDTokenNotRetrieved, "id token was not retrieved"))
	}

	ticket, err := c.authService.GetGoogleClientTicket(ctx.Request().Context(), req.Token.Credential)
	if err != nil {
		logrus.Warn("Google auth failed: bad id token")
		return ctx.JSON(http.StatusUnauthorized, httpdto.NewError(http.StatusUnauthorized, httpdto.CodeBadIDToken, "google id token verification failed"))
	}

	pair, err := c.authService.Login(ctx.Request().Context(), ticket.Email, "", true)
	if err != nil {
		return c.mapLoginError(ctx, ticket.Email, err)
	}

	c.setAuthCookies(ctx, pair)
	logrus.WithField("email", ticket.Email).Info("Google login successful")
	return ctx.JSON(http.StatusOK, httpdto.LoginResponse{AccessToken: pair.AccessToken})
}

func (c *AuthController) mapLoginError(ctx echo.Context, email string, err error) error {
	if errors.Is(err, service.ErrUserNotFound) {
		logrus.WithField("email", email).Warn("Login failed: user not found")
		return ctx.JSON(http.StatusNotFound, httpdto.NewError(http.StatusNotFound, httpdto.CodeUserNotFound, "user with the provided email was not found"))
	}
	if errors.Is(err, service.ErrEmailNotConfirmed) {
		logrus.WithField("email", email).Warn("Login failed: email not confirmed")
		return ctx.JSON(http.StatusUnauthorized, httpdto.NewError(http.StatusUnauthorized, httpdto.CodeEmailNotConfirmed, "please confirm your email first"))
	}
	if errors.Is(err, service.ErrIncorrectCredentials) {
		logrus.WithField("email", email).Warn("Login failed: incorrect credentials")
		return ctx.JSON(http.StatusUnauthorized, httpdto.NewError(http.StatusUnauthorized, httpdto.CodeIncorrectCredentials, "the password you entered is incorrect"))
	}
	logrus.WithError(err).WithField("email", email).Error("Login failed")
	return internalError(ctx)
}

func (c *AuthController) setAuthCookies(ctx echo.Context, pair *service.TokenPair) {
	ctx.SetCookie(c.authCookie(accessTokenCookie, pair.AccessToken, int(cookieMaxAge.Seconds())))
	ctx.SetCookie(c.authCookie(refreshTokenCookie, pair.RefreshToken, int(cookieMaxAge.Seconds())))
}

func (c *AuthController) clearAuthCookies(ctx echo.Context) {
	ctx.SetCookie(c.authCookie(accessTokenCookie, "", -1))
	ctx.SetCookie(c.authCookie(refreshTokenCookie, "", -1))
}

func (c *AuthController) authCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   maxAge,
		Path:     "/",
		Domain:   c.cfg.CookieDomain,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, httpdto.NewError(http.StatusBadRequest, httpdto.CodeInvalidRequest, message))
}

func internalError(ctx echo.Context) error {
	return ctx.JSON(http.StatusInternalServerError, httpdto.NewError(http.StatusInternalServerError, httpdto.CodeInternalServerError, "internal server error"))
}
