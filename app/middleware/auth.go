package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	httpdto "github.com/space2study/ms-go-api/app/dto/http"
	"github.com/space2study/ms-go-api/app/entity"
	"github.com/space2study/ms-go-api/app/service"
)

type accessTokenValidator interface {
	ValidateToken(tokenString string, kind entity.TokenKind) (*service.Claims, error)
}

type AuthMiddleware struct {
	tokenService accessTokenValidator
}

func NewAuthMiddleware(tokenService accessTokenValidator) *AuthMiddleware {
	return &AuthMiddleware{tokenService: tokenService}
}

// RequireAuth accepts the access token either from the accessToken cookie or
// from a bearer Authorization header. The cookie is the primary transport for
// browser clients; the header serves non-browser callers.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString := accessTokenFromRequest(c)
		if tokenString == "" {
			logrus.Debug("Missing access token")
			return c.JSON(http.StatusUnauthorized, httpdto.NewError(http.StatusUnauthorized, httpdto.CodeUnauthorized, "missing access token"))
		}

		claims, err := m.tokenService.ValidateToken(tokenString, entity.TokenKindAccess)
		if err != nil {
			logrus.Debug("Invalid or expired access token")
			return c.JSON(http.StatusUnauthorized, httpdto.NewError(http.StatusUnauthorized, httpdto.CodeUnauthorized, "invalid or expired token"))
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)

		return next(c)
	}
}

func accessTokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
