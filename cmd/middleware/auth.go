package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wb-go/wbf/ginext"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/auth"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/dto"
)

const AdminSubjectKey = "admin_subject"

// AdminAuth rejects requests without a valid admin bearer token. Handlers
// behind it assume the caller is an authenticated admin.
func AdminAuth(a *auth.Authenticator) gin.HandlerFunc {
	return func(c *ginext.Context) {
		authz := strings.TrimSpace(c.GetHeader("Authorization"))
		if len(authz) < 7 || !strings.EqualFold(authz[:7], "bearer ") {
			dto.UnauthorizedError(c)
			return
		}

		claims, err := a.Verify(strings.TrimSpace(authz[7:]))
		if err != nil {
			dto.UnauthorizedError(c)
			return
		}

		c.Set(AdminSubjectKey, claims.Subject)
		c.Next()
	}
}
