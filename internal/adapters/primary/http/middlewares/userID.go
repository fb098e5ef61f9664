package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserIDHeader заголовок с id пользователя, проставляется auth-прокси перед сервисом
const UserIDHeader = "X-User-ID"

const userIDKey = "user_id"

// RequireUserID пропускает только запросы с валидным uuid в X-User-ID
func RequireUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + UserIDHeader + " header"})
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid " + UserIDHeader + " header"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func UserIDFrom(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	return userID, ok
}

// MustUserID для хендлеров за RequireUserID
func MustUserID(c *gin.Context) uuid.UUID {
	userID, _ := UserIDFrom(c)
	return userID
}
