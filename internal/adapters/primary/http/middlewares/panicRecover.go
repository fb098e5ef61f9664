package middlewares

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// RecoveryLogger перехватывает панику хендлера и отвечает 500
func RecoveryLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			attrs := []any{
				"panic", r,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"route", c.FullPath(),
				"client_ip", c.ClientIP(),
				"stack", string(debug.Stack()),
			}
			if userID, ok := UserIDFrom(c); ok {
				attrs = append(attrs, "user_id", userID)
			}
			log.Error("PANIC CAUGHT", attrs...)

			// стрим чата мог уже отправить заголовки
			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "internal server error",
			})
		}()
		c.Next()
	}
}
