package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetUserContext returns the composed home feed for a user: personal
// recommendations, home canteen specials and active promotions.
func (s *Server) GetUserContext(c *gin.Context) {
	userID, err := parseSnowflakeID(c.Param("user_id"))
	if err != nil {
		AbortWithError(c, newValidationError("user_id", "invalid_user_id", "invalid user id"))
		return
	}

	resp, err := s.homefeedSvc.BuildContext(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
