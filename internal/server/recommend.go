package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetUserRecommendations returns up to n recommended items for a user.
// n defaults to the configured count when absent.
func (s *Server) GetUserRecommendations(c *gin.Context) {
	userID, err := parseSnowflakeID(c.Param("user_id"))
	if err != nil {
		AbortWithError(c, newValidationError("user_id", "invalid_user_id", "invalid user id"))
		return
	}

	count, err := parseOptionalInt(c.Query("n"))
	if err != nil {
		AbortWithError(c, newValidationError("n", "invalid_n", "invalid count"))
		return
	}

	n := s.cfg.Recommend.DefaultCount
	if count != nil {
		if *count <= 0 {
			AbortWithError(c, newValidationError("n", "invalid_n", "count must be positive"))
			return
		}
		n = *count
	}

	entries, err := s.recSvc.Recommend(c.Request.Context(), userID, n)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// TrainModel triggers a synchronous retrain and reports the resulting
// model state. Training failures surface as 503 so callers can retry;
// the serving path keeps the previous snapshot either way.
func (s *Server) TrainModel(c *gin.Context) {
	if err := s.recSvc.Train(c.Request.Context()); err != nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.recSvc.State()})
}

// GetModelState reports the current model lifecycle state.
func (s *Server) GetModelState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.recSvc.State()})
}
