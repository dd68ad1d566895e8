package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/smallbiznis/mensa/internal/order/domain"
)

type placeOrderRequest struct {
	UserID string `json:"user_id"`
	FoodID string `json:"food_id"`
}

// PlaceOrder records an order event. IDs arrive as decimal strings so
// JSON clients do not lose precision on 64-bit identifiers.
func (s *Server) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	userID, err := parseSnowflakeID(req.UserID)
	if err != nil {
		AbortWithError(c, newValidationError("user_id", "invalid_user_id", "invalid user id"))
		return
	}
	foodID, err := parseSnowflakeID(req.FoodID)
	if err != nil {
		AbortWithError(c, newValidationError("food_id", "invalid_food_id", "invalid food id"))
		return
	}

	order, err := s.orderSvc.Place(c.Request.Context(), orderdomain.PlaceOrderRequest{
		UserID: userID,
		FoodID: foodID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": order})
}
