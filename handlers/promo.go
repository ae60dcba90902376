package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"experiencehub/models"
	"experiencehub/services/promo"
)

type PromoHandler struct {
	Service promo.PromoService
}

func NewPromoHandler(svc promo.PromoService) *PromoHandler {
	return &PromoHandler{Service: svc}
}

func (h *PromoHandler) ValidatePromoHandler(c *gin.Context) {
	var req models.PromoValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload"})
		return
	}

	quote, err := h.Service.Validate(req.PromoCode, req.TotalAmount)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, promo.ErrInvalidCode) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"promo":          quote.Promo,
		"originalAmount": quote.OriginalAmount,
		"discountAmount": quote.DiscountAmount,
		"finalAmount":    quote.FinalAmount,
		"message":        "Promo code applied successfully",
	})
}
