package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Marcos-F-Morales/Stripe-zephira/internal/http/middleware"
	"github.com/Marcos-F-Morales/Stripe-zephira/internal/http/validation"
	"github.com/Marcos-F-Morales/Stripe-zephira/internal/modules/payments"
	"github.com/Marcos-F-Morales/Stripe-zephira/internal/shared/apperr"
)

type CheckoutHandler struct {
	Service *payments.Service
}

func NewCheckoutHandler(svc *payments.Service) *CheckoutHandler {
	return &CheckoutHandler{Service: svc}
}

type checkoutItemInput struct {
	Name     string          `json:"name" binding:"required,max=255"`
	Price    decimal.Decimal `json:"price"` // GTQ; range-checked by the service
	Quantity int64           `json:"quantity" binding:"required,gt=0"`
}

type checkoutInput struct {
	Items      []checkoutItemInput `json:"items" binding:"required,min=1,dive"`
	CustomerID string              `json:"customerId" binding:"required,max=64"`
}

// POST /api/stripe/create-checkout-session
func (h *CheckoutHandler) Create(c *gin.Context) {
	var in checkoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fields := validation.FromBindError(err, &in)
		middleware.Fail(c, apperr.InvalidErr("Invalid checkout request.", fields))
		return
	}

	items := make([]payments.CartItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, payments.CartItem{Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}

	res, err := h.Service.CreateCheckoutSession(c.Request.Context(), payments.CreateCheckoutInput{
		Items:      items,
		CustomerID: in.CustomerID,
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": res.URL})
}
