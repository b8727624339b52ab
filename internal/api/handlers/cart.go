package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/pricing"
	"github.com/jafarshop/storefront/internal/service"
	"github.com/jafarshop/storefront/pkg/errors"
)

// Cart actions accepted by the cart route. CHECKOUT_REDIRECT is the
// checkout intercept: instead of sending the buyer to the platform's native
// checkout (which uses list prices), it creates a draft order and redirects
// to its invoice URL.
const (
	ActionLinesAdd            = "LinesAdd"
	ActionLinesUpdate         = "LinesUpdate"
	ActionLinesRemove         = "LinesRemove"
	ActionDiscountCodesUpdate = "DiscountCodesUpdate"
	ActionGiftCardCodesUpdate = "GiftCardCodesUpdate"
	ActionBuyerIdentityUpdate = "BuyerIdentityUpdate"
	ActionCheckoutRedirect    = "CHECKOUT_REDIRECT"
)

// CartCookieName is the cookie carrying the platform-issued cart id.
const CartCookieName = "cart"

const cartCookieMaxAge = 60 * 60 * 24 * 30

// CartActionRequest is the cart-action envelope posted to the cart route.
type CartActionRequest struct {
	Action        string                 `json:"action" binding:"required"`
	Lines         []domain.CartLineInput `json:"lines,omitempty"`
	LineIDs       []string               `json:"lineIds,omitempty"`
	DiscountCodes []string               `json:"discountCodes,omitempty"`
	GiftCardCodes []string               `json:"giftCardCodes,omitempty"`
	BuyerIdentity *domain.BuyerIdentity  `json:"buyerIdentity,omitempty"`
	RedirectTo    string                 `json:"redirectTo,omitempty"`
}

// CartResponse is the standard cart-action response body.
type CartResponse struct {
	Cart   *domain.Cart      `json:"cart"`
	Totals domain.CartTotals `json:"totals"`
}

// HandleCartLoad serves cart reads. Every read runs the pricing refresh so
// the returned cart reflects the current catalog metafields.
func HandleCartLoad(carts *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		cartID := cartIDFromCookie(c)
		if cartID == "" {
			c.JSON(http.StatusOK, CartResponse{Cart: nil})
			return
		}

		cart, totals, err := carts.LoadCart(c.Request.Context(), cartID)
		if err != nil {
			if _, notFound := err.(*errors.ErrNotFound); notFound {
				// Expired or deleted cart: respond empty instead of erroring.
				c.JSON(http.StatusOK, CartResponse{Cart: nil})
				return
			}
			logger.Error("Failed to load cart", zap.String("cart_id", cartID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
			return
		}

		setCartCookie(c, cart.ID)
		c.JSON(http.StatusOK, CartResponse{Cart: cart, Totals: totals})
	}
}

// HandleCartAction serves cart mutations and the checkout intercept.
func HandleCartAction(carts *service.CartService, checkout *service.CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		var req CartActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		ctx := c.Request.Context()
		cartID := cartIDFromCookie(c)

		var cart *domain.Cart
		var err error

		switch req.Action {
		case ActionLinesAdd:
			cart, err = carts.AddLines(ctx, cartID, req.Lines)

		case ActionLinesUpdate:
			cart, err = carts.UpdateLines(ctx, cartID, req.Lines)

		case ActionLinesRemove:
			cart, err = carts.RemoveLines(ctx, cartID, req.LineIDs)

		case ActionDiscountCodesUpdate:
			cart, err = carts.UpdateDiscountCodes(ctx, cartID, req.DiscountCodes)

		case ActionGiftCardCodesUpdate:
			cart, err = carts.UpdateGiftCardCodes(ctx, cartID, req.GiftCardCodes)

		case ActionBuyerIdentityUpdate:
			if req.BuyerIdentity == nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "buyerIdentity is required"})
				return
			}
			cart, err = carts.UpdateBuyerIdentity(ctx, cartID, *req.BuyerIdentity)

		case ActionCheckoutRedirect:
			handleCheckoutRedirect(c, cartID, carts, checkout, logger)
			return

		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": req.Action + " cart action is not defined"})
			return
		}

		if err != nil {
			respondCartError(c, logger, req.Action, err)
			return
		}

		setCartCookie(c, cart.ID)

		if req.RedirectTo != "" {
			c.Redirect(http.StatusSeeOther, req.RedirectTo)
			return
		}
		c.JSON(http.StatusOK, CartResponse{Cart: cart, Totals: pricing.CalculateCartTotals(cart)})
	}
}

// handleCheckoutRedirect loads the cart, runs the draft-order checkout, and
// redirects to the invoice URL with the cart cookie preserved.
func handleCheckoutRedirect(c *gin.Context, cartID string, carts *service.CartService, checkout *service.CheckoutService, logger *zap.Logger) {
	if cartID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot checkout an empty cart"})
		return
	}

	// Refresh before translation so the draft order carries current pricing.
	cart, _, err := carts.LoadCart(c.Request.Context(), cartID)
	if err != nil {
		logger.Error("Failed to load cart for checkout", zap.String("cart_id", cartID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return
	}

	result, err := checkout.Checkout(c.Request.Context(), cart)
	if err != nil {
		respondCheckoutError(c, logger, err)
		return
	}

	logger.Info("Redirecting to draft order invoice",
		zap.String("cart_id", cartID),
		zap.String("draft_order_id", result.DraftOrderID),
	)

	setCartCookie(c, cart.ID)
	c.Redirect(http.StatusSeeOther, result.InvoiceURL)
}

// respondCheckoutError maps the checkout error taxonomy onto HTTP responses.
// Configuration, no-valid-items, submission, and invoice errors are all
// distinguishable and user-displayable.
func respondCheckoutError(c *gin.Context, logger *zap.Logger, err error) {
	switch e := err.(type) {
	case *errors.ErrConfiguration:
		logger.Error("Checkout configuration error", zap.Error(e))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "configuration error",
			"message": e.Message,
		})
	case *errors.ErrNoValidItems:
		c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
	case *errors.ErrSubmission:
		logger.Error("Draft order submission rejected", zap.Error(e))
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "draft order rejected",
			"details": e.Error(),
		})
	case *errors.ErrInvoiceUnavailable:
		logger.Error("Invoice URL unavailable", zap.Error(e))
		c.JSON(http.StatusBadGateway, gin.H{"error": e.Error()})
	default:
		logger.Error("Checkout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed", "details": err.Error()})
	}
}

func respondCartError(c *gin.Context, logger *zap.Logger, action string, err error) {
	if e, ok := err.(*errors.ErrValidation); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  e.Error(),
			"fields": e.Fields,
		})
		return
	}
	logger.Error("Cart action failed", zap.String("action", action), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "cart action failed",
		"details": err.Error(),
	})
}

func cartIDFromCookie(c *gin.Context) string {
	id, err := c.Cookie(CartCookieName)
	if err != nil {
		return ""
	}
	return id
}

func setCartCookie(c *gin.Context, cartID string) {
	if cartID == "" {
		return
	}
	c.SetCookie(CartCookieName, cartID, cartCookieMaxAge, "/", "", false, true)
}
