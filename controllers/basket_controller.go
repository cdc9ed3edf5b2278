package controllers

import (
	"errors"
	"io"
	"net/http"

	"basket-service/middleware"
	"basket-service/models"
	"basket-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BasketController exposes the cart aggregator over HTTP. It is a thin
// adapter: every intent is forwarded to the user's basket session and the
// response is the session's snapshot.
type BasketController struct {
	baskets  *services.BasketService
	checkout *services.CheckoutService
	logger   *zap.Logger
}

// NewBasketController creates a new BasketController.
func NewBasketController(baskets *services.BasketService, checkout *services.CheckoutService, logger *zap.Logger) *BasketController {
	return &BasketController{baskets: baskets, checkout: checkout, logger: logger}
}

// GetCart returns the current snapshot for the authenticated user.
func (bc *BasketController) GetCart(c *gin.Context) {
	sess, ok := bc.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// StreamCart streams snapshots as server-sent events until the client
// disconnects or the session is detached.
func (bc *BasketController) StreamCart(c *gin.Context) {
	sess, ok := bc.session(c)
	if !ok {
		return
	}

	snapshots, cancel := sess.Subscribe()
	defer cancel()

	c.Stream(func(w io.Writer) bool {
		select {
		case snap, open := <-snapshots:
			if !open {
				return false
			}
			c.SSEvent("snapshot", snap)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// AddItem merges a quantity into the user's cart.
func (bc *BasketController) AddItem(c *gin.Context) {
	sess, ok := bc.session(c)
	if !ok {
		return
	}

	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := sess.AddToCart(c.Request.Context(), req.ProductID, req.Quantity); err != nil {
		bc.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// SetQuantity sets a line to an exact quantity; zero or less removes it.
func (bc *BasketController) SetQuantity(c *gin.Context) {
	sess, ok := bc.session(c)
	if !ok {
		return
	}

	var req models.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	productID := c.Param("product_id")
	if err := sess.SetQuantity(c.Request.Context(), productID, req.Quantity); err != nil {
		bc.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// RemoveItem deletes one line from the cart.
func (bc *BasketController) RemoveItem(c *gin.Context) {
	sess, ok := bc.session(c)
	if !ok {
		return
	}

	if err := sess.Remove(c.Request.Context(), c.Param("product_id")); err != nil {
		bc.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// ClearCart removes every line from the cart.
func (bc *BasketController) ClearCart(c *gin.Context) {
	sess, ok := bc.session(c)
	if !ok {
		return
	}

	if err := sess.Clear(c.Request.Context()); err != nil {
		bc.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// Checkout runs the simulated checkout for the user's cart.
func (bc *BasketController) Checkout(c *gin.Context) {
	sess, ok := bc.session(c)
	if !ok {
		return
	}

	event, err := bc.checkout.Checkout(c.Request.Context(), sess)
	if err != nil {
		bc.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_id": event.OrderID,
		"total":    event.Total,
		"message":  "checkout completed",
	})
}

// EndSession detaches the user's session (logout).
func (bc *BasketController) EndSession(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bc.baskets.Detach(userID)
	c.JSON(http.StatusOK, gin.H{"message": "session ended"})
}

func (bc *BasketController) session(c *gin.Context) (*services.Session, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}

	sess, err := bc.baskets.Attach(userID)
	if err != nil {
		bc.renderError(c, err)
		return nil, false
	}
	return sess, true
}

func (bc *BasketController) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidQuantity), errors.Is(err, services.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSessionClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		bc.logger.Error("Cart operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cart operation failed"})
	}
}
