package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/travel-ledger/internal/domain/catalog"
)

// Categories lists the category taxonomy.
func Categories(c *gin.Context) {
	RespondOK(c, catalog.Categories())
}

// Currencies lists the tracked currency codes.
func Currencies(c *gin.Context) {
	RespondOK(c, catalog.Currencies())
}

// PaymentMethods lists the payment methods.
func PaymentMethods(c *gin.Context) {
	RespondOK(c, catalog.PaymentMethods())
}

// CashWallets lists the cash wallets.
func CashWallets(c *gin.Context) {
	RespondOK(c, catalog.CashWallets())
}

// Health reports that the process is serving.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
}
