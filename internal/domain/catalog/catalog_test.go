package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategories_SingleWithdrawal(t *testing.T) {
	withdrawals := 0
	for _, c := range Categories() {
		if c.Type == CategoryTypeWithdrawal {
			withdrawals++
			assert.Equal(t, WithdrawalCategoryID, c.ID)
		}
	}
	assert.Equal(t, 1, withdrawals)
}

func TestCategoryByID(t *testing.T) {
	c, ok := CategoryByID("FOOD_DRINK")
	assert.True(t, ok)
	assert.Equal(t, CategoryTypeExpense, c.Type)

	_, ok = CategoryByID("NOPE")
	assert.False(t, ok)

	assert.True(t, IsWithdrawal(WithdrawalCategoryID))
	assert.False(t, IsWithdrawal("FOOD_DRINK"))
}

func TestCategories_ReturnsCopy(t *testing.T) {
	list := Categories()
	list[0].ID = "CHANGED"
	assert.Equal(t, "FLIGHTS_INT", Categories()[0].ID)
}

func TestCurrencies(t *testing.T) {
	codes := Currencies()
	assert.Len(t, codes, 15)
	assert.Equal(t, "ILS", codes[0])
	assert.True(t, TracksCurrency("THB"))
	assert.False(t, TracksCurrency("GBP"))
}

func TestCashWallets(t *testing.T) {
	wallets := CashWallets()
	assert.Len(t, wallets, len(Currencies()))
	assert.Equal(t, Option{ID: "CASH_ILS", Name: "Cash ILS"}, wallets[0])

	id, ok := CashWalletFor("USD")
	assert.True(t, ok)
	assert.Equal(t, "CASH_USD", id)

	_, ok = CashWalletFor("GBP")
	assert.False(t, ok)
}
