// Package catalog holds the static reference lists the ledger is built
// against: spending categories, tracked currencies, payment methods and cash
// wallets. The lists are read-only; entries only refer to them by id.
package catalog

// CategoryType distinguishes spending from cash withdrawals.
type CategoryType string

const (
	CategoryTypeExpense    CategoryType = "expense"
	CategoryTypeWithdrawal CategoryType = "withdrawal"
)

// WithdrawalCategoryID is the id of the single withdrawal category.
const WithdrawalCategoryID = "CASH_WITHDRAWAL"

// CashPaymentMethodID marks an entry paid from a cash wallet.
const CashPaymentMethodID = "CASH"

// Category is one entry of the category taxonomy.
type Category struct {
	ID          string       `json:"id"`
	DisplayName string       `json:"displayName"`
	Type        CategoryType `json:"type"`
}

// Option is an id/name pair used for payment methods and cash wallets.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var categories = []Category{
	{ID: "FLIGHTS_INT", DisplayName: "International Flights", Type: CategoryTypeExpense},
	{ID: "FLIGHTS_DOM", DisplayName: "Domestic Flights", Type: CategoryTypeExpense},
	{ID: "TRANSPORT_LOCAL", DisplayName: "Local Transport", Type: CategoryTypeExpense},
	{ID: "ACCOMMODATION", DisplayName: "Accommodation", Type: CategoryTypeExpense},
	{ID: "FOOD_DRINK", DisplayName: "Food & Drink", Type: CategoryTypeExpense},
	{ID: "ATTRACTIONS", DisplayName: "Attractions", Type: CategoryTypeExpense},
	{ID: "SHOPPING", DisplayName: "Shopping", Type: CategoryTypeExpense},
	{ID: "COMMUNICATION", DisplayName: "Communication", Type: CategoryTypeExpense},
	{ID: "LAUNDRY", DisplayName: "Laundry", Type: CategoryTypeExpense},
	{ID: "HEALTH", DisplayName: "Health", Type: CategoryTypeExpense},
	{ID: "VISAS_FEES", DisplayName: "Visas & Fees", Type: CategoryTypeExpense},
	{ID: "OTHER", DisplayName: "Other / Misc", Type: CategoryTypeExpense},
	{ID: "BANK_FEES", DisplayName: "Bank Fees", Type: CategoryTypeExpense},
	{ID: "INSURANCE", DisplayName: "Insurance", Type: CategoryTypeExpense},
	{ID: WithdrawalCategoryID, DisplayName: "Cash Withdrawal", Type: CategoryTypeWithdrawal},
}

var currencies = []string{
	"ILS", "USD", "EUR", "THB", "NPR", "ARS", "BRL", "CLP",
	"PEN", "COP", "BOB", "UYU", "PYG", "MXN", "CRC",
}

var paymentMethods = []Option{
	{ID: "BANK_MAIN_ILS", Name: "Main Bank Account (ILS)"},
	{ID: "BANK_MAIN_USD", Name: "Main Bank Account (USD)"},
	{ID: "BANK_SAV_ILS", Name: "Savings Bank Account (ILS)"},
	{ID: "CARD_ONE_ILS", Name: "Behatsdaa (ILS)"},
	{ID: "CARD_TWO_ILS", Name: "Muchiler (ILS)"},
	{ID: "CARD_THREE_ILS", Name: "Leumi (ILS)"},
	{ID: CashPaymentMethodID, Name: "Cash"},
}

// Categories returns the ordered category taxonomy.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// CategoryByID looks a category up by id.
func CategoryByID(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// IsWithdrawal reports whether the category id is the withdrawal category.
func IsWithdrawal(categoryID string) bool {
	return categoryID == WithdrawalCategoryID
}

// Currencies returns the codes the currency table tracks, base first.
func Currencies() []string {
	return append([]string(nil), currencies...)
}

// TracksCurrency reports whether code is part of the currency catalog.
func TracksCurrency(code string) bool {
	for _, c := range currencies {
		if c == code {
			return true
		}
	}
	return false
}

// PaymentMethods returns the payment methods in display order.
func PaymentMethods() []Option {
	return append([]Option(nil), paymentMethods...)
}

// CashWallets returns one cash wallet per tracked currency.
func CashWallets() []Option {
	wallets := make([]Option, 0, len(currencies))
	for _, code := range currencies {
		wallets = append(wallets, Option{ID: CashWalletID(code), Name: "Cash " + code})
	}
	return wallets
}

// CashWalletID returns the wallet id holding cash in the given currency.
func CashWalletID(code string) string {
	return "CASH_" + code
}

// CashWalletFor returns the cash wallet for a currency when the catalog has one.
func CashWalletFor(code string) (string, bool) {
	if !TracksCurrency(code) {
		return "", false
	}
	return CashWalletID(code), true
}
