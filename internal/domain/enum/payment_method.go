package enum

// PaymentMethod represents how a payment was made.
// StoreCredit ("fiado") is the deferred portion of a sale: the customer owes
// the store that amount until a later customer payment is allocated against it.
type PaymentMethod string

const (
	PaymentMethodCash            PaymentMethod = "cash"
	PaymentMethodCard            PaymentMethod = "card"
	PaymentMethodInstantTransfer PaymentMethod = "instant_transfer"
	PaymentMethodStoreCredit     PaymentMethod = "store_credit"
)

// Valid reports whether the method is one of the supported payment methods
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodInstantTransfer, PaymentMethodStoreCredit:
		return true
	}
	return false
}

func (m PaymentMethod) String() string {
	return string(m)
}
