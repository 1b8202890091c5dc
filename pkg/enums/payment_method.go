package enums

// PaymentMethod is the customer's selected payment option at checkout.
type PaymentMethod string

const (
	PaymentMethodCOD  PaymentMethod = "cod"
	PaymentMethodCard PaymentMethod = "card"
)

// ValidPaymentMethod reports whether the value is a supported method.
func ValidPaymentMethod(value PaymentMethod) bool {
	return value == PaymentMethodCOD || value == PaymentMethodCard
}
