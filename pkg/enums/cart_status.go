package enums

// CartStatus tracks whether a cart is still being edited.
type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusConverted CartStatus = "converted"
)

// IsValid reports whether the value is a known CartStatus.
func (s CartStatus) IsValid() bool {
	return s == CartStatusActive || s == CartStatusConverted
}
