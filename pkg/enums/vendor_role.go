package enums

import "fmt"

// VendorRole distinguishes third-party sellers from the platform's own shops.
type VendorRole string

const (
	VendorRoleSeller  VendorRole = "seller"
	VendorRoleInHouse VendorRole = "in-house"
)

var validVendorRoles = []VendorRole{
	VendorRoleSeller,
	VendorRoleInHouse,
}

// String implements fmt.Stringer.
func (r VendorRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known VendorRole.
func (r VendorRole) IsValid() bool {
	for _, candidate := range validVendorRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseVendorRole converts raw input into a VendorRole.
func ParseVendorRole(value string) (VendorRole, error) {
	for _, candidate := range validVendorRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vendor role %q", value)
}
