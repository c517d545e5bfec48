package enums

import "fmt"

// WithdrawStatus tracks the lifecycle of a withdraw request.
type WithdrawStatus string

const (
	WithdrawStatusPending  WithdrawStatus = "pending"
	WithdrawStatusApproved WithdrawStatus = "approved"
	WithdrawStatusRejected WithdrawStatus = "rejected"
)

var validWithdrawStatuses = []WithdrawStatus{
	WithdrawStatusPending,
	WithdrawStatusApproved,
	WithdrawStatusRejected,
}

// String implements fmt.Stringer.
func (s WithdrawStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known WithdrawStatus.
func (s WithdrawStatus) IsValid() bool {
	for _, candidate := range validWithdrawStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the request is resolved. Approved and rejected
// requests are immutable.
func (s WithdrawStatus) IsTerminal() bool {
	return s == WithdrawStatusApproved || s == WithdrawStatusRejected
}

// ParseWithdrawStatus converts raw input into a WithdrawStatus.
func ParseWithdrawStatus(value string) (WithdrawStatus, error) {
	for _, candidate := range validWithdrawStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid withdraw status %q", value)
}
