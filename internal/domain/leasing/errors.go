package leasing

import "github.com/dansever/estait-app-sub000/internal/domain/shared"

// Error codes raised by the leasing context
const (
	CodeInvalidRange       = "INVALID_RANGE"
	CodeEndBeforeStart     = "END_BEFORE_START"
	CodeLeaseOverlap       = "LEASE_OVERLAP"
	CodeLeaseTerminated    = "LEASE_TERMINATED"
	CodeLeaseNotTerminated = "LEASE_NOT_TERMINATED"
	CodeInvalidRent        = "INVALID_RENT"
	CodeInvalidDeposit     = "INVALID_DEPOSIT"
	CodeInvalidCurrency    = "INVALID_CURRENCY"
	CodeInvalidFrequency   = "INVALID_PAYMENT_FREQUENCY"
	CodeInvalidDueDay      = "INVALID_PAYMENT_DUE_DAY"
	CodeInvalidTermination = "INVALID_TERMINATION_DATE"
	CodeInvalidMoneyScale  = "INVALID_MONEY_SCALE"
)

var (
	ErrInvalidRange       = shared.NewDomainError(CodeInvalidRange, "Lease start and end must be valid calendar dates")
	ErrEndBeforeStart     = shared.NewDomainError(CodeEndBeforeStart, "Lease end must be after lease start")
	ErrLeaseOverlap       = shared.NewDomainError(CodeLeaseOverlap, "Another lease already covers this period for the property")
	ErrLeaseTerminated    = shared.NewDomainError(CodeLeaseTerminated, "Lease has been terminated")
	ErrLeaseNotTerminated = shared.NewDomainError(CodeLeaseNotTerminated, "Lease is not terminated")
	ErrInvalidRent        = shared.NewDomainError(CodeInvalidRent, "Rent amount cannot be negative")
	ErrInvalidDeposit     = shared.NewDomainError(CodeInvalidDeposit, "Security deposit cannot be negative")
	ErrInvalidCurrency    = shared.NewDomainError(CodeInvalidCurrency, "Currency must be an ISO 4217 code")
	ErrInvalidFrequency   = shared.NewDomainError(CodeInvalidFrequency, "Unknown payment frequency")
	ErrInvalidDueDay      = shared.NewDomainError(CodeInvalidDueDay, "Payment due day must be between 1 and 31")
	ErrInvalidTermination = shared.NewDomainError(CodeInvalidTermination, "Termination date must fall within the lease period")
	ErrInvalidMoneyScale  = shared.NewDomainError(CodeInvalidMoneyScale, "Rent and deposit allow at most two decimal places")
)
