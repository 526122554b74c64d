package transaction

import "github.com/kudipay/kudipay/internal/account"

// Type identifies what a transaction pays for. Direction (credit or
// debit) is derived from the type, never stored as a sign on the amount.
type Type string

const (
	TypeDeposit     Type = "deposit"
	TypeWithdrawal  Type = "withdrawal"
	TypeTransfer    Type = "transfer"
	TypePayment     Type = "payment"
	TypeAirtime     Type = "airtime"
	TypeData        Type = "data"
	TypeElectricity Type = "electricity"
	TypeCable       Type = "cable"
	TypeSchoolFees  Type = "school_fees"
)

// directions is the single source of truth for debit/credit
// classification. Limit checks, balance mutation and statement
// reconstruction all read from this table so they can never disagree.
var directions = map[Type]account.Direction{
	TypeDeposit:     account.DirectionCredit,
	TypeWithdrawal:  account.DirectionDebit,
	TypeTransfer:    account.DirectionDebit,
	TypePayment:     account.DirectionDebit,
	TypeAirtime:     account.DirectionDebit,
	TypeData:        account.DirectionDebit,
	TypeElectricity: account.DirectionDebit,
	TypeCable:       account.DirectionDebit,
	TypeSchoolFees:  account.DirectionDebit,
}

// Valid reports whether t is a known transaction type.
func (t Type) Valid() bool {
	_, ok := directions[t]
	return ok
}

// Direction returns how settling t moves the account balance.
func (t Type) Direction() (account.Direction, bool) {
	d, ok := directions[t]
	return d, ok
}

// IsDebit reports whether settling t subtracts from the balance.
func (t Type) IsDebit() bool {
	return directions[t] == account.DirectionDebit
}

// DebitTypes lists every debit-classified type in a stable order, for
// use in spend aggregation queries.
func DebitTypes() []Type {
	return []Type{
		TypeWithdrawal, TypeTransfer, TypePayment, TypeAirtime,
		TypeData, TypeElectricity, TypeCable, TypeSchoolFees,
	}
}

// external reports whether the type settles through the third-party
// payment rail rather than as a pure balance movement.
func (t Type) external() bool {
	switch t {
	case TypePayment, TypeAirtime, TypeData, TypeElectricity, TypeCable, TypeSchoolFees:
		return true
	default:
		return false
	}
}

// Status tracks a transaction through its lifecycle. The only legal
// transitions are pending to completed and pending to failed; completed
// and failed are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}
