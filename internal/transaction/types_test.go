package transaction

import (
	"testing"

	"github.com/kudipay/kudipay/internal/account"
)

func TestEveryValidTypeHasADirection(t *testing.T) {
	all := []Type{
		TypeDeposit, TypeWithdrawal, TypeTransfer, TypePayment, TypeAirtime,
		TypeData, TypeElectricity, TypeCable, TypeSchoolFees,
	}
	for _, typ := range all {
		if !typ.Valid() {
			t.Fatalf("%s should be valid", typ)
		}
		if _, ok := typ.Direction(); !ok {
			t.Fatalf("%s has no direction", typ)
		}
	}
}

func TestDepositIsTheOnlyCredit(t *testing.T) {
	if TypeDeposit.IsDebit() {
		t.Fatal("deposit must be credit-classified")
	}
	for _, typ := range DebitTypes() {
		if d, _ := typ.Direction(); d != account.DirectionDebit {
			t.Fatalf("%s listed as debit but classified %s", typ, d)
		}
	}
}

func TestDebitTypesMatchesClassification(t *testing.T) {
	// DebitTypes feeds spend aggregation queries; it must cover exactly
	// the debit-classified entries of the direction table.
	listed := make(map[Type]bool)
	for _, typ := range DebitTypes() {
		listed[typ] = true
	}
	for typ, dir := range directions {
		if (dir == account.DirectionDebit) != listed[typ] {
			t.Fatalf("classification and DebitTypes disagree on %s", typ)
		}
	}
}

func TestUnknownTypeInvalid(t *testing.T) {
	if Type("loan").Valid() {
		t.Fatal("unknown type should be invalid")
	}
	if _, ok := Type("loan").Direction(); ok {
		t.Fatal("unknown type should have no direction")
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusPending.Terminal() {
		t.Fatal("pending is not terminal")
	}
	if !StatusCompleted.Terminal() || !StatusFailed.Terminal() {
		t.Fatal("completed and failed are terminal")
	}
	if Status("reversed").Valid() {
		t.Fatal("unknown status should be invalid")
	}
}
