package transaction

import (
	"fmt"
	"math/rand"
	"time"
)

// referencePrefixes maps each type to a short human-readable tag.
var referencePrefixes = map[Type]string{
	TypeDeposit:     "DEP",
	TypeWithdrawal:  "WDL",
	TypeTransfer:    "TRF",
	TypePayment:     "PAY",
	TypeAirtime:     "AIR",
	TypeData:        "DAT",
	TypeElectricity: "ELC",
	TypeCable:       "CBL",
	TypeSchoolFees:  "SCH",
}

// NewReference produces a human-readable transaction reference such as
// TRF_1718455822123_042. It is a display label, not an identity:
// timestamp plus a small random suffix can collide under concurrency,
// so dedup always keys on the transaction ID.
func NewReference(t Type) string {
	prefix, ok := referencePrefixes[t]
	if !ok {
		prefix = "TXN"
	}
	return fmt.Sprintf("%s_%d_%03d", prefix, time.Now().UnixMilli(), rand.Intn(1000))
}
