package idgen

import (
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const orderIDLen = 9

// OrderID returns an id of the form ORD-XXXXXXXXX (9 upper-case base36 chars).
func OrderID() string {
	u := uuid.New()
	s := new(big.Int).SetBytes(u[:]).Text(36)
	if len(s) < orderIDLen {
		s = strings.Repeat("0", orderIDLen-len(s)) + s
	}
	return "ORD-" + strings.ToUpper(s[len(s)-orderIDLen:])
}
