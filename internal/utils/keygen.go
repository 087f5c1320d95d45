package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// OrderIDPrefix is the human-readable prefix of generated order ids.
const OrderIDPrefix = "ORD-"

// GenerateOrderID returns an order id of the form ORD-XXXXXXXX where X is an
// uppercase hex digit. Collisions are not checked.
func GenerateOrderID() (string, error) {
	b := make([]byte, 4) // 8 hex chars
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return OrderIDPrefix + strings.ToUpper(hex.EncodeToString(b)), nil
}
