package idgen

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderID_Format(t *testing.T) {
	re := regexp.MustCompile(`^ORD-[A-Z0-9]{9}$`)
	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		id := OrderID()
		assert.Regexp(t, re, id)
		seen[id] = struct{}{}
	}
	assert.Greater(t, len(seen), 490)
}
