package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		quantity int
		want     Status
	}{
		{-3, OutOfStock},
		{0, OutOfStock},
		{1, LowStock},
		{3, LowStock},
		{4, LowStock},
		{5, InStock},
		{120, InStock},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusOf(tc.quantity), "quantity %d", tc.quantity)
	}
}
