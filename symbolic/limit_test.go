package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimit(t *testing.T) {
	var testCases = []struct {
		Input    string
		Point    Expr
		Dir      Direction
		Expected string
	}{
		{"x^2", Two, Both, "4"},
		{"sin(x)/x", Zero, Both, "1"},
		{"(x^2 - 1)/(x - 1)", One, Both, "2"},
		{"1/x", Zero, FromRight, "oo"},
		{"1/x", Zero, FromLeft, "-oo"},
		{"1/x", Zero, Both, "nan"},
		{"1/x^2", Zero, Both, "oo"},
		{"1/x", Oo, Both, "0"},
		{"(2*x^2 + 1)/(x^2 - 3)", Oo, Both, "2"},
		{"x^3", NegOo, Both, "-oo"},
		{"exp(x)", NegOo, Both, "0"},
		{"exp(x)", Oo, Both, "oo"},
		{"log(x)", Oo, Both, "oo"},
		{"log(x)", Zero, FromRight, "-oo"},
		{"atan(x)", Oo, Both, "pi/2"},
		{"sin(x)", Oo, Both, "nan"},
		{"(1 - cos(x))/x^2", Zero, Both, "1/2"},
		{"(exp(x) - 1)/x", Zero, Both, "1"},
		{"abs(x)/x", Zero, Both, "nan"},
	}

	for _, tc := range testCases {
		got := Limit(MustParse(tc.Input), "x", tc.Point, tc.Dir)
		assert.Equal(t, tc.Expected, got.String(), tc.Input)
	}
}
