package parser

import "strings"

// Longer spellings come first so that "arcctg" is never read as "arc" + "ctg".
// strings.Replacer tries the pairs in order at each position and never
// rescans its own output.
var functionNames = strings.NewReplacer(
	"arcctan", "acot",
	"arcctg", "acot",
	"arccot", "acot",
	"arctan", "atan",
	"arctg", "atan",
	"arcsin", "asin",
	"arccos", "acos",
	"cosec", "csc",
	"cotan", "cot",
	"ctan", "cot",
	"ctg", "cot",
	"tg", "tan",
	"lg", "log10",
)

// NormalizeFunctions rewrites the common regional spellings of functions
// (tg, ctg, arctg...) to the names the expression parser knows.
func NormalizeFunctions(text string) string {
	return functionNames.Replace(text)
}
