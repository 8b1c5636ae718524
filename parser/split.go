package parser

import "strings"

const statementSeparator = '\x00'

// SplitQuery breaks a request into statements on commas, semicolons and
// newlines that are not inside any brackets, so root(x, 3) stays whole.
// Empty statements are kept.
func SplitQuery(text string) ([]string, error) {
	runes := []rune(text)
	depth := 0

	for i, r := range runes {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',', ';', '\n':
			if depth == 0 {
				runes[i] = statementSeparator
			}
		}

		if depth < 0 {
			return nil, bracketError(text)
		}
	}

	if depth != 0 {
		return nil, bracketError(text)
	}

	return strings.Split(string(runes), string(statementSeparator)), nil
}

func bracketError(text string) error {
	return newError(Structural, text, "Incorrect bracket sequence. Check your expression.")
}
