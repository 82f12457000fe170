package lexer

// Coalesce merges adjacent tokens of the same kind into one token, provided the
// kind is mergeable (see TokenType.Mergeable) and the tokens touch. The merged
// token keeps line and column of its first part.
//
// Coalesce does not modify its argument.
func Coalesce(tokens []Token) []Token {
	if len(tokens) == 0 {
		return tokens
	}
	merged := make([]Token, 0, len(tokens))
	cur := tokens[0]
	for _, t := range tokens[1:] {
		if t.Type == cur.Type && t.Type.Mergeable() && t.Start == cur.End {
			cur.Text += t.Text
			cur.End = t.End
			continue
		}
		merged = append(merged, cur)
		cur = t
	}
	return append(merged, cur)
}
