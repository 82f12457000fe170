/*
Package lexer implements lexical analysis of Kotlin script for a source code editor.

The scanner is built with lexmachine (see
https://hackthology.com/how-to-tokenize-complex-strings-with-lexmachine.html).
Most token categories are recognized by a DFA. Block comments and raw strings
may span lines and are finished by hand, as the scanner has to be able to
resume them at the start of a line:

	tokens, endState := lexer.Scan(line, startState)

Scanning line by line is what makes incremental tokenization possible.
IncrementalLexer splits a document into lines and caches, per line, the tokens
together with the lexer state at the start and at the end of the line. A line is
scanned again only if its content or its start state changed:

	lx := lexer.NewIncrementalLexer()
	tokens := lx.Tokenize(document)   // first pass scans every line
	tokens = lx.Tokenize(edited)      // later passes re-scan changed lines only

The result of IncrementalLexer.Tokenize is always the same as that of the
single-pass Tokenize for the same document.

Positions

All offsets are counted in runes, not bytes. Lines and columns are 0-based.
Line terminators are "\n", "\r\n" and "\r".

Configuration

Key "lexer.invalidate-suffix" (bool) makes incremental lexers drop all cached lines
below a line which had to be re-scanned, instead of only when the line's end state
changed.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024 Lukas Cekic

*/
package lexer
