/*
Package scriptrunner is an incremental lexing toolbox for a script editor.

Scriptrunner keeps syntax highlighting and bracket matching responsive while
a Kotlin script is edited keystroke by keystroke. Only lines whose content or
entry state changed are re-scanned. Package structure is as follows:

■ lexer: Package lexer implements the scanner for Kotlin script, a per-line token
cache and the incremental tokenizer built on top of it.

■ lexer/bracket: Package bracket finds matching and unmatched brackets in a token stream.

■ highlight: Package highlight maps tokens to styles, renders them for terminals and
coalesces highlighting requests of an editor.

■ completion: Package completion offers keyword and type completion at a cursor position.

■ workspace: Package workspace holds the lexing state of all open documents.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024 Lukas Cekic

*/
package scriptrunner
