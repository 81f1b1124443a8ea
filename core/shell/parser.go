package shell

import (
	"strings"
)

// Loosely follows
// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html

/**
1. The shell reads its input from the line editor or from the -c option.

2. The shell breaks the input into pipeline stages on unquoted '|' characters
and each stage into words; see Quoting. Only literal text is supported, there is
no parameter expansion, command substitution or pathname expansion.

3. The shell performs redirection (see Redirection) and removes redirection
operators and their operands from the parameter list.

4. The shell executes a builtin or an executable file found on PATH, giving the
words as arguments and the typed name as argument zero.

5. The shell waits for the command, or every command in the pipeline, to
complete.
**/

// lexer tracks the quoting state while scanning a line one rune at a time.
type lexer struct {
	inSingle bool
	inDouble bool
	escaped  bool
}

// quoted reports whether the scanner is inside quotes or escaping the next rune.
func (l *lexer) quoted() bool {
	return l.inSingle || l.inDouble || l.escaped
}

// next consumes r and returns the text it contributes to the current word.
// sep is true when r is an unquoted space.
func (l *lexer) next(r rune, peek rune) (out string, sep bool) {
	switch {
	case l.escaped:
		l.escaped = false
		return string(r), false

	case r == '\\' && l.inSingle:
		return `\`, false

	case r == '\\' && l.inDouble:
		if peek == '"' || peek == '\\' {
			l.escaped = true
			return "", false
		}
		return `\`, false

	case r == '\\':
		l.escaped = true
		return "", false

	case r == '\'' && !l.inDouble:
		l.inSingle = !l.inSingle
		return "", false

	case r == '"' && !l.inSingle:
		l.inDouble = !l.inDouble
		return "", false

	case r == ' ' && !l.inSingle && !l.inDouble:
		return "", true

	default:
		return string(r), false
	}
}

// Tokenize splits a line into words.
//
// It never fails: an unterminated quote stays open until the end of the line
// and a trailing backslash is dropped.
func Tokenize(line string) []string {
	var (
		tokens []string
		word   strings.Builder
		lex    lexer
	)

	runes := []rune(line)
	for i, r := range runes {
		var peek rune
		if i+1 < len(runes) {
			peek = runes[i+1]
		}

		out, sep := lex.next(r, peek)
		if sep {
			if word.Len() > 0 {
				tokens = append(tokens, word.String())
				word.Reset()
			}
			continue
		}
		word.WriteString(out)
	}

	if word.Len() > 0 {
		tokens = append(tokens, word.String())
	}

	return tokens
}

// SplitPipeline splits a raw line on '|' characters that aren't quoted or
// escaped. Each segment is trimmed of surrounding spaces but otherwise left
// untouched so it can be tokenized on its own.
func SplitPipeline(line string) []string {
	var (
		segments []string
		start    int
		lex      lexer
	)

	runes := []rune(line)
	for i, r := range runes {
		if r == '|' && !lex.quoted() {
			segments = append(segments, strings.TrimSpace(string(runes[start:i])))
			start = i + 1
			continue
		}

		var peek rune
		if i+1 < len(runes) {
			peek = runes[i+1]
		}
		lex.next(r, peek)
	}

	return append(segments, strings.TrimSpace(string(runes[start:])))
}

// HasPipe returns true if the line contains an unquoted pipe separator.
func HasPipe(line string) bool {
	return len(SplitPipeline(line)) > 1
}
