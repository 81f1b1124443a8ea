package editor

import (
	"strings"
)

// Completer supplies the command names that start with a prefix.
type Completer interface {
	Complete(prefix string) []string
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(prefix string) []string

func (f CompleterFunc) Complete(prefix string) []string {
	return f(prefix)
}

var _ Completer = (CompleterFunc)(nil)

// LongestCommonPrefix returns the longest string every candidate starts with.
func LongestCommonPrefix(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	prefix := candidates[0]
	for _, c := range candidates[1:] {
		for !strings.HasPrefix(c, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}

	// Drop a trailing partial rune.
	return strings.ToValidUTF8(prefix, "")
}

// complete applies one Tab press to the state.
func (e *Editor) complete(st *State) {
	if len(st.Buffer) == 0 {
		e.bell()
		e.redraw(st)
		return
	}

	buffer := string(st.Buffer)
	candidates := e.completer.Complete(buffer)

	switch len(candidates) {
	case 0:
		e.bell()
		e.redraw(st)
		st.TabPending = false

	case 1:
		st.Buffer = []rune(candidates[0] + " ")
		st.TabPending = false
		e.redraw(st)

	default:
		if prefix := LongestCommonPrefix(candidates); len(prefix) > len(buffer) {
			st.Buffer = []rune(prefix)
			st.TabPending = false
			e.redraw(st)
			return
		}

		if !st.TabPending {
			e.bell()
			st.TabPending = true
			return
		}

		e.write("\r\n" + strings.Join(candidates, "  ") + "\r\n")
		e.redraw(st)
		st.TabPending = false
	}
}
