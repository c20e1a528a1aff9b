package repl

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ardnew/empl/lang"
)

// functionCall describes the innermost application enclosing the cursor.
type functionCall struct {
	name     string // head identifier
	argIndex int    // argument under or after the cursor, 0-based
	inCall   bool   // cursor is past the head of an open list
}

// callFrame tracks one open list while scanning input.
type callFrame struct {
	head   string
	items  int  // elements started so far, the head included
	inAtom bool // scanning an identifier or literal
	start  int  // byte offset of the current atom
}

// detectFunctionCall scans input up to cursor and reports the application
// the cursor is in. Strings and comments are skipped. The head itself does
// not count as being in the call, so completions show while it is typed.
func detectFunctionCall(input string, cursor int) functionCall {
	input = input[:min(max(cursor, 0), len(input))]

	var (
		stack                    = []callFrame{{}}
		quoted, escaped, comment bool
	)

	top := func() *callFrame { return &stack[len(stack)-1] }

	endAtom := func(at int) {
		f := top()
		if f.inAtom && f.items == 1 {
			f.head = input[f.start:at]
		}

		f.inAtom = false
	}

	for i, r := range input {
		switch {
		case comment:
			comment = r != '\n'

		case quoted:
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				quoted = false
			}

		case r == ';':
			endAtom(i)
			comment = true

		case r == '"':
			endAtom(i)
			top().items++
			quoted = true

		case r == '(':
			endAtom(i)
			top().items++
			stack = append(stack, callFrame{})

		case r == ')':
			endAtom(i)

			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}

		case unicode.IsSpace(r):
			endAtom(i)

		case !top().inAtom:
			f := top()
			f.items++
			f.inAtom = true
			f.start = i
		}
	}

	f := top()
	if len(stack) == 1 || quoted || comment {
		return functionCall{}
	}

	touching := f.inAtom || strings.HasSuffix(input, `"`)
	if f.inAtom && f.items == 1 {
		return functionCall{}
	}

	endAtom(len(input))

	if f.head == "" {
		return functionCall{}
	}

	idx := f.items - 1
	if touching {
		idx--
	}

	return functionCall{name: f.head, argIndex: max(idx, 0), inCall: true}
}

// getSignature returns the usage of the function bound to name and its
// parameter names. A function without a usage line gets one derived from
// its arity.
func getSignature(env *lang.Environment, name string) (signature string, params []string, arity lang.Arity) {
	v, err := env.Get(name)
	if err != nil {
		return "", nil, lang.Arity{}
	}

	fn, ok := v.(*lang.Fn)
	if !ok {
		return "", nil, lang.Arity{}
	}

	signature = fn.Usage()
	if signature == "" {
		signature = arityUsage(name, fn.Arity())
	}

	if fields := usageFields(signature); len(fields) > 0 {
		params = fields[1:]
	}

	return signature, params, fn.Arity()
}

// usageFields splits a usage line such as "(let ((name value)...) body...)"
// into its top-level elements: let, ((name value)...) and body...
func usageFields(usage string) []string {
	usage = strings.TrimSpace(usage)
	if !strings.HasPrefix(usage, "(") || !strings.HasSuffix(usage, ")") {
		return strings.Fields(usage)
	}

	var (
		fields []string
		depth  int
		start  = -1
	)

	body := usage[1 : len(usage)-1]

	for i, r := range body {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
		case depth == 0 && unicode.IsSpace(r):
			if start >= 0 {
				fields = append(fields, body[start:i])
				start = -1
			}

			continue
		}

		if start < 0 {
			start = i
		}
	}

	if start >= 0 {
		fields = append(fields, body[start:])
	}

	return fields
}

// arityUsage builds "(name arg1 arg2 arg...)" from a.
func arityUsage(name string, a lang.Arity) string {
	parts := []string{name}

	for i := range a.Min {
		parts = append(parts, "arg"+strconv.Itoa(i+1))
	}

	switch {
	case a.Max < 0:
		parts = append(parts, "arg...")
	case a.Max > a.Min:
		for i := a.Min; i < a.Max; i++ {
			parts = append(parts, "[arg"+strconv.Itoa(i+1)+"]")
		}
	}

	return "(" + strings.Join(parts, " ") + ")"
}

// renderSignatureHint renders the signature with the parameter at argIdx
// highlighted. A trailing variadic parameter stays highlighted for every
// later argument, and an argument beyond the arity is flagged.
func renderSignatureHint(
	name string,
	params []string,
	arity lang.Arity,
	argIdx int,
) string {
	var b strings.Builder

	b.WriteString(signatureStyle.Render("("))
	b.WriteString(signatureNameStyle.Render(name))

	for i, param := range params {
		b.WriteString(signatureStyle.Render(" "))

		variadic := strings.HasSuffix(param, "...") && i == len(params)-1
		if argIdx == i || (variadic && argIdx >= i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	if arity.Max >= 0 && argIdx >= arity.Max {
		b.WriteString(errorStyle.Render("  expects " + arity.String() + " argument(s)"))
	}

	return b.String()
}
