package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

func formatExpr(e Expr) string {
	var sb strings.Builder

	writeExpr(&sb, e, 0, 0)

	return sb.String()
}

// Format writes forms in canonical s-expression syntax, one top-level form
// per line. With indent > 0, a list containing another list is broken so
// that each argument after the head starts its own line.
func Format(_ context.Context, w io.Writer, forms []Expr, indent int) error {
	var sb strings.Builder

	for _, e := range forms {
		writeExpr(&sb, e, indent, 0)
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

// FormatJSON writes forms as a JSON array of their [ToNative] encodings.
func FormatJSON(_ context.Context, w io.Writer, forms []Expr, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(nativeForms(forms), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(nativeForms(forms))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes forms as a YAML sequence of their [ToNative] encodings.
func FormatYAML(ctx context.Context, w io.Writer, forms []Expr, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, nativeForms(forms), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

func nativeForms(forms []Expr) []any {
	out := make([]any, len(forms))
	for i, e := range forms {
		out[i] = ToNative(e)
	}

	return out
}

func nested(l ListExpr) bool {
	for _, e := range l {
		if _, ok := e.(ListExpr); ok {
			return true
		}
	}

	return false
}

func writeExpr(sb *strings.Builder, e Expr, indent, depth int) {
	l, ok := e.(ListExpr)
	if !ok {
		sb.WriteString(e.String())

		return
	}

	sb.WriteByte('(')

	broken := indent > 0 && len(l) > 1 && nested(l)

	for i, item := range l {
		switch {
		case i == 0:
		case broken:
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat(" ", (depth+1)*indent))
		default:
			sb.WriteByte(' ')
		}

		writeExpr(sb, item, indent, depth+1)
	}

	sb.WriteByte(')')
}
