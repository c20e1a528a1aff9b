package config

import (
	"context"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"

	"github.com/ardnew/empl/log"
)

// Native returns c as nested maps and slices keyed by the field names of
// set-cfg!. Colors and keys are strings; unset colors are nil.
func (c *Config) Native() map[string]any {
	colors := func(cs Colors) map[string]any {
		m := map[string]any{"fg": nil, "bg": nil}
		if cs.Fg != nil {
			m["fg"] = cs.Fg.String()
		}

		if cs.Bg != nil {
			m["bg"] = cs.Bg.String()
		}

		return m
	}

	bindings := make([]any, len(c.KeyBindings))
	for i, b := range c.KeyBindings {
		keys := make([]any, len(b.Keys))
		for j, k := range b.Keys {
			keys[j] = k.String()
		}

		bindings[i] = map[string]any{"action": b.Action.String(), "keys": keys}
	}

	playlists := make([]any, len(c.Playlists))
	for i, p := range c.Playlists {
		songs := make([]any, len(p.Songs))
		for j, s := range p.Songs {
			songs[j] = map[string]any{"name": s.Name, "path": s.Path}
		}

		playlists[i] = map[string]any{"name": p.Name, "songs": songs}
	}

	return map[string]any{
		"cursor-colors":    colors(c.CursorColors),
		"menu-colors":      colors(c.MenuColors),
		"selection-colors": colors(c.SelectionColors),
		"key-bindings":     bindings,
		"playlists":        playlists,
	}
}

// Query evaluates the expr-lang expression q against the fields of c, as
// returned by [Config.Native]. Hyphenated names such as key-bindings may be
// written as they are.
//
//	len(playlists)
//	map(key-bindings, .action)
//	cursor-colors.fg
func Query(ctx context.Context, c *Config, q string) (any, error) {
	env := c.Native()

	program, err := expr.Compile(q,
		expr.Env(env),
		expr.Patch(&hyphenPatcher{env: env, logger: log.Default()}),
	)
	if err != nil {
		return nil, ErrQuery.With(slog.String("query", q)).Wrap(err)
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return nil, ErrQuery.With(slog.String("query", q)).Wrap(err)
	}

	log.TraceContext(ctx, "query", slog.String("query", q), slog.Any("result", out))

	return out, nil
}

// hyphenPatcher reconstructs hyphenated names from the subtraction nodes
// expr-lang parses them as. A chain is rewritten only when the combined name
// exists in env.
type hyphenPatcher struct {
	env    map[string]any
	logger log.Logger
}

// Visit implements ast.Visitor. Children are visited first, so the left side
// of a chain has already been patched where possible.
func (p *hyphenPatcher) Visit(node *ast.Node) {
	bin, ok := (*node).(*ast.BinaryNode)
	if !ok || bin.Operator != "-" {
		return
	}

	// a-b.c parses as a - (b.c); graft the combined name a-b onto the root
	// of the member chain.
	if id, set, ok := rootIdent(bin.Right); ok {
		if combined, ok := p.combine(bin.Left, id.Value); ok {
			set(combined)
			ast.Patch(node, bin.Right)
			p.logger.Trace("patch hyphenated", slog.String("patch_type", "member-chain"))
		}

		return
	}

	id, ok := bin.Right.(*ast.IdentifierNode)
	if !ok {
		return
	}

	if combined, ok := p.combine(bin.Left, id.Value); ok {
		ast.Patch(node, combined)
		p.logger.Trace("patch hyphenated", slog.String("patch_type", "identifier"))
	}
}

// combine joins name onto left with a hyphen, returning the identifier or
// member access it denotes if that name exists.
func (p *hyphenPatcher) combine(left ast.Node, name string) (ast.Node, bool) {
	switch left := left.(type) {
	case *ast.IdentifierNode:
		combined := left.Value + "-" + name
		if _, ok := p.env[combined]; ok {
			return &ast.IdentifierNode{Value: combined}, true
		}

	case *ast.MemberNode:
		prop, ok := left.Property.(*ast.StringNode)
		if !ok {
			return nil, false
		}

		combined := prop.Value + "-" + name

		path, ok := memberPath(left.Node)
		if !ok || !hasKey(resolve(p.env, path), combined) {
			return nil, false
		}

		return &ast.MemberNode{
			Node:     left.Node,
			Property: &ast.StringNode{Value: combined},
		}, true

	case *ast.BinaryNode:
		// an unpatched a-b whose prefix alone names nothing
		if left.Operator != "-" {
			return nil, false
		}

		id, ok := left.Right.(*ast.IdentifierNode)
		if !ok {
			return nil, false
		}

		return p.combine(left.Left, id.Value+"-"+name)
	}

	return nil, false
}

// rootIdent finds the identifier at the root of a member chain and returns
// a function replacing it.
func rootIdent(n ast.Node) (*ast.IdentifierNode, func(ast.Node), bool) {
	m, ok := n.(*ast.MemberNode)
	if !ok {
		return nil, nil, false
	}

	if id, ok := m.Node.(*ast.IdentifierNode); ok {
		return id, func(r ast.Node) { m.Node = r }, true
	}

	return rootIdent(m.Node)
}

// memberPath returns the keys of an identifier or member chain with string
// properties.
func memberPath(n ast.Node) ([]string, bool) {
	switch n := n.(type) {
	case *ast.IdentifierNode:
		return []string{n.Value}, true

	case *ast.MemberNode:
		prop, ok := n.Property.(*ast.StringNode)
		if !ok {
			return nil, false
		}

		base, ok := memberPath(n.Node)
		if !ok {
			return nil, false
		}

		return append(base, prop.Value), true
	}

	return nil, false
}

func resolve(v any, path []string) any {
	for _, key := range path {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}

		v = m[key]
	}

	return v
}

func hasKey(v any, key string) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}

	_, ok = m[key]

	return ok
}
