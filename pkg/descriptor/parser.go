package descriptor

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	synerr "github.com/toyz/synth/internal/errors"
)

// typeExpr is the root of a parsed type expression
type typeExpr struct {
	Pos lexer.Position

	Pointer *typeExpr  `parser:"  '*' @@"`
	Slice   *typeExpr  `parser:"| '[' ']' @@"`
	Array   *arrayExpr `parser:"| @@"`
	Map     *mapExpr   `parser:"| @@"`
	Chan    *chanExpr  `parser:"| @@"`
	Func    *funcExpr  `parser:"| @@"`
	Empty   string     `parser:"| @( 'interface' | 'struct' ) '{' '}'"`
	Var     string     `parser:"| '?' @Ident"`
	Named   *namedExpr `parser:"| @@"`
}

type arrayExpr struct {
	Len  int       `parser:"'[' @Int ']'"`
	Elem *typeExpr `parser:"@@"`
}

type mapExpr struct {
	Key  *typeExpr `parser:"'map' '[' @@ ']'"`
	Elem *typeExpr `parser:"@@"`
}

type chanExpr struct {
	Recv bool      `parser:"(   @'<-' 'chan'"`
	Send bool      `parser:"  | 'chan' @'<-'? )"`
	Elem *typeExpr `parser:"@@"`
}

type funcExpr struct {
	Params  []*typeExpr `parser:"'func' '(' ( @@ ( ',' @@ )* )? ')'"`
	Results []*typeExpr `parser:"( '(' @@ ( ',' @@ )* ')' | @@ )?"`
}

type namedExpr struct {
	Name string      `parser:"@Ident"`
	Args []*typeExpr `parser:"( '[' @@ ( ',' @@ )* ']' )?"`
}

// argList parses the bracketed argument list of an instantiated generic name
type argList struct {
	Args []*typeExpr `parser:"'[' @@ ( ',' @@ )* ']'"`
}

var typeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*(?:[./-][a-zA-Z0-9_]+)*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Arrow", Pattern: `<-`},
	{Name: "Punct", Pattern: `[][*(),?{}]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var (
	exprParser = participle.MustBuild[typeExpr](
		participle.Lexer(typeLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(3),
	)
	argParser = participle.MustBuild[argList](
		participle.Lexer(typeLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(3),
	)
)

// Parse parses a Go-syntax type expression and resolves its names through c.
//
// Supported forms: identifiers known to the catalog (int, uuid.UUID,
// github.com/acme/app.User), *T, []T, [N]T, map[K]V, chan T, <-chan T, chan<- T,
// func(A, B) (R, error), interface {}, struct {}, instantiated generics such as
// app.Box[int], and ?T for an unbound variable (top level only).
func Parse(expr string, c *Catalog) (Type, error) {
	ast, err := exprParser.ParseString("", expr)
	if err != nil {
		return Type{}, syntaxError(expr, err)
	}
	if ast.Var != "" {
		return Var(ast.Var), nil
	}
	t, err := c.resolve(ast)
	if err != nil {
		return Type{}, fmt.Errorf("resolve %q: %w", expr, err)
	}
	return t, nil
}

// MustParse is like Parse but panics on error
func MustParse(expr string, c *Catalog) Type {
	t, err := Parse(expr, c)
	if err != nil {
		panic(err)
	}
	return t
}

func parseArgList(src string) ([]*typeExpr, error) {
	ast, err := argParser.ParseString("", src)
	if err != nil {
		return nil, syntaxError(src, err)
	}
	return ast.Args, nil
}

func syntaxError(expr string, err error) error {
	offset := 0
	var perr participle.Error
	if errors.As(err, &perr) {
		offset = perr.Position().Offset
	}
	return synerr.NewSyntaxError(expr, offset, err)
}

// resolve builds the Go type for e
func (c *Catalog) resolve(e *typeExpr) (Type, error) {
	rt, err := c.reflectType(e)
	if err != nil {
		return Type{}, err
	}
	return Of(rt), nil
}

func (c *Catalog) reflectType(e *typeExpr) (rt reflect.Type, err error) {
	// reflect constructors panic on invalid input (e.g. uncomparable map keys)
	defer func() {
		if rec := recover(); rec != nil {
			rt = nil
			err = fmt.Errorf("%v", rec)
		}
	}()

	switch {
	case e.Pointer != nil:
		elem, err := c.reflectType(e.Pointer)
		if err != nil {
			return nil, err
		}
		return reflect.PointerTo(elem), nil

	case e.Slice != nil:
		elem, err := c.reflectType(e.Slice)
		if err != nil {
			return nil, err
		}
		return reflect.SliceOf(elem), nil

	case e.Array != nil:
		elem, err := c.reflectType(e.Array.Elem)
		if err != nil {
			return nil, err
		}
		return reflect.ArrayOf(e.Array.Len, elem), nil

	case e.Map != nil:
		key, err := c.reflectType(e.Map.Key)
		if err != nil {
			return nil, err
		}
		elem, err := c.reflectType(e.Map.Elem)
		if err != nil {
			return nil, err
		}
		if !key.Comparable() {
			return nil, fmt.Errorf("invalid map key type %s", key)
		}
		return reflect.MapOf(key, elem), nil

	case e.Chan != nil:
		elem, err := c.reflectType(e.Chan.Elem)
		if err != nil {
			return nil, err
		}
		dir := reflect.BothDir
		if e.Chan.Recv {
			dir = reflect.RecvDir
		} else if e.Chan.Send {
			dir = reflect.SendDir
		}
		return reflect.ChanOf(dir, elem), nil

	case e.Func != nil:
		in, err := c.reflectTypes(e.Func.Params)
		if err != nil {
			return nil, err
		}
		out, err := c.reflectTypes(e.Func.Results)
		if err != nil {
			return nil, err
		}
		return reflect.FuncOf(in, out, false), nil

	case e.Empty == "interface":
		return reflect.TypeOf((*any)(nil)).Elem(), nil

	case e.Empty == "struct":
		return reflect.TypeOf(struct{}{}), nil

	case e.Var != "":
		return nil, fmt.Errorf("unbound variable ?%s must be the whole expression", e.Var)

	case e.Named != nil:
		return c.reflectNamed(e.Named)
	}

	return nil, fmt.Errorf("empty type expression")
}

func (c *Catalog) reflectTypes(exprs []*typeExpr) ([]reflect.Type, error) {
	out := make([]reflect.Type, 0, len(exprs))
	for _, e := range exprs {
		rt, err := c.reflectType(e)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, nil
}

func (c *Catalog) reflectNamed(n *namedExpr) (reflect.Type, error) {
	name := n.Name
	if len(n.Args) > 0 {
		args := make([]string, 0, len(n.Args))
		for _, a := range n.Args {
			rt, err := c.reflectType(a)
			if err != nil {
				return nil, err
			}
			args = append(args, qualified(rt))
		}
		name = name + "[" + strings.Join(args, ",") + "]"
	}

	rt, ok := c.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown type %q", name)
	}
	return rt, nil
}
