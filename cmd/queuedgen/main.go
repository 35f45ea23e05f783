// Command queuedgen generates a serialized wrapper for a type that embeds
// conc.QueuedDispatcher, in the same spirit as golang.org/x/tools/stringer:
// it is invoked via a //go:generate directive next to the type it targets,
// parses that single file, and emits a sibling _queued.go file with one
// forwarding method per exported method of the source type (other than
// Stop, which stays unwrapped), each routed
// through SafeDispatch so calls are serialized onto the type's own
// dispatch worker.
//
// Usage:
//
//	//go:generate queuedgen -type Counter
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

func main() {
	typeName := flag.String("type", "", "name of the type embedding conc.QueuedDispatcher")
	output := flag.String("output", "", "output file name; default srcdir/<type>_queued.go")
	flag.Parse()

	if *typeName == "" {
		fmt.Fprintln(os.Stderr, "queuedgen: -type is required")
		os.Exit(2)
	}

	gofile := os.Getenv("GOFILE")
	if gofile == "" {
		fmt.Fprintln(os.Stderr, "queuedgen: must be run via go:generate (GOFILE unset)")
		os.Exit(2)
	}

	methods, err := extractMethods(gofile, *typeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "queuedgen: %v\n", err)
		os.Exit(1)
	}

	out := *output
	if out == "" {
		out = fmt.Sprintf("%s_queued.go", strings.ToLower(*typeName))
	}
	if err := writeWrapper(filepath.Join(filepath.Dir(gofile), out), os.Getenv("GOPACKAGE"), *typeName, methods); err != nil {
		fmt.Fprintf(os.Stderr, "queuedgen: %v\n", err)
		os.Exit(1)
	}
}

type methodSig struct {
	Name    string
	Params  string
	Args    string
	Results string

	// Multi is set when the method returns two or more values. SafeDispatch
	// is generic over a single result type R, so a multi-value method's
	// results are packed into a synthesized, unkeyed struct (InnerType) to
	// cross SafeDispatch and unpacked again on return, instead of trying to
	// use the method's own parenthesized result-type list as R (which isn't
	// a valid type expression — e.g. "(int, error)" cannot instantiate
	// SafeDispatch[(int, error)]).
	Multi      bool
	InnerType  string // e.g. "struct{ V0 int; V1 error }"
	InnerVars  string // e.g. "v0, v1" — call-result vars, also the positional struct literal values
	InnerField string // e.g. "r.V0, r.V1" — unpacked return values
}

// extractMethods parses file and returns every exported method declared
// directly on typeName, in source order, except a method named Stop.
func extractMethods(file, typeName string) ([]methodSig, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, file, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	var methods []methodSig
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || len(fn.Recv.List) != 1 {
			continue
		}
		if !fn.Name.IsExported() || fn.Name.Name == "Stop" {
			continue
		}
		recvType := exprString(fn.Recv.List[0].Type)
		recvType = strings.TrimPrefix(recvType, "*")
		if recvType != typeName {
			continue
		}
		methods = append(methods, buildSig(fn))
	}
	return methods, nil
}

func buildSig(fn *ast.FuncDecl) methodSig {
	var params, args []string
	n := 0
	for _, p := range fn.Type.Params.List {
		typ := exprString(p.Type)
		names := p.Names
		if len(names) == 0 {
			name := fmt.Sprintf("arg%d", n)
			n++
			params = append(params, name+" "+typ)
			args = append(args, name)
			continue
		}
		for _, name := range names {
			params = append(params, name.Name+" "+typ)
			args = append(args, name.Name)
		}
	}

	var results []string
	if fn.Type.Results != nil {
		for _, r := range fn.Type.Results.List {
			results = append(results, exprString(r.Type))
		}
	}

	var resultsDecl string
	switch len(results) {
	case 0:
	case 1:
		resultsDecl = results[0]
	default:
		resultsDecl = "(" + strings.Join(results, ", ") + ")"
	}

	sig := methodSig{
		Name:    fn.Name.Name,
		Params:  strings.Join(params, ", "),
		Args:    strings.Join(args, ", "),
		Results: resultsDecl,
	}

	if len(results) >= 2 {
		var fields, vars, fieldRefs []string
		for i, typ := range results {
			name := fmt.Sprintf("V%d", i)
			fields = append(fields, name+" "+typ)
			vars = append(vars, fmt.Sprintf("v%d", i))
			fieldRefs = append(fieldRefs, "r."+name)
		}
		sig.Multi = true
		sig.InnerType = "struct{ " + strings.Join(fields, "; ") + " }"
		sig.InnerVars = strings.Join(vars, ", ")
		sig.InnerField = strings.Join(fieldRefs, ", ")
	}

	return sig
}

func exprString(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + exprString(t.X)
	case *ast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		return "[]" + exprString(t.Elt)
	case *ast.Ellipsis:
		return "..." + exprString(t.Elt)
	case *ast.InterfaceType:
		return "any"
	default:
		return "any"
	}
}

const wrapperTemplate = `// Code generated by queuedgen. DO NOT EDIT.

package {{.Package}}

import "github.com/structurego/conc"

// {{.Type}}Queued routes every call below through {{.Type}}'s own
// dispatch worker, so its wrapped methods are safe to call concurrently
// from any number of goroutines.
type {{.Type}}Queued struct {
	{{.Type}}
}
{{range .Methods}}
// {{.Name}} is a generated wrapper serializing the call onto the
// dispatcher's own worker via SafeDispatch.
func (x *{{$.Type}}Queued) {{.Name}}({{.Params}}) {{.Results}} {
	{{if .Multi}}r, _ := conc.SafeDispatch(x.{{$.Type}}.Queue, func() ({{.InnerType}}, error) {
		{{.InnerVars}} := x.{{$.Type}}.{{.Name}}({{.Args}})
		return {{.InnerType}}{ {{.InnerVars}} }, nil
	})
	return {{.InnerField}}{{else}}{{if .Results}}r, _ := conc.SafeDispatch(x.{{$.Type}}.Queue, func() ({{.Results}}, error) {
		return x.{{$.Type}}.{{.Name}}({{.Args}}), nil
	})
	return r{{else}}_, _ = conc.SafeDispatch(x.{{$.Type}}.Queue, func() (struct{}, error) {
		x.{{$.Type}}.{{.Name}}({{.Args}})
		return struct{}{}, nil
	}){{end}}{{end}}
}
{{end}}
`

type wrapperData struct {
	Package string
	Type    string
	Methods []methodSig
}

func writeWrapper(path, pkg, typeName string, methods []methodSig) error {
	tmpl, err := template.New("wrapper").Parse(wrapperTemplate)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return tmpl.Execute(f, wrapperData{Package: pkg, Type: typeName, Methods: methods})
}
