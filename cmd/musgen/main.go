package main

import (
	"os"
	"reflect"
	"strings"

	musgen "github.com/mus-format/musgen-go/mus"
	genops "github.com/mus-format/musgen-go/options/generate"

	"github.com/poiesic/hazmatrag/core"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	// If we're in the core subpackage, cd up to project root
	if strings.HasSuffix(cwd, "core") {
		if err := os.Chdir(".."); err != nil {
			panic(err)
		}
	}
	g, err := musgen.NewCodeGenerator(
		genops.WithPkgPath("github.com/poiesic/hazmatrag/core"),
	)
	if err != nil {
		panic(err)
	}

	g.AddDefinedType(reflect.TypeFor[core.ID]())
	g.AddDefinedType(reflect.TypeFor[core.DocType]())
	g.AddDefinedType(reflect.TypeFor[core.Source]())
	g.AddDefinedType(reflect.TypeFor[core.SearchType]())

	// Dependencies first: DocumentMetadata before Document before IndexedDocument.
	for _, t := range []reflect.Type{
		reflect.TypeFor[core.ChemicalRecord](),
		reflect.TypeFor[core.DocumentMetadata](),
		reflect.TypeFor[core.Document](),
		reflect.TypeFor[core.SparseVector](),
		reflect.TypeFor[core.IndexedDocument](),
		reflect.TypeFor[core.VectorizerState](),
	} {
		if err := g.AddStruct(t); err != nil {
			panic(err)
		}
	}

	bs, err := g.Generate()
	if err != nil {
		panic(err)
	}

	err = os.WriteFile("./core/records_mus.gen.go", bs, 0644)
	if err != nil {
		panic(err)
	}
}
