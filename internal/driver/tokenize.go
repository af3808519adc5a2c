package driver

import (
	"quill/internal/diag"
	"quill/internal/lexer"
	"quill/internal/source"
	"quill/internal/syntax"
)

// TokenizeFile lexes one file and returns its token stream with diagnostics.
func TokenizeFile(fileSet *source.FileSet, path string, maxDiagnostics int) ([]syntax.Token, *diag.Bag, error) {
	id, err := fileSet.Load(path)
	if err != nil {
		return nil, nil, err
	}
	bag := diag.NewBag(maxDiagnostics)
	tokens := lexer.New(fileSet.Get(id), &diag.BagReporter{Bag: bag}).Tokenize()
	return tokens, bag, nil
}
