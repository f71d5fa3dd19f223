// Package reader loads a compiled module and pulls out the symbol reference
// table the emitter embedded in it.
package reader

import (
	"github.com/coreos/pkg/dlopen"

	"github.com/pontaoski/hackfront/emitter"
)

import "C"

// ReadSymbol returns the NUL terminated string stored at symbol in the shared
// object at path.
func ReadSymbol(path, symbol string) (string, error) {
	handle, err := dlopen.GetHandle([]string{path})
	if err != nil {
		return "", err
	}
	defer handle.Close()

	sym, err := handle.GetSymbolPointer(symbol)
	if err != nil {
		return "", err
	}

	return C.GoString((*C.char)(sym)), nil
}

func ReadSymbolRefs(path string) (emitter.SymbolRefs, error) {
	data, err := ReadSymbol(path, emitter.RefsSymbol)
	if err != nil {
		return emitter.SymbolRefs{}, err
	}
	return emitter.DecodeRefs(data)
}
