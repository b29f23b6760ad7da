package header

import "github.com/dexios-go/dexios/crypto/primitives"

func primitiveAlgorithm(tag uint16) primitives.Algorithm {
	return primitives.Algorithm(tag)
}

func primitiveMode(tag uint16) primitives.Mode {
	return primitives.Mode(tag)
}
