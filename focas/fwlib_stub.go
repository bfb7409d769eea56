//go:build !(fwlib && cgo)

package focas

// Default возвращает библиотеку Fwlib32, с которой собран процесс.
// Без тега fwlib (или без cgo) это заглушка, отвечающая EW_NODLL.
func Default() Library {
	return Unavailable{}
}
