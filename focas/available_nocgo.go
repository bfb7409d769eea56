//go:build !windows && !cgo

package focas

// LibraryName - имя библиотеки FOCAS на этой платформе.
const LibraryName = "libfwlib32.so"

// IsLibraryLoadable всегда false: без cgo разделяемую библиотеку загрузить нечем.
func IsLibraryLoadable(string) bool {
	return false
}
