//go:build windows

package focas

import "golang.org/x/sys/windows"

// LibraryName - имя библиотеки FOCAS на этой платформе.
const LibraryName = "Fwlib32.dll"

// IsLibraryLoadable пробует загрузить библиотеку и сразу освобождает ее.
func IsLibraryLoadable(name string) bool {
	h, err := windows.LoadLibrary(name)
	if err != nil {
		return false
	}
	_ = windows.FreeLibrary(h)
	return true
}
