//go:build !windows && cgo

package focas

/*
#cgo linux LDFLAGS: -ldl
#include <stdlib.h>
#include <dlfcn.h>

static int go_library_loadable(const char* name) {
    void* h = dlopen(name, RTLD_LAZY | RTLD_LOCAL);
    if (h == NULL) {
        return 0;
    }
    dlclose(h);
    return 1;
}
*/
import "C"

import "unsafe"

// LibraryName - имя библиотеки FOCAS на этой платформе.
const LibraryName = "libfwlib32.so"

// IsLibraryLoadable пробует загрузить библиотеку и сразу освобождает ее.
func IsLibraryLoadable(name string) bool {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return C.go_library_loadable(cname) == 1
}
