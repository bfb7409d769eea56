//go:build fwlib && cgo

package focas

/*
#cgo CFLAGS: -I${SRCDIR}/..
#cgo linux LDFLAGS: -L${SRCDIR}/.. -lfwlib32 -Wl,-rpath,${SRCDIR}/..
#cgo windows LDFLAGS: -L${SRCDIR}/.. -lFwlib32

#include <stdlib.h>
#include <stdint.h>
#include <string.h>
#include "fwlib32.h"

#define GO_MAX_AXIS 32

// ODBDY2 использует long, разрядность которого зависит от платформы,
// поэтому данные копируются в структуру с фиксированными типами.
typedef struct {
    int32_t axis;
    int32_t alarm;
    int32_t prgnum;
    int32_t prgmnum;
    int32_t seqnum;
    int32_t actf;
    int32_t acts;
    int32_t absolute[GO_MAX_AXIS];
    int32_t machine[GO_MAX_AXIS];
    int32_t relative[GO_MAX_AXIS];
    int32_t distance[GO_MAX_AXIS];
} go_dynamic;

typedef struct {
    int16_t hdck;
    int16_t tmmode;
    int16_t aut;
    int16_t run;
    int16_t motion;
    int16_t mstb;
    int16_t emergency;
    int16_t alarm;
    int16_t edit;
} go_status;

static short go_cnc_startupprocess(unsigned short mode, const char* logpath) {
#if defined(__linux__)
    return cnc_startupprocess(mode, logpath);
#else
    return EW_OK;
#endif
}

static short go_cnc_allclibhndl3(const char* ip, unsigned short port, long timeout, unsigned short* handle_out) {
    return cnc_allclibhndl3(ip, port, timeout, handle_out);
}

static short go_cnc_freelibhndl(unsigned short h) {
    return cnc_freelibhndl(h);
}

static short go_cnc_rddynamic2(unsigned short h, go_dynamic* out) {
    ODBDY2 d;
    short rc;
    int i, n, limit;

    memset(&d, 0, sizeof(d));
    rc = cnc_rddynamic2(h, -1, sizeof(d), &d);
    if (rc != EW_OK) {
        return rc;
    }

    out->axis = d.axis;
    out->alarm = (int32_t)d.alarm;
    out->prgnum = (int32_t)d.prgnum;
    out->prgmnum = (int32_t)d.prgmnum;
    out->seqnum = (int32_t)d.seqnum;
    out->actf = (int32_t)d.actf;
    out->acts = (int32_t)d.acts;

    limit = MAX_AXIS < GO_MAX_AXIS ? MAX_AXIS : GO_MAX_AXIS;
    n = d.axis;
    if (n < 0) n = 0;
    if (n > limit) n = limit;
    for (i = 0; i < n; i++) {
        out->absolute[i] = (int32_t)d.pos.faxis.absolute[i];
        out->machine[i] = (int32_t)d.pos.faxis.machine[i];
        out->relative[i] = (int32_t)d.pos.faxis.relative[i];
        out->distance[i] = (int32_t)d.pos.faxis.distance[i];
    }
    return rc;
}

static short go_cnc_statinfo(unsigned short h, go_status* out) {
    ODBST st;
    short rc;

    memset(&st, 0, sizeof(st));
    rc = cnc_statinfo(h, &st);
    if (rc != EW_OK) {
        return rc;
    }
    out->hdck = st.hdck;
    out->tmmode = st.tmmode;
    out->aut = st.aut;
    out->run = st.run;
    out->motion = st.motion;
    out->mstb = st.mstb;
    out->emergency = st.emergency;
    out->alarm = st.alarm;
    out->edit = st.edit;
    return rc;
}

static short go_cnc_alarm(unsigned short h, uint16_t* status_out) {
    ODBALM a;
    short rc;

    memset(&a, 0, sizeof(a));
    rc = cnc_alarm(h, &a);
    if (rc == EW_OK) {
        *status_out = (uint16_t)a.data;
    }
    return rc;
}
*/
import "C"

import (
	"sync"
	"unsafe"
)

var (
	nativeOnce sync.Once
	nativeLib  *native
)

// Default возвращает библиотеку Fwlib32, с которой собран процесс.
func Default() Library {
	nativeOnce.Do(func() {
		nativeLib = &native{thread: newOSThread()}
	})
	return nativeLib
}

// native вызывает Fwlib32 через cgo. Все вызовы выполняются на одном потоке ОС.
type native struct {
	thread *osThread
}

var _ Library = (*native)(nil)

func (n *native) Startup(mode uint16, logPath string) ReturnCode {
	rc := EW_SYSTEM
	n.thread.do(func() {
		cpath := C.CString(logPath)
		defer C.free(unsafe.Pointer(cpath))
		rc = ReturnCode(C.go_cnc_startupprocess(C.ushort(mode), cpath))
	})
	return rc
}

func (n *native) AllocHandle(ip string, port uint16, timeoutSec int32) (uint16, ReturnCode) {
	var h C.ushort
	rc := EW_SYSTEM
	n.thread.do(func() {
		cip := C.CString(ip)
		defer C.free(unsafe.Pointer(cip))
		rc = ReturnCode(C.go_cnc_allclibhndl3(cip, C.ushort(port), C.long(timeoutSec), &h))
	})
	return uint16(h), rc
}

func (n *native) FreeHandle(handle uint16) ReturnCode {
	rc := EW_SYSTEM
	n.thread.do(func() {
		rc = ReturnCode(C.go_cnc_freelibhndl(C.ushort(handle)))
	})
	return rc
}

func (n *native) ReadDynamic(handle uint16) (RawDynamic, ReturnCode) {
	var d C.go_dynamic
	rc := EW_SYSTEM
	n.thread.do(func() {
		rc = ReturnCode(C.go_cnc_rddynamic2(C.ushort(handle), &d))
	})
	if rc != EW_OK {
		return RawDynamic{}, rc
	}

	raw := RawDynamic{
		Axis:              int16(d.axis),
		Alarm:             int32(d.alarm),
		ProgramNumber:     int32(d.prgnum),
		MainProgramNumber: int32(d.prgmnum),
		SequenceNumber:    int32(d.seqnum),
		ActualFeed:        int32(d.actf),
		ActualSpindle:     int32(d.acts),
	}
	for i := 0; i < MaxAxis; i++ {
		raw.Absolute[i] = int32(d.absolute[i])
		raw.Machine[i] = int32(d.machine[i])
		raw.Relative[i] = int32(d.relative[i])
		raw.Distance[i] = int32(d.distance[i])
	}
	return raw, rc
}

func (n *native) ReadStatus(handle uint16) (RawStatus, ReturnCode) {
	var st C.go_status
	rc := EW_SYSTEM
	n.thread.do(func() {
		rc = ReturnCode(C.go_cnc_statinfo(C.ushort(handle), &st))
	})
	if rc != EW_OK {
		return RawStatus{}, rc
	}
	return RawStatus{
		Hdck:      int16(st.hdck),
		TmMode:    int16(st.tmmode),
		Aut:       int16(st.aut),
		Run:       int16(st.run),
		Motion:    int16(st.motion),
		Mstb:      int16(st.mstb),
		Emergency: int16(st.emergency),
		Alarm:     int16(st.alarm),
		Edit:      int16(st.edit),
	}, rc
}

func (n *native) ReadAlarm(handle uint16) (RawAlarm, ReturnCode) {
	var status C.uint16_t
	rc := EW_SYSTEM
	n.thread.do(func() {
		rc = ReturnCode(C.go_cnc_alarm(C.ushort(handle), &status))
	})
	if rc != EW_OK {
		return RawAlarm{}, rc
	}
	return RawAlarm{Status: uint16(status)}, rc
}
