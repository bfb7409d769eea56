package focas_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/iwtcode/focasBridge/focas"
	"github.com/iwtcode/focasBridge/focas/focastest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	lib := focastest.New()
	lib.NextHandle = 42
	a := focas.NewFocasAdapter(lib)

	res, err := a.Connect("192.168.1.90", 8193)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.EqualValues(t, 0, res.Error)
	require.NotNil(t, res.Handle)
	assert.EqualValues(t, 42, *res.Handle)

	calls := lib.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "192.168.1.90", calls[0].IP)
	assert.EqualValues(t, 8193, calls[0].Port)
	assert.EqualValues(t, focas.DefaultTimeoutSec, calls[0].Arg)
}

func TestConnectFailurePassesCodeThrough(t *testing.T) {
	lib := focastest.New()
	lib.AllocRC = focas.EW_SOCKET
	a := focas.NewFocasAdapter(lib, focas.WithTimeout(3))

	res, err := a.Connect("10.0.0.1", 8193)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.EqualValues(t, -16, res.Error)
	assert.Nil(t, res.Handle)
	assert.EqualValues(t, 3, lib.Calls()[0].Arg)

	body, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":-16}`, string(body))
}

func TestArgumentValidation(t *testing.T) {
	lib := focastest.New()
	a := focas.NewFocasAdapter(lib)

	tests := []struct {
		name string
		call func() error
	}{
		{"empty ip", func() error { _, err := a.Connect("", 8193); return err }},
		{"zero port", func() error { _, err := a.Connect("10.0.0.1", 0); return err }},
		{"port too large", func() error { _, err := a.Connect("10.0.0.1", 70000); return err }},
		{"negative handle", func() error { _, err := a.Disconnect(-1); return err }},
		{"handle too large", func() error { _, err := a.ReadDynamic(65536); return err }},
		{"status handle", func() error { _, err := a.ReadStatus(-5); return err }},
		{"alarms handle", func() error { _, err := a.ReadAlarms(1 << 20); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), focas.ErrInvalidArgument)
		})
	}
	assert.Empty(t, lib.Calls(), "invalid arguments must not reach the library")
}

func TestDisconnect(t *testing.T) {
	lib := focastest.New()
	a := focas.NewFocasAdapter(lib)

	res, err := a.Disconnect(7)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.EqualValues(t, 7, lib.Calls()[0].Handle)

	lib.FreeRC = focas.EW_HANDLE
	res, err = a.Disconnect(7)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.EqualValues(t, focas.EW_HANDLE, res.Error)
}

func TestReadDynamic(t *testing.T) {
	lib := focastest.New()
	lib.Dynamic = focas.RawDynamic{
		Axis:              3,
		Alarm:             2,
		ProgramNumber:     1234,
		MainProgramNumber: 1000,
		SequenceNumber:    56,
		ActualFeed:        800,
		ActualSpindle:     2400,
	}
	lib.Dynamic.Absolute[0], lib.Dynamic.Absolute[1], lib.Dynamic.Absolute[2] = 100, -200, 300
	lib.Dynamic.Absolute[3] = 999
	lib.Dynamic.Machine[1] = 11
	lib.Dynamic.Distance[2] = -7
	a := focas.NewFocasAdapter(lib)

	res, err := a.ReadDynamic(1)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotNil(t, res.Data)

	d := res.Data
	assert.EqualValues(t, 1234, d.ProgramNumber)
	assert.EqualValues(t, 1000, d.MainProgramNumber)
	assert.EqualValues(t, 56, d.SequenceNumber)
	assert.EqualValues(t, 800, d.Feedrate)
	assert.EqualValues(t, 2400, d.SpindleSpeed)
	assert.EqualValues(t, 2, d.Alarm)
	assert.Equal(t, map[string]int32{"axis0": 100, "axis1": -200, "axis2": 300}, d.Positions)
	assert.Equal(t, map[string]int32{"axis0": 0, "axis1": 11, "axis2": 0}, d.MachinePositions)
	assert.Len(t, d.RelativePositions, 3)
	assert.EqualValues(t, -7, d.DistanceToGo["axis2"])
}

func TestReadDynamicClampsAxisCount(t *testing.T) {
	tests := []struct {
		axis int16
		want int
	}{
		{axis: -1, want: 0},
		{axis: 0, want: 0},
		{axis: 32, want: 32},
		{axis: 100, want: focas.MaxAxis},
	}
	for _, tt := range tests {
		lib := focastest.New()
		lib.Dynamic.Axis = tt.axis
		res, err := focas.NewFocasAdapter(lib).ReadDynamic(1)
		require.NoError(t, err)
		assert.Len(t, res.Data.Positions, tt.want, "axis=%d", tt.axis)
		assert.Len(t, res.Data.DistanceToGo, tt.want, "axis=%d", tt.axis)
	}
}

func TestReadDynamicFailureHasNoData(t *testing.T) {
	lib := focastest.New()
	lib.DynamicRC = focas.EW_LENGTH
	res, err := focas.NewFocasAdapter(lib).ReadDynamic(1)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.EqualValues(t, 2, res.Error)
	assert.Nil(t, res.Data)
}

func TestReadStatus(t *testing.T) {
	lib := focastest.New()
	lib.Status = focas.RawStatus{Hdck: 0, TmMode: 1, Aut: 1, Run: 3, Motion: 1, Mstb: 0, Emergency: 0, Alarm: 1, Edit: 0}
	a := focas.NewFocasAdapter(lib)

	res, err := a.ReadStatus(1)
	require.NoError(t, err)
	require.NotNil(t, res.Data)

	body, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": true,
		"error": 0,
		"data": {"hdck":0,"tmmode":1,"aut":1,"run":3,"motion":1,"mstb":0,"emergency":0,"alarm":1,"edit":0}
	}`, string(body))

	lib.StatusRC = focas.EW_HANDLE
	res, err = a.ReadStatus(1)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.EqualValues(t, -8, res.Error)
	assert.Nil(t, res.Data)
}

func TestReadAlarms(t *testing.T) {
	tests := []struct {
		name   string
		status uint16
		count  int
	}{
		{"no alarms", 0, 0},
		{"single type", 0x0040, 1},
		{"high bit only", 0x8000, 1},
		{"several types", 0x0101 | 0x8000, 3},
		{"all types", 0xFFFF, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := focastest.New()
			lib.Alarm.Status = tt.status
			res, err := focas.NewFocasAdapter(lib).ReadAlarms(1)
			require.NoError(t, err)
			require.True(t, res.Success)
			require.Len(t, res.Data, 1)
			assert.Equal(t, tt.count, res.Data[0].Count)
			assert.Equal(t, tt.status, res.Data[0].Status)
		})
	}
}

func TestReadAlarmsFailure(t *testing.T) {
	lib := focastest.New()
	lib.AlarmRC = focas.EW_BUSY
	res, err := focas.NewFocasAdapter(lib).ReadAlarms(3)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.EqualValues(t, -1, res.Error)
	assert.Nil(t, res.Data)
}

func TestIsAvailable(t *testing.T) {
	a := focas.NewFocasAdapter(focastest.New(), focas.WithLoadCheck(func() bool { return true }))
	assert.True(t, a.IsAvailable())

	a = focas.NewFocasAdapter(focastest.New(), focas.WithLoadCheck(func() bool { return false }))
	assert.False(t, a.IsAvailable())
}

func TestIsLibraryLoadableMissingLibrary(t *testing.T) {
	assert.False(t, focas.IsLibraryLoadable("libfocas-does-not-exist-"+t.Name()+".so"))
}

func TestStartup(t *testing.T) {
	lib := focastest.New()
	a := focas.NewFocasAdapter(lib)
	logPath := filepath.Join(t.TempDir(), "logs", "focas2.log")

	require.NoError(t, a.Startup(3, logPath))
	assert.DirExists(t, filepath.Dir(logPath))
	assert.Equal(t, 1, lib.Count("startup"))

	lib.StartupRC = focas.EW_INIERR
	err := a.Startup(3, logPath)
	require.ErrorIs(t, err, focas.ErrStartup)
	assert.Contains(t, err.Error(), "rc=-14")
}

func TestStartupLogDirError(t *testing.T) {
	lib := focastest.New()
	a := focas.NewFocasAdapter(lib)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := a.Startup(3, filepath.Join(blocker, "logs", "focas2.log"))

	require.ErrorIs(t, err, focas.ErrStartup)
	assert.Contains(t, err.Error(), "create log dir")
	assert.Zero(t, lib.Count("startup"))
}

func TestReadyCheckedBeforeMachineCalls(t *testing.T) {
	lib := focastest.New()
	notReady := fmt.Errorf("%w: rc=-14", focas.ErrStartup)
	a := focas.NewFocasAdapter(lib,
		focas.WithReady(func() error { return notReady }),
		focas.WithLoadCheck(func() bool { return true }),
	)

	_, err := a.Connect("10.0.0.1", 8193)
	assert.ErrorIs(t, err, focas.ErrStartup)
	_, err = a.ReadAlarms(1)
	assert.ErrorIs(t, err, focas.ErrStartup)
	_, err = a.ReadStatus(-1)
	assert.ErrorIs(t, err, focas.ErrInvalidArgument)

	assert.True(t, a.IsAvailable())
	assert.Empty(t, lib.Calls())
}

func TestUnavailableLibrary(t *testing.T) {
	a := focas.NewFocasAdapter(focas.Unavailable{})

	require.NoError(t, a.Startup(0, "focas2.log"))

	res, err := a.Connect("10.0.0.1", 8193)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.EqualValues(t, focas.EW_NODLL, res.Error)
}

func TestReturnCodeString(t *testing.T) {
	assert.Equal(t, "EW_OK", focas.EW_OK.String())
	assert.Equal(t, "EW_SOCKET", focas.EW_SOCKET.String())
	assert.Equal(t, "rc(-99)", focas.ReturnCode(-99).String())
	assert.True(t, focas.EW_OK.OK())
	assert.False(t, focas.EW_HANDLE.OK())
}

func TestAxisKey(t *testing.T) {
	assert.Equal(t, "axis0", focas.AxisKey(0))
	assert.Equal(t, "axis31", focas.AxisKey(31))
}
