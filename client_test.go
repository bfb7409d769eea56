package fanuc

import (
	"sync"
	"testing"
	"time"

	"github.com/iwtcode/focasBridge/focas"
	"github.com/iwtcode/focasBridge/focas/focastest"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observedCall struct {
	op string
	rc int16
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []observedCall
}

func (o *recordingObserver) ObserveCall(op string, rc int16, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, observedCall{op: op, rc: rc})
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		IP:         "127.0.0.1",
		Port:       8193,
		TimeoutSec: 5,
		LogPath:    t.TempDir() + "/focas2.log",
		LogLevel:   "off",
	}
}

func setupClient(t *testing.T) (*Client, *focastest.Library, *test.Hook, *recordingObserver) {
	t.Helper()
	lib := focastest.New()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	obs := &recordingObserver{}

	c := New(testConfig(t), WithLibrary(lib), WithLogger(logger), WithObserver(obs))
	require.NotNil(t, c, "Не удалось создать FOCAS клиент")
	return c, lib, hook, obs
}

func TestNewDoesNotStartLibrary(t *testing.T) {
	lib := focastest.New()

	c := New(testConfig(t), WithLibrary(lib), WithLogger(NewLogger("off")))
	require.NotNil(t, c)

	assert.Empty(t, lib.Calls())
}

func TestStartupRunsOncePerLibrary(t *testing.T) {
	lib := focastest.New()
	cfg := testConfig(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := New(cfg, WithLibrary(lib), WithLogger(NewLogger("off")))
			res, err := c.ReadStatus(1)
			assert.NoError(t, err)
			assert.True(t, res.Success)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, lib.Count("startup"))
	assert.Equal(t, "startup", lib.Calls()[0].Op)
	assert.Equal(t, 8, lib.Count("status"))
}

func TestStartupFailure(t *testing.T) {
	lib := focastest.New()
	lib.StartupRC = focas.EW_INIERR
	logger, hook := test.NewNullLogger()
	c := New(testConfig(t), WithLibrary(lib), WithLogger(logger), WithLoadCheck(func() bool { return true }))

	assert.True(t, c.IsAvailable(), "проверка библиотеки не зависит от инициализации")

	_, err := c.Connect("10.0.0.1", 8193)
	require.ErrorIs(t, err, focas.ErrStartup)
	assert.Contains(t, err.Error(), "rc=-14")

	_, err = c.ReadAlarms(1)
	require.ErrorIs(t, err, focas.ErrStartup, "результат инициализации кешируется")

	_, err = c.ReadDynamic(-1)
	require.ErrorIs(t, err, focas.ErrInvalidArgument)

	assert.Equal(t, 1, lib.Count("startup"))
	assert.Zero(t, lib.Count("alloc"))
	assert.Zero(t, lib.Count("alarm"))

	var logged bool
	for _, e := range hook.AllEntries() {
		if e.Message == "FOCAS startup failed" && e.Level == logrus.ErrorLevel {
			logged = true
		}
	}
	assert.True(t, logged)
}

func TestClientConnectUsesConfiguredTimeout(t *testing.T) {
	c, lib, hook, obs := setupClient(t)
	lib.NextHandle = 9

	res, err := c.Connect("192.168.1.90", 8193)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.EqualValues(t, 9, *res.Handle)

	alloc := lib.Calls()[len(lib.Calls())-1]
	assert.Equal(t, "alloc", alloc.Op)
	assert.EqualValues(t, 5, alloc.Arg)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "connect", entry.Data["op"])
	assert.Equal(t, "EW_OK", entry.Data["rc_name"])
	assert.Equal(t, "192.168.1.90:8193", entry.Data["endpoint"])

	assert.Equal(t, []observedCall{{op: "connect", rc: 0}}, obs.calls)
}

func TestClientVendorFailureIsNotAnError(t *testing.T) {
	c, lib, hook, obs := setupClient(t)
	lib.StatusRC = focas.EW_HANDLE

	res, err := c.ReadStatus(3)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.EqualValues(t, -8, res.Error)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "EW_HANDLE", entry.Data["rc_name"])
	assert.Equal(t, 3, entry.Data["handle"])

	assert.Equal(t, []observedCall{{op: "read_status", rc: -8}}, obs.calls)
}

func TestClientInvalidArguments(t *testing.T) {
	c, lib, hook, obs := setupClient(t)
	before := len(lib.Calls())

	_, err := c.Connect("", 8193)
	assert.ErrorIs(t, err, focas.ErrInvalidArgument)
	_, err = c.ReadDynamic(-1)
	assert.ErrorIs(t, err, focas.ErrInvalidArgument)
	_, err = c.ReadAlarms(70000)
	assert.ErrorIs(t, err, focas.ErrInvalidArgument)
	_, err = c.Disconnect(-2)
	assert.ErrorIs(t, err, focas.ErrInvalidArgument)

	assert.Len(t, lib.Calls(), before)
	assert.Empty(t, obs.calls, "отклоненные вызовы не попадают в метрики")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Rejected FOCAS call", hook.LastEntry().Message)
}

func TestClientSession(t *testing.T) {
	c, lib, _, obs := setupClient(t)
	lib.Dynamic.Axis = 2
	lib.Dynamic.ProgramNumber = 1001
	lib.Dynamic.Absolute[0] = 5000
	lib.Alarm.Status = 0x3

	conn, err := c.Connect("10.0.0.1", 8193)
	require.NoError(t, err)
	h := int(*conn.Handle)

	dyn, err := c.ReadDynamic(h)
	require.NoError(t, err)
	assert.EqualValues(t, 1001, dyn.Data.ProgramNumber)
	assert.EqualValues(t, 5000, dyn.Data.Positions["axis0"])

	st, err := c.ReadStatus(h)
	require.NoError(t, err)
	assert.True(t, st.Success)

	al, err := c.ReadAlarms(h)
	require.NoError(t, err)
	assert.Equal(t, 2, al.Data[0].Count)

	dis, err := c.Disconnect(h)
	require.NoError(t, err)
	assert.True(t, dis.Success)

	ops := make([]string, 0, len(obs.calls))
	for _, call := range obs.calls {
		ops = append(ops, call.op)
	}
	assert.Equal(t, []string{"connect", "read_dynamic", "read_status", "read_alarms", "disconnect"}, ops)
}

func TestClientIsAvailable(t *testing.T) {
	lib := focastest.New()
	c := New(testConfig(t), WithLibrary(lib), WithLogger(NewLogger("off")), WithLoadCheck(func() bool { return true }))
	assert.True(t, c.IsAvailable())

	c = New(testConfig(t), WithLibrary(lib), WithLogger(NewLogger("off")), WithLoadCheck(func() bool { return false }))
	assert.False(t, c.IsAvailable())
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, NewLogger("debug").GetLevel())
	assert.Equal(t, logrus.InfoLevel, NewLogger("bogus").GetLevel())
	assert.NotNil(t, NewLogger("off"))
}

func TestLoad(t *testing.T) {
	t.Setenv("FANUC_IP", "192.168.0.6")
	t.Setenv("FANUC_PORT", "8194")
	t.Setenv("FANUC_TIMEOUT", "3")
	t.Setenv("FOCAS_LOG_PATH", "/tmp/focas/focas2.log")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, &Config{
		IP:         "192.168.0.6",
		Port:       8194,
		TimeoutSec: 3,
		LogPath:    "/tmp/focas/focas2.log",
		LogLevel:   "debug",
	}, cfg)
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"FANUC_IP", "FANUC_PORT", "FANUC_TIMEOUT", "FOCAS_LOG_PATH", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	t.Setenv("FANUC_PORT", "not-a-port")

	cfg := Load()
	assert.Equal(t, "10.0.0.1", cfg.IP)
	assert.EqualValues(t, 8193, cfg.Port)
	assert.EqualValues(t, focas.DefaultTimeoutSec, cfg.TimeoutSec)
	assert.Equal(t, "./focas2.log", cfg.LogPath)
	assert.Equal(t, "info", cfg.LogLevel)
}
