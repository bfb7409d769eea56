package focas

import (
	"runtime"
	"sync"
)

// osThread выполняет функции по одной на закрепленном потоке ОС.
// Хендлы Fwlib32 привязаны к потоку, в котором были выделены.
type osThread struct {
	calls chan func()
	done  chan struct{}
	once  sync.Once
}

func newOSThread() *osThread {
	t := &osThread{
		calls: make(chan func()),
		done:  make(chan struct{}),
	}
	go t.loop()
	return t
}

func (t *osThread) loop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for {
		select {
		case fn := <-t.calls:
			fn()
		case <-t.done:
			return
		}
	}
}

// do выполняет fn на потоке и ждет завершения.
// Возвращает false, если поток уже остановлен и fn не выполнялась.
func (t *osThread) do(fn func()) bool {
	finished := make(chan struct{})
	call := func() {
		defer close(finished)
		fn()
	}

	select {
	case t.calls <- call:
	case <-t.done:
		return false
	}
	<-finished
	return true
}

func (t *osThread) stop() {
	t.once.Do(func() { close(t.done) })
}
