package texture

// Future is the pending result of an asynchronous load.
// It is resolved exactly once by the loading goroutine.
type Future struct {
	done    chan struct{}
	texture *Texture
	err     error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(tex *Texture, err error) {
	f.texture = tex
	f.err = err
	close(f.done)
}

// Done is closed once the result is available
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Ready reports without blocking whether the load has finished
func (f *Future) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result blocks until the load has finished
func (f *Future) Result() (*Texture, error) {
	<-f.done
	return f.texture, f.err
}
