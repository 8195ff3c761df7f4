package framework

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
)

// Runner supervises a daemon's long-running parts. Each Go spawns a
// Runnable under the shared context; Wait joins them all and folds their
// exit errors together.
type Runner struct {
	ctx    context.Context
	cancel context.CancelFunc
	exits  chan error
	forced chan struct{}
	count  int
}

// NewRunner creates a Runner over a background context.
func NewRunner() *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		ctx:    ctx,
		cancel: cancel,
		exits:  make(chan error),
		forced: make(chan struct{}),
	}
}

// HandleSignals cancels the shared context on SIGINT/SIGTERM. A second
// signal abandons the graceful stop and forces Wait to return.
func (r *Runner) HandleSignals() *Runner {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		glog.Info("stopping")
		r.cancel()
		<-sigCh
		glog.Error("second stop request, abandoning graceful exit")
		close(r.forced)
	}()
	return r
}

// Go spawns runnables under the shared context.
func (r *Runner) Go(runnables ...Runnable) *Runner {
	for _, rn := range runnables {
		name := runnableName(rn, r.count)
		r.count++
		go func(rn Runnable, name string) {
			glog.V(4).Infof("%s started", name)
			err := rn.Run(r.ctx)
			glog.V(4).Infof("%s stopped: %v", name, err)
			r.exits <- err
		}(rn, name)
	}
	return r
}

// Wait blocks until every spawned runnable exits. Context cancellation is
// the normal way down and does not count as an error.
func (r *Runner) Wait() error {
	var errs ErrorList
	for n := 0; n < r.count; n++ {
		select {
		case <-r.forced:
			return errors.New("forced exit")
		case err := <-r.exits:
			if !errors.Is(err, context.Canceled) {
				errs.Add(err)
			}
		}
	}
	return errs.Err()
}

func runnableName(r Runnable, n int) string {
	if named, ok := r.(Named); ok {
		return named.Name()
	}
	return fmt.Sprintf("runner %d", n)
}

type named struct {
	Runnable
	name string
}

func (n *named) Name() string { return n.name }

// NamedRun attaches a name to a runnable for the runner's logs.
func NamedRun(name string, r Runnable) Runnable {
	return &named{Runnable: r, name: name}
}

// RunWithContextCancel adapts a blocking fn with no context support of
// its own: when ctx is canceled, onCancel is invoked to unblock fn
// (typically by closing whatever fn waits on) and the exit is reported as
// context.Canceled.
func RunWithContextCancel(ctx context.Context, onCancel func(), fn func() error) error {
	errCh := make(chan error, 1)
	go func() { errCh <- fn() }()
	select {
	case <-ctx.Done():
		if onCancel != nil {
			onCancel()
		}
		<-errCh
		return context.Canceled
	case err := <-errCh:
		return err
	}
}

// RunWithContextCloser runs fn and guarantees closer is closed whether fn
// exits on its own or the context is canceled first.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	canceled := false
	err := RunWithContextCancel(ctx, func() {
		canceled = true
		closer.Close()
	}, fn)
	if !canceled {
		closer.Close()
	}
	return err
}
