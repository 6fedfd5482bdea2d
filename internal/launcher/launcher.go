// Package launcher starts the preferences tool from the language bar.
package launcher

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"

	"golang.org/x/sys/unix"
)

// ErrNotExecutable means the setup program cannot be run.
var ErrNotExecutable = errors.New("launcher: setup program not executable")

// Command implements ime.Launcher for an external program. Launch returns
// once the process has started; a goroutine waits for it to exit.
type Command struct {
	Path string
	Args []string
	Log  *slog.Logger

	mu      sync.Mutex
	running *exec.Cmd
	done    chan struct{}
}

// New returns a launcher for path.
func New(path string, logger *slog.Logger, args ...string) *Command {
	if logger == nil {
		logger = slog.Default()
	}
	return &Command{Path: path, Args: args, Log: logger}
}

// Launch starts the program unless a previous instance is still running.
func (c *Command) Launch() error {
	if c.Path == "" {
		return fmt.Errorf("%w: no path configured", ErrNotExecutable)
	}
	if err := unix.Access(c.Path, unix.X_OK); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotExecutable, c.Path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running != nil {
		c.Log.Debug("setup program already running", "path", c.Path, "pid", c.running.Process.Pid)
		return nil
	}

	cmd := exec.Command(c.Path, c.Args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", c.Path, err)
	}
	c.running = cmd
	c.done = make(chan struct{})
	c.Log.Info("setup program started", "path", c.Path, "pid", cmd.Process.Pid)

	go c.reap(cmd, c.done)
	return nil
}

func (c *Command) reap(cmd *exec.Cmd, done chan struct{}) {
	err := cmd.Wait()
	c.mu.Lock()
	c.running = nil
	c.mu.Unlock()
	close(done)
	if err != nil {
		c.Log.Warn("setup program exited", "path", c.Path, "error", err)
		return
	}
	c.Log.Debug("setup program exited", "path", c.Path)
}

// Wait blocks until the current instance, if any, has exited.
func (c *Command) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Running reports whether an instance is alive.
func (c *Command) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running != nil
}
