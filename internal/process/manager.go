// Package process owns the target server's child-process lifecycle: spawn with
// piped stdio, stderr capture, and exactly-once termination.
package process

import (
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// stderrTailBytes bounds how much child stderr is retained for diagnostics.
const stderrTailBytes = 16 * 1024

// SpawnError reports that the target could not be launched.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawning %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Handle owns a running child process. The driver writes its stdin and reads
// its stdout exclusively; stderr is captured but never parsed.
type Handle struct {
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    io.ReadCloser
	stderr    *ringBuffer
	waitCh    chan error
	terminate sync.Once
}

// Spawn launches the target command with piped stdio.
func Spawn(command string, args []string, dir string) (*Handle, error) {
	cmd := exec.Command(command, args...)
	cmd.Dir = dir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &SpawnError{Command: command, Err: fmt.Errorf("creating stdin pipe: %w", err)}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Command: command, Err: fmt.Errorf("creating stdout pipe: %w", err)}
	}

	h := &Handle{
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
		stderr: newRingBuffer(stderrTailBytes),
		waitCh: make(chan error, 1),
	}
	cmd.Stderr = h.stderr

	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Command: command, Err: err}
	}

	go func() {
		h.waitCh <- cmd.Wait()
	}()

	return h, nil
}

// Stdin is the child's input stream. Written only by the driver.
func (h *Handle) Stdin() io.Writer { return h.stdin }

// Stdout is the child's output stream. Read only by the driver.
func (h *Handle) Stdout() io.Reader { return h.stdout }

// StderrTail returns the captured tail of the child's stderr.
func (h *Handle) StderrTail() string { return h.stderr.String() }

// PID returns the child's process id.
func (h *Handle) PID() int { return h.cmd.Process.Pid }

// Terminate asks the child to exit and reaps it: close stdin, SIGTERM, wait up
// to grace, then SIGKILL. Only the first call acts; it never reports an error
// because it runs on cleanup paths where nothing can be done about one.
func (h *Handle) Terminate(grace time.Duration) {
	h.terminate.Do(func() {
		_ = h.stdin.Close()
		_ = h.cmd.Process.Signal(syscall.SIGTERM)

		select {
		case <-h.waitCh:
		case <-time.After(grace):
			_ = h.cmd.Process.Kill()
			<-h.waitCh
		}
	})
}

// ringBuffer is an io.Writer retaining only the last max bytes written.
type ringBuffer struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func newRingBuffer(max int) *ringBuffer {
	return &ringBuffer{max: max}
}

func (r *ringBuffer) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf = append(r.buf, p...)
	if len(r.buf) > r.max {
		r.buf = r.buf[len(r.buf)-r.max:]
	}
	return len(p), nil
}

func (r *ringBuffer) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return string(r.buf)
}
