package e2e

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

// QuitKey is the key the viewer exits on
const QuitKey = 'q'

// TUITestSession runs a command under a pseudo-terminal and records its output
type TUITestSession struct {
	cmd    *exec.Cmd
	ptmx   *os.File
	cancel context.CancelFunc
	rows   int
	cols   int

	outputLock sync.RWMutex
	output     bytes.Buffer

	done    chan struct{}
	waitErr error
}

// TUITestConfig contains configuration for TUI testing
type TUITestConfig struct {
	Command string
	Args    []string
	WorkDir string
	// Env is appended to the current environment
	Env []string

	Rows uint16
	Cols uint16

	// Timeout bounds the whole session
	Timeout time.Duration
}

// NewTUITestSession starts config.Command in a pty
func NewTUITestSession(config *TUITestConfig) (*TUITestSession, error) {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Rows == 0 {
		config.Rows = 24
	}
	if config.Cols == 0 {
		config.Cols = 80
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)

	cmd := exec.CommandContext(ctx, config.Command, config.Args...)
	cmd.Dir = config.WorkDir
	cmd.Env = append(os.Environ(), config.Env...)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: config.Rows, Cols: config.Cols})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	s := &TUITestSession{
		cmd:    cmd,
		ptmx:   ptmx,
		cancel: cancel,
		rows:   int(config.Rows),
		cols:   int(config.Cols),
		done:   make(chan struct{}),
	}

	go s.captureOutput()
	go func() {
		s.waitErr = cmd.Wait()
		close(s.done)
	}()

	return s, nil
}

// captureOutput copies pty output until the pty is closed or the child exits
func (s *TUITestSession) captureOutput() {
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			s.outputLock.Lock()
			s.output.Write(buf[:n])
			s.outputLock.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// SendKey sends a key press
func (s *TUITestSession) SendKey(key byte) error {
	if !s.IsRunning() {
		return fmt.Errorf("session not running")
	}
	_, err := s.ptmx.Write([]byte{key})
	return err
}

// GetOutput returns everything written so far
func (s *TUITestSession) GetOutput() string {
	s.outputLock.RLock()
	defer s.outputLock.RUnlock()
	return s.output.String()
}

// GetCleanOutput returns output with ANSI escape codes removed
func (s *TUITestSession) GetCleanOutput() string {
	return StripANSI(s.GetOutput())
}

// Screenshot replays the output and returns what is currently on screen
func (s *TUITestSession) Screenshot() string {
	return ParseTerminalOutputSize(s.GetOutput(), s.rows, s.cols).Render()
}

// ExpectScreen waits until the current screen contains expected
func (s *TUITestSession) ExpectScreen(expected string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(s.Screenshot(), expected) {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("screen did not show %q within %s:\n%s", expected, timeout, s.Screenshot())
}

// IsRunning reports whether the child process is still alive
func (s *TUITestSession) IsRunning() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Stop sends the quit key and waits for a clean exit
func (s *TUITestSession) Stop(timeout time.Duration) error {
	defer s.cancel()

	if s.IsRunning() {
		if err := s.SendKey(QuitKey); err != nil {
			return err
		}
	}

	select {
	case <-s.done:
		_ = s.ptmx.Close()
		return s.waitErr
	case <-time.After(timeout):
		return fmt.Errorf("process did not exit within %s", timeout)
	}
}

// ForceStop kills the child and releases the pty
func (s *TUITestSession) ForceStop() {
	s.cancel()
	<-s.done
	_ = s.ptmx.Close()
}
