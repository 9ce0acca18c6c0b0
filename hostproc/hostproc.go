// Package hostproc runs a host runtime as a persistent subprocess. It keeps
// one child process alive with stdin/stdout pipes and speaks a line
// protocol, so the overhead of spawning is paid once rather than per call:
//
//	-> invoke <handle> <method> <args-json>
//	<- ok <result-json> | nomethod | err <message>
//	-> release <handle>
//	<- ok null
//
// "nomethod" maps to bridge.ErrNoSuchMethod, so an external host triggers
// native default fallback exactly like an in-process one.
package hostproc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/chazu/overbridge/bridge"
)

var log = commonlog.GetLogger("overbridge.hostproc")

// Host implements bridge.HostRuntime over a subprocess. Handles are the
// names the host program gives its own override objects.
type Host struct {
	command string
	args    []string

	mu     sync.Mutex // protects the persistent process
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
}

// New creates a subprocess host. The child is not started until the first
// call.
func New(command string, args ...string) *Host {
	return &Host{
		command: command,
		args:    args,
	}
}

// ensureProcess starts the child if it isn't already running.
func (h *Host) ensureProcess() error {
	if h.cmd != nil {
		return nil
	}

	h.cmd = exec.Command(h.command, h.args...)
	h.cmd.Stderr = os.Stderr

	var err error
	h.stdin, err = h.cmd.StdinPipe()
	if err != nil {
		h.cmd = nil
		return fmt.Errorf("creating stdin pipe: %w", err)
	}

	stdout, err := h.cmd.StdoutPipe()
	if err != nil {
		h.cmd = nil
		return fmt.Errorf("creating stdout pipe: %w", err)
	}
	h.stdout = bufio.NewReader(stdout)

	if err := h.cmd.Start(); err != nil {
		h.cmd = nil
		return fmt.Errorf("starting %s: %w", h.command, err)
	}

	log.Debugf("host process started (pid %d)", h.cmd.Process.Pid)
	return nil
}

// roundTrip sends one request line and reads one response line.
func (h *Host) roundTrip(request string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ensureProcess(); err != nil {
		return "", err
	}

	log.Debugf("-> %s", request)
	if _, err := io.WriteString(h.stdin, request+"\n"); err != nil {
		// Process may have died; restart on the next call.
		h.cmd = nil
		return "", fmt.Errorf("writing request: %w", err)
	}

	line, err := h.stdout.ReadString('\n')
	if err != nil {
		h.cmd = nil
		return "", fmt.Errorf("reading response: %w", err)
	}
	line = strings.TrimSuffix(line, "\n")
	log.Debugf("<- %s", line)
	return line, nil
}

// Invoke asks the host to run a method on one of its override objects.
func (h *Host) Invoke(handle bridge.Handle, method string, args []bridge.Value) (bridge.Value, error) {
	name, err := handleString(handle)
	if err != nil {
		return bridge.NilValue(), err
	}

	response, err := h.roundTrip(fmt.Sprintf("invoke %s %s %s", name, method, bridge.ValuesToJSON(args)))
	if err != nil {
		return bridge.NilValue(), err
	}

	switch {
	case response == "nomethod":
		return bridge.NilValue(), fmt.Errorf("%w: %s on %s", bridge.ErrNoSuchMethod, method, name)
	case strings.HasPrefix(response, "ok"):
		return bridge.ValueFromJSON(strings.TrimSpace(strings.TrimPrefix(response, "ok")))
	case strings.HasPrefix(response, "err "):
		return bridge.NilValue(), fmt.Errorf("host error: %s", strings.TrimPrefix(response, "err "))
	default:
		return bridge.NilValue(), fmt.Errorf("malformed host response: %q", response)
	}
}

// Release tells the host to drop an override object.
func (h *Host) Release(handle bridge.Handle) error {
	name, err := handleString(handle)
	if err != nil {
		return err
	}

	response, err := h.roundTrip("release " + name)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(response, "ok") {
		return fmt.Errorf("release of %s failed: %q", name, response)
	}
	return nil
}

// Close shuts down the child process.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cmd != nil {
		h.stdin.Close()
		h.cmd.Wait()
		h.cmd = nil
	}
	return nil
}

func handleString(handle bridge.Handle) (string, error) {
	name, ok := handle.(string)
	if !ok || name == "" || strings.ContainsAny(name, " \n") {
		return "", fmt.Errorf("hostproc handles must be non-empty words, got %v", handle)
	}
	return name, nil
}
