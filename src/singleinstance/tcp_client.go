package singleinstance

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

type tcpClient struct {
	ports PortRange
}

func (c *tcpClient) Send(ctx context.Context, cmd Command) (bool, error) {
	port, err := Detect(ctx, c.ports)
	if errors.Is(err, ErrNoResident) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	timeout := timeoutFrom(ctx, 2*time.Second)
	addr := net.JoinHostPort(residentHost, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false, fmt.Errorf("failed to connect to resident: %w", err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(string(cmd) + "\n"); err != nil {
		return true, err
	}
	if err := w.Flush(); err != nil {
		return true, err
	}
	status, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return true, fmt.Errorf("no reply from resident: %w", err)
	}
	if status == okResponse {
		return true, nil
	}
	if msg, ok := strings.CutPrefix(status, errorResponse); ok {
		return true, errors.New(strings.TrimSpace(msg))
	}
	return true, fmt.Errorf("unexpected reply %q", strings.TrimSpace(status))
}

// Detect scans the range and returns the port of the first resident that
// answers PING.
func Detect(ctx context.Context, r PortRange) (int, error) {
	r = r.normalized()
	timeout := timeoutFrom(ctx, 300*time.Millisecond)
	for port := r.Start; port <= r.End; port++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if ping(net.JoinHostPort(residentHost, strconv.Itoa(port)), timeout) {
			return port, nil
		}
	}
	return 0, ErrNoResident
}

func ping(addr string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))
	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(pingRequest); err != nil {
		return false
	}
	if err := w.Flush(); err != nil {
		return false
	}
	resp, err := bufio.NewReader(conn).ReadString('\n')
	return err == nil && resp == pongResponse
}

func timeoutFrom(ctx context.Context, def time.Duration) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 && d < def {
			return d
		}
	}
	return def
}
