package singleinstance

// This file defines the API for single-instance ownership and command
// delegation to the resident process.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoResident is returned by Detect when no resident answers in the range.
var ErrNoResident = errors.New("no resident instance found")

// Command is a request a second launch forwards to the resident.
type Command string

const (
	CommandShow   Command = "SHOW"
	CommandFull   Command = "FULL"
	CommandRegion Command = "REGION"
)

// ParseCommand parses one request line.
func ParseCommand(line string) (Command, error) {
	switch c := Command(strings.ToUpper(strings.TrimSpace(line))); c {
	case CommandShow, CommandFull, CommandRegion:
		return c, nil
	default:
		return "", fmt.Errorf("unknown command %q", strings.TrimSpace(line))
	}
}

// PortRange is the inclusive loopback port range scanned by clients. The
// resident only ever binds Start.
type PortRange struct {
	Start int
	End   int
}

const (
	defaultPortStart = 49600
	defaultPortEnd   = 49650
)

func DefaultRange() PortRange { return PortRange{Start: defaultPortStart, End: defaultPortEnd} }

// normalized clamps to [1024, 65535] and orders the bounds.
func (r PortRange) normalized() PortRange {
	if r.Start == 0 && r.End == 0 {
		return DefaultRange()
	}
	if r.Start < 1024 {
		r.Start = 1024
	}
	if r.End > 65535 {
		r.End = 65535
	}
	if r.End < r.Start {
		r.Start, r.End = r.End, r.Start
	}
	return r
}

// Server owns the TCP endpoint and answers delegated commands.
type Server interface {
	// Start begins listening on the first port of the range.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted request, or ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn represents one client connection.
type Conn interface {
	Command() Command
	// RespondOK acknowledges the command.
	RespondOK() error
	// RespondError rejects the command with a human-readable message.
	RespondError(msg string) error
	Close() error
}

// Client delegates commands to a resident server.
type Client interface {
	// Send scans the range, performs the PING handshake and forwards cmd.
	// If no resident is found it returns delegated=false, err=nil.
	Send(ctx context.Context, cmd Command) (delegated bool, err error)
}

// NewServer returns the TCP implementation.
func NewServer(r PortRange) Server { return newTcpServer(r.normalized()) }

// NewClient returns the TCP implementation.
func NewClient(r PortRange) Client { return &tcpClient{ports: r.normalized()} }
