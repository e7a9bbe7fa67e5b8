//go:build linux

package reader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
)

// Pipe implements LineSource over a named pipe. Anything written to the
// pipe is treated as reader output, which makes it possible to drive the
// pipeline without hardware:
//
//	echo "Kart UID: 23 91 8F 11" > /tmp/rfidcam-lines
type Pipe struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
}

// NewPipe creates the named pipe at path, replacing any existing file.
func NewPipe(path string) (*Pipe, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: pipe path not configured", ErrConnection)
	}

	os.Remove(path)
	if err := syscall.Mkfifo(path, 0666); err != nil {
		return nil, fmt.Errorf("%w: create named pipe %s: %v", ErrConnection, path, err)
	}

	// Opening read-write keeps a writer attached, so the read side never
	// sees EOF between external writers and the open does not block.
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("%w: open named pipe %s: %v", ErrConnection, path, err)
	}

	return &Pipe{
		path:    path,
		file:    file,
		scanner: bufio.NewScanner(file),
	}, nil
}

// ReadLine implements LineSource.ReadLine. It blocks until a line is
// written to the pipe or the pipe is closed.
func (p *Pipe) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if p.scanner.Scan() {
		return cleanLine(p.scanner.Bytes()), nil
	}
	if err := p.scanner.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
		return "", fmt.Errorf("%w: read pipe %s: %v", ErrConnection, p.path, err)
	}
	return "", fmt.Errorf("%w: pipe %s closed", ErrConnection, p.path)
}

// Close closes and removes the pipe.
func (p *Pipe) Close() error {
	err := p.file.Close()
	os.Remove(p.path)
	return err
}
