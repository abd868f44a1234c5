// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hwinfo

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

var (
	// ErrNotSupported means the attribute does not exist for this
	// device: the driver or hardware does not expose the knob.
	ErrNotSupported = errors.New("attribute not supported")

	// ErrInvalidValue means the kernel rejected the value (EINVAL),
	// typically out of the hardware's range.
	ErrInvalidValue = errors.New("value rejected by the kernel")

	// ErrBusy means the device refused the write for now (EBUSY).
	ErrBusy = errors.New("device busy")

	// ErrPermission means the write needs more privilege.
	ErrPermission = errors.New("permission denied")
)

// WriteError reports a failed sysfs write.
type WriteError struct {
	Path  string
	Value string
	Err   error
}

func (e *WriteError) Error() string {
	if kind := classify(e.Err); kind != nil {
		return fmt.Sprintf("write %q to %s: %v", e.Value, e.Path, kind)
	}
	return fmt.Sprintf("write %q to %s: %v", e.Value, e.Path, e.Err)
}

// Unwrap exposes both the classified sentinel and the underlying
// error.
func (e *WriteError) Unwrap() []error {
	if kind := classify(e.Err); kind != nil {
		return []error{kind, e.Err}
	}
	return []error{e.Err}
}

func classify(err error) error {
	switch {
	case errors.Is(err, unix.ENOENT):
		return ErrNotSupported
	case errors.Is(err, unix.EINVAL), errors.Is(err, unix.ERANGE):
		return ErrInvalidValue
	case errors.Is(err, unix.EBUSY), errors.Is(err, unix.EAGAIN):
		return ErrBusy
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return ErrPermission
	}
	return nil
}

// ReadString reads a single-line sysfs file and returns its trimmed
// content.
func ReadString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// ReadUint reads an unsigned integer from a sysfs file.
func ReadUint(path string) (uint64, error) {
	value, err := ReadString(path)
	if err != nil {
		return 0, err
	}
	result, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	return result, nil
}

// WriteString writes value to an existing sysfs attribute. The file is
// never created: a missing attribute is ErrNotSupported.
func WriteString(path, value string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return &WriteError{Path: path, Value: value, Err: err}
	}
	if _, err := file.WriteString(value); err != nil {
		file.Close()
		return &WriteError{Path: path, Value: value, Err: err}
	}
	if err := file.Close(); err != nil {
		return &WriteError{Path: path, Value: value, Err: err}
	}
	return nil
}

// WriteUint writes an unsigned integer to a sysfs attribute.
func WriteUint(path string, value uint64) error {
	return WriteString(path, strconv.FormatUint(value, 10))
}
