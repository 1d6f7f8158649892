package dataset

import (
	"errors"
	"fmt"
	"image"
)

// Sentinel errors for the failure classes a generation run can hit.
// Typed errors below match their sentinel through errors.Is.
var (
	ErrConfig            = errors.New("invalid configuration")
	ErrEmptyIconSet      = errors.New("no eligible icon files")
	ErrInsufficientIcons = errors.New("not enough icons to sample from")
	ErrIconTooLarge      = errors.New("icon does not fit on canvas")
	ErrWrite             = errors.New("write failed")
	ErrArchive           = errors.New("archive failed")
)

// ConfigError reports a missing or out-of-range parameter.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// InsufficientIconsError is returned when a sample asks for more distinct
// icons than the pool holds.
type InsufficientIconsError struct {
	Have int
	Want int
}

func (e *InsufficientIconsError) Error() string {
	return fmt.Sprintf("icon pool has %d icons, need at least %d per image", e.Have, e.Want)
}

func (e *InsufficientIconsError) Is(target error) bool { return target == ErrInsufficientIcons }

// IconTooLargeError is returned when an icon is wider or taller than the
// canvas, leaving no valid position for it.
type IconTooLargeError struct {
	Icon   image.Point
	Canvas image.Point
}

func (e *IconTooLargeError) Error() string {
	return fmt.Sprintf("icon size %dx%d does not fit canvas %dx%d",
		e.Icon.X, e.Icon.Y, e.Canvas.X, e.Canvas.Y)
}

func (e *IconTooLargeError) Is(target error) bool { return target == ErrIconTooLarge }

// WriteError wraps an I/O failure while persisting a sample artifact or the
// manifest.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (e *WriteError) Is(target error) bool { return target == ErrWrite }

// ArchiveError wraps an I/O failure while building the dataset archive.
// A partially written archive is removed before this error is returned.
type ArchiveError struct {
	Path string
	Err  error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("failed to archive %s: %v", e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

func (e *ArchiveError) Is(target error) bool { return target == ErrArchive }

// SampleError identifies which sample of which split failed.
type SampleError struct {
	Split Split
	Index int
	Err   error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("%s sample %d: %v", e.Split, e.Index, e.Err)
}

func (e *SampleError) Unwrap() error { return e.Err }
