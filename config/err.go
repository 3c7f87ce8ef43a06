package config

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrInvalid = errors.New(f("configuration invalid"))
	ErrRead    = errors.New(f("configuration unreadable"))
	ErrParse   = errors.New(f("configuration parse error"))
)

// ErrSetting is a configuration value that cannot be used.
type ErrSetting struct {
	Key   string
	Value any
}

func (err *ErrSetting) Error() string {
	return f("setting %v = %v invalid", err.Key, err.Value)
}

func (err *ErrSetting) Unwrap() error {
	return ErrInvalid
}

// ErrFile is a configuration failure in a named file.
type ErrFile struct {
	Path string
	Err  error
}

func (err *ErrFile) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrFile) Unwrap() error {
	return err.Err
}
