package report

import (
	"errors"
	"sync/atomic"

	"github.com/vovanec/report/handler"
	"github.com/vovanec/report/handler/minimal"
)

var (
	// ErrHookInstalled is returned by SetHook once a hook is in place.
	ErrHookInstalled = errors.New("report: hook already installed")

	errNilHook = errors.New("report: nil hook")
)

var (
	installed   atomic.Pointer[handler.Hook]
	defaultHook = minimal.Hook()
)

// SetHook installs the process-wide hook used by the package level
// constructors. It succeeds at most once per process and must be called
// before any report is created for the choice to be consistent.
func SetHook(hook handler.Hook) error {
	if hook == nil {
		return errNilHook
	}
	if !installed.CompareAndSwap(nil, &hook) {
		return ErrHookInstalled
	}
	return nil
}

// installedHook returns the hook set by SetHook, or the minimal one.
func installedHook() handler.Hook {
	if h := installed.Load(); h != nil {
		return *h
	}
	return defaultHook
}
