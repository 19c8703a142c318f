package engine

import "errors"

// ErrDoubleInit is returned by Init when the engine is already running.
var ErrDoubleInit = errors.New("engine: already initialised")
