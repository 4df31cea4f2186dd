package config

import "errors"

// ErrInvalidConfig is returned by Validate and by loaders for unusable settings.
var ErrInvalidConfig = errors.New("invalid config")
