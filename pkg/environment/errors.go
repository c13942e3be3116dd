package environment

import "errors"

var ErrUnknownEnvironment = errors.New("environment: unknown value")
