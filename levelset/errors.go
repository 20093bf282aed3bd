package levelset

import (
	"fmt"
)

// ConfigurationError reports a mismatch between a built mesh hierarchy and
// the resolution a caller asked of it. It indicates the hierarchy was
// configured incompatibly with the adaptation policy in use, so callers
// should treat it as fatal for the run.
type ConfigurationError struct {
	msg string
}

func (e *ConfigurationError) Error() string { return e.msg }

func configErrorf(format string, a ...interface{}) *ConfigurationError {
	return &ConfigurationError{fmt.Sprintf(format, a...)}
}
