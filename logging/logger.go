package logging

import "go.uber.org/zap"

// New creates a named sugared logger off the global zap logger. Call it
// after config.New has installed the environment's logger.
func New(component string) *zap.SugaredLogger {
	return zap.L().Named(component).Sugar()
}
