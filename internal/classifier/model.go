package classifier

import "sync"

var (
	defaultOnce  sync.Once
	defaultModel *Model
	defaultErr   error
)

// Default trains the built-in career model on first use and returns the same
// model for the rest of the process. Options after the first call are ignored.
func Default(opts Options) (*Model, error) {
	defaultOnce.Do(func() {
		defaultModel, defaultErr = Train(trainingSet, opts)
	})
	return defaultModel, defaultErr
}
