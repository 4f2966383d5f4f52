package state

import (
	"sync"
	"time"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	e := &LocalEnv{start: time.Now()}
	e.index = sync.OnceValues(e.generate)
	return e
}
