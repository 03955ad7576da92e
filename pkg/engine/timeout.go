package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/chazu/fracture/pkg/scene"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// evalResult is the internal type used to pass evaluation results
// through channels.
type evalResult struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch, but returns a timeout
// error if the evaluation exceeds EvalTimeout. A generation counter
// discards stale results from superseded evaluations.
//
// On timeout, the goroutine may still be running; the generation check
// ensures its result is discarded when it eventually completes.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*scene.Scene, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}

		return res.scene, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
