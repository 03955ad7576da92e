// Package engine evaluates Lisp scene scripts into tessellation inputs.
// It wraps zygomys in a sandboxed environment: a script declares bounds,
// padding and seeds (directly or through generators) and evaluation
// produces a scene.Scene.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/fracture/pkg/scene"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use;
// each call to Evaluate creates a fresh sandboxed environment for
// determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate takes scene script source and produces a Scene.
//
// Return semantics:
//   - On success: scene + nil errors + nil error
//   - On parse/eval failure: nil scene + eval errors + nil error
//   - On fatal failure (timeout, panic): nil + nil + error
func (e *Engine) Evaluate(source string) (*scene.Scene, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		sc, evalErrs, err := e.evaluate(source)
		ch <- evalResult{scene: sc, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*scene.Scene, []EvalError, error) {
	sc := scene.New()

	// Empty source is a valid script describing an empty scene.
	if strings.TrimSpace(source) == "" {
		return sc, nil, nil
	}

	// Sandbox mode prevents user code from reaching the filesystem or
	// syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, sc)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	return sc, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values, extracting line numbers where the message carries them.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, pat := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := pat.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
