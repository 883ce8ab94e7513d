package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
)

// Finalizer restores the host surface before a crash report is printed
type Finalizer interface {
	Fini()
}

var (
	crashMu       sync.Mutex
	crashTerminal Finalizer
	crashOut      io.Writer = os.Stderr
	crashExit               = os.Exit
	crashOnce     sync.Once
)

// SetCrashTerminal registers the screen to finalize on crash; nil unregisters
func SetCrashTerminal(t Finalizer) {
	crashMu.Lock()
	defer crashMu.Unlock()
	crashTerminal = t
}

// HandleCrash is the unified panic handler that restores the terminal and prints the stack trace
// Only the first crash reports; concurrent crashes on other goroutines wait for the exit
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashOnce.Do(func() {
		crashMu.Lock()
		term := crashTerminal
		out := crashOut
		crashMu.Unlock()

		if term != nil {
			term.Fini()
		}

		fmt.Fprintf(out, "\n\x1b[31mCRASH DETECTED: %v\x1b[0m\n", r)
		fmt.Fprintf(out, "Stack Trace:\n%s\n", debug.Stack())

		crashExit(1)
	})
}

// Go runs a function in a new goroutine with panic recovery
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
