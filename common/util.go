package common

import (
	"errors"
	"sync"
)

// RunParallel runs every function in its own goroutine and waits for all of
// them. Errors are joined in the order the functions were given, and the
// number of failed functions is returned alongside.
func RunParallel(funcs ...func() error) (error, int) {
	var wg sync.WaitGroup
	errs := make([]error, len(funcs))

	for i, fn := range funcs {
		wg.Add(1)
		go func(i int, fn func() error) {
			defer wg.Done()
			errs[i] = fn()
		}(i, fn)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	// errors.Join skips nils and returns nil when every function succeeded
	return errors.Join(errs...), failed
}
