package generator

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// TaskError accumulates the errors produced by a pooled run.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return "multiple errors: " + strings.Join(msgs, "; ")
}

// Unwrap exposes every collected error to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// runIndexed calls fn for every index in [0, total) on at most workers goroutines.
// Results are expected to be stored by index, so completion order does not matter.
// The first failure cancels the remaining work.
func runIndexed(parent context.Context, workers, total int, fn func(ctx context.Context, idx int) error) error {
	if total == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := fn(ctx, idx); err != nil {
				errCh <- err
				cancel()
			}
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := parent.Err(); err != nil {
		return err
	}

	var taskErr TaskError
	for err := range errCh {
		if errors.Is(err, context.Canceled) {
			continue
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}
