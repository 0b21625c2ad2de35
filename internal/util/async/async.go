// Package async runs independent tasks in parallel with bounded fan-out.
package async

import (
	"context"
	"sync"
)

// Task is a named unit of work.
type Task struct {
	Name string
	Func func(context.Context) error
}

// Result pairs a task with its outcome.
type Result struct {
	Name string
	Err  error
}

// Run executes all tasks with at most limit running concurrently and returns
// one result per task, in task order. A limit below 1 means unbounded.
// Unlike a fail-fast group, every task runs to completion: callers that
// tolerate partial failure need all outcomes, not just the first error.
func Run(ctx context.Context, tasks []Task, limit int) []Result {
	results := make([]Result, len(tasks))
	if len(tasks) == 0 {
		return results
	}
	if limit < 1 || limit > len(tasks) {
		limit = len(tasks)
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = Result{Name: task.Name, Err: task.Func(ctx)}
		}()
	}

	wg.Wait()
	return results
}
