// Package task owns the per-task state: the locked intent, its validator,
// and the browsing session the executor acts on.
package task
