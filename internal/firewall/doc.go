// Package firewall implements the capability-scoped permission system that
// constrains what an autonomous task may do against live web pages.
//
// The firewall has three parts:
//   - Catalog: process-wide, read-only table mapping a task category to its
//     default allowed and forbidden action verbs.
//   - Intent: the locked, immutable per-task record merging catalog defaults
//     with caller overrides (domains, goal, budgets). Once constructed there
//     is no mutation path, so a misbehaving planner cannot expand its own
//     authority mid-task.
//   - Validator: the per-task instance checked before every action. It
//     enforces budgets, forbidden-wins verb policy, default-deny allow
//     lists, domain scoping, and a content heuristic that catches
//     instruction text injected by attacker-controlled pages.
//
// One Intent and one Validator are scoped to a single task run. The
// Validator's counters are touched only by the goroutine that owns the
// task, so it carries no lock; isolation across tasks comes from separate
// instances, not mutual exclusion.
package firewall
