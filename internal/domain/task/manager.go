package task

import (
	"fmt"
	"sync"
	"time"

	"github.com/webpilot/backend/internal/executor/htmlpage"
	"github.com/webpilot/backend/internal/firewall"
	"github.com/webpilot/backend/internal/infrastructure/config"
	"github.com/webpilot/backend/internal/infrastructure/logging"
	"github.com/webpilot/backend/internal/infrastructure/monitoring"
)

// Task pairs a locked intent with its validator and browsing session. The
// validator itself is lock-free; mu serializes the API surface so concurrent
// HTTP calls for one task cannot interleave budget updates. action serializes
// whole page actions: a validate-then-execute sequence holds it end to end,
// so two callers can never mutate the task's page tree at the same time.
type Task struct {
	mu        sync.Mutex
	action    sync.Mutex
	intent    *firewall.Intent
	validator *firewall.Validator
	page      *htmlpage.Document
}

// Begin acquires the task's action lock and returns the release func.
// Callers hold it across validation and page execution as one unit.
func (t *Task) Begin() func() {
	t.action.Lock()
	return t.action.Unlock
}

// Intent returns the task's frozen permission record.
func (t *Task) Intent() *firewall.Intent { return t.intent }

// Validate runs the firewall checks on one proposed action.
func (t *Task) Validate(action firewall.Action) firewall.Decision {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.validator.Validate(action)
}

// Stats reports the task's budget consumption.
func (t *Task) Stats() firewall.Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.validator.Stats()
}

// Page returns the task's browsing session, nil before the first open.
func (t *Task) Page() *htmlpage.Document {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.page
}

// AttachPage binds a browsing session to the task.
func (t *Task) AttachPage(page *htmlpage.Document) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.page = page
}

// Manager orchestrates task lifecycle
type Manager struct {
	mu       sync.RWMutex
	tasks    map[string]*Task // Protected by mu
	defaults config.FirewallConfig
	log      *logging.Logger
	metrics  *monitoring.Metrics
}

// NewManager creates a new task manager
func NewManager(defaults config.FirewallConfig, log *logging.Logger) *Manager {
	if log == nil {
		log = logging.NewNop()
	}
	return &Manager{
		tasks:    make(map[string]*Task),
		defaults: defaults,
		log:      log,
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Create locks an intent for a task and starts its budgets. A task ID can
// hold at most one intent for its lifetime; re-creating requires an explicit
// Destroy first, which also discards the old budgets.
func (m *Manager) Create(params firewall.Params) (*Task, error) {
	if params.TaskID == "" {
		return nil, fmt.Errorf("task_id required")
	}
	if params.MaxDuration <= 0 {
		params.MaxDuration = time.Duration(m.defaults.MaxDurationSeconds) * time.Second
	}
	if params.MaxActions <= 0 {
		params.MaxActions = m.defaults.MaxActions
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tasks[params.TaskID]; exists {
		return nil, fmt.Errorf("task %s already has a locked intent", params.TaskID)
	}

	intent := firewall.NewLockedIntent(params)
	t := &Task{
		intent:    intent,
		validator: firewall.NewValidator(intent, m.log),
	}
	m.tasks[params.TaskID] = t

	if m.metrics != nil {
		m.metrics.IncIntentsTotal()
		m.metrics.SetIntentsActive(len(m.tasks))
	}
	return t, nil
}

// Get returns the task for an ID.
func (m *Manager) Get(taskID string) (*Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[taskID]
	return t, ok
}

// Destroy removes a task and its intent. Returns false when unknown.
func (m *Manager) Destroy(taskID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[taskID]; !ok {
		return false
	}
	delete(m.tasks, taskID)
	if m.metrics != nil {
		m.metrics.SetIntentsActive(len(m.tasks))
	}
	return true
}

// Count returns the number of live tasks.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tasks)
}
