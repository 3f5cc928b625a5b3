package qssa

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// ProgressEvent reports that one trajectory of an ensemble finished.
type ProgressEvent struct {
	RunID      string           `json:"run_id"`
	Trajectory int              `json:"trajectory"`
	Status     TrajectoryStatus `json:"status"`
	Steps      int              `json:"steps"`
	FinalTime  float64          `json:"final_time"`
	FinalTemp  float64          `json:"final_temperature"`
	Error      string           `json:"error,omitempty"`
	Done       int              `json:"done"`
	Total      int              `json:"total"`
	Timestamp  int64            `json:"timestamp"`
}

// JSON returns the event as JSON bytes
func (ev ProgressEvent) JSON() ([]byte, error) {
	return json.Marshal(ev)
}

// Notifier is the interface that all notification channels must implement
type Notifier interface {
	// ID returns a unique identifier for this notifier
	ID() string

	// Type returns the type of notifier (e.g., "webhook", "websocket")
	Type() string

	// Notify sends a progress event. The context can be used for cancellation
	// and timeout.
	Notify(ctx context.Context, event ProgressEvent) error

	// Close closes the notifier and releases any resources
	Close() error
}

// NotificationManager fans progress events out to registered notifiers on a
// background worker, so engines never wait on delivery.
type NotificationManager struct {
	mu        sync.RWMutex
	notifiers map[string]Notifier
	jobs      chan ProgressEvent
	closed    bool
	wg        sync.WaitGroup
	logger    Logger

	retryBackoff time.Duration
}

// NewNotificationManager creates a new notification manager
func NewNotificationManager() *NotificationManager {
	return NewNotificationManagerWithLogger(nil)
}

// NewNotificationManagerWithLogger creates a manager that reports delivery
// failures to logger.
func NewNotificationManagerWithLogger(logger Logger) *NotificationManager {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	mgr := &NotificationManager{
		notifiers:    make(map[string]Notifier),
		jobs:         make(chan ProgressEvent, 1024),
		logger:       logger,
		retryBackoff: 100 * time.Millisecond,
	}
	mgr.startWorkers(1)
	return mgr
}

// RegisterNotifier registers a notifier with the manager
func (nm *NotificationManager) RegisterNotifier(notifier Notifier) error {
	if notifier == nil {
		return fmt.Errorf("notifier cannot be nil")
	}

	id := notifier.ID()
	if id == "" {
		return fmt.Errorf("notifier ID cannot be empty")
	}

	nm.mu.Lock()
	defer nm.mu.Unlock()

	if _, exists := nm.notifiers[id]; exists {
		return fmt.Errorf("notifier with ID %s already exists", id)
	}

	nm.notifiers[id] = notifier
	return nil
}

// UnregisterNotifier closes and removes a notifier
func (nm *NotificationManager) UnregisterNotifier(id string) error {
	nm.mu.Lock()
	notifier, exists := nm.notifiers[id]
	delete(nm.notifiers, id)
	nm.mu.Unlock()

	if !exists {
		return fmt.Errorf("notifier with ID %s not found", id)
	}
	if err := notifier.Close(); err != nil {
		return fmt.Errorf("error closing notifier %s: %w", id, err)
	}
	return nil
}

// ListNotifiers returns the IDs of all registered notifiers
func (nm *NotificationManager) ListNotifiers() []string {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	ids := make([]string, 0, len(nm.notifiers))
	for id := range nm.notifiers {
		ids = append(ids, id)
	}
	return ids
}

// Enqueue hands an event to the background worker. It never blocks: when the
// queue is full the event is dropped and a warning logged.
func (nm *NotificationManager) Enqueue(event ProgressEvent) {
	nm.mu.RLock()
	defer nm.mu.RUnlock()

	if nm.closed {
		return
	}

	select {
	case nm.jobs <- event:
	default:
		nm.logger.Warnf("notification queue full, dropping event: run_id=%s trajectory=%d", event.RunID, event.Trajectory)
	}
}

func (nm *NotificationManager) startWorkers(n int) {
	for range n {
		nm.wg.Add(1)
		go nm.worker()
	}
}

func (nm *NotificationManager) worker() {
	defer nm.wg.Done()
	for event := range nm.jobs {
		nm.dispatch(event)
	}
}

func (nm *NotificationManager) dispatch(event ProgressEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	nm.mu.RLock()
	targets := make([]Notifier, 0, len(nm.notifiers))
	for _, n := range nm.notifiers {
		targets = append(targets, n)
	}
	nm.mu.RUnlock()

	for _, n := range targets {
		nm.notifyWithRetry(ctx, n, event)
	}
}

// notifyWithRetry attempts delivery with exponential backoff
func (nm *NotificationManager) notifyWithRetry(ctx context.Context, notifier Notifier, event ProgressEvent) {
	const maxRetries = 3
	backoff := nm.retryBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := notifier.Notify(ctx, event)
		if err == nil {
			return
		}

		nm.logger.Warnf("notification failed: notifier=%s attempt=%d error=%v", notifier.ID(), attempt+1, err)
		if attempt == maxRetries {
			nm.logger.Errorf("notification failed after %d attempts: notifier=%s", maxRetries+1, notifier.ID())
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
			backoff *= 2
		}
	}
}

// Notify sends an event to every registered notifier synchronously.
func (nm *NotificationManager) Notify(ctx context.Context, event ProgressEvent) error {
	nm.mu.RLock()
	targets := make([]Notifier, 0, len(nm.notifiers))
	for _, n := range nm.notifiers {
		targets = append(targets, n)
	}
	nm.mu.RUnlock()

	var errs []error
	for _, n := range targets {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("notifier %s failed: %w", n.ID(), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %v", errs)
	}
	return nil
}

// Close drains the queue, stops the worker and closes every notifier.
func (nm *NotificationManager) Close() error {
	nm.mu.Lock()
	if nm.closed {
		nm.mu.Unlock()
		return nil
	}
	nm.closed = true
	close(nm.jobs)
	nm.mu.Unlock()

	nm.wg.Wait()

	nm.mu.Lock()
	var errs []error
	for id, notifier := range nm.notifiers {
		if err := notifier.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing notifier %s: %w", id, err))
		}
	}
	nm.notifiers = make(map[string]Notifier)
	nm.mu.Unlock()

	if len(errs) > 0 {
		return fmt.Errorf("errors closing notifiers: %v", errs)
	}
	return nil
}

func newProgressEvent(runID string, index int, traj *Trajectory, err error, done, total int) ProgressEvent {
	last := traj.Steps
	ev := ProgressEvent{
		RunID:      runID,
		Trajectory: index,
		Status:     traj.Status,
		Steps:      traj.Steps,
		FinalTime:  traj.Time[last],
		FinalTemp:  traj.Temperature[last],
		Done:       done,
		Total:      total,
		Timestamp:  time.Now().Unix(),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	return ev
}
