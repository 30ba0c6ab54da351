package board

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boardsync/backend/domain"
	"github.com/boardsync/backend/repository"
)

// Broadcast event names pushed to bound observers.
const (
	EventTaskCreated   = "taskCreated"
	EventTaskUpdated   = "taskUpdated"
	EventTaskDeleted   = "taskDeleted"
	EventActivityAdded = "activityAdded"
)

// Publisher fans a committed mutation out to observers. Delivery must never
// block: the store calls it after the state transition is already committed.
type Publisher interface {
	Broadcast(event string, payload interface{})
}

// Recorder appends an entry to the activity trail and returns it.
type Recorder interface {
	Record(action string, actor domain.UserRef, taskID string, task *domain.TaskView) domain.ActivityEntry
}

// DeletedTask is the payload broadcast for a deletion.
type DeletedTask struct {
	ID string `json:"id"`
}

// Options configures the board store.
type Options struct {
	// Columns are the board column names, first to last. The last column is
	// terminal: tasks in it do not count toward assignment load. Column names
	// are also reserved as task titles.
	Columns        []string
	ConflictWindow time.Duration
	Clock          func() time.Time
}

// Store is the sole authority over task existence and field values. All
// mutations serialize on one mutex; readers see either the pre- or post-state
// of any in-flight mutation, never a partial one.
type Store struct {
	directory repository.UserDirectory
	publisher Publisher
	recorder  Recorder
	guard     ConflictGuard
	logger    *zap.Logger
	now       func() time.Time

	columns  []domain.Status
	terminal domain.Status
	reserved map[string]struct{}

	mu     sync.RWMutex
	order  []*domain.Task
	byID   map[string]*domain.Task
	titles map[string]string // lowercased title -> task id
}

// NewStore builds the task store around the supplied user directory.
func NewStore(directory repository.UserDirectory, publisher Publisher, recorder Recorder, logger *zap.Logger, opts Options) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	columns := opts.Columns
	if len(columns) == 0 {
		columns = []string{string(domain.StatusTodo), string(domain.StatusInProgress), string(domain.StatusDone)}
	}
	window := opts.ConflictWindow
	if window <= 0 {
		window = 5 * time.Second
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	s := &Store{
		directory: directory,
		publisher: publisher,
		recorder:  recorder,
		guard:     ConflictGuard{Window: window},
		logger:    logger,
		now:       clock,
		reserved:  make(map[string]struct{}, len(columns)),
		byID:      make(map[string]*domain.Task),
		titles:    make(map[string]string),
	}
	for _, name := range columns {
		s.columns = append(s.columns, domain.Status(name))
		s.reserved[strings.ToLower(name)] = struct{}{}
	}
	s.terminal = s.columns[len(s.columns)-1]
	return s
}

// CreateInput carries the fields a client supplies for a new task.
type CreateInput struct {
	Title       string
	Description string
	Status      domain.Status
	Priority    domain.Priority
	AssignedTo  string
}

// Create validates and stores a new task, then broadcasts taskCreated.
func (s *Store) Create(ctx context.Context, in CreateInput, creatorID string) (*domain.TaskView, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.AssignedTo == "" {
		return nil, domain.NewError(domain.ErrCodeValidation, "title and assigned user are required")
	}

	status := in.Status
	if status == "" {
		status = s.columns[0]
	}
	if !s.validStatus(status) {
		return nil, domain.NewError(domain.ErrCodeValidation, fmt.Sprintf("unknown status %q", status))
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, domain.NewError(domain.ErrCodeValidation, fmt.Sprintf("unknown priority %q", priority))
	}

	assignee, err := s.resolveUser(ctx, in.AssignedTo)
	if err != nil {
		return nil, err
	}
	creator, err := s.resolveUser(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		AssignedTo:  assignee.ID,
		CreatedBy:   creator.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	if err := s.checkTitleLocked(title, ""); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.byID[task.ID] = task
	s.titles[strings.ToLower(title)] = task.ID
	s.order = append(s.order, task)
	snapshot := *task
	s.mu.Unlock()

	view := s.view(ctx, &snapshot)
	s.announce(EventTaskCreated, view, fmt.Sprintf("created task %q", view.Title), creator.Ref(), view.ID, &view)
	return &view, nil
}

// Patch is a set of optional field overrides. A nil field keeps the stored
// value; a non-nil empty description is an explicit clear.
type Patch struct {
	Title       *string
	Description *string
	Status      *domain.Status
	Priority    *domain.Priority
	AssignedTo  *string
}

// Update merges the patch into the stored task after conflict and uniqueness
// checks, then broadcasts taskUpdated. On a detected conflict nothing is
// mutated and the returned error carries the committed version.
func (s *Store) Update(ctx context.Context, id string, patch Patch, editorID string) (*domain.TaskView, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.NewError(domain.ErrCodeValidation, "title cannot be empty")
	}
	if patch.Status != nil && !s.validStatus(*patch.Status) {
		return nil, domain.NewError(domain.ErrCodeValidation, fmt.Sprintf("unknown status %q", *patch.Status))
	}
	if patch.Priority != nil && !domain.ValidPriority(*patch.Priority) {
		return nil, domain.NewError(domain.ErrCodeValidation, fmt.Sprintf("unknown priority %q", *patch.Priority))
	}

	editor, err := s.resolveUser(ctx, editorID)
	if err != nil {
		return nil, err
	}
	var assignee *domain.User
	if patch.AssignedTo != nil {
		if assignee, err = s.resolveUser(ctx, *patch.AssignedTo); err != nil {
			return nil, err
		}
	}

	now := s.now()

	s.mu.Lock()
	task, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrTaskNotFound
	}

	if s.guard.InConflict(task, editorID, now) {
		snapshot := *task
		s.mu.Unlock()
		return nil, domain.NewConflictError(domain.ConflictDetails{
			CurrentVersion: s.view(ctx, &snapshot),
			ConflictFields: s.guard.Fields(),
		})
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title != task.Title {
			if err := s.checkTitleLocked(title, task.ID); err != nil {
				s.mu.Unlock()
				return nil, err
			}
			delete(s.titles, strings.ToLower(task.Title))
			task.Title = title
			s.titles[strings.ToLower(title)] = task.ID
		}
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if assignee != nil {
		task.AssignedTo = assignee.ID
	}
	task.UpdatedAt = now
	task.LastModifiedBy = editorID
	snapshot := *task
	s.mu.Unlock()

	view := s.view(ctx, &snapshot)
	s.announce(EventTaskUpdated, view, fmt.Sprintf("updated task %q", view.Title), editor.Ref(), view.ID, &view)
	return &view, nil
}

// Delete removes the task and broadcasts taskDeleted with its id.
func (s *Store) Delete(ctx context.Context, id string, editorID string) error {
	s.mu.Lock()
	task, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return domain.ErrTaskNotFound
	}
	delete(s.byID, id)
	delete(s.titles, strings.ToLower(task.Title))
	for i, t := range s.order {
		if t.ID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	snapshot := *task
	s.mu.Unlock()

	actor := s.userRef(ctx, editorID)
	s.announce(EventTaskDeleted, DeletedTask{ID: id}, fmt.Sprintf("deleted task %q", snapshot.Title), actor, id, nil)
	return nil
}

// SmartAssign reassigns the task to the least-loaded user. The reassignment
// is system-driven, so it bypasses the conflict guard.
func (s *Store) SmartAssign(ctx context.Context, id string, editorID string) (*domain.TaskView, error) {
	users, err := s.directory.List(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "user directory unavailable", err)
	}

	now := s.now()

	s.mu.Lock()
	task, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrTaskNotFound
	}
	if len(users) == 0 {
		s.mu.Unlock()
		return nil, domain.ErrNoUsers
	}

	active := make(map[string]int)
	for _, t := range s.order {
		if t.Status != s.terminal {
			active[t.AssignedTo]++
		}
	}
	target := leastLoaded(users, active)

	task.AssignedTo = target.ID
	task.UpdatedAt = now
	task.LastModifiedBy = editorID
	snapshot := *task
	s.mu.Unlock()

	actor := s.userRef(ctx, editorID)
	view := s.view(ctx, &snapshot)
	s.announce(EventTaskUpdated, view, fmt.Sprintf("reassigned task %q to %s", view.Title, target.Name), actor, view.ID, &view)
	return &view, nil
}

// List returns a snapshot of all tasks in insertion order, with user
// references resolved at read time.
func (s *Store) List(ctx context.Context) []domain.TaskView {
	s.mu.RLock()
	snapshots := make([]domain.Task, 0, len(s.order))
	for _, t := range s.order {
		snapshots = append(snapshots, *t)
	}
	s.mu.RUnlock()

	views := make([]domain.TaskView, 0, len(snapshots))
	for i := range snapshots {
		views = append(views, s.view(ctx, &snapshots[i]))
	}
	return views
}

// Columns returns the configured column names in board order.
func (s *Store) Columns() []domain.Status {
	return append([]domain.Status(nil), s.columns...)
}

func (s *Store) validStatus(status domain.Status) bool {
	for _, c := range s.columns {
		if c == status {
			return true
		}
	}
	return false
}

// checkTitleLocked enforces case-insensitive title uniqueness and the
// reserved column names. Caller holds the write lock.
func (s *Store) checkTitleLocked(title, excludeID string) error {
	lower := strings.ToLower(title)
	if _, reserved := s.reserved[lower]; reserved {
		return domain.NewError(domain.ErrCodeDuplicateTitle, "task title cannot match a column name")
	}
	if id, ok := s.titles[lower]; ok && id != excludeID {
		return domain.NewError(domain.ErrCodeDuplicateTitle, "task title must be unique")
	}
	return nil
}

func (s *Store) resolveUser(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.NewError(domain.ErrCodeUnknownUser, "user id is required")
	}
	user, err := s.directory.GetByID(ctx, id)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeUnknownUser) {
			return nil, err
		}
		return nil, domain.WrapError(domain.ErrCodeUnknownUser, "user not found", err)
	}
	return user, nil
}

func (s *Store) view(ctx context.Context, task *domain.Task) domain.TaskView {
	return domain.TaskView{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		Priority:       task.Priority,
		Assignee:       s.userRef(ctx, task.AssignedTo),
		Creator:        s.userRef(ctx, task.CreatedBy),
		LastModifiedBy: task.LastModifiedBy,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}

func (s *Store) userRef(ctx context.Context, id string) domain.UserRef {
	user, err := s.directory.GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("user no longer resolvable", zap.String("user_id", id), zap.Error(err))
		return domain.UserRef{ID: id}
	}
	return user.Ref()
}

// announce publishes the mutation event, records the activity entry, and
// publishes that entry. Runs after the commit, outside the write lock, so
// delivery latency never delays the next mutation.
func (s *Store) announce(event string, payload interface{}, action string, actor domain.UserRef, taskID string, task *domain.TaskView) {
	if s.publisher != nil {
		s.publisher.Broadcast(event, payload)
	}
	if s.recorder == nil {
		return
	}
	entry := s.recorder.Record(action, actor, taskID, task)
	if s.publisher != nil {
		s.publisher.Broadcast(EventActivityAdded, entry)
	}
}
