package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/ytget/bulk-downloader/internal/model"
)

// Manager defaults
const (
	DefaultMaxParallel = 2
	DefaultMaxRetries  = 1
	DefaultRetryDelay  = 2 * time.Second
)

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithHistory persists finished tasks to store
func WithHistory(store HistoryStore) Option {
	return func(m *Manager) {
		m.history = store
	}
}

// WithExecutable overrides the yt-dlp binary
func WithExecutable(path string) Option {
	return func(m *Manager) {
		m.executable = path
	}
}

// WithRunner replaces the yt-dlp runner
func WithRunner(run Runner) Option {
	return func(m *Manager) {
		if run != nil {
			m.run = run
		}
	}
}

// WithRetry sets how many times a failed job is retried and the pause
// between attempts.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(m *Manager) {
		if maxRetries >= 0 {
			m.maxRetries = maxRetries
		}
		if delay >= 0 {
			m.retryDelay = delay
		}
	}
}

// Manager queues and runs download tasks
type Manager struct {
	tasks      map[string]*model.DownloadTask
	order      []string // task ids in creation order
	cancels    map[string]context.CancelFunc
	tasksMutex sync.RWMutex

	maxParallel      int
	activeCount      int
	downloadDir      string
	filenameTemplate string
	executable       string
	closed           bool

	onUpdate func(*model.DownloadTask) // callback for UI updates
	history  HistoryStore
	logger   *slog.Logger
	run      Runner

	maxRetries int
	retryDelay time.Duration

	wg sync.WaitGroup
}

// NewManager creates a download manager writing into downloadDir
func NewManager(downloadDir string, maxParallel int, opts ...Option) *Manager {
	if maxParallel < 1 {
		maxParallel = DefaultMaxParallel
	}

	m := &Manager{
		tasks:            make(map[string]*model.DownloadTask),
		cancels:          make(map[string]context.CancelFunc),
		maxParallel:      maxParallel,
		downloadDir:      downloadDir,
		filenameTemplate: DefaultFilenameTemplate,
		logger:           slog.Default(),
		run:              runYTDLP,
		maxRetries:       DefaultMaxRetries,
		retryDelay:       DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetUpdateCallback sets the callback invoked with a snapshot of every task
// change. It is called from worker goroutines.
func (m *Manager) SetUpdateCallback(callback func(*model.DownloadTask)) {
	m.tasksMutex.Lock()
	m.onUpdate = callback
	m.tasksMutex.Unlock()
}

// Start enqueues a video download. Failures are logged, never returned.
func (m *Manager) Start(url string, entry model.VideoEntry, preset *model.VideoPreset) {
	if _, err := m.AddVideo(url, entry, preset); err != nil {
		m.logger.Warn("video download not queued", "url", url, "error", err)
	}
}

// StartAudio enqueues an audio-only download. Failures are logged, never returned.
func (m *Manager) StartAudio(url string, entry model.VideoEntry, preset *model.AudioQualityPreset) {
	if _, err := m.AddAudio(url, entry, preset); err != nil {
		m.logger.Warn("audio download not queued", "url", url, "error", err)
	}
}

// AddVideo enqueues a video download and returns the new task
func (m *Manager) AddVideo(url string, entry model.VideoEntry, preset *model.VideoPreset) (*model.DownloadTask, error) {
	task := m.newTask(url, entry, model.TaskKindVideo)
	if preset != nil {
		p := *preset
		task.VideoPreset = &p
	}
	return m.addTask(task)
}

// AddAudio enqueues an audio-only download and returns the new task
func (m *Manager) AddAudio(url string, entry model.VideoEntry, preset *model.AudioQualityPreset) (*model.DownloadTask, error) {
	task := m.newTask(url, entry, model.TaskKindAudio)
	if preset != nil {
		p := *preset
		task.AudioPreset = &p
	}
	return m.addTask(task)
}

func (m *Manager) newTask(url string, entry model.VideoEntry, kind model.TaskKind) *model.DownloadTask {
	return &model.DownloadTask{
		ID:        generateTaskID(),
		URL:       url,
		Entry:     entry,
		Kind:      kind,
		Status:    model.TaskStatusPending,
		ETASec:    -1,
		CreatedAt: time.Now(),
	}
}

func (m *Manager) addTask(task *model.DownloadTask) (*model.DownloadTask, error) {
	if task.URL == "" {
		return nil, fmt.Errorf("empty URL")
	}

	m.tasksMutex.Lock()
	if m.closed {
		m.tasksMutex.Unlock()
		return nil, ErrClosed
	}

	// Check for duplicate URLs
	for _, existing := range m.tasks {
		if existing.URL == task.URL && existing.Kind == task.Kind && !existing.Status.IsFinished() {
			m.tasksMutex.Unlock()
			return nil, fmt.Errorf("%w: %s %s", ErrTaskExists, task.Kind, task.URL)
		}
	}

	m.tasks[task.ID] = task
	m.order = append(m.order, task.ID)
	snapshot := task.Clone()
	m.tasksMutex.Unlock()

	m.logger.Info("download queued", "task", task.ID, "url", task.URL, "kind", task.Kind, "preset", task.PresetLabel())
	m.notifyUpdate(snapshot)

	m.startPending()
	return snapshot, nil
}

// GetTask returns a snapshot of a task by ID
func (m *Manager) GetTask(id string) (*model.DownloadTask, bool) {
	m.tasksMutex.RLock()
	defer m.tasksMutex.RUnlock()

	task, exists := m.tasks[id]
	if !exists {
		return nil, false
	}
	return task.Clone(), true
}

// GetAllTasks returns snapshots of all tasks in creation order
func (m *Manager) GetAllTasks() []*model.DownloadTask {
	m.tasksMutex.RLock()
	defer m.tasksMutex.RUnlock()

	tasks := make([]*model.DownloadTask, 0, len(m.order))
	for _, id := range m.order {
		tasks = append(tasks, m.tasks[id].Clone())
	}
	return tasks
}

// StopTask cancels a pending or running task
func (m *Manager) StopTask(id string) error {
	m.tasksMutex.Lock()

	task, exists := m.tasks[id]
	if !exists {
		m.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	if !task.Status.IsActive() && task.Status != model.TaskStatusPending {
		status := task.Status
		m.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotActive, status)
	}

	if task.Status == model.TaskStatusPending {
		// Never started, finish right away
		task.Status = model.TaskStatusStopped
		task.FinishedAt = time.Now()
	} else {
		task.Status = model.TaskStatusStopping
		if cancel := m.cancels[id]; cancel != nil {
			cancel()
		}
	}
	snapshot := task.Clone()
	m.tasksMutex.Unlock()

	m.logger.Info("download stop requested", "task", id)
	m.notifyUpdate(snapshot)
	if snapshot.Status.IsFinished() {
		m.persist(snapshot)
	}
	return nil
}

// RemoveTask forgets a task. Active tasks are stopped first.
func (m *Manager) RemoveTask(id string) error {
	m.tasksMutex.Lock()
	task, exists := m.tasks[id]
	if !exists {
		m.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	if cancel := m.cancels[id]; cancel != nil {
		cancel()
	}
	delete(m.tasks, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i:i], m.order[i+1:]...)
			break
		}
	}
	wasActive := task.Status.IsActive()
	m.tasksMutex.Unlock()

	if m.history != nil {
		if err := m.history.Delete(id); err != nil {
			m.logger.Warn("failed to delete task from history", "task", id, "error", err)
		}
	}

	m.logger.Info("download removed", "task", id, "was_active", wasActive)
	return nil
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (m *Manager) SetMaxParallelDownloads(max int) {
	if max < 1 {
		max = 1
	}

	m.tasksMutex.Lock()
	m.maxParallel = max
	m.tasksMutex.Unlock()

	m.startPending()
}

// SetDownloadDirectory sets the download directory for tasks not yet started
func (m *Manager) SetDownloadDirectory(dir string) {
	m.tasksMutex.Lock()
	m.downloadDir = dir
	m.tasksMutex.Unlock()
}

// SetFilenameTemplate sets the output template for tasks not yet started
func (m *Manager) SetFilenameTemplate(template string) {
	if template == "" {
		template = DefaultFilenameTemplate
	}

	m.tasksMutex.Lock()
	m.filenameTemplate = template
	m.tasksMutex.Unlock()
}

// Restore loads the history store into the task list. Tasks recorded while
// still active are shown as stopped.
func (m *Manager) Restore() error {
	if m.history == nil {
		return nil
	}

	tasks, err := m.history.List()
	if err != nil {
		return fmt.Errorf("failed to load download history: %w", err)
	}

	m.tasksMutex.Lock()
	restored := make([]*model.DownloadTask, 0, len(tasks))
	for _, task := range tasks {
		if _, exists := m.tasks[task.ID]; exists {
			continue
		}
		if !task.Status.IsFinished() {
			task.Status = model.TaskStatusStopped
		}
		m.tasks[task.ID] = task
		restored = append(restored, task)
	}
	m.order = append(m.order, idsOf(restored)...)
	sort.SliceStable(m.order, func(i, j int) bool {
		return m.tasks[m.order[i]].CreatedAt.Before(m.tasks[m.order[j]].CreatedAt)
	})
	m.tasksMutex.Unlock()

	m.logger.Info("download history restored", "tasks", len(restored))
	return nil
}

// Close cancels running tasks, drops pending ones and waits for workers
func (m *Manager) Close() error {
	m.tasksMutex.Lock()
	m.closed = true
	for _, cancel := range m.cancels {
		cancel()
	}
	m.tasksMutex.Unlock()

	m.wg.Wait()
	return nil
}

// startPending starts pending tasks, oldest first, while slots are free
func (m *Manager) startPending() {
	m.tasksMutex.Lock()
	defer m.tasksMutex.Unlock()

	if m.closed {
		return
	}

	for _, id := range m.order {
		if m.activeCount >= m.maxParallel {
			return
		}

		task := m.tasks[id]
		if task.Status != model.TaskStatusPending {
			continue
		}

		ctx, cancel := context.WithCancel(context.Background())
		m.cancels[id] = cancel
		m.activeCount++
		task.Status = model.TaskStatusStarting
		task.StartedAt = time.Now()
		job := newJob(task, m.downloadDir, m.filenameTemplate, m.executable)

		m.wg.Add(1)
		go m.runTask(ctx, task, job)
	}
}

// runTask runs one task to completion
func (m *Manager) runTask(ctx context.Context, task *model.DownloadTask, job Job) {
	defer m.wg.Done()

	m.setStatus(task, model.TaskStatusDownloading)
	m.logger.Info("download started", "task", task.ID, "url", job.URL, "output", job.Output)

	path, err := m.runWithRetry(ctx, task, job)

	m.tasksMutex.Lock()
	delete(m.cancels, task.ID)
	m.activeCount--
	_, stillListed := m.tasks[task.ID]

	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			task.Status = model.TaskStatusStopped
		} else {
			task.Status = model.TaskStatusError
			task.LastError = err.Error()
		}
	} else {
		task.Status = model.TaskStatusCompleted
		task.Progress = 1.0
		task.Percent = 100
		task.ETASec = -1
		if path != "" {
			task.OutputPath = path
		}
		if size := fileSize(task.OutputPath); size > 0 {
			task.FileSize = size
		}
	}
	task.Speed = ""
	task.FinishedAt = time.Now()
	snapshot := task.Clone()
	m.tasksMutex.Unlock()

	if err != nil {
		m.logger.Warn("download finished", "task", task.ID, "status", snapshot.Status, "error", err)
	} else {
		m.logger.Info("download finished", "task", task.ID, "status", snapshot.Status, "output", snapshot.OutputPath)
	}

	if stillListed {
		m.notifyUpdate(snapshot)
		m.persist(snapshot)
	}

	m.startPending()
}

// runWithRetry attempts download with retry logic
func (m *Manager) runWithRetry(ctx context.Context, task *model.DownloadTask, job Job) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		if attempt > 0 {
			// Backoff delay
			select {
			case <-time.After(m.retryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}

			m.logger.Info("retrying download", "task", task.ID, "attempt", attempt+1)
		}

		path, err := m.run(ctx, job, func(p Progress) {
			m.updateTaskProgress(task, p)
		})
		if err == nil {
			return path, nil
		}

		lastErr = err
		m.logger.Warn("download attempt failed", "task", task.ID, "attempt", attempt+1, "error", err)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	return "", lastErr
}

// updateTaskProgress applies a progress report to the task
func (m *Manager) updateTaskProgress(task *model.DownloadTask, p Progress) {
	m.tasksMutex.Lock()

	if task.Status != model.TaskStatusDownloading {
		m.tasksMutex.Unlock()
		return
	}

	if p.TotalBytes > 0 {
		percent := float64(p.DownloadedBytes) / float64(p.TotalBytes) * 100
		if percent > 100 {
			percent = 100
		}
		task.Percent = int(percent)
		task.Progress = percent / 100.0
		task.FileSize = p.TotalBytes
	}

	if !p.Started.IsZero() {
		elapsed := time.Since(p.Started)
		if elapsed.Seconds() > 0 {
			bytesPerSecond := float64(p.DownloadedBytes) / elapsed.Seconds()
			task.Speed = humanize.Bytes(uint64(bytesPerSecond)) + "/s"
		}
	}

	if p.ETA > 0 {
		task.ETASec = int(p.ETA.Seconds())
	}

	if p.Title != "" && task.Entry.Title == "" {
		task.Entry.Title = p.Title
	}
	if p.Filename != "" {
		task.OutputPath = p.Filename
	}

	snapshot := task.Clone()
	m.tasksMutex.Unlock()

	m.notifyUpdate(snapshot)
}

func (m *Manager) setStatus(task *model.DownloadTask, status model.TaskStatus) {
	m.tasksMutex.Lock()
	if task.Status == model.TaskStatusStopping {
		m.tasksMutex.Unlock()
		return
	}
	task.Status = status
	snapshot := task.Clone()
	m.tasksMutex.Unlock()

	m.notifyUpdate(snapshot)
}

// persist records a finished task in the history store
func (m *Manager) persist(task *model.DownloadTask) {
	if m.history == nil {
		return
	}
	if err := m.history.Put(task); err != nil {
		m.logger.Warn("failed to save task to history", "task", task.ID, "error", err)
	}
}

// notifyUpdate calls the update callback if set
func (m *Manager) notifyUpdate(task *model.DownloadTask) {
	m.tasksMutex.RLock()
	callback := m.onUpdate
	m.tasksMutex.RUnlock()

	if callback != nil {
		callback(task)
	}
}

func idsOf(tasks []*model.DownloadTask) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	return "task-" + uuid.New().String()
}

var _ Downloader = (*Manager)(nil)
