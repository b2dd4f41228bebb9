package bulk

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ytget/bulk-downloader/internal/model"
)

// Fetcher loads playlist metadata. extractFlat=false requests full metadata
// for every entry rather than ids only.
type Fetcher interface {
	FetchPlaylist(ctx context.Context, url string, extractFlat bool) (*model.PlaylistInfo, error)
}

// Sink accepts download requests. Both calls must return promptly; the view
// model never waits for or inspects the outcome of a download.
type Sink interface {
	Start(url string, entry model.VideoEntry, preset *model.VideoPreset)
	StartAudio(url string, entry model.VideoEntry, preset *model.AudioQualityPreset)
}

// Option configures a ViewModel
type Option func(*ViewModel)

// WithLogger sets the logger used for fetch and download events
func WithLogger(logger *slog.Logger) Option {
	return func(vm *ViewModel) {
		if logger != nil {
			vm.logger = logger
		}
	}
}

// ViewModel owns the state of one bulk download screen. All mutations go
// through Handle or through the result of a background fetch; readers get
// immutable snapshots via State or Subscribe.
type ViewModel struct {
	url     string
	fetcher Fetcher
	sink    Sink
	logger  *slog.Logger

	mu    sync.Mutex
	state State

	// Fetch bookkeeping. generation increases with every fetch so results of
	// superseded fetches can be recognized and dropped.
	generation  uint64
	cancelFetch context.CancelFunc

	subscribers  map[int]func(State)
	nextSubID    int
	publishing   bool
	pending      bool
	publishRound uint64
}

// New creates the view model in the loading state and starts fetching the
// playlist at url in the background.
func New(url string, fetcher Fetcher, sink Sink, opts ...Option) *ViewModel {
	vm := &ViewModel{
		url:         url,
		fetcher:     fetcher,
		sink:        sink,
		logger:      slog.Default(),
		state:       loadingState(),
		subscribers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(vm)
	}

	vm.mu.Lock()
	vm.startFetchLocked()
	vm.mu.Unlock()

	return vm
}

// URL returns the playlist URL this screen was opened with
func (vm *ViewModel) URL() string {
	return vm.url
}

// State returns the current snapshot
func (vm *ViewModel) State() State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

// Subscribe registers fn to receive every new snapshot. fn is called with
// the current snapshot before Subscribe returns, even when called from
// inside another subscriber. Snapshots may be coalesced but the last one
// delivered is always the current state. fn may call Handle.
func (vm *ViewModel) Subscribe(fn func(State)) (unsubscribe func()) {
	vm.mu.Lock()
	id := vm.nextSubID
	vm.nextSubID++
	vm.subscribers[id] = fn
	snapshot := vm.state
	round := vm.publishRound
	vm.mu.Unlock()

	fn(snapshot)

	// A concurrent delivery may have reached fn before the snapshot above
	vm.mu.Lock()
	raced := vm.publishing || vm.publishRound != round
	vm.mu.Unlock()
	if raced {
		vm.publish()
	}

	return func() {
		vm.mu.Lock()
		delete(vm.subscribers, id)
		vm.mu.Unlock()
	}
}

// Handle applies one event. It never blocks on network or disk.
func (vm *ViewModel) Handle(event Event) {
	if e, ok := event.(StartDownload); ok {
		vm.startDownload(e)
		return
	}

	vm.mu.Lock()
	if _, ack := event.(NavigationConsumed); vm.state.disposed && !ack {
		vm.mu.Unlock()
		vm.logger.Debug("event ignored after dispose", "event", eventName(event))
		return
	}
	changed := vm.applyLocked(event)
	vm.mu.Unlock()

	if changed {
		vm.publish()
	}
}

// applyLocked mutates state for every event except StartDownload and
// reports whether the snapshot changed.
func (vm *ViewModel) applyLocked(event Event) bool {
	s := vm.state

	switch e := event.(type) {
	case Refresh:
		s.IsLoading = true
		s.ErrorMessage = ""
		vm.state = s
		vm.startFetchLocked()
		return true

	case ToggleVideoSelection:
		if s.Playlist == nil || !s.Playlist.HasEntry(e.ID) {
			return false
		}
		next := make(map[string]struct{}, len(s.selected)+1)
		for id := range s.selected {
			next[id] = struct{}{}
		}
		if _, ok := next[e.ID]; ok {
			delete(next, e.ID)
		} else {
			next[e.ID] = struct{}{}
		}
		vm.state = s.withSelection(next)
		return true

	case SelectAll:
		if s.Playlist == nil {
			return false
		}
		vm.state = s.withSelection(selectionOf(s.Playlist.EntryIDs()))
		return true

	case DeselectAll:
		if len(s.selected) == 0 {
			return false
		}
		vm.state = s.withSelection(nil)
		return true

	case SelectPreset:
		if !containsVideoPreset(s.AvailablePresets, e.Preset) {
			return false
		}
		p := e.Preset
		s.SelectedPreset = &p
		vm.state = s
		return true

	case SelectAudioQualityPreset:
		if !containsAudioPreset(s.AvailableAudioPresets, e.Preset) {
			return false
		}
		p := e.Preset
		s.SelectedAudioPreset = &p
		vm.state = s
		return true

	case SetAudioOnly:
		if s.AudioOnly == e.Enabled {
			return false
		}
		s.AudioOnly = e.Enabled
		vm.state = s
		return true

	case ScreenDisposed:
		if vm.cancelFetch != nil {
			vm.cancelFetch()
			vm.cancelFetch = nil
		}
		vm.state = State{
			AudioOnly:  s.AudioOnly,
			Navigation: s.Navigation,
			disposed:   true,
		}
		vm.logger.Info("bulk screen disposed", "url", vm.url)
		return true

	case NavigationConsumed:
		if s.Navigation == NavigateNone {
			return false
		}
		s.Navigation = NavigateNone
		vm.state = s
		return true
	}

	return false
}

// startDownload submits the selected entries in playlist order and then
// raises the navigation signal.
func (vm *ViewModel) startDownload(StartDownload) {
	vm.mu.Lock()
	s := vm.state
	vm.mu.Unlock()

	if !s.CanStartDownload() {
		vm.logger.Warn("start download ignored", "phase", s.Phase().String(), "selected", s.SelectedCount())
		return
	}

	entries := s.SelectedEntries()
	vm.logger.Info("starting bulk download",
		"url", vm.url,
		"videos", len(entries),
		"audio_only", s.AudioOnly,
	)

	for _, entry := range entries {
		if s.AudioOnly {
			vm.sink.StartAudio(entry.URL, entry, s.SelectedAudioPreset)
		} else {
			vm.sink.Start(entry.URL, entry, s.SelectedPreset)
		}
	}

	vm.mu.Lock()
	if vm.state.disposed {
		vm.mu.Unlock()
		return
	}
	vm.state.Navigation = NavigateToDownloader
	vm.mu.Unlock()

	vm.publish()
}

// startFetchLocked cancels any outstanding fetch and launches a new one.
// The caller must hold vm.mu.
func (vm *ViewModel) startFetchLocked() {
	if vm.cancelFetch != nil {
		vm.cancelFetch()
	}

	ctx, cancel := context.WithCancel(context.Background())
	vm.cancelFetch = cancel
	vm.generation++
	gen := vm.generation

	go func() {
		defer cancel()

		vm.logger.Info("fetching playlist info", "url", vm.url, "generation", gen)
		info, err := vm.fetcher.FetchPlaylist(ctx, vm.url, false)
		vm.applyFetch(gen, info, err)
	}()
}

// applyFetch stores the outcome of fetch number gen unless it has been
// superseded by a refresh or the screen was disposed meanwhile.
func (vm *ViewModel) applyFetch(gen uint64, info *model.PlaylistInfo, err error) {
	vm.mu.Lock()
	if vm.state.disposed || gen != vm.generation {
		vm.mu.Unlock()
		vm.logger.Debug("dropping stale playlist result", "url", vm.url, "generation", gen)
		return
	}
	vm.cancelFetch = nil

	s := vm.state
	if err != nil {
		detail := Describe(err)
		vm.logger.Error("error getting playlist info", "url", vm.url, "error", detail)

		s.IsLoading = false
		s.ErrorMessage = detail
		s.Playlist = nil
		s.selected = nil
		vm.state = s
		vm.mu.Unlock()
		vm.publish()
		return
	}

	if info == nil {
		info = &model.PlaylistInfo{}
	}
	if unique := info.Deduplicated(); unique != info {
		vm.logger.Warn("dropped repeated playlist entries", "url", vm.url, "dropped", info.Len()-unique.Len())
		info = unique
	}
	vm.logger.Info("got playlist info", "url", vm.url, "title", info.Title, "entries", info.Len())

	videoPreset := model.DefaultVideoPreset
	audioPreset := model.DefaultAudioQualityPreset

	s.Playlist = info
	s.selected = selectionOf(info.EntryIDs())
	s.AvailablePresets = model.VideoPresets()
	s.SelectedPreset = &videoPreset
	s.AvailableAudioPresets = model.AudioQualityPresets()
	s.SelectedAudioPreset = &audioPreset
	s.ErrorMessage = ""
	s.IsLoading = false
	vm.state = s
	vm.mu.Unlock()

	vm.publish()
}

// publish delivers the current snapshot to subscribers. Only one goroutine
// delivers at a time; concurrent or nested calls mark the state pending and
// the active deliverer loops until no change is left undelivered.
func (vm *ViewModel) publish() {
	vm.mu.Lock()
	if vm.publishing {
		vm.pending = true
		vm.mu.Unlock()
		return
	}
	vm.publishing = true

	for {
		vm.pending = false
		vm.publishRound++
		snapshot := vm.state
		subs := make([]func(State), 0, len(vm.subscribers))
		for _, fn := range vm.subscribers {
			subs = append(subs, fn)
		}
		vm.mu.Unlock()

		for _, fn := range subs {
			fn(snapshot)
		}

		vm.mu.Lock()
		if !vm.pending {
			vm.publishing = false
			vm.mu.Unlock()
			return
		}
	}
}

func eventName(event Event) string {
	switch event.(type) {
	case Refresh:
		return "refresh"
	case ToggleVideoSelection:
		return "toggle_video_selection"
	case SelectAll:
		return "select_all"
	case DeselectAll:
		return "deselect_all"
	case SelectPreset:
		return "select_preset"
	case SelectAudioQualityPreset:
		return "select_audio_quality_preset"
	case SetAudioOnly:
		return "set_audio_only"
	case StartDownload:
		return "start_download"
	case ScreenDisposed:
		return "screen_disposed"
	case NavigationConsumed:
		return "navigation_consumed"
	default:
		return "unknown"
	}
}
