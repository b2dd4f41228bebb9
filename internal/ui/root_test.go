package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/bulk-downloader/internal/bulk"
	"github.com/ytget/bulk-downloader/internal/logging"
)

// stubModel records events and never loads anything
type stubModel struct {
	url    string
	events []bulk.Event
}

func (m *stubModel) URL() string                       { return m.url }
func (m *stubModel) State() bulk.State                 { return bulk.State{IsLoading: true} }
func (m *stubModel) Subscribe(func(bulk.State)) func() { return func() {} }
func (m *stubModel) Handle(e bulk.Event)               { m.events = append(m.events, e) }

func newTestRoot(t *testing.T) (*RootUI, *fakeDownloader, *[]*stubModel) {
	t.Helper()
	app := test.NewApp()
	window := app.NewWindow("test")
	d := &fakeDownloader{}

	root := NewRootUI(window, app, d, stubFetcher{}, logging.Discard())
	var models []*stubModel
	root.newModel = func(url string) bulkModel {
		m := &stubModel{url: url}
		models = append(models, m)
		return m
	}
	return root, d, &models
}

func TestRootAppliesSettingsToDownloader(t *testing.T) {
	root, d, _ := newTestRoot(t)

	assert.Equal(t, root.settings.GetDownloadDirectory(), d.dir)
	assert.Equal(t, root.settings.GetMaxParallelDownloads(), d.maxParallel)
	assert.Equal(t, root.settings.GetFilenameTemplate(), d.template)
	assert.NotNil(t, d.callback)
}

func TestRootOpenPlaylistRejectsBadInput(t *testing.T) {
	root, _, models := newTestRoot(t)

	assert.False(t, root.OpenPlaylist("   "))
	assert.True(t, root.notificationContainer.Visible())
	assert.Equal(t, "Please enter a URL", root.notificationLabel.Text)

	assert.False(t, root.OpenPlaylist("ftp://example.com/list"))
	assert.Contains(t, root.notificationLabel.Text, "Invalid URL")

	assert.Empty(t, *models)
	assert.Nil(t, root.bulkScreen)
}

func TestRootOpenPlaylistAndNavigate(t *testing.T) {
	root, _, models := newTestRoot(t)
	root.settings.SetAudioOnly(true)

	require.True(t, root.OpenPlaylist(" "+testPlaylistURL+"\n"))
	require.Len(t, *models, 1)
	first := (*models)[0]
	assert.Equal(t, testPlaylistURL, first.url)
	assert.Equal(t, []bulk.Event{bulk.SetAudioOnly{Enabled: true}}, first.events)
	assert.Equal(t, testPlaylistURL, root.settings.GetLastURL())
	assert.NotNil(t, root.bulkScreen)
	assert.False(t, root.notificationContainer.Visible())

	// Opening another playlist disposes the first screen
	require.True(t, root.OpenPlaylist("https://www.youtube.com/playlist?list=PLother"))
	require.Len(t, *models, 2)
	assert.Equal(t, bulk.ScreenDisposed{}, first.events[len(first.events)-1])

	second := (*models)[1]
	root.ShowDownloader()
	assert.Nil(t, root.bulkScreen)
	assert.Equal(t, bulk.ScreenDisposed{}, second.events[len(second.events)-1])
	assert.Same(t, root.downloaderScreen.Container(), root.content.Objects[0])
}

func TestRootLanguageChangeKeepsModel(t *testing.T) {
	root, _, models := newTestRoot(t)
	require.True(t, root.OpenPlaylist(testPlaylistURL))
	m := (*models)[0]

	root.onLanguageChange("ru")
	assert.Equal(t, "Загрузки", root.downloadsBtn.Text)
	require.NotNil(t, root.bulkScreen)
	assert.Same(t, m, root.bulkScreen.Model())
	for _, e := range m.events {
		assert.NotEqual(t, bulk.ScreenDisposed{}, e)
	}
}
