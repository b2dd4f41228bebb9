package ui

import "fmt"

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyDownload          = "download"
	KeyStop              = "stop"
	KeyOpen              = "open"
	KeyReveal            = "reveal"
	KeyCopyPath          = "copy_path"
	KeyRemove            = "remove"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyDownloadDirectory = "download_directory"
	KeyMaxParallel       = "max_parallel"
	KeyFilenameTemplate  = "filename_template"
	KeyAutoReveal        = "auto_reveal"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeyEnterURL          = "enter_url"
	KeyOpenPlaylist      = "open_playlist"
	KeySettingsSaved     = "settings_saved"
	KeyDownloadCompleted = "download_completed"
	KeyErrorOpeningFile  = "error_opening_file"
	KeyInvalidURL        = "invalid_url"
	KeyPleaseEnterURL    = "please_enter_url"
	KeyLoadingPlaylist   = "loading_playlist"
	KeyRetry             = "retry"
	KeySelectAll         = "select_all"
	KeyDeselectAll       = "deselect_all"
	KeyFilter            = "filter"
	KeyAudioOnly         = "audio_only"
	KeyVideoQuality      = "video_quality"
	KeyAudioQuality      = "audio_quality"
	KeySelectedCount     = "selected_count"
	KeyDownloadSelected  = "download_selected"
	KeyEmptyPlaylist     = "empty_playlist"
	KeyBack              = "back"
	KeyDownloads         = "downloads"
	KeyNoDownloads       = "no_downloads"
	KeyPathCopied        = "path_copied"
	KeyDownloadsSummary  = "downloads_summary"
	KeyOpenFolder        = "open_folder"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. Unknown codes are ignored.
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// Format returns the localized format string for key applied to args
func (l *Localization) Format(key string, args ...any) string {
	return fmt.Sprintf(l.GetText(key), args...)
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "Bulk Downloader",
		KeyDownload:          "Download",
		KeyStop:              "Stop",
		KeyOpen:              "Play",
		KeyReveal:            "Show",
		KeyCopyPath:          "Path",
		KeyRemove:            "Remove",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyDownloadDirectory: "Download Directory",
		KeyMaxParallel:       "Max Parallel Downloads",
		KeyFilenameTemplate:  "Filename Template",
		KeyAutoReveal:        "Show file when download completes",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeyEnterURL:          "Enter playlist URL (https://youtube.com/playlist?list=...)",
		KeyOpenPlaylist:      "Open",
		KeySettingsSaved:     "Settings saved successfully!",
		KeyDownloadCompleted: "Download completed",
		KeyErrorOpeningFile:  "Error opening file",
		KeyInvalidURL:        "Invalid URL",
		KeyPleaseEnterURL:    "Please enter a URL",
		KeyLoadingPlaylist:   "Loading playlist...",
		KeyRetry:             "Retry",
		KeySelectAll:         "Select all",
		KeyDeselectAll:       "Deselect all",
		KeyFilter:            "Filter by title",
		KeyAudioOnly:         "Audio only (mp3)",
		KeyVideoQuality:      "Video quality",
		KeyAudioQuality:      "Audio quality",
		KeySelectedCount:     "%d of %d selected",
		KeyDownloadSelected:  "Download %d",
		KeyEmptyPlaylist:     "This playlist has no videos",
		KeyBack:              "Back",
		KeyDownloads:         "Downloads",
		KeyNoDownloads:       "No downloads yet",
		KeyPathCopied:        "Path copied to clipboard",
		KeyDownloadsSummary:  "%d active, %d completed, %d total",
		KeyOpenFolder:        "Open folder",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "Пакетный загрузчик",
		KeyDownload:          "Скачать",
		KeyStop:              "Стоп",
		KeyOpen:              "Открыть",
		KeyReveal:            "Показать",
		KeyCopyPath:          "Путь",
		KeyRemove:            "Удалить",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyDownloadDirectory: "Папка загрузки",
		KeyMaxParallel:       "Макс. параллельных",
		KeyFilenameTemplate:  "Шаблон имени файла",
		KeyAutoReveal:        "Показывать файл после загрузки",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeyEnterURL:          "Введите URL плейлиста (https://youtube.com/playlist?list=...)",
		KeyOpenPlaylist:      "Открыть",
		KeySettingsSaved:     "Настройки успешно сохранены!",
		KeyDownloadCompleted: "Загрузка завершена",
		KeyErrorOpeningFile:  "Ошибка открытия файла",
		KeyInvalidURL:        "Неверный URL",
		KeyPleaseEnterURL:    "Пожалуйста, введите URL",
		KeyLoadingPlaylist:   "Загрузка плейлиста...",
		KeyRetry:             "Повторить",
		KeySelectAll:         "Выбрать все",
		KeyDeselectAll:       "Снять выбор",
		KeyFilter:            "Фильтр по названию",
		KeyAudioOnly:         "Только аудио (mp3)",
		KeyVideoQuality:      "Качество видео",
		KeyAudioQuality:      "Качество аудио",
		KeySelectedCount:     "Выбрано %d из %d",
		KeyDownloadSelected:  "Скачать %d",
		KeyEmptyPlaylist:     "В плейлисте нет видео",
		KeyBack:              "Назад",
		KeyDownloads:         "Загрузки",
		KeyNoDownloads:       "Загрузок пока нет",
		KeyPathCopied:        "Путь скопирован",
		KeyDownloadsSummary:  "Активных: %d, завершено: %d, всего: %d",
		KeyOpenFolder:        "Открыть папку",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "Bulk Downloader",
		KeyDownload:          "Baixar",
		KeyStop:              "Parar",
		KeyOpen:              "Reproduzir",
		KeyReveal:            "Mostrar",
		KeyCopyPath:          "Caminho",
		KeyRemove:            "Remover",
		KeySettings:          "Configurações",
		KeyFile:              "Arquivo",
		KeyLanguage:          "Idioma",
		KeyDownloadDirectory: "Diretório de Download",
		KeyMaxParallel:       "Max Downloads Paralelos",
		KeyFilenameTemplate:  "Modelo de Nome de Arquivo",
		KeyAutoReveal:        "Mostrar arquivo ao concluir",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Navegar",
		KeyEnterURL:          "Digite a URL da playlist (https://youtube.com/playlist?list=...)",
		KeyOpenPlaylist:      "Abrir",
		KeySettingsSaved:     "Configurações salvas com sucesso!",
		KeyDownloadCompleted: "Download concluído",
		KeyErrorOpeningFile:  "Erro ao abrir arquivo",
		KeyInvalidURL:        "URL inválida",
		KeyPleaseEnterURL:    "Por favor, digite uma URL",
		KeyLoadingPlaylist:   "Carregando playlist...",
		KeyRetry:             "Tentar novamente",
		KeySelectAll:         "Selecionar tudo",
		KeyDeselectAll:       "Desmarcar tudo",
		KeyFilter:            "Filtrar por título",
		KeyAudioOnly:         "Somente áudio (mp3)",
		KeyVideoQuality:      "Qualidade do vídeo",
		KeyAudioQuality:      "Qualidade do áudio",
		KeySelectedCount:     "%d de %d selecionados",
		KeyDownloadSelected:  "Baixar %d",
		KeyEmptyPlaylist:     "Esta playlist não tem vídeos",
		KeyBack:              "Voltar",
		KeyDownloads:         "Downloads",
		KeyNoDownloads:       "Nenhum download ainda",
		KeyPathCopied:        "Caminho copiado",
		KeyDownloadsSummary:  "%d ativos, %d concluídos, %d no total",
		KeyOpenFolder:        "Abrir pasta",
	}
}
