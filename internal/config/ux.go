package config

// Theme names accepted by ui.theme.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// UIConfig holds user interface configuration.
type UIConfig struct {
	// Theme is auto, light or dark. auto inspects the terminal.
	Theme string `yaml:"theme"`

	// Markdown renders lesson and reflection text through glamour
	Markdown bool `yaml:"markdown"`

	// WordWrap is the column at which rendered text wraps
	WordWrap int `yaml:"word_wrap"`
}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Theme:    ThemeAuto,
		Markdown: true,
		WordWrap: 80,
	}
}
