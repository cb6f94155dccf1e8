package model

const (
	DefaultGameMode = "normal"
	DefaultPalette  = "rainbow"
)

// Settings is race configuration consumed by clients. The server never
// interprets it beyond substituting defaults.
type Settings struct {
	GameMode       string `json:"gameMode"`
	Palette        string `json:"palette"`
	UniqueColors   bool   `json:"uniqueColors"`
	UseAccessories bool   `json:"useAccessories"`
}

// DefaultSettings returns the settings a new room starts with
func DefaultSettings() Settings {
	return Settings{
		GameMode:       DefaultGameMode,
		Palette:        DefaultPalette,
		UniqueColors:   true,
		UseAccessories: false,
	}
}

// SettingsInput carries the host's requested settings. Nil or empty fields
// were not supplied (or had the wrong type) and take their default.
type SettingsInput struct {
	GameMode       string
	Palette        string
	UniqueColors   *bool
	UseAccessories *bool
}

// Normalize applies the default-substitution table:
//
//	gameMode        empty           -> "normal"
//	palette         empty           -> "rainbow"
//	uniqueColors    anything but false -> true
//	useAccessories  anything but true  -> false
func (in SettingsInput) Normalize() Settings {
	s := DefaultSettings()
	if in.GameMode != "" {
		s.GameMode = in.GameMode
	}
	if in.Palette != "" {
		s.Palette = in.Palette
	}
	if in.UniqueColors != nil && !*in.UniqueColors {
		s.UniqueColors = false
	}
	if in.UseAccessories != nil && *in.UseAccessories {
		s.UseAccessories = true
	}
	return s
}
