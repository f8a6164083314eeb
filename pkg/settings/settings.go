package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pocketbook/pocketbook/pkg/currency"
)

var ErrSettingsNotFound = errors.New("settings not stored yet")
var ErrInvalidSettings = errors.New("invalid settings")

// Settings are the user preferences shared by every view. They are passed
// explicitly and changes are announced through Service.Subscribe.
type Settings struct {
	DisplayName string
	Currency    string
	Language    string
}

func (s Settings) Normalize() Settings {
	return Settings{
		DisplayName: strings.TrimSpace(s.DisplayName),
		Currency:    strings.ToUpper(strings.TrimSpace(s.Currency)),
		Language:    strings.ToLower(strings.TrimSpace(s.Language)),
	}
}

func (s Settings) Validate() error {
	if !currency.Supported(s.Currency) {
		return fmt.Errorf("%w: unsupported currency %q", ErrInvalidSettings, s.Currency)
	}
	if !currency.SupportedLanguage(s.Language) {
		return fmt.Errorf("%w: unsupported language %q", ErrInvalidSettings, s.Language)
	}
	if len(s.DisplayName) > 255 {
		return fmt.Errorf("%w: display name too long", ErrInvalidSettings)
	}
	return nil
}

// Formatter returns the currency formatter matching these settings.
func (s Settings) Formatter() (currency.Formatter, error) {
	return currency.NewFormatter(s.Currency, s.Language)
}
