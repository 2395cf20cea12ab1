package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spigell/skillbridge/internal/utils"
)

// ErrNotConfigured is returned when a source yields no usable secret.
var ErrNotConfigured = errors.New("secret is not configured")

// Source describes where an API key may come from. File wins over Value.
type Source struct {
	// Name is used in error messages, e.g. "gemini api key".
	Name  string
	Value string
	File  string
	// Hint tells the user how to configure the secret.
	Hint string
}

// Load resolves the trimmed secret of src.
func Load(src Source) (string, error) {
	name := utils.FirstNonEmpty(src.Name, "secret")

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}

		if secret := strings.TrimSpace(string(data)); secret != "" {
			return secret, nil
		}
		return "", src.missing(fmt.Sprintf("%s file %q is empty", name, file))
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	return "", src.missing(name)
}

func (src Source) missing(what string) error {
	if hint := strings.TrimSpace(src.Hint); hint != "" {
		return fmt.Errorf("%w: %s (%s)", ErrNotConfigured, what, hint)
	}
	return fmt.Errorf("%w: %s", ErrNotConfigured, what)
}
