package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/lingo/internal/core/styles"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration,
// reporting every problem as a field error. The configPath argument
// specifies the config file location to validate (empty string skips the
// config file check).
func (c *Config) ValidateDeep(configPath string) error {
	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateBackend(),
		c.validatePoll(),
		c.validateTUI(),
		c.validateDevServer(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Backend.Timeout == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Backend",
			Item:     "backend.timeout",
			Message:  "no request timeout; a hung server blocks polling",
		})
	}
	if c.Backend.Timeout > 0 && c.Backend.Timeout > 30*time.Second {
		warnings = append(warnings, ValidationWarning{
			Category: "Backend",
			Item:     "backend.timeout",
			Message:  "timeout is much longer than the 1s poll interval",
		})
	}
	if c.Backend.RowLimit > 10000 {
		warnings = append(warnings, ValidationWarning{
			Category: "Backend",
			Item:     "backend.row_limit",
			Message:  "large row limits make every progress refresh slow",
		})
	}

	return warnings
}

func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return errors.New("cannot be empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

func (c *Config) validateBackend() error {
	return criterio.ValidateStruct(
		criterio.Run("backend.url", c.Backend.URL, httpURL),
		criterio.Run("backend.timeout", c.Backend.Timeout, nonNegative),
		criterio.Run("backend.row_limit", c.Backend.RowLimit, atLeastOne),
	)
}

func (c *Config) validatePoll() error {
	return criterio.Run("poll.max_failures", c.Poll.MaxFailures, atLeastOne)
}

func (c *Config) validateTUI() error {
	return criterio.ValidateStruct(
		criterio.Run("tui.theme", c.TUI.Theme, knownTheme),
		criterio.Run("tui.search_debounce", c.TUI.SearchDebounce, nonNegative),
	)
}

func (c *Config) validateDevServer() error {
	var errs criterio.FieldErrorsBuilder

	if _, _, err := net.SplitHostPort(c.DevServer.Addr); err != nil {
		errs = errs.Append("dev_server.addr", fmt.Errorf("invalid listen address %q: %w", c.DevServer.Addr, err))
	}
	if err := nonNegative(c.DevServer.ItemDelay); err != nil {
		errs = errs.Append("dev_server.item_delay", err)
	}
	if err := atLeastOne(c.DevServer.Rows); err != nil {
		errs = errs.Append("dev_server.rows", err)
	}
	if strings.ContainsAny(c.DevServer.DatasetID, "/?#") {
		errs = errs.Append("dev_server.dataset_id", fmt.Errorf("must not contain URL delimiters"))
	}

	return errs.ToError()
}

func httpURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

func nonNegative(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("must not be negative, got %s", d)
	}
	return nil
}

func atLeastOne(n int) error {
	if n < 1 {
		return fmt.Errorf("must be at least 1, got %d", n)
	}
	return nil
}

func knownTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}
