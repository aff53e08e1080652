// Package notifier forwards short messages to the desktop tray companion.
package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/moodcheck/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning means no live tray process owns the lockfile.
var ErrTrayNotRunning = errors.New("moodcheck-tray is not running")

type Notifier struct {
	httpClient *http.Client
}

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// endpoint is the parsed tray lockfile: "port|pid|secret".
type endpoint struct {
	port   int
	pid    int
	secret string
}

func New() *Notifier {
	return &Notifier{
		httpClient: &http.Client{Timeout: 2 * time.Second},
	}
}

func (n *Notifier) Notify(text string) error {
	dir, err := TrayConfigDir()
	if err != nil {
		return err
	}

	ep, err := readLockfile(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}
	if err := ep.validateProcess(); err != nil {
		return err
	}

	return n.send(ep, WebhookPayload{
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	})
}

// TrayConfigDir returns the directory holding the tray lockfile. The tray's
// settings.json may point it elsewhere via settings.lockfile_dir.
func TrayConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayDir, "settings.json"))
	if err != nil {
		return trayDir, nil
	}

	var settings struct {
		Settings struct {
			LockfileDir string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &settings); err == nil && settings.Settings.LockfileDir != "" {
		return settings.Settings.LockfileDir, nil
	}
	return trayDir, nil
}

func readLockfile(path string) (endpoint, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return endpoint{}, ErrTrayNotRunning
	}
	return parseLockfile(string(content))
}

func parseLockfile(content string) (endpoint, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return endpoint{}, errors.New("lockfile is malformed")
	}

	port, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return endpoint{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return endpoint{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return endpoint{}, errors.New("invalid process ID in lockfile")
	}

	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return endpoint{}, errors.New("secret in lockfile is empty")
	}

	return endpoint{port: port, pid: pid, secret: secret}, nil
}

// validateProcess guards against a stale lockfile whose PID was reused.
func (ep endpoint) validateProcess() error {
	process, err := findProcessFunc(ep.pid)
	if err != nil || process == nil {
		return ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return fmt.Errorf("process with PID %d is not %s (is %s)", ep.pid, constants.TrayExecutablePrefix, process.Executable())
	}
	return nil
}

func (n *Notifier) send(ep endpoint, payload WebhookPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("http://127.0.0.1:%d", ep.port), bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Moodcheck-Secret", ep.secret)

	res, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}
