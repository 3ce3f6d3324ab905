package notifier

import (
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

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/mitchellh/go-ps"
	"github.com/tidwall/jsonc"

	"github.com/julianstephens/lifeflow/internal/constants"
)

// Notifier delivers a single notification.
type Notifier interface {
	Notify(title, body string) error
}

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning is returned when no live tray companion can be found.
var ErrTrayNotRunning = errors.New(constants.TrayProcessPrefix + " is not running")

type WebhookPayload struct {
	Title      string `json:"title"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// Tray sends notifications to the desktop tray companion over its local
// webhook.
type Tray struct {
	dir        string
	client     *resty.Client
	maxRetries uint64
	retryDelay time.Duration
}

// NewTray creates a tray notifier. An empty dir means the tray's own
// configuration directory is used to find its lockfile.
func NewTray(dir string) *Tray {
	return &Tray{
		dir: dir,
		client: resty.New().
			SetHeader("Content-Type", "application/json").
			SetTimeout(5 * time.Second),
		maxRetries: constants.NotifyMaxRetries,
		retryDelay: constants.NotifyRetryDelay,
	}
}

func (n *Tray) Notify(title, body string) error {
	dir := n.dir
	if dir == "" {
		var err error
		dir, err = GetTrayAppConfigDir()
		if err != nil {
			return err
		}
	}

	port, secret, err := findAndValidateTrayProcess(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := WebhookPayload{
		Title:      title,
		Text:       body,
		DurationMs: constants.NotificationDurationMs,
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = n.retryDelay
	exp.Multiplier = 2
	exp.Reset()

	return backoff.Retry(func() error {
		return n.send(port, secret, payload)
	}, backoff.WithMaxRetries(exp, n.maxRetries))
}

// GetTrayAppConfigDir returns the configuration directory used by the tray
// application, honouring a custom lockfile_dir in its settings.json. The
// settings file may contain comments.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}

	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &store); err == nil {
		if store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
			return *store.Settings.LockfileDir, nil
		}
	}

	return trayConfigDir, nil
}

// findAndValidateTrayProcess reads a "port|pid|secret" lockfile and checks
// that pid belongs to a running tray process.
func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := strings.TrimSpace(parts[0])
	if port == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", ErrTrayNotRunning
	}

	if !strings.HasPrefix(process.Executable(), constants.TrayProcessPrefix) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayProcessPrefix, process.Executable())
	}

	return port, secret, nil
}

// send posts one payload. Client errors are permanent; server and transport
// errors are retried.
func (n *Tray) send(port, secret string, payload WebhookPayload) error {
	res, err := n.client.R().
		SetHeader("X-Lifeflow-Secret", secret).
		SetBody(payload).
		Post(fmt.Sprintf("http://127.0.0.1:%s", port))
	if err != nil {
		return err
	}

	if res.StatusCode() == http.StatusOK {
		return nil
	}

	err = fmt.Errorf("notification failed with status %d: %s", res.StatusCode(), res.String())
	if res.StatusCode() >= 400 && res.StatusCode() < 500 {
		return backoff.Permanent(err)
	}
	return err
}

// Writer prints notifications instead of delivering them.
type Writer struct {
	Out io.Writer
}

func (w Writer) Notify(title, body string) error {
	_, err := fmt.Fprintf(w.Out, "🔔 %s\n   %s\n", title, body)
	return err
}
