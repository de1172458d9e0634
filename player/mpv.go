package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/zantaku/Zantaku-sub000/chapter"
	"github.com/zantaku/Zantaku-sub000/constant"
	"github.com/zantaku/Zantaku-sub000/log"
	"github.com/zantaku/Zantaku-sub000/where"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	eventBuffer       = 256
	quitTimeout       = 3 * time.Second
)

// MPV implements Engine on top of mpv's JSON-IPC protocol.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	events     chan Event
	listener   *eventListener
	mu         sync.Mutex // serializes IPC commands
}

// NewMPV creates an engine; mpv is spawned by the first Load.
func NewMPV() *MPV {
	return &MPV{
		events: make(chan Event, eventBuffer),
	}
}

func (m *MPV) Events() <-chan Event {
	return m.events
}

// Load starts playback of src. A running mpv instance is reused through loadfile.
func (m *MPV) Load(src MediaSource, title string) error {
	target, err := sanitizeMediaTarget(src.URI)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	if !m.running() {
		return m.spawn(target, src.Headers, title)
	}

	if err := m.set("http-header-fields", headerList(src.Headers)); err != nil {
		return err
	}

	if err := m.set("force-media-title", sanitizeTitle(title)); err != nil {
		return err
	}

	_, err = m.sendCommand("loadfile", target, "replace")
	return err
}

func (m *MPV) spawn(target string, headers map[string]string, title string) error {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("%s-%x.sock", constant.Zantaku, randomBytes))

	m.cmd = exec.Command("mpv", buildArgs(m.socketPath, target, headers, title)...)

	m.cmd.SysProcAttr = detachedAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	m.exited = make(chan struct{})
	go func(cmd *exec.Cmd, exited chan struct{}) {
		_ = cmd.Wait()
		close(exited)
	}(m.cmd, m.exited)

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = terminate(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	listener, err := startEventListener(m.socketPath, m.events)
	if err != nil {
		_ = terminate(m.cmd)
		return err
	}
	m.listener = listener

	return nil
}

// buildArgs passes only what the engine needs to be driven; the user's mpv.conf stays in charge
// of video output and decoding.
func buildArgs(socketPath, target string, headers map[string]string, title string) []string {
	safeTitle := sanitizeTitle(title)

	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
		fmt.Sprintf("--force-media-title=%s", safeTitle),
		fmt.Sprintf("--title=%s", safeTitle),
		"--force-window=yes",
		"--idle=yes",
		"--keep-open=yes",
	}

	if fields := headerList(headers); len(fields) > 0 {
		escaped := lo.Map(fields, func(f string, _ int) string {
			return strings.ReplaceAll(f, ",", "%2C")
		})
		args = append(args, fmt.Sprintf("--http-header-fields=%s", strings.Join(escaped, ",")))
	}

	return append(args, "--", target)
}

// headerList renders headers as sorted "Key: Value" entries.
func headerList(headers map[string]string) []string {
	fields := make([]string, 0, len(headers))
	for k, v := range headers {
		fields = append(fields, fmt.Sprintf("%s: %s", k, v))
	}
	sort.Strings(fields)
	return fields
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			_ = conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

func (m *MPV) running() bool {
	if m.socketPath == "" || m.exited == nil {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
		return true
	}
}

func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand("seek", seconds, "absolute")
	return err
}

func (m *MPV) SetPaused(paused bool) error {
	return m.set("pause", paused)
}

func (m *MPV) SetSpeed(speed float64) error {
	return m.set("speed", speed)
}

// SetChapters replaces mpv's chapter-list so the markers show on its timeline.
func (m *MPV) SetChapters(chapters []chapter.Chapter) error {
	return m.set("chapter-list", chapterList(chapters))
}

func chapterList(chapters []chapter.Chapter) []map[string]any {
	return lo.Map(chapters, func(c chapter.Chapter, _ int) map[string]any {
		return map[string]any{
			"title": c.Title,
			"time":  c.Start,
		}
	})
}

func (m *MPV) set(property string, value any) error {
	_, err := m.sendCommand("set_property", property, value)
	return err
}

// Close shuts down mpv and removes its socket.
func (m *MPV) Close() error {
	if m.socketPath == "" {
		return nil
	}

	if m.listener != nil {
		m.listener.stop()
		m.listener = nil
	}

	if m.running() {
		_, _ = m.sendCommand("quit")

		select {
		case <-m.exited:
		case <-time.After(quitTimeout):
			_ = terminate(m.cmd)
		}
	}

	_ = os.Remove(m.socketPath)
	m.socketPath = ""

	return nil
}

// sanitizeMediaTarget validates that a target is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		case "file":
			return filepath.Clean(u.Path), nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
