// package shared defines shared helpers
package shared

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// GenerateState returns a random state token for OAuth CSRF protection.
func GenerateState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeTrackKey builds the stable cache identity for a track: lowercase,
// runs of whitespace collapsed, title and artist joined with a pipe.
func NormalizeTrackKey(title, artist string) string {
	norm := func(s string) string {
		return whitespace.ReplaceAllString(strings.TrimSpace(strings.ToLower(s)), " ")
	}
	return norm(title) + "|" + norm(artist)
}

// BuildSearchQuery assembles the phrase-quoted query sent to the video search
// endpoint. Quoting both fields keeps covers and lyric videos out of the top
// results.
func BuildSearchQuery(title, artist string) string {
	return fmt.Sprintf("%q %q official music video", strings.TrimSpace(title), strings.TrimSpace(artist))
}

// Duration placeholder used when the metadata lookup fails.
const UnknownDuration = "unknown"

var isoDuration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// FormatISODuration converts an ISO-8601 video duration (PT1H2M3S) to a
// display string, 1:02:03 or 4:05. Anything unparseable becomes
// [UnknownDuration].
func FormatISODuration(iso string) string {
	m := isoDuration.FindStringSubmatch(iso)
	if m == nil {
		return UnknownDuration
	}

	atoi := func(s string) int {
		if s == "" {
			return 0
		}
		n, _ := strconv.Atoi(s)
		return n
	}

	hours, minutes, seconds := atoi(m[1]), atoi(m[2]), atoi(m[3])
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

var playlistParam = regexp.MustCompile(`[?&]list=([^&]+)`)

// ExtractPlaylistID accepts either a bare playlist ID or any YouTube URL
// carrying a list= parameter and returns the ID.
func ExtractPlaylistID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty playlist reference", ErrInvalidArgument)
	}
	if !strings.Contains(s, "/") && !strings.Contains(s, "=") {
		return s, nil
	}
	if m := playlistParam.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w: no list= parameter in %q", ErrInvalidArgument, s)
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
