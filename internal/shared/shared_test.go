package shared

import (
	"errors"
	"testing"
)

func TestNormalizeTrackKey(t *testing.T) {
	tc := []struct {
		name   string
		title  string
		artist string
		want   string
	}{
		{
			name:   "basic normalization",
			title:  "Song Title",
			artist: "Artist Name",
			want:   "song title|artist name",
		},
		{
			name:   "extra whitespace",
			title:  "  Song   Title  ",
			artist: "  Artist   Name  ",
			want:   "song title|artist name",
		},
		{
			name:   "mixed case",
			title:  "SoNg TiTlE",
			artist: "ArTiSt NaMe",
			want:   "song title|artist name",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTrackKey(tt.title, tt.artist)
			if got != tt.want {
				t.Errorf("normalizeTrackKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildSearchQuery(t *testing.T) {
	got := BuildSearchQuery("Bohemian Rhapsody", "Queen")
	want := `"Bohemian Rhapsody" "Queen" official music video`
	if got != want {
		t.Errorf("BuildSearchQuery() = %v, want %v", got, want)
	}
}

func TestFormatISODuration(t *testing.T) {
	tc := []struct {
		name string
		iso  string
		want string
	}{
		{name: "minutes and seconds", iso: "PT3M42S", want: "3:42"},
		{name: "with hours", iso: "PT1H2M3S", want: "1:02:03"},
		{name: "seconds only", iso: "PT45S", want: "0:45"},
		{name: "minutes only", iso: "PT4M", want: "4:00"},
		{name: "zero pads under hours", iso: "PT1H5S", want: "1:00:05"},
		{name: "empty", iso: "", want: UnknownDuration},
		{name: "garbage", iso: "1:02:03", want: UnknownDuration},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatISODuration(tt.iso); got != tt.want {
				t.Errorf("FormatISODuration(%q) = %v, want %v", tt.iso, got, tt.want)
			}
		})
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tc := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "bare id", in: "PLabc123", want: "PLabc123"},
		{name: "watch url", in: "https://www.youtube.com/watch?v=xyz&list=PLabc123", want: "PLabc123"},
		{name: "playlist url", in: "https://www.youtube.com/playlist?list=PLabc123", want: "PLabc123"},
		{name: "url without list", in: "https://www.youtube.com/watch?v=xyz", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractPlaylistID(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractPlaylistID(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tc := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "server error", err: &APIError{StatusCode: 503, Message: "backend"}, want: true},
		{name: "client error", err: &APIError{StatusCode: 400, Message: "bad request"}, want: false},
		{name: "quota sentinel", err: ErrQuotaExceeded, want: false},
		{name: "wrapped quota", err: errors.Join(errors.New("adding item"), ErrQuotaExceeded), want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
