// Package testutil records upstream HTTP traffic and replays it in tests.
package testutil

import (
	"net/http"
	"path/filepath"
	"testing"

	"gopkg.in/dnaeon/go-vcr.v2/cassette"
	"gopkg.in/dnaeon/go-vcr.v2/recorder"
)

// NewVCRRecorder creates a recorder for the cassette at path (without the
// .yaml suffix). Interactions match on method and URL only; Authorization
// headers are never written to a cassette.
func NewVCRRecorder(t *testing.T, path string, mode recorder.Mode) (*recorder.Recorder, func()) {
	t.Helper()

	r, err := recorder.NewAsMode(path, mode, nil)
	if err != nil {
		t.Fatalf("Failed to create VCR recorder: %v", err)
	}

	r.SetMatcher(func(r *http.Request, i cassette.Request) bool {
		return r.Method == i.Method && r.URL.String() == i.URL
	})
	r.AddFilter(func(i *cassette.Interaction) error {
		delete(i.Request.Headers, "Authorization")
		return nil
	})

	stopped := false
	stop := func() {
		if stopped {
			return
		}
		stopped = true
		if err := r.Stop(); err != nil {
			t.Errorf("Failed to stop VCR recorder: %v", err)
		}
	}
	return r, stop
}

// VCRHTTPClient returns an HTTP client that goes through r.
func VCRHTTPClient(r *recorder.Recorder) *http.Client {
	return &http.Client{Transport: r}
}

// RecordThenReplay runs exercise against live servers while recording a
// cassette, then returns a client that replays it with no network access.
func RecordThenReplay(t *testing.T, name string, exercise func(*http.Client)) *http.Client {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)

	rec, stop := NewVCRRecorder(t, path, recorder.ModeRecording)
	exercise(VCRHTTPClient(rec))
	stop()

	replay, stopReplay := NewVCRRecorder(t, path, recorder.ModeReplaying)
	t.Cleanup(stopReplay)
	return VCRHTTPClient(replay)
}
