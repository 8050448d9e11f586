package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Buffers are not TTYs, so bar tests exercise the quiet non-interactive
// path: nothing is written until the bar completes.

func TestProgressBar_QuietUntilDone(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(4, "Fetching keyword details")
	p.SetWriter(buf)

	p.Increment()
	p.Increment()
	p.Increment()

	if buf.Len() != 0 {
		t.Errorf("Non-TTY bar should stay quiet before completion, got: %q", buf.String())
	}

	p.Increment()
	output := buf.String()

	if !strings.Contains(output, "[") || !strings.Contains(output, "]") {
		t.Errorf("Completed bar should contain brackets, got: %q", output)
	}
	if !strings.Contains(output, "4/4") {
		t.Errorf("Completed bar should show the full count, got: %q", output)
	}
	if !strings.Contains(output, "Fetching keyword details") {
		t.Errorf("Completed bar should contain the label, got: %q", output)
	}
	if strings.Count(output, "\n") != 1 {
		t.Errorf("Completed bar should emit exactly one line, got: %q", output)
	}
}

func TestProgressBar_Finish(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(10, "Fetching scans")
	p.SetWriter(buf)

	p.SetCurrent(7)
	p.Finish()
	output := buf.String()

	if !strings.Contains(output, "10/10") {
		t.Errorf("Finish() should complete the count, got: %q", output)
	}
	if strings.Count(output, "10/10") != 1 {
		t.Errorf("Finish() should emit a single completion line, got: %q", output)
	}
}

func TestProgressBar_FinishAfterComplete(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(2, "Fetching")
	p.SetWriter(buf)

	p.Increment()
	p.Increment() // emits the completion line
	p.Finish()    // must not duplicate it

	output := buf.String()
	if strings.Count(output, "2/2") != 1 {
		t.Errorf("Finish() after completion should not duplicate output, got: %q", output)
	}
}

func TestProgressBar_CapsAtTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(10, "Capped")
	p.SetWriter(buf)

	p.SetCurrent(25)
	output := buf.String()

	if !strings.Contains(output, "10/10") {
		t.Errorf("Progress should cap at the total, got: %q", output)
	}
}

func TestProgressBar_ZeroTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(0, "Empty")
	p.SetWriter(buf)

	// Should not panic with zero total
	p.Increment()
	p.Finish()
	output := buf.String()

	if !strings.Contains(output, "[") || !strings.Contains(output, "]") {
		t.Errorf("Progress bar with zero total should still render, got: %q", output)
	}
}

func TestProgressBar_Width(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(100, "Width check")
	p.SetWriter(buf)
	p.SetWidth(20)

	p.SetCurrent(100)
	output := buf.String()

	// Count the characters between [ and ]
	start := strings.Index(output, "[")
	end := strings.Index(output, "]")

	if start == -1 || end == -1 {
		t.Fatalf("Could not find brackets in output: %q", output)
	}

	barContent := output[start+1 : end]
	if len(barContent) != 20 {
		t.Errorf("Progress bar width should be 20, got %d: %q", len(barContent), barContent)
	}
	if barContent != strings.Repeat("=", 20) {
		t.Errorf("Completed bar should be fully filled, got: %q", barContent)
	}
}

// TestProgressBar_Concurrent tests thread safety
func TestProgressBar_Concurrent(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(1000, "Concurrent test")
	p.SetWriter(buf)

	// Launch multiple goroutines incrementing concurrently
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				p.Increment()
			}
			done <- struct{}{}
		}()
	}

	// Wait for all goroutines
	for i := 0; i < 10; i++ {
		<-done
	}

	output := buf.String()
	if !strings.Contains(output, "1000/1000") {
		t.Errorf("After concurrent increments, should reach the total, got: %q", output)
	}
}

func TestSpinner_NonTTYPrintsOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Fetching scans")
	s.SetWriter(buf)

	s.Start()
	s.Stop()

	output := buf.String()
	if output != "Fetching scans...\n" {
		t.Errorf("Non-TTY spinner should print the message once, got: %q", output)
	}
}

func TestSpinner_StartTwice(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Working")
	s.SetWriter(buf)

	s.Start()
	s.Start() // no-op while running

	if got := strings.Count(buf.String(), "Working"); got != 1 {
		t.Errorf("Second Start() should be a no-op, message appeared %d times", got)
	}

	s.Stop()
}

func TestSpinner_MultipleStops(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Test")
	s.SetWriter(buf)

	s.Start()

	// Multiple stops should not panic
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinner_StopWithMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Working")
	s.SetWriter(buf)

	s.Start()
	s.StopWithMessage("Done: 48 scans fetched")

	output := buf.String()
	if !strings.Contains(output, "Done: 48 scans fetched") {
		t.Errorf("Spinner should contain final message, got: %q", output)
	}
}

func TestSpinner_UpdateMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Initial")
	s.SetWriter(buf)

	s.UpdateMessage("Updated")

	s.mu.Lock()
	got := s.message
	s.mu.Unlock()

	if got != "Updated" {
		t.Errorf("UpdateMessage() message = %q, want %q", got, "Updated")
	}
}

func TestSpinner_WithElapsedFormatsMessage(t *testing.T) {
	s := NewSpinner("Fetching").WithElapsed()

	s.mu.Lock()
	msg := s.formatMessage()
	s.mu.Unlock()

	if !strings.Contains(msg, "Fetching (") || !strings.Contains(msg, "elapsed)") {
		t.Errorf("formatMessage() with elapsed = %q, want elapsed suffix", msg)
	}
}

func TestWriterIsTTY(t *testing.T) {
	if writerIsTTY(&bytes.Buffer{}) {
		t.Error("writerIsTTY() should be false for a buffer")
	}

	// A regular file has an Fd() but is not a terminal
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if writerIsTTY(f) {
		t.Error("writerIsTTY() should be false for a regular file")
	}
}
