package views

import (
	"testing"
	"time"
)

func TestParseDraftLine(t *testing.T) {
	now := time.Date(2026, 3, 11, 10, 0, 0, 0, time.Local)

	title, due := parseDraftLine("Write weekly report due:friday", now)
	if title != "Write weekly report" {
		t.Errorf("title = %q", title)
	}
	if due == nil || due.Day() != 13 {
		t.Errorf("due = %v, want Friday the 13th", due)
	}

	title, due = parseDraftLine("No deadline here", now)
	if title != "No deadline here" || due != nil {
		t.Errorf("parsed %q, %v", title, due)
	}

	// An unparseable date token stays in the title.
	title, due = parseDraftLine("Ship due:eventually", now)
	if title != "Ship due:eventually" || due != nil {
		t.Errorf("parsed %q, %v", title, due)
	}
}
