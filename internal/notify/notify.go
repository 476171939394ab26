package notify

import (
	"os/exec"
	"strconv"
	"time"
)

// Urgency levels for desktop notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string
}

// Notifier delivers desktop notifications and alert sounds. Delivery is
// fire-and-forget: failures are swallowed, core behavior never depends on
// it.
type Notifier struct {
	enabled bool
	sound   bool
}

// NewNotifier creates a new notifier
func NewNotifier() *Notifier {
	return &Notifier{enabled: true, sound: true}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.enabled {
		return nil
	}

	args := []string{}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "focusdo")

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}

	cmd := exec.Command("notify-send", args...)
	return cmd.Run()
}

// PlayAlertSound plays the warning chime. Tries the common players in
// order; silently gives up if none exists.
func (n *Notifier) PlayAlertSound() {
	if !n.sound {
		return
	}
	players := [][]string{
		{"paplay", "/usr/share/sounds/freedesktop/stereo/complete.oga"},
		{"aplay", "-q", "/usr/share/sounds/alsa/Front_Center.wav"},
	}
	for _, p := range players {
		if err := exec.Command(p[0], p[1:]...).Run(); err == nil {
			return
		}
	}
}

// SendPhaseComplete announces a finished timer phase.
func (n *Notifier) SendPhaseComplete(phase string, next string) error {
	n.PlayAlertSound()
	return n.Send(Notification{
		Title:   phase + " complete!",
		Body:    "Up next: " + next,
		Urgency: UrgencyNormal,
		Timeout: 10 * time.Second,
		Icon:    "alarm-symbolic",
	})
}

// SendTimeWarning announces a threshold warning (5 or 1 minutes left).
func (n *Notifier) SendTimeWarning(title, body string) error {
	n.PlayAlertSound()
	return n.Send(Notification{
		Title:   title,
		Body:    body,
		Urgency: UrgencyNormal,
		Timeout: 10 * time.Second,
		Icon:    "appointment-soon-symbolic",
	})
}
