// Package notifications posts run summaries to a Slack-compatible webhook.
package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/K0NGR3SS/fraudprobe/internal/models"
	"github.com/K0NGR3SS/fraudprobe/internal/report"
)

const (
	username     = "fraudprobe"
	maxTypeLines = 6
)

type WebhookNotifier struct {
	WebhookURL string
	Channel    string
	client     *http.Client
}

type slackMessage struct {
	Channel     string            `json:"channel,omitempty"`
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji"`
	Text        string            `json:"text"`
	Attachments []slackAttachment `json:"attachments,omitempty"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text,omitempty"`
	Fields []slackField `json:"fields,omitempty"`
	Footer string       `json:"footer,omitempty"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

func NewWebhookNotifier(webhookURL, channel string) *WebhookNotifier {
	return &WebhookNotifier{
		WebhookURL: webhookURL,
		Channel:    channel,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// SendSummary posts s. Runs where some type succeeded are flagged as a
// warning, runs where nothing flipped the classifier as good.
func (n *WebhookNotifier) SendSummary(ctx context.Context, s *report.Summary) error {
	if s.Best == "" {
		return n.send(ctx, slackMessage{
			Channel:   n.Channel,
			Username:  username,
			IconEmoji: ":white_check_mark:",
			Text: fmt.Sprintf("✅ *%s complete*\nNo perturbation flipped the classifier across %d samples.",
				s.Experiment, s.TotalSamples),
		})
	}

	attachments := []slackAttachment{
		{
			Color: "warning",
			Title: fmt.Sprintf("Summary (%d samples)", s.TotalSamples),
			Fields: []slackField{
				{Title: "Baseline accuracy", Value: fmt.Sprintf("%.4f", s.BaselineAccuracy), Short: true},
				{Title: "Vulnerable samples", Value: fmt.Sprintf("%d", s.VulnerableSamples), Short: true},
				{Title: "Best method", Value: string(s.Best), Short: true},
				{Title: "Best success rate", Value: fmt.Sprintf("%.2f%%", s.BestRate*100), Short: true},
			},
			Footer: "run " + s.RunID,
		},
	}

	successful := filterSuccessful(s.Stats)
	if len(successful) > 0 {
		var b strings.Builder
		for i, st := range successful {
			if i >= maxTypeLines {
				fmt.Fprintf(&b, "\n_...and %d more_", len(successful)-maxTypeLines)
				break
			}
			fmt.Fprintf(&b, "• *%s* %d/%d succeeded (avg similarity %.3f)\n",
				st.Type, st.Successes, st.Total, st.AvgSimilarity)
		}
		attachments = append(attachments, slackAttachment{
			Color: "danger",
			Title: "Successful perturbations",
			Text:  b.String(),
		})
	}

	return n.send(ctx, slackMessage{
		Channel:     n.Channel,
		Username:    username,
		IconEmoji:   ":rotating_light:",
		Text:        fmt.Sprintf("🚨 *%s complete*\nBest attack: *%s*", s.Experiment, s.Best),
		Attachments: attachments,
	})
}

func (n *WebhookNotifier) send(ctx context.Context, msg slackMessage) error {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return eris.Wrap(err, "notifications: marshal message")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.WebhookURL, bytes.NewReader(jsonData))
	if err != nil {
		return eris.Wrap(err, "notifications: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "notifications: send message")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("notifications: webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func filterSuccessful(stats []models.TypeStats) []models.TypeStats {
	var filtered []models.TypeStats
	for _, st := range stats {
		if st.Successes > 0 {
			filtered = append(filtered, st)
		}
	}
	return filtered
}
