package telegram

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NewsDesk/internal/content"
	"NewsDesk/internal/domain"
	"NewsDesk/internal/ports"
)

const (
	defaultAPIBase = "https://api.telegram.org"
	excerptLength  = 280
)

// Notifier announces published articles to a Telegram chat via bot API.
type Notifier struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// WithAPIBase points the notifier at another Bot API host.
func (n *Notifier) WithAPIBase(base string) *Notifier {
	n.apiBase = strings.TrimRight(base, "/")
	return n
}

// AnnouncePublished posts the title, headline and an excerpt of the body.
func (n *Notifier) AnnouncePublished(ctx context.Context, article domain.Article) error {
	return n.send(ctx, FormatAnnouncement(article))
}

// FormatAnnouncement renders the Telegram HTML message for an article.
func FormatAnnouncement(article domain.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", html.EscapeString(article.Title))
	fmt.Fprintf(&b, "<i>%s</i>", html.EscapeString(article.Headline))
	if excerpt := content.Excerpt(article.Body, excerptLength); excerpt != "" {
		fmt.Fprintf(&b, "\n\n%s", html.EscapeString(excerpt))
	}
	if article.Source != "" {
		fmt.Fprintf(&b, "\n\nSource: %s", html.EscapeString(article.Source))
	}
	return b.String()
}

func (n *Notifier) send(ctx context.Context, text string) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "HTML")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}
