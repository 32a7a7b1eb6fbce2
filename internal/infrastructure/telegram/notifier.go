package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bidwatch/backend/internal/domain"
)

const defaultAPIBase = "https://api.telegram.org"

// Notifier delivers bid alerts via the telegram bot API
type Notifier struct {
	httpClient *http.Client
	apiBase    string
	token      string
	chatID     string
	threshold  int
}

// NewNotifier creates a telegram notifier for one bot/chat pair
func NewNotifier(token, chatID string, threshold int) *Notifier {
	return &Notifier{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiBase:   defaultAPIBase,
		token:     token,
		chatID:    chatID,
		threshold: threshold,
	}
}

// SetAPIBase overrides the telegram API base URL (used in tests)
func (n *Notifier) SetAPIBase(base string) {
	n.apiBase = base
}

// NotifyBid sends one alert message for a newly stored bid
func (n *Notifier) NotifyBid(ctx context.Context, bid domain.ScoredBid) error {
	return n.send(ctx, formatBidMessage(bid))
}

// NotifySummary sends the end-of-run summary message
func (n *Notifier) NotifySummary(ctx context.Context, newCount, sentCount int) error {
	msg := fmt.Sprintf(
		"📊 <b>입찰공고 수집 완료</b>\n\n🆕 신규: %d개\n📢 알림: %d개 (점수 %d+)\n🕐 수집시간: %s",
		newCount, sentCount, n.threshold, time.Now().Format("01/02 15:04"),
	)
	return n.send(ctx, msg)
}

// send posts one sendMessage call. A non-200 response is an
// ErrNotificationFailed the caller is expected to log and swallow; delivery
// never affects persisted state.
func (n *Notifier) send(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id":    n.chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.token)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", domain.ErrNotificationFailed, resp.StatusCode)
	}
	return nil
}

// formatBidMessage renders the per-bid alert in telegram HTML
func formatBidMessage(bid domain.ScoredBid) string {
	title := truncateRunes(bid.Title, 50)
	if title != bid.Title {
		title += "..."
	}

	budget := "미정"
	if bid.Budget != nil {
		budget = formatAmount(*bid.Budget) + "원"
	}

	closing := "미정"
	if bid.BidCloseDt != "" {
		closing = truncateRunes(bid.BidCloseDt, 16)
	}

	keywords := "-"
	if len(bid.MatchedKeywords) > 0 {
		keywords = strings.Join(bid.MatchedKeywords, ", ")
	}

	link := bid.URL
	if link == "" {
		link = "#"
	}

	org := bid.Org
	if org == "" {
		org = "-"
	}

	return fmt.Sprintf(
		"📢 <b>새 입찰공고</b>\n\n📌 <b>%s</b>\n\n🏛 발주기관: %s\n💰 추정가: %s\n⏰ 마감: %s\n🎯 매칭키워드: %s\n\n🔗 <a href=\"%s\">공고 바로가기</a>",
		title, org, budget, closing, keywords, link,
	)
}

// truncateRunes cuts a string to at most n runes
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// formatAmount renders a budget with thousand separators, dropping fractions
func formatAmount(v float64) string {
	s := fmt.Sprintf("%.0f", v)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}
