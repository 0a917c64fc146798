package notify

import (
	"fmt"
	"strings"

	model "github.com/easonliu714/ShowNews/internal/domain/model"
	types "github.com/easonliu714/ShowNews/internal/domain/types"
)

// Message size and layout constants.
const (
	maxMessageRunes = 4096 // Telegram hard limit per message
	headLineCount   = 6    // lines kept when a message must be cut

	headerInit = "🔄 首輪測試活動"
	headerNew  = "🆕 新增活動通知"

	downgradedLine = "⚠️ 詳頁資訊受限，請點擊連結查看"
	linkLabel      = "點我查看詳情"
)

// Format renders one event as a MarkdownV2 message. The first pass
// against an empty store uses the test header so subscribers can tell
// a backfill from genuinely new events.
func Format(ev model.Event, isInit bool) string {
	header := headerNew
	if isInit {
		header = headerInit
	}

	lines := []string{
		header,
		"🎫 " + EscapeMarkdownV2(ev.Title),
		"📍 類型：" + EscapeMarkdownV2(ev.Category),
		"📅 日期：" + EscapeMarkdownV2(ev.Date),
		"🗺 地點：" + EscapeMarkdownV2(ev.Location),
		"🧾 平台：" + EscapeMarkdownV2(ev.Platform),
	}
	if ev.Description != "" {
		lines = append(lines, "📝 "+EscapeMarkdownV2(ev.Description))
	}
	if ev.Downgraded() {
		lines = append(lines, downgradedLine)
	}

	link := fmt.Sprintf("\n📌 [%s](%s)", linkLabel, EscapeURL(ev.URL))

	text := strings.Join(lines, "\n") + "\n" + link
	if len([]rune(text)) <= maxMessageRunes {
		return text
	}

	// Too long: keep the head lines and always keep the link.
	head := lines
	if len(head) > headLineCount {
		head = head[:headLineCount]
	}
	return strings.Join(head, "\n") + "\n" + link
}

// FormatSummary renders the end-of-pass digest message.
func FormatSummary(sum types.Summary) string {
	status := "✅ 成功"
	if !sum.Success {
		status = "⚠️ 部分失敗"
	}
	lines := []string{
		"📊 檢查完成",
		"狀態：" + status,
		fmt.Sprintf("🆕 新活動：%d", sum.NewCount),
		fmt.Sprintf("📨 發送成功：%d", sum.SentCount),
		fmt.Sprintf("❌ 發送失敗：%d", sum.FailedCount),
	}
	for _, title := range sum.NewTitles {
		lines = append(lines, "・"+title)
	}
	return EscapeMarkdownV2(strings.Join(lines, "\n"))
}
