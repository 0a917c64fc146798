package notify_test

import (
	"strings"
	"testing"

	notify "github.com/easonliu714/ShowNews/internal/adapters/notify"
	model "github.com/easonliu714/ShowNews/internal/domain/model"
	types "github.com/easonliu714/ShowNews/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func enrichedEvent() model.Event {
	ev := model.NewEvent("五月天 2025 跨年演唱會", "https://tixcraft.com/activity/detail/25_mayday", "拓元售票", "音樂會/演唱會")
	ev.Date = "2025/12/31"
	ev.Location = "台北大巨蛋"
	ev.Description = "五月天跨年演唱會盛大開唱"
	return ev
}

func TestEscapeMarkdownV2(t *testing.T) {
	Convey("Given text containing every reserved character", t, func() {
		in := "a_b*c[d]e(f)g~h`i>j#k+l-m=n|o{p}q.r!s"

		out := notify.EscapeMarkdownV2(in)

		Convey("Then each reserved character should be backslash escaped", func() {
			So(out, ShouldEqual, `a\_b\*c\[d\]e\(f\)g\~h\`+"`"+`i\>j\#k\+l\-m\=n\|o\{p\}q\.r\!s`)
		})

		Convey("Then plain text should pass through untouched", func() {
			So(notify.EscapeMarkdownV2("五月天演唱會 2025"), ShouldEqual, "五月天演唱會 2025")
		})
	})
}

func TestFormat(t *testing.T) {
	Convey("Given a fully enriched event", t, func() {
		text := notify.Format(enrichedEvent(), false)

		Convey("Then the lines should appear in fixed order", func() {
			lines := strings.Split(text, "\n")
			So(lines[0], ShouldEqual, "🆕 新增活動通知")
			So(lines[1], ShouldStartWith, "🎫 ")
			So(lines[2], ShouldStartWith, "📍 類型：")
			So(lines[3], ShouldStartWith, "📅 日期：")
			So(lines[4], ShouldStartWith, "🗺 地點：")
			So(lines[5], ShouldStartWith, "🧾 平台：")
		})

		Convey("Then the link line should close the message", func() {
			So(text, ShouldEndWith, "📌 [點我查看詳情](https://tixcraft.com/activity/detail/25_mayday)")
		})

		Convey("Then field text should be escaped", func() {
			So(text, ShouldContainSubstring, `2025/12/31`)
			So(text, ShouldContainSubstring, `音樂會/演唱會`)
		})

		Convey("Then no downgraded warning should appear", func() {
			So(text, ShouldNotContainSubstring, "⚠️")
		})
	})

	Convey("Given the first pass against an empty store", t, func() {
		text := notify.Format(enrichedEvent(), true)

		Convey("Then the test header should be used", func() {
			So(strings.HasPrefix(text, "🔄 首輪測試活動"), ShouldBeTrue)
		})
	})

	Convey("Given an event whose enrichment was downgraded", t, func() {
		ev := model.NewEvent("神秘活動售票中", "https://kktix.cc/events/x", "KKTIX", "其他")

		text := notify.Format(ev, false)

		Convey("Then the warning line should appear before the link", func() {
			So(text, ShouldContainSubstring, "⚠️ 詳頁資訊受限，請點擊連結查看")
			So(text, ShouldContainSubstring, model.Placeholder)
		})
	})

	Convey("Given an event that renders past the message limit", t, func() {
		ev := enrichedEvent()
		ev.Description = strings.Repeat("很長的介紹內容", 600)

		text := notify.Format(ev, false)

		Convey("Then the message should be cut to the head lines plus the link", func() {
			So(len([]rune(text)), ShouldBeLessThanOrEqualTo, 4096)
			So(text, ShouldNotContainSubstring, "📝")
			So(strings.Count(text, "\n"), ShouldEqual, 7)
			So(text, ShouldEndWith, "📌 [點我查看詳情](https://tixcraft.com/activity/detail/25_mayday)")
		})
	})
}

func TestFormatSummary(t *testing.T) {
	Convey("Given a pass summary", t, func() {
		sum := types.Summary{
			Success:     true,
			NewCount:    2,
			SentCount:   2,
			FailedCount: 0,
			NewTitles:   []string{"五月天演唱會", "夏日音樂節"},
		}

		text := notify.FormatSummary(sum)

		Convey("Then counts and titles should be present and escaped", func() {
			So(text, ShouldContainSubstring, "📊 檢查完成")
			So(text, ShouldContainSubstring, "🆕 新活動：2")
			So(text, ShouldContainSubstring, "五月天演唱會")
			So(text, ShouldNotContainSubstring, "!")
		})
	})
}
