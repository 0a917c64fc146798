package profile_test

import (
	"testing"

	profile "github.com/easonliu714/ShowNews/internal/domain/profile"
	. "github.com/smartystreets/goconvey/convey"
)

func TestProfileTable(t *testing.T) {
	Convey("Given the platform table", t, func() {
		all := profile.All()

		Convey("Then all eight platforms should be present", func() {
			So(len(all), ShouldEqual, 8)
			So(profile.Names(), ShouldContain, "KKTIX")
			So(profile.Names(), ShouldContain, "拓元售票")
			So(profile.Names(), ShouldContain, "OPENTIX")
			So(profile.Names(), ShouldContain, "Event Go")
		})

		Convey("Then every profile should be fully specified", func() {
			for _, p := range all {
				So(p.Name, ShouldNotBeEmpty)
				So(p.ListingURL, ShouldNotBeEmpty)
				So(p.AnchorSelector, ShouldNotBeEmpty)
				So(p.BaseURL, ShouldNotBeEmpty)
				So(p.DetailPattern, ShouldNotBeNil)
				So(len(p.LocationLabels), ShouldBeGreaterThan, 0)
			}
		})

		Convey("Then ByName should find platforms and reject unknowns", func() {
			p, ok := profile.ByName("KKTIX")
			So(ok, ShouldBeTrue)
			So(p.Name, ShouldEqual, "KKTIX")

			_, ok = profile.ByName("nope")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestDetailAllowLists(t *testing.T) {
	Convey("Given the detail-URL allow-lists", t, func() {
		cases := []struct {
			platform string
			url      string
			want     bool
		}{
			{"拓元售票", "https://tixcraft.com/activity/detail/25_mayday", true},
			{"拓元售票", "https://www.tixcraft.com/activity/detail/AB12", true},
			{"拓元售票", "https://tixcraft.com/activity", false},
			{"拓元售票", "https://tixcraft.com/about", false},
			{"KKTIX", "https://someband.kktix.cc/events/spring-2025", true},
			{"KKTIX", "https://kktix.com/events", false},
			{"OPENTIX", "https://www.opentix.life/event/1234567890", true},
			{"OPENTIX", "https://www.opentix.life/event/abc", false},
			{"年代售票", "https://www.ticket.com.tw/application/UTK02/UTK0201_.aspx?PRODUCT_ID=N0ABC1234", true},
			{"UDN售票網", "https://tickets.udnfunlife.com/application/UTK02/UTK0201_.aspx?PRODUCT_ID=U00XY99", true},
			{"寬宏", "https://kham.com.tw/application/UTK02/UTK0201_.aspx?PRODUCT_ID=K0HELLO1", true},
			{"Event Go", "https://eventgo.bnextmedia.com.tw/event/detail/abc-123", true},
			{"Event Go", "https://eventgo.bnextmedia.com.tw/about", false},
		}

		for _, tc := range cases {
			p, ok := profile.ByName(tc.platform)
			So(ok, ShouldBeTrue)
			So(p.Matches(tc.url), ShouldEqual, tc.want)
		}
	})
}

func TestFindLocation(t *testing.T) {
	Convey("Given the venue extraction rules", t, func() {
		Convey("When the text carries a platform-specific label", func() {
			p, ok := profile.ByName("拓元售票")
			So(ok, ShouldBeTrue)

			So(p.FindLocation("開賣中 演出地點：國家音樂廳 票價 800 起"), ShouldEqual, "國家音樂廳")
		})

		Convey("When the label has no colon", func() {
			p, _ := profile.ByName("KKTIX")

			So(p.FindLocation("場地 Legacy Taipei，更多資訊"), ShouldEqual, "Legacy")
		})

		Convey("When the token ends at punctuation", func() {
			p, _ := profile.ByName("KKTIX")

			So(p.FindLocation("地點：台北小巨蛋，週六晚間"), ShouldEqual, "台北小巨蛋")
		})

		Convey("When no label appears", func() {
			p, _ := profile.ByName("KKTIX")

			So(p.FindLocation("純粹的活動介紹文字"), ShouldEqual, "")
		})

		Convey("When the profile was built outside the table", func() {
			// Hand-built profiles have no compiled rule and use the
			// default labels.
			So(profile.Profile{}.FindLocation("地點：華山文創園區"), ShouldEqual, "華山文創園區")
		})
	})
}

func TestTitleCleanup(t *testing.T) {
	Convey("Given platform title cleanup rules", t, func() {
		Convey("When cleaning a UDN title with a price tail", func() {
			p, ok := profile.ByName("UDN售票網")
			So(ok, ShouldBeTrue)

			got := p.Clean("某音樂劇...moreNT$ 800 ~ 2,800")
			So(got, ShouldEqual, "某音樂劇")
		})

		Convey("When cleaning a UDN title with residual entities", func() {
			p, _ := profile.ByName("UDN售票網")

			got := p.Clean("A&amp;quot;B show")
			So(got, ShouldEqual, "AB show")
		})

		Convey("When a platform has no cleanup rule", func() {
			p, _ := profile.ByName("KKTIX")

			So(p.Clean("  Spring Concert  "), ShouldEqual, "Spring Concert")
		})
	})
}
