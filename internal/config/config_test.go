package config_test

import (
	"testing"

	"github.com/easonliu714/ShowNews/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.StorePath, convey.ShouldEqual, "data/seen_events.json")
			convey.So(cfg.FailedPath, convey.ShouldEqual, "data/failed_messages.json")
			convey.So(cfg.FetchTimeoutSeconds, convey.ShouldEqual, 15)
			convey.So(cfg.MinBodyBytes, convey.ShouldEqual, 500)
			convey.So(cfg.PerPlatformCap, convey.ShouldEqual, 5)
			convey.So(cfg.SendPacingSeconds, convey.ShouldEqual, 2)
			convey.So(cfg.SendRetries, convey.ShouldEqual, 3)
			convey.So(cfg.CheckIntervalMinutes, convey.ShouldEqual, 0)
		})

		convey.Convey("Then credentials should have no default", func() {
			convey.So(cfg.BotToken, convey.ShouldBeEmpty)
			convey.So(cfg.ChatID, convey.ShouldEqual, 0)
		})
	})
}
