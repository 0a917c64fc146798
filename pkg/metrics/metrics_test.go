package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating a manager with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("custom"),
				WithSubsystem("pipeline"),
				WithHistogramBuckets([]float64{1, 2, 3}),
				WithMetricsEnabled(true),
				WithRefreshInterval(30*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "custom")
				So(manager.subsystem, ShouldEqual, "pipeline")
				So(len(manager.histogramBuckets), ShouldEqual, 3)
				So(manager.refreshInterval, ShouldEqual, 30*time.Second)
			})
		})

		Convey("When creating a manager with defaults", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should use the shownews namespace", func() {
				So(manager.namespace, ShouldEqual, "shownews")
				So(manager.subsystem, ShouldEqual, "crawler")
				So(manager.enabled, ShouldBeTrue)
			})
		})
	})
}

func TestPlatformCounters(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithPrometheusRegistry(registry))

		Convey("When recording per-platform pipeline counters", func() {
			manager.eventsDiscovered.WithLabelValues("KKTIX").Add(7)
			manager.eventsNew.WithLabelValues("KKTIX").Inc()
			manager.eventsSent.WithLabelValues("KKTIX").Inc()
			manager.eventsFailed.WithLabelValues("OPENTIX").Inc()
			manager.fetchErrors.WithLabelValues("拓元售票").Inc()

			Convey("Then the families should be gatherable", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				joined := strings.Join(names, ",")
				So(joined, ShouldContainSubstring, "events_discovered_total")
				So(joined, ShouldContainSubstring, "events_failed_total")
				So(joined, ShouldContainSubstring, "fetch_errors_total")
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When invoking every helper", func() {
			RecordEventsDiscovered("KKTIX", 3)
			RecordEventNew("KKTIX")
			RecordEventSent("KKTIX")
			RecordEventFailed("KKTIX")
			RecordFetchError("KKTIX")
			RecordFetchDuration("KKTIX", 12.5)
			RecordEnrichDowngraded()
			RecordSendRetry()
			RecordSendLatency(50)
			RecordPass()
			RecordPassDuration(1234)
			UpdateStoreSize(42)
			RecordHTTPRequest("test-crawl", "GET", "200")
			RecordHTTPRequestDuration("test-crawl", "GET", "200", 10)
			RecordErrorByComponent("notify", "flood_control")
			RecordErrorByType("flood_control", "medium")
			RecordErrorByEndpoint("test-crawl", "GET", "server_error")
			RecordErrorLatency("notify", "flood_control", 100)
			UpdateSystemMemoryUsage(1 << 20)
			UpdateSystemGoroutineCount(12)
			RecordSystemGCPauseTime(0.5)

			Convey("Then the custom registry should expose the families", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)

				found := false
				for _, f := range families {
					if strings.HasSuffix(f.GetName(), "events_sent_total") {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}
