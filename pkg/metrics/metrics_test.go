package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			registryOpt := WithPrometheusRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording pipeline metrics", func() {
			Convey("Then it should record received and accepted events", func() {
				So(func() {
					RecordEventReceived()
					RecordEventAccepted()
				}, ShouldNotPanic)
			})

			Convey("And it should record discarded events by reason", func() {
				So(func() {
					RecordEventDiscarded("decode_error")
					RecordEventDiscarded("no_image_url")
				}, ShouldNotPanic)
			})

			Convey("And it should record enrichment outcomes", func() {
				So(func() {
					RecordEnrichmentSuccess()
					RecordEnrichmentFailure()
					RecordEnrichmentLatency(120.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording dispatch metrics", func() {
			Convey("Then it should record dispatch outcomes", func() {
				So(func() {
					RecordDispatch()
					RecordFallbackBroadcast()
					RecordHeldEvent()
					RecordRedispatch()
				}, ShouldNotPanic)
			})

			Convey("And it should record moderation decisions", func() {
				So(func() {
					RecordApproval()
					RecordRejection()
					RecordUnknownResolution()
				}, ShouldNotPanic)
			})
		})

		Convey("When updating gauges", func() {
			Convey("Then it should update pool and queue gauges", func() {
				So(func() {
					UpdatePendingRecords(5)
					UpdateModeratorConnections(2)
					UpdateDashboardConnections(3)
					UpdateQueueSize(100)
					UpdateQueueCapacity(1000)
					UpdateWorkerCount(8)
				}, ShouldNotPanic)
			})

			Convey("And it should update running totals", func() {
				So(func() {
					UpdateRunningTotals(1234.5, 42)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording transport metrics", func() {
			Convey("Then it should record HTTP requests", func() {
				So(func() {
					RecordHTTPRequest("leaders", "GET", "200")
					RecordHTTPRequestDuration("leaders", "GET", "200", 12.5)
				}, ShouldNotPanic)
			})

			Convey("And it should record dashboard broadcasts", func() {
				So(func() {
					RecordDashboardBroadcast()
				}, ShouldNotPanic)
			})

			Convey("And it should record leaderboard refreshes", func() {
				So(func() {
					RecordLeaderboardRefresh()
					RecordLeaderboardRefreshFailure()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording error metrics", func() {
			So(func() {
				RecordErrorByComponent("queue", "closed")
				RecordQueueEnqueueError()
			}, ShouldNotPanic)
		})

		Convey("When updating system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(42)
				RecordSystemGCPauseTime(0.002)
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsRegistry(t *testing.T) {
	Convey("Given the package registry", t, func() {
		Convey("When fetching it", func() {
			registry := GetRegistry()

			Convey("Then it should be gatherable", func() {
				So(registry, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeEmpty)
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent metric updates", t, func() {
		Convey("When many goroutines record at once", func() {
			done := make(chan struct{}, 10)
			for i := 0; i < 10; i++ {
				go func() {
					defer func() { done <- struct{}{} }()
					for j := 0; j < 100; j++ {
						RecordEventReceived()
						RecordDispatch()
						UpdateQueueSize(j)
					}
				}()
			}
			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then no races or panics should occur", func() {
				So(true, ShouldBeTrue)
			})
		})
	})
}
