package feedsim_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	feedsim "github.com/kameshsampath/demo4-dashboard/internal/feedsim"
	"github.com/kameshsampath/demo4-dashboard/internal/domain/model"
	logging "github.com/kameshsampath/demo4-dashboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerator(t *testing.T) {
	Convey("Given an event generator", t, func() {
		gen := feedsim.NewGenerator(feedsim.Config{
			PlayerCount:  4,
			ImageBaseURL: "https://images.example",
		})

		Convey("When generating events", func() {
			seen := map[string]bool{}
			var events []model.ScoredImage
			for i := 0; i < 50; i++ {
				ev := gen.Next()
				events = append(events, ev)
				seen[ev.ID] = true
			}

			Convey("Then every event should be well-formed", func() {
				for _, ev := range events {
					So(ev.ID, ShouldNotBeEmpty)
					So(ev.ImageURL, ShouldStartWith, "https://images.example/")
					So(ev.Score, ShouldBeGreaterThanOrEqualTo, 0)
					So(ev.Score, ShouldBeLessThan, 100)
					So(ev.TaskName, ShouldNotBeEmpty)
				}
			})

			Convey("And ids should be unique", func() {
				So(len(seen), ShouldEqual, 50)
			})

			Convey("And the leaderboard should reflect the scores", func() {
				snap := gen.Snapshot()
				So(snap.Top10, ShouldNotBeEmpty)
				So(len(snap.Top10), ShouldBeLessThanOrEqualTo, 10)
				So(snap.CurrentPlayers, ShouldEqual, 4)

				// Descending order
				for i := 1; i < len(snap.Top10); i++ {
					So(snap.Top10[i].Score, ShouldBeLessThanOrEqualTo, snap.Top10[i-1].Score)
				}
			})
		})

		Convey("When no events have been generated", func() {
			snap := gen.Snapshot()

			Convey("Then the snapshot should be empty but well-formed", func() {
				So(snap.Top10, ShouldBeEmpty)
				So(snap.Providers, ShouldNotBeNil)
			})
		})
	})
}

func TestServer(t *testing.T) {
	_ = logging.Init()

	Convey("Given a running feed simulator", t, func() {
		srv := feedsim.NewServer(feedsim.Config{
			EventPeriod:  20 * time.Millisecond,
			PlayerCount:  4,
			ImageBaseURL: "https://images.example",
		})
		mux := http.NewServeMux()
		srv.Register(mux)
		httpSrv := httptest.NewServer(mux)
		defer httpSrv.Close()

		Convey("When a dashboard client subscribes", func() {
			url := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/dashboard"
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			So(err, ShouldBeNil)
			defer conn.Close()

			ctx, cancel := context.WithCancel(context.Background())
			go srv.Run(ctx)
			defer cancel()

			Convey("Then it should receive generated events", func() {
				conn.SetReadDeadline(time.Now().Add(3 * time.Second))
				_, payload, err := conn.ReadMessage()
				So(err, ShouldBeNil)

				var ev model.ScoredImage
				So(json.Unmarshal(payload, &ev), ShouldBeNil)
				So(ev.ID, ShouldNotBeEmpty)
				So(ev.ImageURL, ShouldStartWith, "https://images.example/")
			})
		})

		Convey("When requesting the leaderboard", func() {
			resp, err := http.Get(httpSrv.URL + "/leaders")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then a snapshot should be served", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var snap model.LeaderboardSnapshot
				So(json.NewDecoder(resp.Body).Decode(&snap), ShouldBeNil)
				So(snap.Providers, ShouldNotBeNil)
			})
		})

		Convey("When posting to the leaderboard endpoint", func() {
			resp, err := http.Post(httpSrv.URL+"/leaders", "application/json", nil)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the method should be refused", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}
