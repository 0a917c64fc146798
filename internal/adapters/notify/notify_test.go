package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	notify "github.com/easonliu714/ShowNews/internal/adapters/notify"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeSender struct {
	errs  []error
	calls int
}

func (f *fakeSender) Send(_ context.Context, _ string) error {
	defer func() { f.calls++ }()
	if f.calls < len(f.errs) {
		return f.errs[f.calls]
	}
	return nil
}

func recordingSleeper(waits *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
}

func TestDispatcherRetry(t *testing.T) {
	Convey("Given a dispatcher over a flaky sender", t, func() {
		ctx := context.Background()

		Convey("When the first two attempts hit network errors", func() {
			sender := &fakeSender{errs: []error{
				errors.New("dial tcp: connection refused"),
				errors.New("context deadline exceeded (timeout)"),
			}}
			var waits []time.Duration
			d := notify.NewDispatcher(sender, notify.WithSleeper(recordingSleeper(&waits)))

			err := d.Dispatch(ctx, "hello")

			Convey("Then the third attempt should succeed with linear waits", func() {
				So(err, ShouldBeNil)
				So(sender.calls, ShouldEqual, 3)
				So(waits, ShouldResemble, []time.Duration{15 * time.Second, 30 * time.Second})
			})
		})

		Convey("When the sender keeps rate limiting", func() {
			sender := &fakeSender{errs: []error{
				errors.New("Too Many Requests: retry after 30"),
				errors.New("Too Many Requests: retry after 30"),
				errors.New("Too Many Requests: retry after 30"),
				errors.New("Too Many Requests: retry after 30"),
				errors.New("Too Many Requests: retry after 30"),
				errors.New("Too Many Requests: retry after 30"),
			}}
			var waits []time.Duration
			d := notify.NewDispatcher(sender,
				notify.WithMaxAttempts(6),
				notify.WithSleeper(recordingSleeper(&waits)))

			err := d.Dispatch(ctx, "hello")

			Convey("Then the flood wait should escalate and cap at five minutes", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, notify.ErrSendFailed), ShouldBeTrue)
				So(waits, ShouldResemble, []time.Duration{
					60 * time.Second, 120 * time.Second, 180 * time.Second,
					240 * time.Second, 300 * time.Second,
				})
			})
		})

		Convey("When the message is rejected as too long", func() {
			sender := &fakeSender{errs: []error{
				errors.New("Bad Request: message is too long"),
			}}
			var waits []time.Duration
			d := notify.NewDispatcher(sender, notify.WithSleeper(recordingSleeper(&waits)))

			err := d.Dispatch(ctx, "hello")

			Convey("Then it should fail immediately without retrying", func() {
				So(errors.Is(err, notify.ErrMessageTooLong), ShouldBeTrue)
				So(sender.calls, ShouldEqual, 1)
				So(len(waits), ShouldEqual, 0)
			})
		})

		Convey("When an unclassified error occurs", func() {
			sender := &fakeSender{errs: []error{errors.New("mystery failure")}}
			var waits []time.Duration
			d := notify.NewDispatcher(sender, notify.WithSleeper(recordingSleeper(&waits)))

			err := d.Dispatch(ctx, "hello")

			Convey("Then the retry should use the short fixed wait", func() {
				So(err, ShouldBeNil)
				So(waits, ShouldResemble, []time.Duration{5 * time.Second})
			})
		})

		Convey("When the context is cancelled mid backoff", func() {
			sender := &fakeSender{errs: []error{errors.New("connection reset")}}
			cctx, cancel := context.WithCancel(ctx)
			d := notify.NewDispatcher(sender, notify.WithSleeper(
				func(c context.Context, _ time.Duration) error {
					cancel()
					return c.Err()
				}))

			err := d.Dispatch(cctx, "hello")

			Convey("Then the dispatch should abort with a send failure", func() {
				So(errors.Is(err, notify.ErrSendFailed), ShouldBeTrue)
				So(sender.calls, ShouldEqual, 1)
			})
		})
	})
}
