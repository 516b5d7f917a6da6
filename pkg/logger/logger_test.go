package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the default initializer", t, func() {
		So(Init(), ShouldBeNil)
		So(Get(), ShouldNotBeNil)
		So(Sync(), ShouldBeNil)
	})

	Convey("Given an unknown format", t, func() {
		So(InitWithOptions(Options{Format: "xml"}), ShouldNotBeNil)
	})
}

func TestLoggerOutput(t *testing.T) {
	ctx := context.Background()

	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithOptions(Options{Writer: &buf, Format: "json"}), ShouldBeNil)

		Convey("When logging with fields", func() {
			Get().Info(ctx, "award stored",
				String("request_id", "req-1"),
				Float64("bonus", 5000),
				Error(errors.New("boom")),
			)

			Convey("Then the record should carry the fields and caller", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "award stored")
				So(rec["request_id"], ShouldEqual, "req-1")
				So(rec["bonus"], ShouldEqual, 5000.0)
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When using a named logger", func() {
			Named("worker").Warn(ctx, "slow")
			So(buf.String(), ShouldContainSubstring, `"logger":"worker"`)
		})

		Convey("When the level filters a message", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Error(ctx, "shown")
			So(SetLevelString("info"), ShouldBeNil)

			So(buf.String(), ShouldNotContainSubstring, "hidden")
			So(buf.String(), ShouldContainSubstring, "shown")
		})
	})

	Convey("Given a text logger", t, func() {
		var buf bytes.Buffer
		So(InitWithOptions(Options{Writer: &buf}), ShouldBeNil)
		So(SetLevelString("debug"), ShouldBeNil)
		Get().Debug(ctx, "tier chosen", String("tier", "high"))
		So(SetLevelString("info"), ShouldBeNil)

		So(strings.Contains(buf.String(), "tier=high"), ShouldBeTrue)
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		for _, lvl := range []string{"debug", "INFO", "", "warn", "warning", "error"} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
		So(SetLevelString("info"), ShouldBeNil)
	})
}
