package lookup

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTTLCache(t *testing.T) {
	Convey("Given a cache with a one-hour TTL and a controllable clock", t, func() {
		clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		c := newTTLCache(time.Hour)
		c.now = func() time.Time { return clock }

		Convey("When a result is stored", func() {
			c.put("rella", Result{Status: StatusOK})

			Convey("Then it is served back inside the TTL", func() {
				clock = clock.Add(59 * time.Minute)
				res, ok := c.get("rella")
				So(ok, ShouldBeTrue)
				So(res.Status, ShouldEqual, StatusOK)
			})

			Convey("Then it expires once the TTL has passed", func() {
				clock = clock.Add(61 * time.Minute)
				_, ok := c.get("rella")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a name was never stored", func() {
			_, ok := c.get("ghost")
			So(ok, ShouldBeFalse)
		})

		Convey("When many entries expire", func() {
			for i := 0; i < 256; i++ {
				c.put(string(rune('a'+i%26))+string(rune('0'+i/26)), Result{Status: StatusUnavailable})
			}
			So(c.size(), ShouldBeGreaterThan, 0)

			Convey("Then a put past the expiry sweeps the dead entries", func() {
				clock = clock.Add(2 * time.Hour)
				c.put("fresh", Result{Status: StatusOK})
				So(c.size(), ShouldEqual, 1)
			})
		})
	})
}
