package credentials

import (
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

const cookieFile = ".youtube.com\tTRUE\t/\tTRUE\t1893456000\tSID\tvalue-%s\n"

func writeBundle(fs afero.Fs, name string) {
	content := strings.Replace(cookieFile, "%s", name, 1)
	_ = afero.WriteFile(fs, "pool/"+name, []byte(content), 0o644)
}

func TestPool(t *testing.T) {
	Convey("Given an empty pool directory", t, func() {
		fs := afero.NewMemMapFs()
		_ = fs.MkdirAll("pool", 0o755)
		pool := NewPool(fs, "pool", "logs/audit.log")

		Convey("Acquire should fail with ErrNoCredentialsAvailable", func() {
			_, err := pool.Acquire()
			So(errors.Is(err, ErrNoCredentialsAvailable), ShouldBeTrue)
		})

		Convey("Hidden files are not credentials", func() {
			_ = afero.WriteFile(fs, "pool/.keep", []byte(""), 0o644)
			_, err := pool.Acquire()
			So(errors.Is(err, ErrNoCredentialsAvailable), ShouldBeTrue)
		})
	})

	Convey("Given a missing pool directory", t, func() {
		pool := NewPool(afero.NewMemMapFs(), "nowhere", "")
		_, err := pool.Acquire()
		So(errors.Is(err, ErrNoCredentialsAvailable), ShouldBeTrue)
	})

	Convey("Given a pool of three files", t, func() {
		fs := afero.NewMemMapFs()
		for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
			writeBundle(fs, name)
		}

		Convey("Repeated acquisition eventually selects every file", func() {
			pool := NewPool(fs, "pool", "")
			seen := map[string]bool{}
			for i := 0; i < 500 && len(seen) < 3; i++ {
				b, err := pool.Acquire()
				So(err, ShouldBeNil)
				seen[b.Name] = true
			}
			So(len(seen), ShouldEqual, 3)
		})

		Convey("The picked bundle carries its cookies", func() {
			pool := NewPool(fs, "pool", "", WithPicker(func(n int) int { return n - 1 }))
			b, err := pool.Acquire()
			So(err, ShouldBeNil)
			So(b.Name, ShouldEqual, "c.txt")
			So(len(b.Cookies), ShouldEqual, 1)
			So(b.Cookies[0].Value, ShouldEqual, "value-c.txt")
			So(b.Jar(), ShouldNotBeNil)
			So(b.Session().Name, ShouldEqual, "c.txt")
		})

		Convey("Each acquisition appends one audit line", func() {
			at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
			pool := NewPool(fs, "pool", "logs/audit.log",
				WithPicker(func(int) int { return 0 }),
				WithClock(func() time.Time { return at }),
			)
			_, err := pool.Acquire()
			So(err, ShouldBeNil)
			_, err = pool.Acquire()
			So(err, ShouldBeNil)

			data, err := afero.ReadFile(fs, "logs/audit.log")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "2026-01-02T03:04:05Z\ta.txt\n2026-01-02T03:04:05Z\ta.txt\n")
		})
	})
}
