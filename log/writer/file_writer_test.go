package writer

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hatlonely/litedb/ref"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFileWriter(t *testing.T) {
	Convey("测试 FileWriter", t, func() {
		path := filepath.Join(t.TempDir(), "sub", "out.log")

		Convey("路径为空时报错", func() {
			_, err := NewFileWriterWithOptions(&FileWriterOptions{})
			So(err, ShouldNotBeNil)
			_, err = NewFileWriterWithOptions(nil)
			So(err, ShouldNotBeNil)
		})

		Convey("自动创建目录并追加写入", func() {
			w, err := NewFileWriterWithOptions(&FileWriterOptions{Path: path})
			So(err, ShouldBeNil)
			_, err = w.Write([]byte("a\n"))
			So(err, ShouldBeNil)
			So(w.Close(), ShouldBeNil)

			w, err = NewFileWriterWithOptions(&FileWriterOptions{Path: path})
			So(err, ShouldBeNil)
			_, err = w.Write([]byte("b\n"))
			So(err, ShouldBeNil)
			So(w.Close(), ShouldBeNil)

			buf, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(buf), ShouldEqual, "a\nb\n")
		})

		Convey("关闭后写入报错，重复关闭无害", func() {
			w, err := NewFileWriterWithOptions(&FileWriterOptions{Path: path})
			So(err, ShouldBeNil)
			So(w.Close(), ShouldBeNil)
			So(w.Close(), ShouldBeNil)
			_, err = w.Write([]byte("x"))
			So(err, ShouldNotBeNil)
		})

		Convey("并发写入", func() {
			w, err := NewFileWriterWithOptions(&FileWriterOptions{Path: path})
			So(err, ShouldBeNil)

			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, _ = w.Write([]byte("0123456789\n"))
				}()
			}
			wg.Wait()
			So(w.Close(), ShouldBeNil)

			buf, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(len(buf), ShouldEqual, 20*11)
		})
	})
}

func TestNewWriterWithOptions(t *testing.T) {
	Convey("测试 NewWriterWithOptions", t, func() {
		w, err := NewWriterWithOptions(nil)
		So(err, ShouldBeNil)
		So(w, ShouldHaveSameTypeAs, &ConsoleWriter{})

		w, err = NewWriterWithOptions(&ref.TypeOptions{
			Namespace: "github.com/hatlonely/litedb/log/writer",
			Type:      "ConsoleWriter",
			Options:   &ConsoleWriterOptions{Target: "stderr"},
		})
		So(err, ShouldBeNil)
		So(w.(*ConsoleWriter).writer, ShouldEqual, os.Stderr)
		So(w.(*ConsoleWriter).Color(), ShouldBeFalse)

		_, err = NewWriterWithOptions(&ref.TypeOptions{Namespace: "x", Type: "y"})
		So(err, ShouldNotBeNil)
	})
}
