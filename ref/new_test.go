package ref

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

type Value struct {
	Name string
}

type Options struct {
	Name string
}

func NewValue(options *Options) (*Value, error) {
	if options == nil {
		return nil, errors.New("options cannot be nil")
	}
	if options.Name == "" {
		return nil, errors.New("name cannot be empty")
	}
	return &Value{Name: options.Name}, nil
}

func NewDefaultValue() *Value {
	return &Value{Name: "default"}
}

func NewValueFromStruct(options Options) *Value {
	return &Value{Name: "struct-" + options.Name}
}

// mapConvertable 模拟 cfg/storage 的配置数据
type mapConvertable map[string]string

func (m mapConvertable) ConvertTo(object any) error {
	o, ok := object.(*Options)
	if !ok {
		return errors.Errorf("unsupported %T", object)
	}
	o.Name = m["name"]
	return nil
}

func TestRegisterAndNew(t *testing.T) {
	Convey("测试 Register 和 New", t, func() {
		So(Register("test", "Value", NewValue), ShouldBeNil)
		So(Register("test", "DefaultValue", NewDefaultValue), ShouldBeNil)
		So(Register("test", "StructValue", NewValueFromStruct), ShouldBeNil)

		Convey("使用指针参数构造", func() {
			obj, err := New("test", "Value", &Options{Name: "a"})
			So(err, ShouldBeNil)
			So(obj.(*Value).Name, ShouldEqual, "a")
		})

		Convey("构造函数返回错误", func() {
			_, err := New("test", "Value", &Options{})
			So(err, ShouldNotBeNil)
			_, err = New("test", "Value", nil)
			So(err, ShouldNotBeNil)
		})

		Convey("无参数构造函数", func() {
			obj, err := New("test", "DefaultValue", nil)
			So(err, ShouldBeNil)
			So(obj.(*Value).Name, ShouldEqual, "default")
		})

		Convey("Convertable 参数自动转换", func() {
			obj, err := New("test", "Value", mapConvertable{"name": "conv"})
			So(err, ShouldBeNil)
			So(obj.(*Value).Name, ShouldEqual, "conv")

			obj, err = New("test", "StructValue", mapConvertable{"name": "conv"})
			So(err, ShouldBeNil)
			So(obj.(*Value).Name, ShouldEqual, "struct-conv")
		})

		Convey("参数类型不匹配", func() {
			_, err := New("test", "Value", "bad")
			So(err, ShouldNotBeNil)
			_, err = New("test", "StructValue", nil)
			So(err, ShouldNotBeNil)
		})

		Convey("未注册的类型", func() {
			_, err := New("test", "Missing", nil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRegisterInvalid(t *testing.T) {
	Convey("测试非法的构造函数", t, func() {
		So(Register("test", "NotFunc", 1), ShouldNotBeNil)
		So(Register("test", "TooManyIn", func(a, b int) int { return a + b }), ShouldNotBeNil)
		So(Register("test", "BadOut", func() (int, int) { return 1, 2 }), ShouldNotBeNil)
		So(func() { MustRegister("test", "NotFunc", 1) }, ShouldPanic)
	})
}

func TestDuplicateRegister(t *testing.T) {
	Convey("测试重复注册", t, func() {
		So(Register("dup", "Value", NewValue), ShouldBeNil)
		So(Register("dup", "Value", NewValue), ShouldBeNil)
		So(Register("dup", "Value", NewDefaultValue), ShouldNotBeNil)
	})
}

func TestRegisterTAndNewT(t *testing.T) {
	Convey("测试 RegisterT 和 NewT", t, func() {
		So(RegisterT[Value](NewValue), ShouldBeNil)
		So(RegisterT[*Value](NewValue), ShouldBeNil)

		v, err := NewT[*Value](&Options{Name: "t"})
		So(err, ShouldBeNil)
		So(v.Name, ShouldEqual, "t")

		_, err = NewT[Value](&Options{Name: "t"})
		So(err, ShouldNotBeNil)

		So(RegisterT[int](NewValue), ShouldNotBeNil)
	})
}
