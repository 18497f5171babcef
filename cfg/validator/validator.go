package validator

import (
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ValidateStruct 按 validate tag 校验结构体
// 非结构体、nil 指针和 time.Time 直接通过
func ValidateStruct(object any) error {
	if object == nil {
		return nil
	}

	rv := reflect.ValueOf(object)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	if rt := rv.Type(); rt.PkgPath() == "time" && rt.Name() == "Time" {
		return nil
	}

	return instance().Struct(rv.Interface())
}
