package shared

import (
	"errors"
	"sync"

	"github.com/miniteen-shop/internal/constants"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// bindingTagKeys 自定义校验 tag 对应的错误 key
var bindingTagKeys = map[string]string{
	"product_category": "error.product_category_invalid",
	"email":            "error.email_invalid",
}

// RegisterValidators 向 gin 的 validator 注册业务校验规则（幂等）
func RegisterValidators() error {
	var err error
	registerValidatorsOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		err = engine.RegisterValidation("product_category", func(fl validator.FieldLevel) bool {
			return constants.IsValidProductCategory(fl.Field().String())
		})
	})
	return err
}

// BindErrorKey 把请求绑定错误映射为 i18n key，未知错误返回 error.bad_request
func BindErrorKey(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			if key, ok := bindingTagKeys[fieldErr.Tag()]; ok {
				return key
			}
		}
	}
	return "error.bad_request"
}
