package public

import (
	"errors"

	"github.com/miniteen-shop/internal/constants"
	"github.com/miniteen-shop/internal/http/response"
	"github.com/miniteen-shop/internal/metrics"
	"github.com/miniteen-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

// localizedError 携带 i18n key 与参数的业务错误（如密码策略）。
type localizedError interface {
	Key() string
	Args() []interface{}
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	var stockErr *service.StockError
	if errors.As(err, &stockErr) {
		respondStockError(c, stockErr)
		return
	}
	var localized localizedError
	if errors.As(err, &localized) {
		respondErrorf(c, response.CodeBadRequest, localized.Key(), localized.Args()...)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func respondStockError(c *gin.Context, stockErr *service.StockError) {
	if errors.Is(stockErr, service.ErrOutOfStock) {
		metrics.RecordStockRejection(constants.StockIssueOutOfStock)
		respondErrorf(c, response.CodeBadRequest, "error.out_of_stock", stockErr.ProductName)
		return
	}
	metrics.RecordStockRejection(constants.StockIssueInsufficient)
	respondErrorf(c, response.CodeBadRequest, "error.insufficient_stock", stockErr.ProductName, stockErr.Remaining)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var productErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrProductNameRequired, code: response.CodeBadRequest, key: "error.product_name_required"},
	{target: service.ErrProductPriceInvalid, code: response.CodeBadRequest, key: "error.product_price_invalid"},
	{target: service.ErrProductStockInvalid, code: response.CodeBadRequest, key: "error.product_stock_invalid"},
	{target: service.ErrProductCategoryInvalid, code: response.CodeBadRequest, key: "error.product_category_invalid"},
	{target: service.ErrInvalidPagination, code: response.CodeBadRequest, key: "error.invalid_pagination"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrCartQuantityInvalid, code: response.CodeBadRequest, key: "error.cart_quantity_invalid"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, key: "error.cart_item_not_found"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
}

var userAccountErrorRules = []mappedHandlerError{
	{target: service.ErrUserDisabled, code: response.CodeUnauthorized, key: "error.user_disabled"},
	{target: service.ErrUserNotFound, code: response.CodeNotFound, key: "error.user_not_found"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrEmailExists, code: response.CodeConflict, key: "error.email_exists"},
	{target: service.ErrNameTooShort, code: response.CodeBadRequest, key: "error.name_too_short"},
	{target: service.ErrNameRequired, code: response.CodeBadRequest, key: "error.name_required"},
	{target: service.ErrPasswordRequired, code: response.CodeBadRequest, key: "error.password_required"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, key: "error.password_weak"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.login_invalid"},
}

var profileErrorRules = []mappedHandlerError{
	{target: service.ErrPhoneInvalid, code: response.CodeBadRequest, key: "error.phone_invalid"},
	{target: service.ErrBirthdayInvalid, code: response.CodeBadRequest, key: "error.birthday_invalid"},
	{target: service.ErrInvalidPassword, code: response.CodeBadRequest, key: "error.password_old_invalid"},
}

var uploadErrorRules = []mappedHandlerError{
	{target: service.ErrUploadRequired, code: response.CodeBadRequest, key: "error.upload_required"},
	{target: service.ErrUploadTooLarge, code: response.CodeBadRequest, key: "error.upload_too_large"},
	{target: service.ErrUploadTypeInvalid, code: response.CodeBadRequest, key: "error.upload_type_invalid"},
	{target: service.ErrUploadImageInvalid, code: response.CodeBadRequest, key: "error.upload_image_invalid"},
	{target: service.ErrUserNotFound, code: response.CodeNotFound, key: "error.user_not_found"},
}

// 按错误分类兜底：具体规则未命中时再按分类映射
var taxonomyErrorRules = []mappedHandlerError{
	{target: service.ErrValidation, code: response.CodeBadRequest, key: "error.bad_request"},
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.not_found"},
	{target: service.ErrUnauthenticated, code: response.CodeUnauthorized, key: "error.unauthorized"},
	{target: service.ErrForbidden, code: response.CodeForbidden, key: "error.forbidden"},
	{target: service.ErrConflict, code: response.CodeConflict, key: "error.bad_request"},
}

func respondProductError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(productErrorRules, taxonomyErrorRules), response.CodeInternal, fallbackKey)
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(cartErrorRules, taxonomyErrorRules), response.CodeInternal, "error.cart_update_failed")
}

func respondUserAccountError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(userAccountErrorRules, profileErrorRules, taxonomyErrorRules), response.CodeInternal, fallbackKey)
}

func respondUploadError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(uploadErrorRules, taxonomyErrorRules), response.CodeInternal, "error.upload_failed")
}
