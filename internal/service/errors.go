package service

import (
	"errors"
	"fmt"
)

// 错误分类，具体错误通过 %w 挂在分类之下，调用方用 errors.Is 判断
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
)

// 库存错误（由 StockError 携带详情）
var (
	ErrOutOfStock        = errors.New("product out of stock")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// 商品
var (
	ErrProductNotFound        = fmt.Errorf("%w: product", ErrNotFound)
	ErrProductNameRequired    = fmt.Errorf("%w: product name is required", ErrValidation)
	ErrProductPriceInvalid    = fmt.Errorf("%w: price must be greater than 0", ErrValidation)
	ErrProductStockInvalid    = fmt.Errorf("%w: stock count must not be negative", ErrValidation)
	ErrProductCategoryInvalid = fmt.Errorf("%w: unknown product category", ErrValidation)
	ErrInvalidPagination      = fmt.Errorf("%w: page must be >= 1 and page size > 0", ErrValidation)
)

// 购物车
var (
	ErrCartQuantityInvalid = fmt.Errorf("%w: quantity must be greater than 0", ErrValidation)
	ErrCartItemNotFound    = fmt.Errorf("%w: cart item", ErrNotFound)
)

// 用户与认证
var (
	ErrUserNotFound       = fmt.Errorf("%w: user", ErrNotFound)
	ErrInvalidEmail       = fmt.Errorf("%w: invalid email", ErrValidation)
	ErrNameTooShort       = fmt.Errorf("%w: name must be at least 2 characters", ErrValidation)
	ErrNameRequired       = fmt.Errorf("%w: name must not be blank", ErrValidation)
	ErrPhoneInvalid       = fmt.Errorf("%w: phone must be 10 digits", ErrValidation)
	ErrBirthdayInvalid    = fmt.Errorf("%w: birthday must be YYYY-MM-DD", ErrValidation)
	ErrPasswordRequired   = fmt.Errorf("%w: password is required", ErrValidation)
	ErrWeakPassword       = fmt.Errorf("%w: password does not meet policy", ErrValidation)
	ErrEmailExists        = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
	ErrInvalidPassword    = fmt.Errorf("%w: current password mismatch", ErrValidation)
	ErrTokenMissing       = fmt.Errorf("%w: token missing", ErrUnauthenticated)
	ErrTokenInvalid       = fmt.Errorf("%w: token invalid", ErrUnauthenticated)
	ErrTokenRevoked       = fmt.Errorf("%w: token revoked", ErrUnauthenticated)
	ErrUserDisabled       = errors.New("user disabled")
)

// 上传
var (
	ErrUploadRequired       = fmt.Errorf("%w: file is required", ErrValidation)
	ErrUploadTooLarge       = fmt.Errorf("%w: file too large", ErrValidation)
	ErrUploadTypeInvalid    = fmt.Errorf("%w: file type not allowed", ErrValidation)
	ErrUploadImageInvalid   = fmt.Errorf("%w: image dimensions invalid", ErrValidation)
	ErrUploadStorageFailure = errors.New("upload storage failure")
)

// 验证码
var (
	ErrCaptchaRequired = fmt.Errorf("%w: captcha required", ErrValidation)
	ErrCaptchaInvalid  = fmt.Errorf("%w: captcha invalid", ErrValidation)
)

// StockError 库存错误，Kind 为 ErrOutOfStock 或 ErrInsufficientStock
type StockError struct {
	Kind        error
	ProductID   string
	ProductName string
	Requested   int
	Remaining   int
}

func (e *StockError) Error() string {
	if errors.Is(e.Kind, ErrOutOfStock) {
		return fmt.Sprintf("product %s is out of stock", e.ProductID)
	}
	return fmt.Sprintf("insufficient stock for product %s: requested %d, only %d left", e.ProductID, e.Requested, e.Remaining)
}

// Is 支持 errors.Is(err, ErrOutOfStock / ErrInsufficientStock)
func (e *StockError) Is(target error) bool {
	return target == e.Kind
}

func newOutOfStockError(productID, name string) *StockError {
	return &StockError{Kind: ErrOutOfStock, ProductID: productID, ProductName: name}
}

func newInsufficientStockError(productID, name string, requested, remaining int) *StockError {
	return &StockError{
		Kind:        ErrInsufficientStock,
		ProductID:   productID,
		ProductName: name,
		Requested:   requested,
		Remaining:   remaining,
	}
}
