package i18n

var messages = map[string]map[string]string{
	LocaleZhTW: {
		"common.success": "成功",

		"error.bad_request":       "請求參數錯誤",
		"error.unauthorized":      "請先登入",
		"error.forbidden":         "沒有操作權限",
		"error.not_found":         "資源不存在",
		"error.too_many_requests": "請求過於頻繁，請稍後再試",
		"error.internal_error":    "伺服器內部錯誤",
		"error.user_id_invalid":   "使用者識別無效",

		"error.rate_limited":           "請求過於頻繁，請 %d 秒後再試",
		"error.login_too_many":         "登入嘗試次數過多，請 %d 秒後再試",
		"error.rate_limit_unavailable": "暫時無法處理請求，請稍後再試",

		"error.invalid_pagination":       "分頁參數無效",
		"error.product_not_found":        "商品不存在",
		"error.product_name_required":    "商品名稱不可為空",
		"error.product_price_invalid":    "商品價格必須大於 0",
		"error.product_stock_invalid":    "庫存數量不可為負數",
		"error.product_category_invalid": "商品分類無效",
		"error.product_fetch_failed":     "取得商品失敗",
		"error.product_save_failed":      "儲存商品失敗",
		"error.product_delete_failed":    "刪除商品失敗",
		"error.price_filter_invalid":     "價格篩選條件無效",

		"error.cart_quantity_invalid": "數量必須大於 0",
		"error.cart_item_not_found":   "購物車中沒有此商品",
		"error.cart_fetch_failed":     "取得購物車失敗",
		"error.cart_update_failed":    "更新購物車失敗",
		"error.out_of_stock":          "「%s」目前缺貨",
		"error.insufficient_stock":    "「%s」庫存不足，僅剩 %d 件",

		"stock.missing":      "商品 %s 不存在",
		"stock.out_of_stock": "「%s」目前缺貨",
		"stock.insufficient": "「%s」庫存不足，僅剩 %d 件",

		"error.user_not_found":          "使用者不存在",
		"error.email_invalid":           "電子郵件格式不正確",
		"error.email_exists":            "此電子郵件已被註冊",
		"error.name_too_short":          "名稱至少需要 2 個字",
		"error.name_required":           "名稱不可為空白",
		"error.phone_invalid":           "手機號碼必須為 10 位數字",
		"error.birthday_invalid":        "生日格式必須為 YYYY-MM-DD",
		"error.password_required":       "請輸入密碼",
		"error.password_weak":           "密碼強度不足",
		"error.password_min_length":     "密碼長度至少 %d 個字元",
		"error.password_require_upper":  "密碼需包含大寫字母",
		"error.password_require_lower":  "密碼需包含小寫字母",
		"error.password_require_number": "密碼需包含數字",
		"error.password_require_special": "密碼需包含特殊符號",
		"error.password_old_invalid":    "目前密碼不正確",
		"error.login_invalid":           "電子郵件或密碼錯誤",
		"error.user_disabled":           "帳號已停用",
		"error.token_invalid":           "登入狀態無效，請重新登入",
		"error.token_revoked":           "登入狀態已失效，請重新登入",
		"error.register_failed":         "註冊失敗",
		"error.login_failed":            "登入失敗",
		"error.profile_update_failed":   "更新個人資料失敗",
		"error.password_change_failed":  "修改密碼失敗",

		"error.upload_required":      "請選擇要上傳的檔案",
		"error.upload_too_large":     "檔案大小不可超過 2MB",
		"error.upload_type_invalid":  "僅支援 JPEG、PNG、GIF、WebP 圖片",
		"error.upload_image_invalid": "圖片內容或尺寸無效",
		"error.upload_failed":        "上傳失敗",

		"error.captcha_required": "請輸入驗證碼",
		"error.captcha_invalid":  "驗證碼錯誤",
		"error.captcha_failed":   "產生驗證碼失敗",
	},
	LocaleEnUS: {
		"common.success": "success",

		"error.bad_request":       "Invalid request parameters",
		"error.unauthorized":      "Please sign in first",
		"error.forbidden":         "You are not allowed to perform this action",
		"error.not_found":         "Resource not found",
		"error.too_many_requests": "Too many requests, please try again later",
		"error.internal_error":    "Internal server error",
		"error.user_id_invalid":   "Invalid user identity",

		"error.rate_limited":           "Too many requests, please retry in %d seconds",
		"error.login_too_many":         "Too many sign-in attempts, please retry in %d seconds",
		"error.rate_limit_unavailable": "Unable to process the request right now, please try later",

		"error.invalid_pagination":       "Invalid pagination parameters",
		"error.product_not_found":        "Product not found",
		"error.product_name_required":    "Product name is required",
		"error.product_price_invalid":    "Price must be greater than 0",
		"error.product_stock_invalid":    "Stock count must not be negative",
		"error.product_category_invalid": "Unknown product category",
		"error.product_fetch_failed":     "Failed to load products",
		"error.product_save_failed":      "Failed to save product",
		"error.product_delete_failed":    "Failed to delete product",
		"error.price_filter_invalid":     "Invalid price filter",

		"error.cart_quantity_invalid": "Quantity must be greater than 0",
		"error.cart_item_not_found":   "This product is not in your cart",
		"error.cart_fetch_failed":     "Failed to load cart",
		"error.cart_update_failed":    "Failed to update cart",
		"error.out_of_stock":          "%s is out of stock",
		"error.insufficient_stock":    "Not enough stock for %s, only %d left",

		"stock.missing":      "Product %s no longer exists",
		"stock.out_of_stock": "%s is out of stock",
		"stock.insufficient": "Not enough stock for %s, only %d left",

		"error.user_not_found":           "User not found",
		"error.email_invalid":            "Invalid email address",
		"error.email_exists":             "This email is already registered",
		"error.name_too_short":           "Name must be at least 2 characters",
		"error.name_required":            "Name must not be blank",
		"error.phone_invalid":            "Phone number must be 10 digits",
		"error.birthday_invalid":         "Birthday must be in YYYY-MM-DD format",
		"error.password_required":        "Password is required",
		"error.password_weak":            "Password is too weak",
		"error.password_min_length":      "Password must be at least %d characters",
		"error.password_require_upper":   "Password must contain an uppercase letter",
		"error.password_require_lower":   "Password must contain a lowercase letter",
		"error.password_require_number":  "Password must contain a number",
		"error.password_require_special": "Password must contain a special character",
		"error.password_old_invalid":     "Current password is incorrect",
		"error.login_invalid":            "Incorrect email or password",
		"error.user_disabled":            "Account is disabled",
		"error.token_invalid":            "Session is invalid, please sign in again",
		"error.token_revoked":            "Session has expired, please sign in again",
		"error.register_failed":          "Registration failed",
		"error.login_failed":             "Sign in failed",
		"error.profile_update_failed":    "Failed to update profile",
		"error.password_change_failed":   "Failed to change password",

		"error.upload_required":      "Please choose a file to upload",
		"error.upload_too_large":     "File must not exceed 2MB",
		"error.upload_type_invalid":  "Only JPEG, PNG, GIF and WebP images are supported",
		"error.upload_image_invalid": "Invalid image content or dimensions",
		"error.upload_failed":        "Upload failed",

		"error.captcha_required": "Captcha is required",
		"error.captcha_invalid":  "Captcha is incorrect",
		"error.captcha_failed":   "Failed to generate captcha",
	},
}
