package response

// 业务状态码
const (
	CodeOK           = 0
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeConflict     = 409
	CodeValidation   = 422
	CodeInternal     = 500
)

// 机器可读结果码：冲突类错误携带足够上下文供调用方决定是否
// 拉取最新数据后重试
const (
	ResultOK                  = "OK"
	ResultBadRequest          = "BAD_REQUEST"
	ResultUnauthorized        = "UNAUTHORIZED"
	ResultNotFound            = "NOT_FOUND"
	ResultInternal            = "INTERNAL"
	ResultValidationError     = "VALIDATION_ERROR"
	ResultVersionMismatch     = "VERSION_MISMATCH"
	ResultVersionRangeInvalid = "VERSION_RANGE_INVALID"
	ResultSKULocked           = "SKU_LOCKED"
	ResultDuplicateSKU        = "DUPLICATE_SKU"
	ResultDuplicateSlug       = "DUPLICATE_SLUG"
	ResultReferenceInvalid    = "REFERENCE_INVALID"
	ResultProductTrashed      = "PRODUCT_TRASHED"
)
