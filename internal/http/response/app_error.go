package response

// AppError 统一错误包装，Result 为机器可读结果码
type AppError struct {
	Code    int
	Result  string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误
func WrapError(code int, result, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Result:  result,
		Message: message,
		Err:     err,
	}
}
