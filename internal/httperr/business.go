package httperr

import "errors"

// BusinessError é uma regra de negócio violada. Code vai para o cliente como
// error_code.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// BusinessCode devolve o código de err, ou "" se não for regra de negócio.
func BusinessCode(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

func IsBusiness(err error, code string) bool {
	c := BusinessCode(err)
	return c != "" && c == code
}
