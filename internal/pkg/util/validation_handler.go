package util

import (
	"Sillage/internal/api/dto"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

func ValidateDTO(dto any) error {
	if err := validate.Struct(dto); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			firstError := vErrs[0]
			msg := fmt.Sprintf("字段 [%s] 校验失败，规则 [%s]",
				firstError.Field(),
				firstError.Tag())
			return errors.New(msg)
		}
	}
	return nil
}

// ValidateRegDTO 注册必须带用户名或邮箱其中之一
func ValidateRegDTO(regDTO *dto.RegisterDTO) bool {
	if regDTO.Username == nil && regDTO.Email == nil {
		return false
	}
	if err := ValidateDTO(regDTO); err != nil {
		return false
	}
	return true
}

func ValidateLoginDTO(loginDTO *dto.CredentialDTO) bool {
	if loginDTO.Password == "" {
		return false
	}
	if loginDTO.Username != nil && *loginDTO.Username != "" {
		return true
	}
	if loginDTO.Email != nil && *loginDTO.Email != "" {
		return true
	}
	return false
}
