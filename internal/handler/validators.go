package handler

import (
	"errors"
	"strings"
	"sync"

	"sacra/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validatorsOnce sync.Once
	validatorsErr  error
)

// RegisterValidators adds the decimal, material and modality tags to gin's
// validator engine. Safe to call more than once.
func RegisterValidators() error {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			validatorsErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		for tag, fn := range map[string]validator.Func{
			"decimal":  isDecimal,
			"material": isMaterial,
			"modality": isModality,
		} {
			if err := v.RegisterValidation(tag, fn); err != nil {
				validatorsErr = err
				return
			}
		}
	})
	return validatorsErr
}

func isDecimal(fl validator.FieldLevel) bool {
	_, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	return err == nil
}

func isMaterial(fl validator.FieldLevel) bool {
	return model.IsMaterial(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
}

func isModality(fl validator.FieldLevel) bool {
	return model.IsModality(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
}
