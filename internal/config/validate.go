package config

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/TRouxel/TradingDashboard/internal/xe"
	"github.com/TRouxel/TradingDashboard/pkg/nostd"
	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validatorInst *nostd.CustomValidator
	validatorErr  error
)

func analysisValidator() (*nostd.CustomValidator, error) {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// 错误信息中使用 json 字段名
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		cv := &nostd.CustomValidator{Validator: v}
		if err := cv.TransInit(); err != nil {
			validatorErr = err
			return
		}
		validatorInst = cv
	})
	return validatorInst, validatorErr
}

// Validate 校验参数范围，不做任何修正
func (a *Analysis) Validate() error {
	v, err := analysisValidator()
	if err != nil {
		return fmt.Errorf("init validator: %w", err)
	}
	if err := v.Validate(a); err != nil {
		return fmt.Errorf("%w: %v", xe.ErrInvalidConfiguration, err)
	}
	if missing := a.missingCombinationWeights(); len(missing) > 0 {
		return fmt.Errorf("%w: combination_weights missing %s", xe.ErrInvalidConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// missingCombinationWeights 每个组合都必须有权重，缺失的按名称排序返回
func (a *Analysis) missingCombinationWeights() []string {
	var missing []string
	for _, name := range slices.Sorted(maps.Keys(DefaultCombinationWeights())) {
		if _, ok := a.CombinationWeights[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// ValidateHorizons 校验回测/持有期列表
func ValidateHorizons(name string, values []int) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: %s must not be empty", xe.ErrInvalidConfiguration, name)
	}
	for _, n := range values {
		if n < 1 {
			return fmt.Errorf("%w: %s must be >= 1, got %d", xe.ErrInvalidConfiguration, name, n)
		}
	}
	return nil
}
