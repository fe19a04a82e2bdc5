package nostd

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// CustomValidator 带英文错误翻译的结构体校验器
type CustomValidator struct {
	Validator *validator.Validate
	trans     ut.Translator
}

// TransInit 注册默认翻译
func (cv *CustomValidator) TransInit() error {
	// fallback 不会进入翻译表，需要再显式传入一次
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, found := uni.GetTranslator("en")
	if !found {
		return fmt.Errorf("translator for en not found")
	}
	if err := entranslations.RegisterDefaultTranslations(cv.Validator, trans); err != nil {
		return err
	}
	cv.trans = trans
	return nil
}

// Validate 校验结构体，返回按字段排序的可读错误
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.Validator.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || cv.trans == nil {
		return err
	}

	messages := make([]string, 0, len(verrs))
	for field, msg := range verrs.Translate(cv.trans) {
		messages = append(messages, field+": "+msg)
	}
	sort.Strings(messages)
	return errors.New(strings.Join(messages, "; "))
}
