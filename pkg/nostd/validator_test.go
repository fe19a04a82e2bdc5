package nostd

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Name  string `validate:"required"`
	Count int    `validate:"gte=1"`
}

func newValidator(t *testing.T) *CustomValidator {
	t.Helper()
	cv := &CustomValidator{Validator: validator.New()}
	if err := cv.TransInit(); err != nil {
		t.Fatalf("TransInit: %v", err)
	}
	return cv
}

func TestCustomValidator_TransInit(t *testing.T) {
	cv := newValidator(t)
	if cv.trans == nil {
		t.Fatal("translator not set")
	}
	if err := cv.Validate(sample{Name: "x", Count: 1}); err != nil {
		t.Errorf("valid struct rejected: %v", err)
	}
}

func TestCustomValidator_TranslatedMessages(t *testing.T) {
	cv := newValidator(t)
	err := cv.Validate(sample{})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"Name is a required field", "Count must be 1 or greater"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}
