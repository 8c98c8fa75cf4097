package handlers

import (
	"fmt"
	"sync"
	"time"

	"github.com/geocoder89/courseadmin/internal/domain/course"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the course binding rules on gin's validator.
// Safe to call more than once; every call reports the first call's result.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}

		v.RegisterTagNameFunc(jsonTagName)

		if registerErr = v.RegisterValidation("isodate", isISODate); registerErr != nil {
			return
		}
		registerErr = v.RegisterValidation("coursestatus", isCourseStatus)
	})

	return registerErr
}

// isodate: a calendar date in YYYY-MM-DD form
func isISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}

func isCourseStatus(fl validator.FieldLevel) bool {
	return course.Status(fl.Field().String()).IsValid()
}
