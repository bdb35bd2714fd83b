package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

const (
	tagTemplateFile      = "template_file"
	tagRequiredForDriver = "required_for_driver"
	tagRequiredForStore  = "required_for_store"
)

// newValidator builds a validator whose messages use the YAML key paths, e.g. "test.question_count".
func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("enTranslations.RegisterDefaultTranslations() > %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation(tagTemplateFile, isReadableTemplate); err != nil {
		return nil, nil, fmt.Errorf("validate.RegisterValidation(%s) > %w", tagTemplateFile, err)
	}
	validate.RegisterStructValidation(validateStore, Config{})

	translations := map[string]string{
		tagTemplateFile:      "{0} must be an existing and readable template file",
		tagRequiredForDriver: "{0} is required for the {1} driver",
		tagRequiredForStore:  "{0} is required for the {1} store",
	}
	for tag, text := range translations {
		if err := validate.RegisterTranslation(tag, trans, registerTranslation(tag, text), translateKeyPath); err != nil {
			return nil, nil, fmt.Errorf("validate.RegisterTranslation(%s) > %w", tag, err)
		}
	}

	return validate, trans, nil
}

func registerTranslation(tag, text string) validator.RegisterTranslationsFunc {
	return func(ut ut.Translator) error {
		return ut.Add(tag, text, true)
	}
}

// translateKeyPath renders {0} as the key path without the root struct name.
func translateKeyPath(ut ut.Translator, fe validator.FieldError) string {
	t, _ := ut.T(fe.Tag(), strings.TrimPrefix(fe.Namespace(), "Config."), fe.Param())
	return t
}

// validateStore checks the settings that only matter for the configured store and driver.
func validateStore(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	switch cfg.Store.Type {
	case StoreTypeYAML:
		if cfg.Store.Directory == "" {
			sl.ReportError(cfg.Store.Directory, "store.directory", "Directory", tagRequiredForStore, StoreTypeYAML)
		}
	case StoreTypeDatabase:
		switch cfg.Database.Driver {
		case DriverSQLite:
			if cfg.Database.Path == "" {
				sl.ReportError(cfg.Database.Path, "database.path", "Path", tagRequiredForDriver, DriverSQLite)
			}
		case DriverMySQL:
			if cfg.Database.Host == "" {
				sl.ReportError(cfg.Database.Host, "database.host", "Host", tagRequiredForDriver, DriverMySQL)
			}
			if cfg.Database.Database == "" {
				sl.ReportError(cfg.Database.Database, "database.database", "Database", tagRequiredForDriver, DriverMySQL)
			}
		}
	}
}

// isReadableTemplate reports whether the field names a regular file the owner can read.
func isReadableTemplate(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o400 != 0
}
