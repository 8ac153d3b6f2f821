package auth

import (
	"fmt"
	"io"

	"github.com/axonops/authadm/internal/config"
	"github.com/axonops/authadm/pkg/errors"
)

// CheckUserModel validates the configured swappable user model. Every
// finding is returned; callers decide whether findings are fatal.
func CheckUserModel(model config.UserModelConfig) []error {
	var found []error

	required, ok := model.RequiredFieldsList()
	if !ok {
		found = append(found, errors.NewValidationError(model.Name,
			"The required_fields setting must be a list."))
		required = nil
	}

	for _, field := range required {
		if field == model.UsernameField {
			found = append(found, errors.NewValidationError(model.Name,
				"The field named as the username_field should not be included in required_fields on a swappable user model."))
		}
		if len(model.Fields) > 0 && !model.HasField(field) {
			found = append(found, errors.NewValidationError(model.Name,
				fmt.Sprintf("required_fields refers to '%s', which is not declared on the user model.", field)))
		}
	}

	if len(model.Fields) > 0 {
		if !model.HasField(model.UsernameField) {
			found = append(found, errors.NewValidationError(model.Name,
				fmt.Sprintf("username_field refers to '%s', which is not declared on the user model.", model.UsernameField)))
		} else if !model.FieldIsUnique(model.UsernameField) {
			found = append(found, errors.NewValidationError(model.Name,
				"The field named as the username_field must be unique. Add unique = true to the field definition."))
		}
	}

	return found
}

// CheckModels validates the full model registry: the user model plus the
// permission declarations of every registered model. Findings are written
// to w as they are collected.
func CheckModels(cfg *config.Config, w io.Writer) []error {
	found := CheckUserModel(cfg.UserModel)

	for _, meta := range ModelsFromConfig(cfg) {
		if _, err := meta.AllPermissions(); err != nil {
			found = append(found, err)
		}
	}

	for _, err := range found {
		fmt.Fprintln(w, err.Error())
	}

	return found
}
