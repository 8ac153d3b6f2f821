package auth

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axonops/authadm/internal/config"
)

func customUserModel() config.UserModelConfig {
	return config.UserModelConfig{
		Name:           "auth.customuser",
		VerboseName:    "custom user",
		UsernameField:  "email",
		RequiredFields: []string{"date_of_birth"},
		Fields: []config.FieldConfig{
			{Name: "email", Unique: true},
			{Name: "date_of_birth"},
		},
	}
}

func TestCheckUserModelValid(t *testing.T) {
	assert.Empty(t, CheckUserModel(customUserModel()))
}

func TestCheckUserModelRequiredFieldsIsList(t *testing.T) {
	model := customUserModel()
	model.RequiredFields = "date_of_birth"

	found := CheckUserModel(model)
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Error(), "The required_fields setting must be a list.")
}

func TestCheckUserModelUsernameNotInRequiredFields(t *testing.T) {
	model := customUserModel()
	model.RequiredFields = []string{"email", "date_of_birth"}

	found := CheckUserModel(model)
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Error(),
		"The field named as the username_field should not be included in required_fields on a swappable user model.")
}

func TestCheckUserModelUsernameNonUnique(t *testing.T) {
	model := customUserModel()
	model.Fields = []config.FieldConfig{
		{Name: "email"},
		{Name: "date_of_birth"},
	}

	found := CheckUserModel(model)
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Error(),
		"The field named as the username_field must be unique. Add unique = true to the field definition.")
}

func TestCheckUserModelUndeclaredFields(t *testing.T) {
	model := customUserModel()
	model.UsernameField = "handle"
	model.RequiredFields = []string{"shoe_size"}

	found := CheckUserModel(model)
	require.Len(t, found, 2)
	assert.Contains(t, found[0].Error(), "required_fields refers to 'shoe_size'")
	assert.Contains(t, found[1].Error(), "username_field refers to 'handle'")
}

func TestCheckUserModelNoFieldDeclarations(t *testing.T) {
	// a model without explicit field declarations cannot be checked for
	// uniqueness, only for the required_fields shape
	model := config.UserModelConfig{
		Name:           "auth.user",
		UsernameField:  "username",
		RequiredFields: []string{"email"},
	}
	assert.Empty(t, CheckUserModel(model))
}

func TestCheckModelsWritesFindings(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.UserModel = customUserModel()
	cfg.UserModel.RequiredFields = "date_of_birth"

	var out bytes.Buffer
	found := CheckModels(cfg, &out)

	require.Len(t, found, 1)
	assert.Contains(t, out.String(), "The required_fields setting must be a list.")
}

func TestCheckModelsReportsPermissionIssues(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Models = []config.ModelConfig{{
		App:  "blog",
		Name: "article",
		Permissions: []config.PermissionConfig{
			{Codename: "change_article", Name: "Can edit article (duplicate)"},
		},
	}}

	var out bytes.Buffer
	found := CheckModels(cfg, &out)

	require.Len(t, found, 1)
	assert.Contains(t, out.String(),
		"The permission codename 'change_article' clashes with a builtin permission for model 'blog.article'.")
}
