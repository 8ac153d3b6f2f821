package auth

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/axonops/authadm/internal/config"
	"github.com/axonops/authadm/pkg/errors"
)

// The permission name column is 50 characters wide and default names are
// rendered as "Can change <verbose name>", leaving 39 for the verbose name.
const maxVerboseNameLength = 39

// defaultActions are the permissions every model gets unless it overrides
// its default permission set
var defaultActions = []string{"add", "change", "delete"}

// PermissionDef is a single permission to ensure on a model
type PermissionDef struct {
	Codename string
	Name     string
}

// ModelMeta describes one permission-bearing model. DefaultPermissions
// nil means the standard add/change/delete set; an empty non-nil slice
// disables default permissions entirely.
type ModelMeta struct {
	App                string
	Name               string
	VerboseName        string
	DefaultPermissions []string
	HasDefaultOverride bool
	Permissions        []PermissionDef
}

// Label returns the "app.model" identifier
func (m ModelMeta) Label() string {
	return m.App + "." + m.Name
}

func (m ModelMeta) verboseName() string {
	if m.VerboseName != "" {
		return m.VerboseName
	}
	return m.Name
}

func (m ModelMeta) defaultActions() []string {
	if m.HasDefaultOverride {
		return m.DefaultPermissions
	}
	return defaultActions
}

// AllPermissions expands the model's default and custom permissions,
// rejecting codenames that clash with a builtin permission, duplicated
// custom codenames, and verbose names too long for the name column.
func (m ModelMeta) AllPermissions() ([]PermissionDef, error) {
	verbose := m.verboseName()
	if len(verbose) > maxVerboseNameLength {
		return nil, errors.NewValidationError("",
			fmt.Sprintf("The verbose_name of %s is longer than %d characters", m.Name, maxVerboseNameLength))
	}

	builtin := make(map[string]bool)
	perms := make([]PermissionDef, 0, len(m.defaultActions())+len(m.Permissions))
	for _, action := range m.defaultActions() {
		codename := fmt.Sprintf("%s_%s", action, m.Name)
		builtin[codename] = true
		perms = append(perms, PermissionDef{
			Codename: codename,
			Name:     fmt.Sprintf("Can %s %s", action, verbose),
		})
	}

	seen := make(map[string]bool)
	for _, perm := range m.Permissions {
		if builtin[perm.Codename] {
			return nil, errors.NewCommandError(
				"The permission codename '%s' clashes with a builtin permission for model '%s'.",
				perm.Codename, m.Label())
		}
		if seen[perm.Codename] {
			return nil, errors.NewCommandError(
				"The permission codename '%s' is duplicated for model '%s'.",
				perm.Codename, m.Label())
		}
		seen[perm.Codename] = true
		perms = append(perms, perm)
	}

	return perms, nil
}

// BuiltinModels returns the models authadm itself owns
func BuiltinModels() []ModelMeta {
	return []ModelMeta{
		{App: "auth", Name: "group", VerboseName: "group"},
		{App: "auth", Name: "permission", VerboseName: "permission"},
		{App: "contenttypes", Name: "contenttype", VerboseName: "content type"},
	}
}

// ModelsFromConfig builds the full model registry: the swappable user
// model, the builtin models, and every model declared in configuration.
func ModelsFromConfig(cfg *config.Config) []ModelMeta {
	userApp, userName := splitModelName(cfg.UserModel.Name)
	models := []ModelMeta{
		{App: userApp, Name: userName, VerboseName: cfg.UserModel.VerboseName},
	}
	models = append(models, BuiltinModels()...)

	for _, mc := range cfg.Models {
		meta := ModelMeta{
			App:         mc.App,
			Name:        mc.Name,
			VerboseName: mc.VerboseName,
		}
		if mc.DefaultPermissions != nil {
			meta.HasDefaultOverride = true
			meta.DefaultPermissions = *mc.DefaultPermissions
		}
		for _, pc := range mc.Permissions {
			meta.Permissions = append(meta.Permissions, PermissionDef{Codename: pc.Codename, Name: pc.Name})
		}
		models = append(models, meta)
	}

	return models
}

func splitModelName(name string) (app, model string) {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return name[:i], name[i+1:]
		}
	}
	return "auth", name
}

// PermissionStore is the slice of the store the permission sync needs.
// FindContentTypeID never creates a row; dry runs use it so they leave
// the database untouched.
type PermissionStore interface {
	ContentTypeID(ctx context.Context, appLabel, model string) (uint, error)
	FindContentTypeID(ctx context.Context, appLabel, model string) (uint, bool, error)
	PermissionCodenames(ctx context.Context, contentTypeID uint) (map[string]bool, error)
	AddPermissions(ctx context.Context, contentTypeID uint, perms []PermissionDef) error
}

// SyncOptions control permission sync output and side effects
type SyncOptions struct {
	Verbosity int
	DryRun    bool
	Out       io.Writer
}

// SyncPermissions ensures every registered model has its default and
// custom permissions in the store, creating only the missing ones. It
// returns the number of permissions created, or, on a dry run, the
// number that would have been created without writing anything.
func SyncPermissions(ctx context.Context, st PermissionStore, models []ModelMeta, logger *logrus.Logger, opts SyncOptions) (int, error) {
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	created := 0
	for _, meta := range models {
		perms, err := meta.AllPermissions()
		if err != nil {
			return created, err
		}

		var ctypeID uint
		existing := map[string]bool{}
		if opts.DryRun {
			id, found, err := st.FindContentTypeID(ctx, meta.App, meta.Name)
			if err != nil {
				return created, err
			}
			// an absent content type means no permissions exist yet
			if found {
				existing, err = st.PermissionCodenames(ctx, id)
				if err != nil {
					return created, err
				}
			}
		} else {
			ctypeID, err = st.ContentTypeID(ctx, meta.App, meta.Name)
			if err != nil {
				return created, err
			}
			existing, err = st.PermissionCodenames(ctx, ctypeID)
			if err != nil {
				return created, err
			}
		}

		missing := make([]PermissionDef, 0, len(perms))
		for _, perm := range perms {
			if !existing[perm.Codename] {
				missing = append(missing, perm)
			}
		}

		if len(missing) == 0 {
			continue
		}

		for _, perm := range missing {
			if opts.Verbosity >= 2 {
				fmt.Fprintf(opts.Out, "Adding permission '%s.%s'\n", meta.App, perm.Codename)
			}
		}

		if !opts.DryRun {
			if err := st.AddPermissions(ctx, ctypeID, missing); err != nil {
				return created, err
			}
			for _, perm := range missing {
				logger.WithFields(logrus.Fields{
					"model":    meta.Label(),
					"codename": perm.Codename,
				}).Info("Created permission")
			}
		}
		created += len(missing)
	}

	return created, nil
}
