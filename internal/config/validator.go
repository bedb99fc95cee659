package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	devsyncerrors "github.com/alexisbeaulieu97/devsync/pkg/errors"
	"github.com/alexisbeaulieu97/devsync/pkg/specifier"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern      = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z-.]+)?$`)
	nodeVersionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

	packageManagers = map[string]struct{}{"npm": {}, "yarn": {}, "pnpm": {}}
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		// runtime.node must be a strict X.Y.Z version; ranges and partial
		// versions cannot be mirrored verbatim into the pin file.
		_ = v.RegisterValidation("nodeversion", func(fl validator.FieldLevel) bool {
			return nodeVersionPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("pmspec", func(fl validator.FieldLevel) bool {
			spec := specifier.Parse(fl.Field().String())
			_, known := packageManagers[spec.Name]
			return known
		})

		_ = v.RegisterValidation("toolspec", func(fl validator.FieldLevel) bool {
			spec := specifier.Parse(fl.Field().String())
			return spec.Name != "" && spec.Name != "@"
		})

		validateInst = v
	})

	return validateInst
}

// Validate performs schema and cross-field validation on the manifest.
// A project type other than angular is a precondition failure rather than
// a schema error: the document may be well-formed, this tool just does not
// manage that kind of project.
func Validate(manifest *Manifest) error {
	if manifest == nil {
		return devsyncerrors.NewValidationError("manifest", "manifest is nil", nil)
	}

	if manifest.Project.Type != "" && manifest.Project.Type != ProjectTypeAngular {
		return devsyncerrors.NewPreconditionError(
			fmt.Sprintf("project type %q is not managed by this tool (expected %q)",
				manifest.Project.Type, ProjectTypeAngular), nil)
	}

	v := validatorInstance()
	if err := v.Struct(manifest); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]int, len(manifest.Dependencies.Global))
	for i, raw := range manifest.Dependencies.Global {
		base := specifier.Parse(raw).Name
		if prev, dup := seen[base]; dup {
			return devsyncerrors.NewValidationError(
				fmt.Sprintf("dependencies.global[%d]", i),
				fmt.Sprintf("duplicate tool %q (already declared at index %d)", base, prev), nil)
		}
		seen[base] = i
	}

	for i, cmd := range manifest.Scripts.PreSync {
		if strings.TrimSpace(string(cmd)) == "" {
			return devsyncerrors.NewValidationError(
				fmt.Sprintf("scripts.pre-sync[%d]", i), "command is empty", nil)
		}
	}
	for i, cmd := range manifest.Scripts.PostSync {
		if strings.TrimSpace(string(cmd)) == "" {
			return devsyncerrors.NewValidationError(
				fmt.Sprintf("scripts.post-sync[%d]", i), "command is empty", nil)
		}
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return devsyncerrors.NewValidationError(field, msg, err)
	}

	return devsyncerrors.NewValidationError("manifest", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}
