package diff

import (
	"fmt"

	"github.com/alexisbeaulieu97/devsync/internal/model"
)

// severityPolicy is the fixed mapping from fixed check keys to severity.
// Tool and extension checks are parameterized and handled in code.
var severityPolicy = map[model.CheckKey]model.Severity{
	model.CheckRuntime:        model.SeverityBlocking,
	model.CheckVersionManager: model.SeverityRecommended,
	model.CheckPinFile:        model.SeverityRecommended,
	model.CheckPackageManager: model.SeverityBlocking,
	model.CheckExtensionHost:  model.SeverityRecommended,
	model.CheckPackageJSON:    model.SeverityBlocking,
	model.CheckAngularJSON:    model.SeverityRecommended,
	model.CheckNodeModules:    model.SeverityRecommended,
}

const (
	severityTool      = model.SeverityRecommended
	severityExtension = model.SeverityInformational
)

func suggestedRuntime(desired string) string {
	return fmt.Sprintf("install and activate Node %s (devsync sync)", desired)
}

func suggestedVersionManager() string {
	return "install nvm and restart your shell"
}

func suggestedPinFile(desired string) string {
	return fmt.Sprintf("pin Node %s in .nvmrc (devsync sync)", desired)
}

func suggestedPackageManager(spec string) string {
	return fmt.Sprintf("install %s globally (devsync sync)", spec)
}

func suggestedTool(spec string) string {
	return fmt.Sprintf("npm install -g %s (devsync sync)", spec)
}

func suggestedExtensionHost() string {
	return "install VS Code and expose the 'code' CLI on PATH"
}

func suggestedExtension(id string) string {
	return fmt.Sprintf("code --install-extension %s (devsync sync)", id)
}

func suggestedWorkspace(key model.CheckKey) string {
	switch key {
	case model.CheckNodeModules:
		return "run your package manager's install in the project root"
	case model.CheckPackageJSON:
		return "this directory does not look like a Node project; check your working directory"
	case model.CheckAngularJSON:
		return "angular.json is missing; check your working directory or restore it"
	}
	return ""
}
