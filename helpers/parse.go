package helpers

import (
	"fmt"
	"strings"

	"update-release/model"
)

// SplitOwnerRepo parses a repository identifier of the form "<owner>/<name>".
func SplitOwnerRepo(ownerAndName string) (model.Repo, error) {
	owner, name, found := strings.Cut(ownerAndName, "/")
	if !found || owner == "" || name == "" || strings.Contains(name, "/") {
		return model.Repo{}, fmt.Errorf(
			"invalid repository identifier %q: expected \"<owner>/<name>\"",
			ownerAndName,
		)
	}

	return model.Repo{Owner: owner, Name: name}, nil
}
