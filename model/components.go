package model

// Binary describes one built artifact inside the output directory,
// located at <outputDir>/<Path>/<Name>.
type Binary struct {
	Path string
	Name string
}

// AssetName is the name the binary is published under for a given release tag.
func (b Binary) AssetName(version string) string {
	return b.Name + "-" + version
}

// Repo identifies a GitHub repository
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}
