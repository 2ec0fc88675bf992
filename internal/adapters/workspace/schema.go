package workspace

// manifest is the YAML schema of a ripple.yaml workspace manifest.
type manifest struct {
	Version int            `yaml:"version"`
	Units   []manifestUnit `yaml:"units"`
}

// manifestUnit describes one compilation unit in the manifest.
type manifestUnit struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Language   string   `yaml:"language"`
	Documents  []string `yaml:"documents"`
	References []string `yaml:"references"`
}
