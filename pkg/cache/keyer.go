package cache

// Keyer names cache entries.
type Keyer interface {
	// SceneKey names the scene produced by replaying a gesture script.
	SceneKey(scriptHash string, opts SceneKeyOpts) string

	// ArtifactKey names one rendered export of a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// SceneKeyOpts holds everything besides the script that shapes a replay.
type SceneKeyOpts struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Layout string  `json:"layout"` // fingerprint of the layout settings
}

// ArtifactKeyOpts holds the render settings of an export.
type ArtifactKeyOpts struct {
	Format        string  `json:"format"`
	Scale         float64 `json:"scale,omitempty"`
	FullCanvas    bool    `json:"full_canvas,omitempty"`
	HideSelection bool    `json:"hide_selection,omitempty"`
	Interactive   bool    `json:"interactive,omitempty"`
	NodeLink      bool    `json:"nodelink,omitempty"`
}

// DefaultKeyer hashes inputs into "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SceneKey generates a key for a replayed scene.
func (DefaultKeyer) SceneKey(scriptHash string, opts SceneKeyOpts) string {
	return hashKey("scene", scriptHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}

var _ Keyer = DefaultKeyer{}
