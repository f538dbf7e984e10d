package cache

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey identifies a rendered artifact of a layer stack.
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string

	// AssetKey identifies a fetched remote image.
	AssetKey(url string) string
}

// ArtifactKeyOpts are the render settings that change the output bytes.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	AssetBase string `json:"asset_base,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts)
}

func (DefaultKeyer) AssetKey(url string) string {
	return "asset:" + Hash([]byte(url))
}
