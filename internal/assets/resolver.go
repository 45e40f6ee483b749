package assets

import "errors"

// AssetResolver layers a filesystem loader over the embedded one. Custom
// assets win; names missing from the custom tree fall back to the
// built-ins.
type AssetResolver struct {
	custom   AssetLoader // nil when no asset directory is configured
	embedded AssetLoader
}

var _ AssetLoader = (*AssetResolver)(nil)

// NewAssetResolver builds a resolver over customBasePath. An empty path
// serves embedded assets only; a non-empty path must be a readable
// directory.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		custom, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = custom
	}
	return r, nil
}

// LoadStyle resolves a stylesheet, custom first.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.resolve(name, AssetLoader.LoadStyle)
}

// LoadTemplate resolves a template, custom first.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.resolve(name, AssetLoader.LoadTemplate)
}

// HasCustomLoader reports whether an asset directory override is active.
func (r *AssetResolver) HasCustomLoader() bool { return r.custom != nil }

// resolve tries the custom loader first and falls back to embedded only
// when the asset is not found there. Validation and I/O failures surface
// immediately.
func (r *AssetResolver) resolve(name string, load func(AssetLoader, string) (string, error)) (string, error) {
	if r.custom == nil {
		return load(r.embedded, name)
	}
	content, err := load(r.custom, name)
	if err == nil || !isMissing(err) {
		return content, err
	}
	return load(r.embedded, name)
}

// isMissing reports whether err is one of the not-found sentinels.
func isMissing(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}
