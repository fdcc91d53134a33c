// Package public embeds the browser assets served next to the admin pages.
package public

import (
	"embed"
	"io/fs"
	"net/http"
)

// Public URLs of the embedded assets.
const (
	MountPath  = "/public/static/"
	Stylesheet = MountPath + "catalog.css"
	Script     = MountPath + "catalog.js"
)

//go:embed static/*.css static/*.js
var assets embed.FS

// StaticFS returns the asset tree rooted at the static directory.
func StaticFS() (fs.FS, error) {
	return fs.Sub(assets, "static")
}

// Handler serves the assets below MountPath.
func Handler() (http.Handler, error) {
	root, err := StaticFS()
	if err != nil {
		return nil, err
	}
	return http.StripPrefix(MountPath, http.FileServer(http.FS(root))), nil
}
