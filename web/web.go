// Package web embeds the browser client that lists, adds and removes products.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed public
var assets embed.FS

func Handler() http.Handler {
	public, err := fs.Sub(assets, "public")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(public))
}
