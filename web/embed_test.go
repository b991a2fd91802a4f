package web

import (
	"io/fs"
	"testing"
)

func TestEmbeddedFS_ContainsTemplatesAndAssets(t *testing.T) {
	for _, name := range []string{
		"templates/layouts/base.html",
		"templates/partials/product_table.html",
		"templates/product/list.html",
		"templates/product/table.html",
		"templates/errors/404.html",
		"static/css/app.css",
		"static/js/app.js",
	} {
		if _, err := fs.Stat(EmbeddedFS, name); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}
