package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/penfolio/penfolio/assets"
)

// SetupAssets serves the embedded css/ and static/ trees under
// /assets. The files are compiled into the binary, so clients may
// cache them; a new deploy ships new URLs or busts the cache itself.
func SetupAssets(r *gin.Engine) error {
	group := r.Group("/assets")
	group.Use(func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=3600")
		c.Next()
	})
	group.StaticFS("/", http.FS(assets.Assets))
	return nil
}
