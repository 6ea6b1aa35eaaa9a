package assets

import "embed"

//go:embed css/* static/*
var Assets embed.FS

// Shell returns the static application shell the external front end
// boots from. Every page route serves this same document.
func Shell() ([]byte, error) {
	return Assets.ReadFile("static/index.html")
}
