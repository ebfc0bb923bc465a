package main

import (
	"embed"

	cmd "github.com/devdash-cli/devdash/cmd/devdash"
	"github.com/devdash-cli/devdash/internal/assets"
)

//go:embed data/templates
var vfs embed.FS

func main() {
	assets.UpdateData(&vfs)
	cmd.Execute()
}
