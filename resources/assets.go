package resources

import (
	"embed"
	"fmt"
	"path"
	"sync"

	"fyne.io/fyne/v2"
)

const iconDir = "icons/"

// Icon file names.
const (
	IconLogo      = "logo.svg"
	IconTomato    = "tomato.svg"
	IconCoffee    = "coffee.svg"
	IconStopwatch = "stopwatch.svg"
)

//go:embed icons/*.svg
var iconFS embed.FS

var iconCache sync.Map

// Icon returns a Fyne resource for the given icon file.
func Icon(fileName string) (fyne.Resource, error) {
	return loadResource(iconFS, iconDir+fileName, &iconCache)
}

// MustIcon returns a Fyne resource or panics on error.
func MustIcon(fileName string) fyne.Resource {
	resource, err := Icon(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}

func loadResource(fs embed.FS, name string, cache *sync.Map) (fyne.Resource, error) {
	if cached, ok := cache.Load(name); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := fs.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", name, err)
	}

	resource := fyne.NewStaticResource(path.Base(name), data)
	cache.Store(name, resource)
	return resource, nil
}
