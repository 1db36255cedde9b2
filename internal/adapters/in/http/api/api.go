// Package api embeds the OpenAPI document of the HTTP adapter.
package api

import (
	"context"
	_ "embed"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var document []byte

var (
	loadOnce sync.Once
	doc      *openapi3.T
	loadErr  error
)

// Load parses and validates the embedded document once per process.
func Load() (*openapi3.T, error) {
	loadOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, loadErr = loader.LoadFromData(document)
		if loadErr != nil {
			return
		}
		loadErr = doc.Validate(context.Background())
	})
	return doc, loadErr
}
