// Package web holds the embeddable widget script served by the API.
package web

import (
	_ "embed"
)

//go:embed widget.js
var WidgetJS []byte
