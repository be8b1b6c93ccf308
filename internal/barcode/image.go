package barcode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

// RenderImage renders the code as a code128 PNG data URI suitable for storing
// on the catalog record. When encoding fails (codes outside the code128
// alphabet), a plain SVG carrying the digits is returned instead so the
// record still has a displayable artifact.
func RenderImage(code string) string {
	encoded, err := code128.Encode(code)
	if err != nil {
		return fallbackSVG(code)
	}
	scaled, err := barcode.Scale(encoded, 300, 80)
	if err != nil {
		return fallbackSVG(code)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return fallbackSVG(code)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func fallbackSVG(code string) string {
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="200" height="80">
  <rect width="200" height="80" fill="white"/>
  <text x="100" y="45" text-anchor="middle" font-family="monospace" font-size="14">%s</text>
</svg>`, code)
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
