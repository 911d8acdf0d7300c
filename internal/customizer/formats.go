package customizer

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatSpec is a named target print size driving the crop aspect
// ratio and unit price.
type FormatSpec struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	UnitPrice float64 `json:"unit_price"`
}

const customFormatID = "custom"

// Formats is the fixed print-size table. The custom entry is a flat
// price regardless of dimensions.
var Formats = []FormatSpec{
	{ID: "9x13", Label: "9x13 cm", UnitPrice: 0.70},
	{ID: "10x15", Label: "10x15 cm", UnitPrice: 0.75},
	{ID: "11x15", Label: "11x15 cm", UnitPrice: 0.80},
	{ID: "13x13", Label: "13x13 cm", UnitPrice: 0.85},
	{ID: "13x18", Label: "13x18 cm", UnitPrice: 0.90},
	{ID: "15x15", Label: "15x15 cm", UnitPrice: 0.95},
	{ID: "15x20", Label: "15x20 cm", UnitPrice: 1.00},
	{ID: "20x20", Label: "20x20 cm", UnitPrice: 1.20},
	{ID: customFormatID, Label: "Personalizado", UnitPrice: 1.50},
}

func FormatByID(id string) (FormatSpec, bool) {
	for _, f := range Formats {
		if f.ID == id {
			return f, true
		}
	}
	return FormatSpec{}, false
}

// fixedAspectRatio parses a "WxH" format id into width/height.
func fixedAspectRatio(id string) (float64, bool) {
	parts := strings.SplitN(id, "x", 2)
	if len(parts) != 2 {
		return 0, false
	}
	w, errW := strconv.ParseFloat(parts[0], 64)
	h, errH := strconv.ParseFloat(parts[1], 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, false
	}
	return w / h, true
}

func customLabel(width, height float64) string {
	return fmt.Sprintf("Personalizado (%gx%g cm)", width, height)
}
