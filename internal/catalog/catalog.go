// Package catalog serves the storefront's static product table.
package catalog

import (
	"fmt"

	"arteideas-backend/internal/models"
)

var products = []models.Product{
	{
		ID:          1,
		Title:       "Marco Básico Personalizado con Foto",
		Description: "Marco elegante perfecto para cualquier foto especial. Resistente, bonito, colorido y muy personal.",
		Price:       "24.99€",
		OldPrice:    "34.99€",
		Badge:       "OFERTA",
		ImgSrc:      "https://images.unsplash.com/photo-1525909002-1b05e0c869d8?q=80&w=600&auto=format&fit=crop",
		Promotions: []string{
			"Compra 3+ unidades: 10% descuento",
			"Compra 5+ unidades: 15% descuento",
			"Compra 10+ unidades: 25% descuento",
		},
		Thumbnails: []string{
			"https://images.unsplash.com/photo-1525909002-1b05e0c869d8?q=80&w=200&auto=format&fit=crop",
			"https://images.unsplash.com/photo-1623582854588-d60de57fa33f?q=80&w=200&auto=format&fit=crop",
		},
	},
	{
		ID:          2,
		Title:       "Marcos Personalizados con Fotos - Collage",
		Description: "Convierte tus mejores fotos en piezas de arte únicas. Varios tamaños y diseños disponibles.",
		Price:       "29.95€",
		ImgSrc:      "https://images.unsplash.com/photo-1583847268964-b28dc8f51f92?q=80&w=600&auto=format&fit=crop",
	},
	{
		ID:          3,
		Title:       "Marco Personalizado con Fotos - Elegante",
		Description: "Marcos de alta calidad con diseño elegante. Ideal para decorar tu hogar con tus mejores recuerdos.",
		Price:       "24.95€",
		ImgSrc:      "https://images.unsplash.com/photo-1519741497674-611481863552?q=80&w=600&auto=format&fit=crop",
	},
	{
		ID:          4,
		Title:       "Impresiones de Fotos - Revelado",
		Description: "Impresión profesional de fotos en varios tamaños. Calidad premium para tus mejores momentos.",
		Price:       "19.96€",
		OldPrice:    "9.70€",
		ImgSrc:      "https://images.unsplash.com/photo-1526047932273-341f2a7631f9?q=80&w=600&auto=format&fit=crop",
	},
}

func List() []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	return out
}

func ByID(id int) (models.Product, error) {
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("product %d not found", id)
}
