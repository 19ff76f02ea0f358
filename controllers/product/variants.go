package productControllers

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Tedorikk/warung-hmsi-2/models"
)

type VariantInput struct {
	ID    *uint   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// ValidateVariants checks every submitted variant. Keys follow the
// "variants.<index>.<field>" convention so the client can attach the
// message to the right row.
func ValidateVariants(inputs []VariantInput) map[string]string {
	errs := map[string]string{}
	for i, v := range inputs {
		if strings.TrimSpace(v.Name) == "" {
			errs[fmt.Sprintf("variants.%d.name", i)] = "variant name is required"
		}
		if v.Price < 0 {
			errs[fmt.Sprintf("variants.%d.price", i)] = "price must not be negative"
		}
		if v.Stock < 0 {
			errs[fmt.Sprintf("variants.%d.stock", i)] = "stock must not be negative"
		}
	}
	return errs
}

// ReconcileVariants makes the product's stored variants match the
// submitted set: variants absent from the input are deleted, inputs
// with an id update that row, the rest are created. Runs on the
// caller's transaction.
func ReconcileVariants(tx *gorm.DB, productID uint, inputs []VariantInput) error {
	var existing []models.ProductVariant
	if err := tx.Where("product_id = ?", productID).Find(&existing).Error; err != nil {
		return err
	}

	keep := make(map[uint]bool, len(inputs))
	for _, in := range inputs {
		if in.ID != nil {
			keep[*in.ID] = true
		}
	}

	var toDelete []uint
	for _, v := range existing {
		if !keep[v.ID] {
			toDelete = append(toDelete, v.ID)
		}
	}
	if len(toDelete) > 0 {
		if err := tx.Where("product_id = ? AND id IN ?", productID, toDelete).
			Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
	}

	for _, in := range inputs {
		if in.ID != nil {
			if err := tx.Model(&models.ProductVariant{}).
				Where("id = ? AND product_id = ?", *in.ID, productID).
				Updates(map[string]interface{}{
					"name":  in.Name,
					"price": in.Price,
					"stock": in.Stock,
				}).Error; err != nil {
				return err
			}
			continue
		}
		variant := models.ProductVariant{
			ProductID: productID,
			Name:      in.Name,
			Price:     in.Price,
			Stock:     in.Stock,
		}
		if err := tx.Create(&variant).Error; err != nil {
			return err
		}
	}
	return nil
}
