package enums

// ProductCategory groups storefront products.
type ProductCategory string

const (
	CategoryMen         ProductCategory = "Men"
	CategoryWomen       ProductCategory = "Women"
	CategoryKids        ProductCategory = "Kids"
	CategoryFootwear    ProductCategory = "Footwear"
	CategoryAccessories ProductCategory = "Accessories"
	CategoryElectronics ProductCategory = "Electronics"
)

// DefaultSize is the size assigned on first add-to-cart when the shopper
// picked none. Only sized categories get one; everything else stays unsized.
func (c ProductCategory) DefaultSize() *string {
	switch c {
	case CategoryMen, CategoryWomen, CategoryKids, CategoryFootwear:
		size := "M"
		return &size
	}
	return nil
}
