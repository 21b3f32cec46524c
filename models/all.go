package models

// AllModels lists the record tables in creation order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Shop{},
		&Category{},
		&Product{},
		&ProductImage{},
		&ProductDetail{},
	}
}
