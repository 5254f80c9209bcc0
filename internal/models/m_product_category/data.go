package m_product_category

// Data links a product to one directly assigned category.
type Data struct {
	ProductID  string `spanner:"product_id"`
	CategoryID string `spanner:"category_id"`
}
