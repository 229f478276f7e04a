// Package syncapp implements bidirectional catalog synchronization:
// encoding products into keyed tabular rows and reconciling incoming
// rows back into the catalog, driven by template field lists.
package syncapp

// Static field keys. Keys double as column headers on the wire.
const (
	FieldID            = "id"
	FieldName          = "name"
	FieldSKU           = "sku"
	FieldCategoryID    = "category_id"
	FieldCategories    = "categories"
	FieldStockStatusID = "stock_status_id"
	FieldOriginPrice   = "origin_price"
	FieldSorting       = "sorting"
	FieldStatus        = "status"
	FieldImages        = "images"
	FieldIsIndex       = "is_index"
	FieldIsMerchant    = "is_merchant"
	FieldCreatedAt     = "created_at"
)

// Parametric key prefixes. The remainder of the key is the parameter:
// a language slug for localized text, an attribute id for value sets.
const (
	PrefixTranslation = "name_"
	PrefixSeoTitle    = "title_"
	PrefixSeoHeading  = "heading_"
	PrefixSeoSummary  = "summary_"
	PrefixSeoContent  = "content_"
	PrefixSeoDesc     = "description_"
	PrefixAttribute   = "attribute_"
)

// AnchorFields are force-included in every effective field list so the
// reconciler can always match rows and validate creations.
var AnchorFields = []string{FieldID, FieldName, FieldCategoryID, FieldOriginPrice}

// List separators. Human-facing name lists carry a space after the
// comma; image URL lists do not. Decoding splits on the comma alone
// and trims, so both forms read back identically.
const (
	NameListSeparator  = ", "
	ImageListSeparator = ","
)
