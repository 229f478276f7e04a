package syncapp

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DiVotek/smart-cms-products-import/internal/domain/catalog"
	"github.com/DiVotek/smart-cms-products-import/internal/infrastructure/tabular"
	"github.com/shopspring/decimal"
)

// createdAtLayout is the wire format for the created_at column
const createdAtLayout = "2006-01-02 15:04:05"

// EncodeContext carries the reference data an encoder may need.
// Languages are the active site languages keyed by slug.
type EncodeContext struct {
	Languages map[string]catalog.Language
}

// Mutation accumulates the effect of decoding one row onto one product.
// Decoders are pure: they parse, mutate the in-memory product and stage
// reference names. The reconciler resolves staged references against
// the repositories afterwards.
type Mutation struct {
	Row       *tabular.Row
	Product   *catalog.Product
	Create    bool
	Languages map[string]catalog.Language

	// Staged reference values, resolved by the reconciler.
	CategoryRef        string
	CategoryTouched    bool
	StockStatusRef     string
	StockStatusTouched bool
	CategoryNames      []string
	CategoriesTouched  bool
	AttributeNames     map[uint][]string
	Seo                map[uint]catalog.SeoFields
	Translations       map[uint]string
}

// NewMutation creates a mutation for one row against one product
func NewMutation(row *tabular.Row, product *catalog.Product, create bool, languages map[string]catalog.Language) *Mutation {
	return &Mutation{
		Row:            row,
		Product:        product,
		Create:         create,
		Languages:      languages,
		AttributeNames: make(map[uint][]string),
		Seo:            make(map[uint]catalog.SeoFields),
		Translations:   make(map[uint]string),
	}
}

// EncoderFunc renders one field of a product as a cell value.
// Unresolvable references render as "".
type EncoderFunc func(ec *EncodeContext, p *catalog.Product, param string) string

// DecoderFunc applies one cell value to a mutation
type DecoderFunc func(m *Mutation, param, value string) error

// FallbackResolver is consulted, in registration order, for field keys
// the static and prefix tables do not know. It reports whether it
// claims the key.
type FallbackResolver func(key string) (EncoderFunc, DecoderFunc, bool)

// FieldError is a decode failure carrying a row-error code
type FieldError struct {
	Code    string
	Message string
}

// Error implements the error interface
func (e *FieldError) Error() string {
	return e.Message
}

func invalidType(format string, args ...interface{}) *FieldError {
	return &FieldError{Code: tabular.ErrCodeInvalidType, Message: fmt.Sprintf(format, args...)}
}

func validationFailed(format string, args ...interface{}) *FieldError {
	return &FieldError{Code: tabular.ErrCodeValidation, Message: fmt.Sprintf(format, args...)}
}

// fieldCodec pairs the two directions of one field
type fieldCodec struct {
	encode EncoderFunc
	decode DecoderFunc
}

// prefixCodec is a parametric entry matched by key prefix
type prefixCodec struct {
	prefix string
	codec  fieldCodec
}

// Registry resolves field keys to their encoder/decoder pair.
// Static keys are matched exactly, then parametric prefixes in table
// order, then registered fallback resolvers in registration order.
// A key nobody claims encodes as "" and decodes as a no-op.
type Registry struct {
	static    map[string]fieldCodec
	prefixes  []prefixCodec
	fallbacks []FallbackResolver
}

// NewRegistry creates a registry with the built-in field vocabulary
func NewRegistry() *Registry {
	r := &Registry{
		static: map[string]fieldCodec{
			FieldID:            {encodeID, decodeNoop},
			FieldName:          {encodeName, decodeName},
			FieldSKU:           {encodeSKU, decodeSKU},
			FieldCategoryID:    {encodeCategoryID, decodeCategoryID},
			FieldCategories:    {encodeCategories, decodeCategories},
			FieldStockStatusID: {encodeStockStatus, decodeStockStatus},
			FieldOriginPrice:   {encodeOriginPrice, decodeOriginPrice},
			FieldSorting:       {encodeSorting, decodeSorting},
			FieldStatus:        {encodeStatus, decodeStatus},
			FieldImages:        {encodeImages, decodeImages},
			FieldIsIndex:       {encodeIsIndex, decodeIsIndex},
			FieldIsMerchant:    {encodeIsMerchant, decodeIsMerchant},
			FieldCreatedAt:     {encodeCreatedAt, decodeCreatedAt},
		},
		prefixes: []prefixCodec{
			{PrefixTranslation, fieldCodec{encodeTranslation, decodeTranslation}},
			{PrefixSeoTitle, fieldCodec{encodeSeoSlot(func(s *catalog.ProductSeo) string { return s.Title }), decodeSeo}},
			{PrefixSeoHeading, fieldCodec{encodeSeoSlot(func(s *catalog.ProductSeo) string { return s.Heading }), decodeSeo}},
			{PrefixSeoSummary, fieldCodec{encodeSeoSlot(func(s *catalog.ProductSeo) string { return s.Summary }), decodeSeo}},
			{PrefixSeoContent, fieldCodec{encodeSeoSlot(func(s *catalog.ProductSeo) string { return s.Content }), decodeSeo}},
			{PrefixSeoDesc, fieldCodec{encodeSeoSlot(func(s *catalog.ProductSeo) string { return s.Description }), decodeSeo}},
			{PrefixAttribute, fieldCodec{encodeAttribute, decodeAttribute}},
		},
	}
	return r
}

// RegisterFallback appends a resolver for keys outside the built-in
// vocabulary. Resolvers are consulted in registration order.
func (r *Registry) RegisterFallback(f FallbackResolver) {
	r.fallbacks = append(r.fallbacks, f)
}

// Resolution is a field key bound to its codec
type Resolution struct {
	Key    string
	Param  string
	encode EncoderFunc
	decode DecoderFunc
}

// Encode renders the field for a product
func (res Resolution) Encode(ec *EncodeContext, p *catalog.Product) string {
	return res.encode(ec, p, res.Param)
}

// CanDecode reports whether the field has a decoder
func (res Resolution) CanDecode() bool {
	return res.decode != nil
}

// Decode applies a cell value through the field's decoder
func (res Resolution) Decode(m *Mutation, value string) error {
	return res.decode(m, res.Param, value)
}

// Resolve binds a field key to its codec. Prefix matches split the key
// into prefix and parameter.
func (r *Registry) Resolve(key string) Resolution {
	if c, ok := r.static[key]; ok {
		return Resolution{Key: key, encode: c.encode, decode: c.decode}
	}
	for _, p := range r.prefixes {
		if strings.HasPrefix(key, p.prefix) && len(key) > len(p.prefix) {
			return Resolution{
				Key:    key,
				Param:  strings.TrimPrefix(key, p.prefix),
				encode: p.codec.encode,
				decode: p.codec.decode,
			}
		}
	}
	for _, f := range r.fallbacks {
		if enc, dec, ok := f(key); ok {
			return Resolution{Key: key, encode: enc, decode: dec}
		}
	}
	return Resolution{Key: key, encode: encodeEmpty}
}

// ---- encoders ----

func encodeEmpty(_ *EncodeContext, _ *catalog.Product, _ string) string {
	return ""
}

func encodeID(_ *EncodeContext, p *catalog.Product, _ string) string {
	return strconv.FormatUint(uint64(p.ID), 10)
}

func encodeName(_ *EncodeContext, p *catalog.Product, _ string) string {
	return p.Name
}

func encodeSKU(_ *EncodeContext, p *catalog.Product, _ string) string {
	return p.SKU
}

// encodeCategoryID renders the primary category by name; the decoder
// accepts a name or a numeric id.
func encodeCategoryID(_ *EncodeContext, p *catalog.Product, _ string) string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

func encodeCategories(_ *EncodeContext, p *catalog.Product, _ string) string {
	extra := p.ExtraCategories()
	names := make([]string, 0, len(extra))
	for _, c := range extra {
		names = append(names, c.Name)
	}
	return strings.Join(names, NameListSeparator)
}

func encodeStockStatus(_ *EncodeContext, p *catalog.Product, _ string) string {
	if p.StockStatus == nil {
		return ""
	}
	return p.StockStatus.Name
}

func encodeOriginPrice(_ *EncodeContext, p *catalog.Product, _ string) string {
	return p.OriginPrice.String()
}

func encodeSorting(_ *EncodeContext, p *catalog.Product, _ string) string {
	return strconv.Itoa(p.Sorting)
}

func encodeStatus(_ *EncodeContext, p *catalog.Product, _ string) string {
	return encodeBool(p.Status)
}

func encodeImages(_ *EncodeContext, p *catalog.Product, _ string) string {
	return strings.Join(p.Images, ImageListSeparator)
}

func encodeIsIndex(_ *EncodeContext, p *catalog.Product, _ string) string {
	return encodeBool(p.IsIndex)
}

func encodeIsMerchant(_ *EncodeContext, p *catalog.Product, _ string) string {
	return encodeBool(p.IsMerchant)
}

func encodeCreatedAt(_ *EncodeContext, p *catalog.Product, _ string) string {
	if p.CreatedAt.IsZero() {
		return ""
	}
	return p.CreatedAt.Format(createdAtLayout)
}

func encodeTranslation(ec *EncodeContext, p *catalog.Product, slug string) string {
	lang, ok := ec.Languages[slug]
	if !ok {
		return ""
	}
	if tr := p.TranslationForLanguage(lang.ID); tr != nil {
		return tr.Value
	}
	return ""
}

// encodeSeoSlot builds the encoder for one SEO text slot. The
// parameter is the language slug.
func encodeSeoSlot(get func(*catalog.ProductSeo) string) EncoderFunc {
	return func(ec *EncodeContext, p *catalog.Product, slug string) string {
		lang, ok := ec.Languages[slug]
		if !ok {
			return ""
		}
		if seo := p.SeoForLanguage(lang.ID); seo != nil {
			return get(seo)
		}
		return ""
	}
}

func encodeAttribute(_ *EncodeContext, p *catalog.Product, param string) string {
	attributeID, err := strconv.ParseUint(param, 10, 32)
	if err != nil {
		return ""
	}
	values := p.AttributeValuesFor(uint(attributeID))
	names := make([]string, 0, len(values))
	for _, v := range values {
		names = append(names, v.Name)
	}
	return strings.Join(names, NameListSeparator)
}

func encodeBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// ---- decoders ----

func decodeNoop(_ *Mutation, _, _ string) error {
	return nil
}

func decodeName(m *Mutation, _, value string) error {
	if err := m.Product.Rename(value); err != nil {
		return validationFailed("%s", err.Error())
	}
	return nil
}

func decodeSKU(m *Mutation, _, value string) error {
	if err := m.Product.SetSKU(value); err != nil {
		return validationFailed("%s", err.Error())
	}
	return nil
}

func decodeCategoryID(m *Mutation, _, value string) error {
	m.CategoryRef = value
	m.CategoryTouched = true
	return nil
}

func decodeCategories(m *Mutation, _, value string) error {
	m.CategoryNames = SplitList(value)
	m.CategoriesTouched = true
	return nil
}

func decodeStockStatus(m *Mutation, _, value string) error {
	m.StockStatusRef = value
	m.StockStatusTouched = true
	return nil
}

func decodeOriginPrice(m *Mutation, _, value string) error {
	price, err := decimal.NewFromString(value)
	if err != nil {
		return invalidType("invalid price '%s'", value)
	}
	if err := m.Product.SetPrice(price); err != nil {
		return validationFailed("%s", err.Error())
	}
	return nil
}

func decodeSorting(m *Mutation, _, value string) error {
	sorting, err := strconv.Atoi(value)
	if err != nil {
		return invalidType("invalid sorting '%s'", value)
	}
	m.Product.SetSorting(sorting)
	return nil
}

func decodeStatus(m *Mutation, _, value string) error {
	b, err := parseBool(value)
	if err != nil {
		return invalidType("invalid status '%s'", value)
	}
	m.Product.SetStatus(b)
	return nil
}

// decodeImages applies only on creation. Updating image sets is a
// media-management concern outside row synchronization.
func decodeImages(m *Mutation, _, value string) error {
	if !m.Create {
		return nil
	}
	m.Product.SetImages(SplitList(value))
	return nil
}

func decodeIsIndex(m *Mutation, _, value string) error {
	b, err := parseBool(value)
	if err != nil {
		return invalidType("invalid is_index '%s'", value)
	}
	m.Product.SetIndexFlag(b)
	return nil
}

func decodeIsMerchant(m *Mutation, _, value string) error {
	b, err := parseBool(value)
	if err != nil {
		return invalidType("invalid is_merchant '%s'", value)
	}
	m.Product.SetMerchantFlag(b)
	return nil
}

func decodeCreatedAt(m *Mutation, _, value string) error {
	if value == "" {
		return nil
	}
	t, err := time.ParseInLocation(createdAtLayout, value, time.Local)
	if err != nil {
		t, err = time.ParseInLocation("2006-01-02", value, time.Local)
	}
	if err != nil {
		return invalidType("invalid created_at '%s'", value)
	}
	m.Product.SetCreatedAt(t)
	return nil
}

// decodeTranslation stages a localized display name. Keys referencing
// a language outside the active set are ignored.
func decodeTranslation(m *Mutation, slug, value string) error {
	lang, ok := m.Languages[slug]
	if !ok {
		return nil
	}
	m.Translations[lang.ID] = value
	return nil
}

// decodeSeo stages the complete SEO record for the language from the
// full row, so a change to any one SEO key carries its siblings along.
func decodeSeo(m *Mutation, slug, _ string) error {
	lang, ok := m.Languages[slug]
	if !ok {
		return nil
	}
	m.Seo[lang.ID] = catalog.SeoFields{
		Title:       m.Row.Get(PrefixSeoTitle + slug),
		Heading:     m.Row.Get(PrefixSeoHeading + slug),
		Summary:     m.Row.Get(PrefixSeoSummary + slug),
		Description: m.Row.Get(PrefixSeoDesc + slug),
		Content:     m.Row.Get(PrefixSeoContent + slug),
	}
	return nil
}

// decodeAttribute stages the value-name sets of every attribute_*
// column in the row, so the reconciler replaces the association set
// with the union regardless of which columns changed. The first
// attribute column stages the whole row; later ones are no-ops.
func decodeAttribute(m *Mutation, _, _ string) error {
	if len(m.AttributeNames) > 0 {
		return nil
	}
	for key, value := range m.Row.Data {
		if !strings.HasPrefix(key, PrefixAttribute) {
			continue
		}
		attributeID, err := strconv.ParseUint(strings.TrimPrefix(key, PrefixAttribute), 10, 32)
		if err != nil {
			continue
		}
		m.AttributeNames[uint(attributeID)] = SplitList(value)
	}
	return nil
}

// parseBool accepts the 1/0 wire form plus common textual spellings
func parseBool(value string) (bool, error) {
	return strconv.ParseBool(strings.ToLower(value))
}

// SplitList splits a comma-separated list, trimming whitespace and
// dropping empty entries. Both ", " and "," joined lists read back
// the same way.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
