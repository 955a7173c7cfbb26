package value

import (
	"fmt"
	"strconv"
	"strings"

	"git.appkode.ru/pub/go/failure"

	"kitflip/pkg/errcodes"
)

const (
	skuSeparator = ";"

	prefixNonCraftable = "Non-Craftable "
	prefixFestivized   = "Festivized "
	prefixAustralium   = "Australium "
	suffixKit          = " Kit"

	qualityUnique = 6
)

// Quality - качество предмета (числовой код TF2).
type Quality int

//nolint:gochecknoglobals
var qualityNames = map[Quality]string{
	0:  "Normal",
	1:  "Genuine",
	3:  "Vintage",
	5:  "Unusual",
	6:  "Unique",
	11: "Strange",
	13: "Haunted",
	14: "Collector's",
	15: "Decorated",
}

// порядок важен: сначала длинные префиксы.
//
//nolint:gochecknoglobals
var killstreakTiers = []struct {
	tier        int
	prefix      string
	kitDefindex int
}{
	{tier: 3, prefix: "Professional Killstreak ", kitDefindex: 6526},
	{tier: 2, prefix: "Specialized Killstreak ", kitDefindex: 6523},
	{tier: 1, prefix: "Killstreak ", kitDefindex: 6527},
}

// SKU - стабильный идентификатор предмета: defindex;quality[;australium][;uncraftable][;kt-N][;td-T][;festive].
// Значение не изменяется после построения.
type SKU struct {
	Defindex   int
	Quality    Quality
	Australium bool
	Craftable  bool
	Killstreak int
	Festivized bool
	KitTarget  int

	hasKitTarget bool
}

// String кодирует SKU в строку.
func (s SKU) String() string {
	var b strings.Builder

	b.WriteString(strconv.Itoa(s.Defindex))
	b.WriteString(skuSeparator)
	b.WriteString(strconv.Itoa(int(s.Quality)))

	if s.Australium {
		b.WriteString(";australium")
	}

	if !s.Craftable {
		b.WriteString(";uncraftable")
	}

	if s.Killstreak > 0 {
		b.WriteString(";kt-")
		b.WriteString(strconv.Itoa(s.Killstreak))
	}

	if s.hasKitTarget {
		b.WriteString(";td-")
		b.WriteString(strconv.Itoa(s.KitTarget))
	}

	if s.Festivized {
		b.WriteString(";festive")
	}

	return b.String()
}

// WithKitTarget возвращает копию SKU с целевым оружием кита.
func (s SKU) WithKitTarget(defindex int) SKU {
	s.KitTarget = defindex
	s.hasKitTarget = true

	return s
}

// IsKit сообщает, что SKU описывает killstreak-кит.
func (s SKU) IsKit() bool {
	return s.hasKitTarget
}

// ParseSKU разбирает строку SKU.
func ParseSKU(raw string) (SKU, error) {
	parts := strings.Split(raw, skuSeparator)
	if len(parts) < 2 { //nolint:mnd
		return SKU{}, invalidSKU(raw, "expected defindex;quality")
	}

	defindex, err := strconv.Atoi(parts[0])
	if err != nil || defindex < 0 {
		return SKU{}, invalidSKU(raw, "bad defindex")
	}

	quality, err := strconv.Atoi(parts[1])
	if err != nil {
		return SKU{}, invalidSKU(raw, "bad quality")
	}

	if _, ok := qualityNames[Quality(quality)]; !ok {
		return SKU{}, invalidSKU(raw, "unknown quality")
	}

	sku := SKU{
		Defindex:  defindex,
		Quality:   Quality(quality),
		Craftable: true,
	}

	for _, part := range parts[2:] {
		switch {
		case part == "australium":
			sku.Australium = true
		case part == "uncraftable":
			sku.Craftable = false
		case part == "festive":
			sku.Festivized = true
		case strings.HasPrefix(part, "kt-"):
			tier, err := strconv.Atoi(strings.TrimPrefix(part, "kt-"))
			if err != nil || tier < 1 || tier > 3 {
				return SKU{}, invalidSKU(raw, "bad killstreak tier")
			}

			sku.Killstreak = tier
		case strings.HasPrefix(part, "td-"):
			target, err := strconv.Atoi(strings.TrimPrefix(part, "td-"))
			if err != nil || target < 0 {
				return SKU{}, invalidSKU(raw, "bad kit target")
			}

			sku.KitTarget = target
			sku.hasKitTarget = true
		default:
			return SKU{}, invalidSKU(raw, fmt.Sprintf("unsupported attribute %q", part))
		}
	}

	if sku.hasKitTarget && sku.Killstreak == 0 {
		return SKU{}, invalidSKU(raw, "kit target without killstreak tier")
	}

	return sku, nil
}

// Schema сопоставляет базовые имена предметов и defindex.
type Schema struct {
	byName     map[string]int
	byDefindex map[int]string
}

// NewSchema строит схему. Если у defindex несколько имён, обратно отображается первое по алфавиту.
func NewSchema(items map[string]int) *Schema {
	s := &Schema{
		byName:     make(map[string]int, len(items)),
		byDefindex: make(map[int]string, len(items)),
	}

	for name, defindex := range items {
		s.byName[name] = defindex

		if prev, ok := s.byDefindex[defindex]; !ok || name < prev {
			s.byDefindex[defindex] = name
		}
	}

	return s
}

func (s *Schema) Len() int {
	return len(s.byName)
}

func (s *Schema) Defindex(name string) (int, bool) {
	defindex, ok := s.byName[name]

	return defindex, ok
}

func (s *Schema) Name(defindex int) (string, bool) {
	name, ok := s.byDefindex[defindex]

	return name, ok
}

// NameToSKU переводит отображаемое имя в SKU.
// Грамматика: [Non-Craftable ][Quality ][Festivized ][Tier Killstreak ][Australium ]Base[ Kit].
func (s *Schema) NameToSKU(name string) (SKU, error) {
	rest := strings.TrimSpace(name)
	if rest == "" {
		return SKU{}, invalidName(name, "empty name")
	}

	sku := SKU{
		Quality:   qualityUnique,
		Craftable: true,
	}

	if s.stop(rest) {
		return s.finish(name, rest, sku)
	}

	if after, ok := strings.CutPrefix(rest, prefixNonCraftable); ok {
		sku.Craftable = false
		rest = after
	}

	if !s.stop(rest) {
		for quality, qualityName := range qualityNames {
			if after, ok := strings.CutPrefix(rest, qualityName+" "); ok {
				sku.Quality = quality
				rest = after

				break
			}
		}
	}

	if !s.stop(rest) {
		if after, ok := strings.CutPrefix(rest, prefixFestivized); ok {
			sku.Festivized = true
			rest = after
		}
	}

	if !s.stop(rest) {
		for _, t := range killstreakTiers {
			if after, ok := strings.CutPrefix(rest, t.prefix); ok {
				sku.Killstreak = t.tier
				rest = after

				break
			}
		}
	}

	if !s.stop(rest) {
		if after, ok := strings.CutPrefix(rest, prefixAustralium); ok {
			sku.Australium = true
			rest = after
		}
	}

	return s.finish(name, rest, sku)
}

// stop - остаток уже является известным базовым именем.
func (s *Schema) stop(rest string) bool {
	_, ok := s.byName[rest]

	return ok
}

func (s *Schema) finish(name, base string, sku SKU) (SKU, error) {
	if defindex, ok := s.byName[base]; ok {
		sku.Defindex = defindex

		return sku, nil
	}

	target, isKit := strings.CutSuffix(base, suffixKit)
	if !isKit || sku.Killstreak == 0 {
		return SKU{}, unknownItem(name, base)
	}

	targetDefindex, ok := s.byName[target]
	if !ok {
		return SKU{}, unknownItem(name, target)
	}

	for _, t := range killstreakTiers {
		if t.tier == sku.Killstreak {
			sku.Defindex = t.kitDefindex
		}
	}

	sku.KitTarget = targetDefindex
	sku.hasKitTarget = true

	return sku, nil
}

// SKUToName переводит SKU обратно в отображаемое имя.
func (s *Schema) SKUToName(sku SKU) (string, error) {
	defindex := sku.Defindex
	if sku.hasKitTarget {
		defindex = sku.KitTarget
	}

	base, ok := s.byDefindex[defindex]
	if !ok {
		return "", unknownItem(sku.String(), strconv.Itoa(defindex))
	}

	var b strings.Builder

	if !sku.Craftable {
		b.WriteString(prefixNonCraftable)
	}

	if sku.Quality != qualityUnique {
		b.WriteString(qualityNames[sku.Quality])
		b.WriteString(" ")
	}

	if sku.Festivized {
		b.WriteString(prefixFestivized)
	}

	for _, t := range killstreakTiers {
		if t.tier == sku.Killstreak {
			b.WriteString(t.prefix)
		}
	}

	if sku.Australium {
		b.WriteString(prefixAustralium)
	}

	b.WriteString(base)

	if sku.hasKitTarget {
		b.WriteString(suffixKit)
	}

	return b.String(), nil
}

// ParseName - NameToSKU, возвращающий строку SKU.
func (s *Schema) ParseName(name string) (string, error) {
	sku, err := s.NameToSKU(name)
	if err != nil {
		return "", err
	}

	return sku.String(), nil
}

// FormatSKU - SKUToName для строки SKU.
func (s *Schema) FormatSKU(raw string) (string, error) {
	sku, err := ParseSKU(raw)
	if err != nil {
		return "", err
	}

	return s.SKUToName(sku)
}

func invalidSKU(raw, reason string) error {
	return failure.NewInvalidArgumentError(
		fmt.Sprintf("invalid sku %q: %s", raw, reason),
		failure.WithCode(errcodes.InvalidSKU),
		failure.WithDescription(reason),
	)
}

func invalidName(name, reason string) error {
	return failure.NewInvalidArgumentError(
		fmt.Sprintf("invalid item name %q: %s", name, reason),
		failure.WithCode(errcodes.InvalidItemName),
		failure.WithDescription(reason),
	)
}

func unknownItem(name, base string) error {
	return failure.NewInvalidArgumentError(
		fmt.Sprintf("unknown item %q (base %q)", name, base),
		failure.WithCode(errcodes.UnknownItem),
		failure.WithDescription("item is missing from schema"),
	)
}
