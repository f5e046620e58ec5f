package table

import (
	"strconv"
)

// Kind identifies the logical kind of a column.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindCategorical
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// IntWidth is the physical storage width of an integer column.
type IntWidth int

const (
	Int64 IntWidth = iota
	Int32
	Int16
	Int8
	Uint64
	Uint32
	Uint16
	Uint8
)

// Size returns the width in bytes.
func (w IntWidth) Size() int64 {
	switch w {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32:
		return 4
	default:
		return 8
	}
}

// Unsigned reports whether the width is an unsigned representation.
func (w IntWidth) Unsigned() bool {
	return w == Uint8 || w == Uint16 || w == Uint32 || w == Uint64
}

func (w IntWidth) String() string {
	switch w {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	default:
		return "uint64"
	}
}

// FloatWidth is the physical storage width of a float column.
type FloatWidth int

const (
	Float64 FloatWidth = iota
	Float32
)

// Size returns the width in bytes.
func (w FloatWidth) Size() int64 {
	if w == Float32 {
		return 4
	}
	return 8
}

func (w FloatWidth) String() string {
	if w == Float32 {
		return "float32"
	}
	return "float64"
}

// stringHeaderBytes approximates the per-value overhead of a Go string.
const stringHeaderBytes = 16

// Column is one named, uniformly typed column of a Table.
// All implementations store missing cells explicitly; a missing cell is
// distinct from an empty string.
type Column interface {
	Name() string
	SetName(name string)
	Kind() Kind
	Len() int

	// Missing reports whether the cell at row i holds no value.
	Missing(i int) bool

	// String renders the cell at row i as text. Missing cells render as "".
	String(i int) string

	// Select returns a new column containing only rows where keep[i] is true.
	Select(keep []bool) Column

	// Clone returns a deep copy of the column under a new name.
	Clone(name string) Column

	// Fill returns a column with every missing cell replaced by value.
	// Typed columns with missing cells are upcast to text, since the fill
	// value is an arbitrary literal.
	Fill(value string) Column

	// EstimatedBytes estimates the in-memory footprint of the column.
	EstimatedBytes() int64
}

// TextColumn holds raw text cells.
type TextColumn struct {
	name   string
	values []string
	valid  []bool
}

// NewTextColumn builds a text column. valid may be nil, meaning all cells
// are present.
func NewTextColumn(name string, values []string, valid []bool) *TextColumn {
	if valid == nil {
		valid = make([]bool, len(values))
		for i := range valid {
			valid[i] = true
		}
	}
	return &TextColumn{name: name, values: values, valid: valid}
}

func (c *TextColumn) Name() string        { return c.name }
func (c *TextColumn) SetName(name string) { c.name = name }
func (c *TextColumn) Kind() Kind          { return KindText }
func (c *TextColumn) Len() int            { return len(c.values) }
func (c *TextColumn) Missing(i int) bool  { return !c.valid[i] }

func (c *TextColumn) String(i int) string {
	if !c.valid[i] {
		return ""
	}
	return c.values[i]
}

// Values exposes the backing value slice for in-place transforms.
func (c *TextColumn) Values() []string { return c.values }

// Valid exposes the backing validity slice.
func (c *TextColumn) Valid() []bool { return c.valid }

// SetValue stores a present value at row i.
func (c *TextColumn) SetValue(i int, v string) {
	c.values[i] = v
	c.valid[i] = true
}

func (c *TextColumn) Select(keep []bool) Column {
	values := make([]string, 0, len(c.values))
	valid := make([]bool, 0, len(c.valid))
	for i := range c.values {
		if keep[i] {
			values = append(values, c.values[i])
			valid = append(valid, c.valid[i])
		}
	}
	return &TextColumn{name: c.name, values: values, valid: valid}
}

func (c *TextColumn) Clone(name string) Column {
	values := make([]string, len(c.values))
	copy(values, c.values)
	valid := make([]bool, len(c.valid))
	copy(valid, c.valid)
	return &TextColumn{name: name, values: values, valid: valid}
}

func (c *TextColumn) Fill(value string) Column {
	for i := range c.valid {
		if !c.valid[i] {
			c.values[i] = value
			c.valid[i] = true
		}
	}
	return c
}

func (c *TextColumn) EstimatedBytes() int64 {
	total := int64(len(c.values)) // validity bytes
	for i, v := range c.values {
		total += stringHeaderBytes
		if c.valid[i] {
			total += int64(len(v))
		}
	}
	return total
}

// IntColumn holds integral cells as int64 with a physical storage width.
// Narrowing the width changes the estimated footprint, never the values.
type IntColumn struct {
	name   string
	values []int64
	valid  []bool
	width  IntWidth
}

// NewIntColumn builds an integer column with the widest storage width.
func NewIntColumn(name string, values []int64, valid []bool) *IntColumn {
	if valid == nil {
		valid = make([]bool, len(values))
		for i := range valid {
			valid[i] = true
		}
	}
	return &IntColumn{name: name, values: values, valid: valid, width: Int64}
}

func (c *IntColumn) Name() string        { return c.name }
func (c *IntColumn) SetName(name string) { c.name = name }
func (c *IntColumn) Kind() Kind          { return KindInt }
func (c *IntColumn) Len() int            { return len(c.values) }
func (c *IntColumn) Missing(i int) bool  { return !c.valid[i] }

func (c *IntColumn) String(i int) string {
	if !c.valid[i] {
		return ""
	}
	return strconv.FormatInt(c.values[i], 10)
}

// Values exposes the backing value slice.
func (c *IntColumn) Values() []int64 { return c.values }

// Valid exposes the backing validity slice.
func (c *IntColumn) Valid() []bool { return c.valid }

// Width returns the current physical storage width.
func (c *IntColumn) Width() IntWidth { return c.width }

// SetWidth narrows (or restores) the physical storage width.
func (c *IntColumn) SetWidth(w IntWidth) { c.width = w }

func (c *IntColumn) Select(keep []bool) Column {
	values := make([]int64, 0, len(c.values))
	valid := make([]bool, 0, len(c.valid))
	for i := range c.values {
		if keep[i] {
			values = append(values, c.values[i])
			valid = append(valid, c.valid[i])
		}
	}
	return &IntColumn{name: c.name, values: values, valid: valid, width: c.width}
}

func (c *IntColumn) Clone(name string) Column {
	values := make([]int64, len(c.values))
	copy(values, c.values)
	valid := make([]bool, len(c.valid))
	copy(valid, c.valid)
	return &IntColumn{name: name, values: values, valid: valid, width: c.width}
}

func (c *IntColumn) Fill(value string) Column {
	if !c.hasMissing() {
		return c
	}
	return upcastFilled(c, value)
}

func (c *IntColumn) hasMissing() bool {
	for _, v := range c.valid {
		if !v {
			return true
		}
	}
	return false
}

func (c *IntColumn) EstimatedBytes() int64 {
	return int64(len(c.values))*c.width.Size() + int64(len(c.valid))
}

// FloatColumn holds fractional cells as float64 with a physical storage width.
type FloatColumn struct {
	name      string
	values    []float64
	valid     []bool
	width     FloatWidth
	precision int // output decimal places, -1 for shortest
}

// NewFloatColumn builds a float column with the widest storage width.
func NewFloatColumn(name string, values []float64, valid []bool) *FloatColumn {
	if valid == nil {
		valid = make([]bool, len(values))
		for i := range valid {
			valid[i] = true
		}
	}
	return &FloatColumn{name: name, values: values, valid: valid, width: Float64, precision: -1}
}

func (c *FloatColumn) Name() string        { return c.name }
func (c *FloatColumn) SetName(name string) { c.name = name }
func (c *FloatColumn) Kind() Kind          { return KindFloat }
func (c *FloatColumn) Len() int            { return len(c.values) }
func (c *FloatColumn) Missing(i int) bool  { return !c.valid[i] }

func (c *FloatColumn) String(i int) string {
	if !c.valid[i] {
		return ""
	}
	return strconv.FormatFloat(c.values[i], 'f', c.precision, 64)
}

// Values exposes the backing value slice.
func (c *FloatColumn) Values() []float64 { return c.values }

// Valid exposes the backing validity slice.
func (c *FloatColumn) Valid() []bool { return c.valid }

// Width returns the current physical storage width.
func (c *FloatColumn) Width() FloatWidth { return c.width }

// SetWidth narrows (or restores) the physical storage width.
func (c *FloatColumn) SetWidth(w FloatWidth) { c.width = w }

// SetPrecision fixes the number of decimal places used when rendering.
func (c *FloatColumn) SetPrecision(p int) { c.precision = p }

func (c *FloatColumn) Select(keep []bool) Column {
	values := make([]float64, 0, len(c.values))
	valid := make([]bool, 0, len(c.valid))
	for i := range c.values {
		if keep[i] {
			values = append(values, c.values[i])
			valid = append(valid, c.valid[i])
		}
	}
	return &FloatColumn{name: c.name, values: values, valid: valid, width: c.width, precision: c.precision}
}

func (c *FloatColumn) Clone(name string) Column {
	values := make([]float64, len(c.values))
	copy(values, c.values)
	valid := make([]bool, len(c.valid))
	copy(valid, c.valid)
	return &FloatColumn{name: name, values: values, valid: valid, width: c.width, precision: c.precision}
}

func (c *FloatColumn) Fill(value string) Column {
	for _, v := range c.valid {
		if !v {
			return upcastFilled(c, value)
		}
	}
	return c
}

func (c *FloatColumn) EstimatedBytes() int64 {
	return int64(len(c.values))*c.width.Size() + int64(len(c.valid))
}

// CategoricalColumn dictionary-encodes low-cardinality text. Codes index
// into the dictionary; a negative code marks a missing cell.
type CategoricalColumn struct {
	name  string
	dict  []string
	codes []int32
}

// Categorize dictionary-encodes a text column, preserving missing cells.
func Categorize(c *TextColumn) *CategoricalColumn {
	index := make(map[string]int32)
	var dict []string
	codes := make([]int32, c.Len())
	for i, v := range c.values {
		if !c.valid[i] {
			codes[i] = -1
			continue
		}
		code, ok := index[v]
		if !ok {
			code = int32(len(dict))
			index[v] = code
			dict = append(dict, v)
		}
		codes[i] = code
	}
	return &CategoricalColumn{name: c.name, dict: dict, codes: codes}
}

func (c *CategoricalColumn) Name() string        { return c.name }
func (c *CategoricalColumn) SetName(name string) { c.name = name }
func (c *CategoricalColumn) Kind() Kind          { return KindCategorical }
func (c *CategoricalColumn) Len() int            { return len(c.codes) }
func (c *CategoricalColumn) Missing(i int) bool  { return c.codes[i] < 0 }

func (c *CategoricalColumn) String(i int) string {
	if c.codes[i] < 0 {
		return ""
	}
	return c.dict[c.codes[i]]
}

// Categories returns the dictionary of distinct values.
func (c *CategoricalColumn) Categories() []string { return c.dict }

func (c *CategoricalColumn) Select(keep []bool) Column {
	codes := make([]int32, 0, len(c.codes))
	for i := range c.codes {
		if keep[i] {
			codes = append(codes, c.codes[i])
		}
	}
	dict := make([]string, len(c.dict))
	copy(dict, c.dict)
	return &CategoricalColumn{name: c.name, dict: dict, codes: codes}
}

func (c *CategoricalColumn) Clone(name string) Column {
	dict := make([]string, len(c.dict))
	copy(dict, c.dict)
	codes := make([]int32, len(c.codes))
	copy(codes, c.codes)
	return &CategoricalColumn{name: name, dict: dict, codes: codes}
}

func (c *CategoricalColumn) Fill(value string) Column {
	code := int32(-1)
	for i, v := range c.dict {
		if v == value {
			code = int32(i)
			break
		}
	}
	for i := range c.codes {
		if c.codes[i] < 0 {
			if code < 0 {
				code = int32(len(c.dict))
				c.dict = append(c.dict, value)
			}
			c.codes[i] = code
		}
	}
	return c
}

func (c *CategoricalColumn) EstimatedBytes() int64 {
	total := int64(len(c.codes)) * 4
	for _, v := range c.dict {
		total += stringHeaderBytes + int64(len(v))
	}
	return total
}

// upcastFilled renders a typed column to text, substituting the fill value
// for missing cells.
func upcastFilled(c Column, value string) *TextColumn {
	n := c.Len()
	values := make([]string, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		if c.Missing(i) {
			values[i] = value
		} else {
			values[i] = c.String(i)
		}
		valid[i] = true
	}
	return &TextColumn{name: c.Name(), values: values, valid: valid}
}
