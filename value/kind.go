package value

// Kind identifies the variant of a canonical Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindReal
	KindDate
	KindData
	KindUID
	KindASCIIString
	KindUTF16String
	KindArray
	KindDictionary
)

var kindNames = [...]string{
	KindNull:        "null",
	KindBool:        "bool",
	KindInteger:     "integer",
	KindReal:        "real",
	KindDate:        "date",
	KindData:        "data",
	KindUID:         "uid",
	KindASCIIString: "ascii-string",
	KindUTF16String: "utf16-string",
	KindArray:       "array",
	KindDictionary:  "dictionary",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsContainer reports whether values of this kind reference children.
func (k Kind) IsContainer() bool {
	return k == KindArray || k == KindDictionary
}

// IsString reports whether k is one of the two string encodings.
func (k Kind) IsString() bool {
	return k == KindASCIIString || k == KindUTF16String
}
