package scnr

// SegmentKind implements enums for format string segments
type SegmentKind int

const (
	UnknownSegment SegmentKind = iota

	LiteralSegment // run of text that must match the input exactly
	SpaceSegment   // run of whitespace, matches zero or more whitespace in the input
	FieldSegment   // replacement field, {} or {N:spec}

	EndOfFormat // end of format string
)

func (k SegmentKind) String() string {
	switch k {
	case LiteralSegment:
		return "Literal"
	case SpaceSegment:
		return "Space"
	case FieldSegment:
		return "Field"
	case EndOfFormat:
		return "EndOfFormat"
	}
	return "Unknown"
}
