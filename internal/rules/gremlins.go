package rules

import "fmt"

// gremlins are invisible or look-alike code points that rarely belong in code.
var gremlins = map[rune]string{
	0x0003: "end of text",
	0x000b: "line tabulation",
	0x000c: "form feed",
	0x007f: "delete",
	0x00a0: "no-break space",
	0x00ad: "soft hyphen",
	0x034f: "combining grapheme joiner",
	0x061c: "arabic letter mark",
	0x115f: "hangul choseong filler",
	0x1160: "hangul jungseong filler",
	0x180e: "mongolian vowel separator",
	0x200b: "zero width space",
	0x200c: "zero width non-joiner",
	0x200d: "zero width joiner",
	0x200e: "left-to-right mark",
	0x200f: "right-to-left mark",
	0x2013: "en dash",
	0x2018: "left single quotation mark",
	0x2019: "right single quotation mark",
	0x201c: "left double quotation mark",
	0x201d: "right double quotation mark",
	0x2028: "line separator",
	0x2029: "paragraph separator",
	0x202a: "left-to-right embedding",
	0x202b: "right-to-left embedding",
	0x202c: "pop directional formatting",
	0x202d: "left-to-right override",
	0x202e: "right-to-left override",
	0x202f: "narrow no-break space",
	0x205f: "medium mathematical space",
	0x2060: "word joiner",
	0x2066: "left-to-right isolate",
	0x2067: "right-to-left isolate",
	0x2068: "first strong isolate",
	0x2069: "pop directional isolate",
	0x3000: "ideographic space",
	0x3164: "hangul filler",
	0xfeff: "zero width no-break space",
	0xfffc: "object replacement character",
}

// gremlinName returns the description of r when it is a gremlin.
func gremlinName(r rune) (string, bool) {
	if name, ok := gremlins[r]; ok {
		return name, true
	}
	switch {
	case r >= 0x0080 && r <= 0x009f:
		return "C1 control character", true
	case r >= 0x2000 && r <= 0x200a:
		return "typographic space", true
	}
	return "", false
}

func gremlinMessage(r rune, name string) string {
	return fmt.Sprintf("Line contains a gremlin: 0x%04x (%s)", r, name)
}
