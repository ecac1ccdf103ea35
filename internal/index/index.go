package index

import "unicode/utf8"

// RuneToByte converts a rune (code point) index into a UTF-8 byte offset
// within content. Indices past the end clamp to len(content); negative
// indices clamp to 0.
func RuneToByte(content string, runeIdx int) int {
	if runeIdx <= 0 {
		return 0
	}
	count := 0
	for i := range content {
		if count == runeIdx {
			return i
		}
		count++
	}
	return len(content)
}

// ByteToRune converts a UTF-8 byte offset into a rune index. Offsets that
// land inside a multi-byte sequence resolve to the index of the rune that
// contains them. Out-of-range offsets clamp.
func ByteToRune(content string, byteIdx int) int {
	if byteIdx <= 0 {
		return 0
	}
	if byteIdx > len(content) {
		byteIdx = len(content)
	}
	count := 0
	for i := range content {
		if i >= byteIdx {
			return count
		}
		count++
	}
	return count
}

// UTF16ToRune converts a UTF-16 code unit index (the native surface's
// unit) into a rune index. Each code point outside the BMP occupies two
// units; an index that lands between the halves of a surrogate pair
// resolves to the boundary after that pair. Out-of-range inputs clamp.
func UTF16ToRune(content string, u16Idx int) int {
	if u16Idx <= 0 {
		return 0
	}
	units := 0
	runes := 0
	for _, r := range content {
		if units >= u16Idx {
			return runes
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		runes++
	}
	return runes
}

// RuneToUTF16 converts a rune index into a UTF-16 code unit index.
// Out-of-range inputs clamp.
func RuneToUTF16(content string, runeIdx int) int {
	if runeIdx <= 0 {
		return 0
	}
	units := 0
	runes := 0
	for _, r := range content {
		if runes == runeIdx {
			return units
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		runes++
	}
	return units
}

// UTF16ToByte converts a native-surface index directly to a byte offset.
func UTF16ToByte(content string, u16Idx int) int {
	return RuneToByte(content, UTF16ToRune(content, u16Idx))
}

// ByteToUTF16 converts a byte offset directly to a native-surface index.
func ByteToUTF16(content string, byteIdx int) int {
	return RuneToUTF16(content, ByteToRune(content, byteIdx))
}

// RuneLen returns the number of code points in content.
func RuneLen(content string) int {
	return utf8.RuneCountInString(content)
}

// UTF16Len returns the number of UTF-16 code units needed for content.
func UTF16Len(content string) int {
	units := 0
	for _, r := range content {
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	return units
}

// ClampRune clamps a rune index to [0, RuneLen(content)].
func ClampRune(content string, runeIdx int) int {
	if runeIdx < 0 {
		return 0
	}
	if n := RuneLen(content); runeIdx > n {
		return n
	}
	return runeIdx
}
