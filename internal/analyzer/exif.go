package analyzer

import (
	"encoding/binary"
	"time"
)

// exifTags is the parsed subset of EXIF metadata the planner cares about.
type exifTags struct {
	orientation int
	dateTaken   *time.Time
}

// parseExif extracts the orientation tag (1-8) and the capture timestamp
// from JPEG bytes. Returns orientation 1 (normal) and a nil timestamp when
// the data is not a JPEG, carries no EXIF block, or the block is unreadable.
// All other EXIF metadata is ignored.
func parseExif(data []byte) exifTags {
	tags := exifTags{orientation: 1}

	// JPEG SOI marker.
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return tags
	}

	// Walk JPEG segments looking for APP1/Exif.
	offset := 2
	for offset+4 <= len(data) {
		if data[offset] != 0xFF {
			return tags
		}
		marker := data[offset+1]
		// Start of scan: no EXIF past this point.
		if marker == 0xDA {
			return tags
		}
		segLen := int(binary.BigEndian.Uint16(data[offset+2 : offset+4]))
		if segLen < 2 || offset+2+segLen > len(data) {
			return tags
		}
		if marker == 0xE1 {
			if parsed, ok := parseExifSegment(data[offset+4 : offset+2+segLen]); ok {
				return parsed
			}
		}
		offset += 2 + segLen
	}

	return tags
}

// parseExifSegment reads the orientation and datetime tags from an APP1 payload.
func parseExifSegment(seg []byte) (exifTags, bool) {
	tags := exifTags{orientation: 1}

	if len(seg) < 14 || string(seg[:6]) != "Exif\x00\x00" {
		return tags, false
	}
	tiff := seg[6:]

	var order binary.ByteOrder
	switch string(tiff[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return tags, false
	}
	if order.Uint16(tiff[2:4]) != 0x2A {
		return tags, false
	}

	ifdOffset := int(order.Uint32(tiff[4:8]))
	if ifdOffset+2 > len(tiff) {
		return tags, false
	}

	found := false
	entryCount := int(order.Uint16(tiff[ifdOffset : ifdOffset+2]))
	for i := 0; i < entryCount; i++ {
		entry := ifdOffset + 2 + i*12
		if entry+12 > len(tiff) {
			break
		}
		switch order.Uint16(tiff[entry : entry+2]) {
		case 0x0112: // orientation, SHORT stored inline
			if o := int(order.Uint16(tiff[entry+8 : entry+10])); o >= 1 && o <= 8 {
				tags.orientation = o
				found = true
			}
		case 0x0132: // datetime, 20-byte ASCII behind a value offset
			count := int(order.Uint32(tiff[entry+4 : entry+8]))
			valOffset := int(order.Uint32(tiff[entry+8 : entry+12]))
			if count < 19 || valOffset+count > len(tiff) {
				continue
			}
			if taken, err := time.Parse("2006:01:02 15:04:05", string(tiff[valOffset:valOffset+19])); err == nil {
				tags.dateTaken = &taken
				found = true
			}
		}
	}

	return tags, found
}
