package upload

import (
	"fmt"
	"strings"
)

// imageMIME is the content type for every archived photo. The transport
// delivers photos as JPEG regardless of the original capture format.
const imageMIME = "image/jpeg"

// FileName derives the deterministic archive name for one photo:
// {POINT_OF_SALE}_{CONTAINER}_{SUBITEM}_{ordinal}.jpg, with the point of
// sale and container upper-cased and space-replaced by underscore. The
// format must match the existing archive exactly.
func FileName(pointOfSale, container, subItem string, ordinal int) string {
	return fmt.Sprintf("%s_%s_%s_%d.jpg",
		archiveName(pointOfSale), archiveName(container), subItem, ordinal)
}

func archiveName(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
}
