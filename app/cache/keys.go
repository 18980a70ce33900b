package cache

import (
	"strconv"
	"strings"
)

// Superkey scopes all cached listing pages for one owner and folder. Refresh,
// retention and membership changes invalidate the whole superkey at once.
func Superkey(userID, folderID string) string {
	return userID + "." + folderID
}

// FolderListKey scopes the cached folder name list for one owner.
func FolderListKey(userID string) string {
	return userID + ":folderlist"
}

// FieldKey encodes a listing request inside a superkey: a 4-bit one-hot sort
// code, a read-filter bit, a star-filter bit, and the page number. The
// mapping is injective and stable across restarts, so logically identical
// requests always hit the same field.
func FieldKey(sort string, read, star bool, page int) string {
	var b strings.Builder

	switch sort {
	case "alpha_asc":
		b.WriteString("1000")
	case "alpha_desc":
		b.WriteString("0100")
	case "date_asc":
		b.WriteString("0010")
	default: // date_desc
		b.WriteString("0001")
	}

	if read {
		b.WriteByte('1')
	} else {
		b.WriteByte('0')
	}
	if star {
		b.WriteByte('1')
	} else {
		b.WriteByte('0')
	}

	b.WriteByte(':')
	b.WriteString(strconv.Itoa(page))

	return b.String()
}
