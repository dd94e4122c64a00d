package index

import (
	"bytes"
	"encoding/binary"
	"time"
)

// key = pos(4) + 0x00 + slug
func makeOrderKey(pos int, slug string) []byte {
	buf := make([]byte, 4, 4+1+len(slug))
	binary.BigEndian.PutUint32(buf, uint32(pos))
	buf = append(buf, 0x00)
	buf = append(buf, slug...)
	return buf
}

// key = invDay(8) + 0x00 + slug，新的在前
func makeDateSlugKey(day time.Time, ok bool, slug string) []byte {
	var unix int64
	if ok {
		unix = day.Unix()
	} else {
		// 无法解析的日期排在最后
		unix = -1 << 62
	}
	buf := make([]byte, 8, 8+1+len(slug))
	binary.BigEndian.PutUint64(buf, ^uint64(unix+1<<62))
	buf = append(buf, 0x00)
	buf = append(buf, slug...)
	return buf
}

func idKey(id int) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}

// slugFromKey returns what follows the first 0x00 after a fixed prefix.
func slugFromKey(k []byte, prefix int) string {
	if len(k) < prefix+2 {
		return ""
	}
	i := bytes.IndexByte(k[prefix:], 0x00)
	if i < 0 {
		return ""
	}
	pos := prefix + i
	if pos+1 >= len(k) {
		return ""
	}
	return string(k[pos+1:])
}
