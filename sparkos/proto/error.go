package proto

import (
	"encoding/binary"

	"sparkcalc/sparkos/kernel"
)

const errorHeader = 4

// ErrorPayload builds a MsgError reply: u16 code, u16 kind of the rejected
// request (both LE), then a short detail string clipped to fit one message.
func ErrorPayload(code ErrCode, ref Kind, detail string) []byte {
	detail = clipUTF8(detail, kernel.MaxMessageBytes-errorHeader)
	buf := make([]byte, errorHeader, errorHeader+len(detail))
	binary.LittleEndian.PutUint16(buf[0:2], uint16(code))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(ref))
	return append(buf, detail...)
}

func DecodeErrorPayload(b []byte) (code ErrCode, ref Kind, detail string, ok bool) {
	if len(b) < errorHeader {
		return 0, 0, "", false
	}
	code = ErrCode(binary.LittleEndian.Uint16(b[0:2]))
	ref = Kind(binary.LittleEndian.Uint16(b[2:4]))
	return code, ref, string(b[errorHeader:]), true
}
