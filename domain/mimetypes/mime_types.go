package mimetypes

import "mime"

type MIME string

const (
	Unknown   MIME = "unknown"
	TextPlain MIME = "text/plain"

	ApplicationPDF  MIME = "application/pdf"
	ApplicationJSON MIME = "application/json"

	ImagePNG  MIME = "image/png"
	ImageJPEG MIME = "image/jpeg"
	ImageGIF  MIME = "image/gif"

	Executable MIME = "application/x-executable"
	ELF        MIME = "application/x-elf"
	MsDownload MIME = "application/x-msdownload"
	MachO      MIME = "application/x-mach-binary"
)

// DeniedAttachments lists MIME types that may never travel as chat
// attachments.
var DeniedAttachments = []MIME{Executable, ELF, MsDownload, MachO}

func Matches(detected string, expected MIME) (MIME, bool) {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown, false
	}
	return expected, mt == string(expected)
}

// IsDenied reports whether the detected type is on the attachment
// denylist.
func IsDenied(detected string) bool {
	for _, denied := range DeniedAttachments {
		if _, ok := Matches(detected, denied); ok {
			return true
		}
	}
	return false
}
