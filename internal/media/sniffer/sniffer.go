package sniffer

import (
	"bytes"
	"errors"
	"io"
)

type FileType string

const (
	TypeJPEG FileType = "jpeg"
	TypePNG  FileType = "png"
	TypeWEBP FileType = "webp"
	TypePDF  FileType = "pdf"
	TypeMP3  FileType = "mp3"
	TypeMP4  FileType = "mp4"
	TypeWEBM FileType = "webm"
)

// Kind groups file types by how they are stored and capped.
type Kind string

const (
	KindImage    Kind = "image"
	KindDocument Kind = "document"
	KindAudio    Kind = "audio"
	KindVideo    Kind = "video"
)

var ErrUnknownType = errors.New("unknown file type")

type Result struct {
	Type FileType
	Kind Kind
	MIME string
	Ext  string
}

// Detect reads up to 512 bytes and classifies by magic bytes. The head
// is returned so the caller can stitch it back onto the stream.
func Detect(r io.Reader) (Result, []byte, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Result{}, nil, err
	}
	head = head[:n]

	result, err := DetectHead(head)
	return result, head, err
}

func DetectHead(head []byte) (Result, error) {
	if len(head) == 0 {
		return Result{}, ErrUnknownType
	}

	if isJPEG(head) {
		return Result{Type: TypeJPEG, Kind: KindImage, MIME: "image/jpeg", Ext: ".jpg"}, nil
	}
	if isPNG(head) {
		return Result{Type: TypePNG, Kind: KindImage, MIME: "image/png", Ext: ".png"}, nil
	}
	if isWEBP(head) {
		return Result{Type: TypeWEBP, Kind: KindImage, MIME: "image/webp", Ext: ".webp"}, nil
	}
	if isPDF(head) {
		return Result{Type: TypePDF, Kind: KindDocument, MIME: "application/pdf", Ext: ".pdf"}, nil
	}
	if isMP3(head) {
		return Result{Type: TypeMP3, Kind: KindAudio, MIME: "audio/mpeg", Ext: ".mp3"}, nil
	}
	if isMP4(head) {
		return Result{Type: TypeMP4, Kind: KindVideo, MIME: "video/mp4", Ext: ".mp4"}, nil
	}
	if isWEBM(head) {
		return Result{Type: TypeWEBM, Kind: KindVideo, MIME: "video/webm", Ext: ".webm"}, nil
	}

	return Result{}, ErrUnknownType
}

func isJPEG(head []byte) bool {
	return len(head) > 3 &&
		head[0] == 0xff &&
		head[1] == 0xd8 &&
		head[2] == 0xff
}

func isPNG(head []byte) bool {
	pngMagic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	return len(head) >= len(pngMagic) && bytes.Equal(head[:len(pngMagic)], pngMagic)
}

func isWEBP(head []byte) bool {
	return len(head) >= 12 &&
		bytes.Equal(head[:4], []byte("RIFF")) &&
		bytes.Equal(head[8:12], []byte("WEBP"))
}

func isPDF(head []byte) bool {
	return len(head) >= 5 && bytes.Equal(head[:5], []byte("%PDF-"))
}

func isMP3(head []byte) bool {
	if len(head) >= 3 && bytes.Equal(head[:3], []byte("ID3")) {
		return true
	}
	// raw MPEG frame sync
	return len(head) >= 2 && head[0] == 0xff && head[1]&0xe0 == 0xe0
}

func isMP4(head []byte) bool {
	return len(head) >= 12 && string(head[4:8]) == "ftyp"
}

func isWEBM(head []byte) bool {
	return len(head) >= 4 && bytes.Equal(head[:4], []byte{0x1a, 0x45, 0xdf, 0xa3})
}
