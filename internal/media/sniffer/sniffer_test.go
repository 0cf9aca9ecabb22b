package sniffer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pad(head []byte, size int) []byte {
	out := make([]byte, size)
	copy(out, head)
	return out
}

func TestDetectHead(t *testing.T) {
	cases := []struct {
		name string
		head []byte
		want Result
	}{
		{
			"jpeg",
			[]byte{0xff, 0xd8, 0xff, 0xe0},
			Result{Type: TypeJPEG, Kind: KindImage, MIME: "image/jpeg", Ext: ".jpg"},
		},
		{
			"png",
			[]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'},
			Result{Type: TypePNG, Kind: KindImage, MIME: "image/png", Ext: ".png"},
		},
		{
			"webp",
			append([]byte("RIFF"), append([]byte{0, 0, 0, 0}, []byte("WEBP")...)...),
			Result{Type: TypeWEBP, Kind: KindImage, MIME: "image/webp", Ext: ".webp"},
		},
		{
			"pdf",
			[]byte("%PDF-1.7\n"),
			Result{Type: TypePDF, Kind: KindDocument, MIME: "application/pdf", Ext: ".pdf"},
		},
		{
			"mp3 with id3 tag",
			[]byte("ID3\x04\x00"),
			Result{Type: TypeMP3, Kind: KindAudio, MIME: "audio/mpeg", Ext: ".mp3"},
		},
		{
			"mp3 raw frame",
			[]byte{0xff, 0xfb, 0x90, 0x00},
			Result{Type: TypeMP3, Kind: KindAudio, MIME: "audio/mpeg", Ext: ".mp3"},
		},
		{
			"mp4",
			pad(append([]byte{0x00, 0x00, 0x00, 0x18}, []byte("ftypisom")...), 16),
			Result{Type: TypeMP4, Kind: KindVideo, MIME: "video/mp4", Ext: ".mp4"},
		},
		{
			"webm",
			[]byte{0x1a, 0x45, 0xdf, 0xa3, 0x01},
			Result{Type: TypeWEBM, Kind: KindVideo, MIME: "video/webm", Ext: ".webm"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectHead(tc.head)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDetectHeadRejectsUnknown(t *testing.T) {
	for _, head := range [][]byte{
		nil,
		[]byte("GIF89a"),
		[]byte("plain text, not a known format"),
	} {
		_, err := DetectHead(head)
		assert.ErrorIs(t, err, ErrUnknownType)
	}
}

func TestDetectReturnsHead(t *testing.T) {
	payload := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte{'x'}, 1024)...)

	result, head, err := Detect(bytes.NewReader(payload))
	require.NoError(t, err)

	assert.Equal(t, TypePDF, result.Type)
	assert.Len(t, head, 512)
	assert.Equal(t, payload[:512], head)
}

func TestDetectShortStream(t *testing.T) {
	result, head, err := Detect(bytes.NewReader([]byte("ID3")))
	require.NoError(t, err)
	assert.Equal(t, TypeMP3, result.Type)
	assert.Equal(t, []byte("ID3"), head)
}
