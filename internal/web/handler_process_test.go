package web

import (
	"testing"
)

func TestSniffImageMIME(t *testing.T) {
	tests := []struct {
		name         string
		data         []byte
		wantMIME     string
		wantAccepted bool
	}{
		{
			name:         "JPEG",
			data:         []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10},
			wantMIME:     "image/jpeg",
			wantAccepted: true,
		},
		{
			name:         "PNG",
			data:         []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00},
			wantMIME:     "image/png",
			wantAccepted: true,
		},
		{
			name:         "GIF is not accepted",
			data:         []byte("GIF89a"),
			wantMIME:     "",
			wantAccepted: false,
		},
		{
			name:         "WebP is not accepted",
			data:         append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 10)...),
			wantMIME:     "",
			wantAccepted: false,
		},
		{
			name:         "PDF disguised as image",
			data:         []byte("%PDF-1.4 malicious content"),
			wantMIME:     "",
			wantAccepted: false,
		},
		{
			name:         "empty",
			data:         []byte{},
			wantMIME:     "",
			wantAccepted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMIME, gotAccepted := sniffImageMIME(tt.data)
			if gotAccepted != tt.wantAccepted {
				t.Errorf("sniffImageMIME() accepted = %v, want %v", gotAccepted, tt.wantAccepted)
			}
			if gotMIME != tt.wantMIME {
				t.Errorf("sniffImageMIME() mimeType = %q, want %q", gotMIME, tt.wantMIME)
			}
		})
	}
}
