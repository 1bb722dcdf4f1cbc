package client

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"
)

func TestFormEncode(t *testing.T) {
	form := NewForm().
		Set("folder", "products").
		Set("alt", `Red "summer" shirt`).
		AddFile("file", "shirt.jpg", "", strings.NewReader("jpegbytes"))

	body, contentType, err := form.encode()
	if err != nil {
		t.Fatalf("encode() error = %v", err)
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("ParseMediaType(%q) error = %v", contentType, err)
	}
	if mediaType != "multipart/form-data" {
		t.Errorf("media type = %q, want multipart/form-data", mediaType)
	}

	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	var names []string
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextPart() error = %v", err)
		}
		names = append(names, part.FormName())
		data, _ := io.ReadAll(part)

		switch part.FormName() {
		case "alt":
			if string(data) != `Red "summer" shirt` {
				t.Errorf("alt = %q", data)
			}
		case "file":
			if part.FileName() != "shirt.jpg" {
				t.Errorf("filename = %q, want shirt.jpg", part.FileName())
			}
			if ct := part.Header.Get("Content-Type"); ct != "application/octet-stream" {
				t.Errorf("file Content-Type = %q, want application/octet-stream", ct)
			}
			if string(data) != "jpegbytes" {
				t.Errorf("file content = %q", data)
			}
		}
	}

	// Fields are written in sorted order ahead of files
	want := []string{"alt", "folder", "file"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("parts = %v, want %v", names, want)
	}
}

func TestFormEncodeNilContent(t *testing.T) {
	form := &Form{Files: []FormFile{{Field: "file", Filename: "x.bin"}}}
	if _, _, err := form.encode(); err == nil {
		t.Error("encode() expected error for nil content")
	}
}

func TestFormSetOnZeroValue(t *testing.T) {
	var form Form
	form.Set("a", "b")
	if form.Fields["a"] != "b" {
		t.Errorf("Fields[a] = %q, want b", form.Fields["a"])
	}
}
