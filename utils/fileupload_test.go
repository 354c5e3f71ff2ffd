package utils

import (
	"errors"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImageFile(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		size         int64
		expectedCode string
	}{
		{"valid png", "camera.png", 1024, ""},
		{"uppercase extension", "camera.PNG", 1024, ""},
		{"exactly at the limit", "camera.png", MaxFileSize, ""},
		{"too large", "camera.png", MaxFileSize + 1, "FILE_TOO_LARGE"},
		{"jpeg rejected", "camera.jpg", 1024, "INVALID_FILE_FORMAT"},
		{"gif rejected", "camera.gif", 1024, "INVALID_FILE_FORMAT"},
		{"no extension", "camera", 1024, "INVALID_FILE_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := &multipart.FileHeader{
				Filename: tt.filename,
				Size:     tt.size,
			}

			err := ValidateImageFile(header)

			if tt.expectedCode == "" {
				assert.NoError(t, err)
				return
			}

			assert.Error(t, err)
			var uploadErr *FileUploadError
			assert.True(t, errors.As(err, &uploadErr))
			assert.Equal(t, tt.expectedCode, uploadErr.Code)
			assert.NotEmpty(t, uploadErr.Error())
		})
	}
}
